package fitness

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/2beens/fitpoints/internal/auth"
	"github.com/2beens/fitpoints/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

// IDFromVars parses the {id} route variable.
func IDFromVars(r *http.Request) (int, error) {
	idStr := mux.Vars(r)["id"]
	if idStr == "" {
		return 0, NewValidationError("id", "empty")
	}
	id, err := strconv.Atoi(idStr)
	if err != nil || id <= 0 {
		return 0, NewValidationError("id", "must be a positive integer")
	}
	return id, nil
}

// DecodeJSON decodes a JSON request body into v.
func DecodeJSON(r *http.Request, v any) error {
	if r.Header.Get("Content-Type") != pkg.ContentType.JSON {
		return NewValidationError("", "invalid content type")
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return NewValidationError("", "invalid json body")
	}
	return nil
}

// CallerID returns the authenticated user id, answering 401 when absent.
func CallerID(w http.ResponseWriter, r *http.Request) (int, bool) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return 0, false
	}
	return userID, true
}

// OptionalDateParam parses an optional YYYY-MM-DD query parameter.
func OptionalDateParam(r *http.Request, name string) (*pkg.Date, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	d, err := pkg.ParseDate(raw)
	if err != nil {
		return nil, NewValidationError(name, "%s", err)
	}
	return &d, nil
}

// OptionalIntParam parses an optional integer query parameter.
func OptionalIntParam(r *http.Request, name string) (*int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, NewValidationError(name, "must be an integer")
	}
	return &v, nil
}

// WriteError maps err onto a response status. notFound is the entity specific
// not found sentinel, answered with 404.
func WriteError(w http.ResponseWriter, err error, notFound error, action string) {
	var vErr *ValidationError
	switch {
	case errors.As(err, &vErr):
		http.Error(w, vErr.Error(), http.StatusBadRequest)
	case notFound != nil && errors.Is(err, notFound):
		http.Error(w, notFound.Error(), http.StatusNotFound)
	case errors.Is(err, ErrConflict):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		log.Errorf("%s: %s", action, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}
