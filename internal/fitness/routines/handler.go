package routines

import (
	"context"
	"net/http"

	"github.com/2beens/fitpoints/internal/fitness"
	"github.com/2beens/fitpoints/internal/telemetry/tracing"
	"github.com/2beens/fitpoints/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=routines_mocks_test.go -package=routines_test

type routinesRepo interface {
	Add(ctx context.Context, routine Routine) (*Routine, error)
	Get(ctx context.Context, id int) (*Routine, error)
	List(ctx context.Context) ([]Routine, error)
	Update(ctx context.Context, routine *Routine) error
	Delete(ctx context.Context, id int) error
}

type DeleteRoutineResponse struct {
	DeletedID int `json:"deletedId"`
}

type Handler struct {
	repo routinesRepo
}

func NewHandler(repo routinesRepo) *Handler {
	return &Handler{
		repo: repo,
	}
}

func (handler *Handler) SetupRoutes(r *mux.Router) {
	r.HandleFunc("/routines", handler.HandleList).Methods("GET", "OPTIONS").Name("list-routines")
	r.HandleFunc("/routines", handler.HandleAdd).Methods("POST", "OPTIONS").Name("new-routine")
	r.HandleFunc("/routines/{id}", handler.HandleGet).Methods("GET", "OPTIONS").Name("get-routine")
	r.HandleFunc("/routines/{id}", handler.HandleUpdate).Methods("PUT", "OPTIONS").Name("update-routine")
	r.HandleFunc("/routines/{id}", handler.HandleDelete).Methods("DELETE", "OPTIONS").Name("delete-routine")
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.routines.list")
	defer span.End()

	routines, err := handler.repo.List(ctx)
	if err != nil {
		log.Errorf("list routines error: %s", err)
		http.Error(w, "failed to get routines", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSON(w, routines, http.StatusOK)
}

func (handler *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.routines.new")
	defer span.End()

	var routine Routine
	if err := fitness.DecodeJSON(r, &routine); err != nil {
		fitness.WriteError(w, err, nil, "add routine")
		return
	}
	if err := routine.Normalize(); err != nil {
		fitness.WriteError(w, err, nil, "add routine")
		return
	}

	added, err := handler.repo.Add(ctx, routine)
	if err != nil {
		fitness.WriteError(w, err, nil, "add routine ["+routine.Name+"]")
		return
	}

	log.Debugf("new routine added: %d [%s], %d exercises", added.ID, added.Name, len(added.Exercises))
	pkg.WriteJSON(w, added, http.StatusCreated)
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.routines.get")
	defer span.End()

	id, err := fitness.IDFromVars(r)
	if err != nil {
		fitness.WriteError(w, err, nil, "get routine")
		return
	}
	span.SetAttributes(attribute.Int("id", id))

	routine, err := handler.repo.Get(ctx, id)
	if err != nil {
		fitness.WriteError(w, err, ErrRoutineNotFound, "get routine")
		return
	}

	pkg.WriteJSON(w, routine, http.StatusOK)
}

func (handler *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.routines.update")
	defer span.End()

	id, err := fitness.IDFromVars(r)
	if err != nil {
		fitness.WriteError(w, err, nil, "update routine")
		return
	}

	var routine Routine
	if err := fitness.DecodeJSON(r, &routine); err != nil {
		fitness.WriteError(w, err, nil, "update routine")
		return
	}
	if err := routine.Normalize(); err != nil {
		fitness.WriteError(w, err, nil, "update routine")
		return
	}
	routine.ID = id

	if err := handler.repo.Update(ctx, &routine); err != nil {
		fitness.WriteError(w, err, ErrRoutineNotFound, "update routine")
		return
	}

	updated, err := handler.repo.Get(ctx, id)
	if err != nil {
		fitness.WriteError(w, err, ErrRoutineNotFound, "get updated routine")
		return
	}

	pkg.WriteJSON(w, updated, http.StatusOK)
}

func (handler *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.routines.delete")
	defer span.End()

	id, err := fitness.IDFromVars(r)
	if err != nil {
		fitness.WriteError(w, err, nil, "delete routine")
		return
	}

	if err := handler.repo.Delete(ctx, id); err != nil {
		fitness.WriteError(w, err, ErrRoutineNotFound, "delete routine")
		return
	}

	pkg.WriteJSON(w, DeleteRoutineResponse{DeletedID: id}, http.StatusOK)
}
