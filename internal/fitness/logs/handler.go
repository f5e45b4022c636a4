package logs

import (
	"context"
	"net/http"
	"strconv"

	"github.com/2beens/fitpoints/internal/fitness"
	"github.com/2beens/fitpoints/internal/telemetry/metrics"
	"github.com/2beens/fitpoints/internal/telemetry/tracing"
	"github.com/2beens/fitpoints/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=logs_mocks_test.go -package=logs_test

type logsRepo interface {
	Upsert(ctx context.Context, userID int, req UpsertRequest) (*ExerciseLog, error)
	Get(ctx context.Context, userID, id int) (*ExerciseLog, error)
	List(ctx context.Context, params ListParams) ([]ExerciseLog, error)
	SetCompleted(ctx context.Context, userID, id int, completed bool) error
	Delete(ctx context.Context, userID, id int) error
}

type DeleteLogResponse struct {
	DeletedID int `json:"deletedId"`
}

type Handler struct {
	repo           logsRepo
	metricsManager *metrics.Manager
}

func NewHandler(repo logsRepo, metricsManager *metrics.Manager) *Handler {
	return &Handler{
		repo:           repo,
		metricsManager: metricsManager,
	}
}

func (handler *Handler) SetupRoutes(r *mux.Router) {
	r.HandleFunc("/logs", handler.HandleList).Methods("GET", "OPTIONS").Name("list-logs")
	r.HandleFunc("/logs", handler.HandleUpsert).Methods("POST", "OPTIONS").Name("upsert-log")
	r.HandleFunc("/logs/{id}", handler.HandleGet).Methods("GET", "OPTIONS").Name("get-log")
	r.HandleFunc("/logs/{id}", handler.HandleUpdate).Methods("PUT", "PATCH", "OPTIONS").Name("update-log")
	r.HandleFunc("/logs/{id}", handler.HandleDelete).Methods("DELETE", "OPTIONS").Name("delete-log")
}

// HandleList filters by either a single date or a start_date/end_date range.
func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.logs.list")
	defer span.End()

	userID, ok := fitness.CallerID(w, r)
	if !ok {
		return
	}

	params, err := listParamsFromRequest(r, userID)
	if err != nil {
		fitness.WriteError(w, err, nil, "list logs")
		return
	}

	logs, err := handler.repo.List(ctx, params)
	if err != nil {
		log.Errorf("list logs for user %d: %s", userID, err)
		http.Error(w, "failed to get exercise logs", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSON(w, logs, http.StatusOK)
}

func listParamsFromRequest(r *http.Request, userID int) (ListParams, error) {
	params := ListParams{UserID: userID}

	date, err := fitness.OptionalDateParam(r, "date")
	if err != nil {
		return params, err
	}
	startDate, err := fitness.OptionalDateParam(r, "start_date")
	if err != nil {
		return params, err
	}
	endDate, err := fitness.OptionalDateParam(r, "end_date")
	if err != nil {
		return params, err
	}

	if date != nil {
		if startDate != nil || endDate != nil {
			return params, fitness.NewValidationError("date", "cannot be combined with start_date or end_date")
		}
		params.StartDate = date
		params.EndDate = date
		return params, nil
	}

	params.StartDate = startDate
	params.EndDate = endDate
	return params, nil
}

func (handler *Handler) HandleUpsert(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.logs.upsert")
	defer span.End()

	userID, ok := fitness.CallerID(w, r)
	if !ok {
		return
	}

	var req UpsertRequest
	if err := fitness.DecodeJSON(r, &req); err != nil {
		fitness.WriteError(w, err, nil, "upsert log")
		return
	}
	if err := req.Validate(); err != nil {
		fitness.WriteError(w, err, nil, "upsert log")
		return
	}

	exerciseLog, err := handler.repo.Upsert(ctx, userID, req)
	if err != nil {
		fitness.WriteError(w, err, nil, "upsert log")
		return
	}

	handler.metricsManager.CounterExerciseLogUpserts.WithLabelValues(strconv.FormatBool(exerciseLog.Completed)).Inc()
	log.Debugf("exercise log upserted: user %d, exercise %d, %s, completed: %t",
		userID, exerciseLog.ExerciseID, exerciseLog.Date, exerciseLog.Completed)

	pkg.WriteJSON(w, exerciseLog, http.StatusCreated)
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.logs.get")
	defer span.End()

	userID, ok := fitness.CallerID(w, r)
	if !ok {
		return
	}
	id, err := fitness.IDFromVars(r)
	if err != nil {
		fitness.WriteError(w, err, nil, "get log")
		return
	}
	span.SetAttributes(attribute.Int("id", id))

	exerciseLog, err := handler.repo.Get(ctx, userID, id)
	if err != nil {
		fitness.WriteError(w, err, ErrLogNotFound, "get log")
		return
	}

	pkg.WriteJSON(w, exerciseLog, http.StatusOK)
}

// HandleUpdate only changes the completed flag. Exercise and date are fixed once logged.
func (handler *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.logs.update")
	defer span.End()

	userID, ok := fitness.CallerID(w, r)
	if !ok {
		return
	}
	id, err := fitness.IDFromVars(r)
	if err != nil {
		fitness.WriteError(w, err, nil, "update log")
		return
	}

	var req UpdateRequest
	if err := fitness.DecodeJSON(r, &req); err != nil {
		fitness.WriteError(w, err, nil, "update log")
		return
	}
	if req.Completed == nil {
		fitness.WriteError(w, fitness.NewValidationError("completed", "required"), nil, "update log")
		return
	}

	if err := handler.repo.SetCompleted(ctx, userID, id, *req.Completed); err != nil {
		fitness.WriteError(w, err, ErrLogNotFound, "update log")
		return
	}

	updated, err := handler.repo.Get(ctx, userID, id)
	if err != nil {
		fitness.WriteError(w, err, ErrLogNotFound, "get updated log")
		return
	}

	pkg.WriteJSON(w, updated, http.StatusOK)
}

func (handler *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.logs.delete")
	defer span.End()

	userID, ok := fitness.CallerID(w, r)
	if !ok {
		return
	}
	id, err := fitness.IDFromVars(r)
	if err != nil {
		fitness.WriteError(w, err, nil, "delete log")
		return
	}

	if err := handler.repo.Delete(ctx, userID, id); err != nil {
		fitness.WriteError(w, err, ErrLogNotFound, "delete log")
		return
	}

	pkg.WriteJSON(w, DeleteLogResponse{DeletedID: id}, http.StatusOK)
}
