package targets

import (
	"context"
	"net/http"

	"github.com/2beens/fitpoints/internal/fitness"
	"github.com/2beens/fitpoints/internal/telemetry/metrics"
	"github.com/2beens/fitpoints/internal/telemetry/tracing"
	"github.com/2beens/fitpoints/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=targets_mocks_test.go -package=targets_test

type targetsRepo interface {
	Upsert(ctx context.Context, userID int, req UpsertRequest) (*WeeklyTarget, error)
	Get(ctx context.Context, userID, id int) (*WeeklyTarget, error)
	List(ctx context.Context, params ListParams) ([]WeeklyTarget, error)
	SetPoints(ctx context.Context, userID, id, points int) error
	Delete(ctx context.Context, userID, id int) error
}

type DeleteTargetResponse struct {
	DeletedID int `json:"deletedId"`
}

type Handler struct {
	repo           targetsRepo
	metricsManager *metrics.Manager
}

func NewHandler(repo targetsRepo, metricsManager *metrics.Manager) *Handler {
	return &Handler{
		repo:           repo,
		metricsManager: metricsManager,
	}
}

func (handler *Handler) SetupRoutes(r *mux.Router) {
	r.HandleFunc("/targets", handler.HandleList).Methods("GET", "OPTIONS").Name("list-targets")
	r.HandleFunc("/targets", handler.HandleUpsert).Methods("POST", "OPTIONS").Name("upsert-target")
	r.HandleFunc("/targets/{id}", handler.HandleGet).Methods("GET", "OPTIONS").Name("get-target")
	r.HandleFunc("/targets/{id}", handler.HandleUpdate).Methods("PUT", "PATCH", "OPTIONS").Name("update-target")
	r.HandleFunc("/targets/{id}", handler.HandleDelete).Methods("DELETE", "OPTIONS").Name("delete-target")
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.targets.list")
	defer span.End()

	userID, ok := fitness.CallerID(w, r)
	if !ok {
		return
	}

	year, err := fitness.OptionalIntParam(r, "year")
	if err != nil {
		fitness.WriteError(w, err, nil, "list targets")
		return
	}
	week, err := fitness.OptionalIntParam(r, "week")
	if err != nil {
		fitness.WriteError(w, err, nil, "list targets")
		return
	}

	targets, err := handler.repo.List(ctx, ListParams{
		UserID: userID,
		Year:   year,
		Week:   week,
	})
	if err != nil {
		log.Errorf("list targets for user %d: %s", userID, err)
		http.Error(w, "failed to get weekly targets", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSON(w, targets, http.StatusOK)
}

func (handler *Handler) HandleUpsert(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.targets.upsert")
	defer span.End()

	userID, ok := fitness.CallerID(w, r)
	if !ok {
		return
	}

	var req UpsertRequest
	if err := fitness.DecodeJSON(r, &req); err != nil {
		fitness.WriteError(w, err, nil, "upsert target")
		return
	}
	if err := req.Normalize(); err != nil {
		fitness.WriteError(w, err, nil, "upsert target")
		return
	}

	target, err := handler.repo.Upsert(ctx, userID, req)
	if err != nil {
		fitness.WriteError(w, err, nil, "upsert target")
		return
	}

	handler.metricsManager.CounterTargetUpserts.Inc()
	log.Debugf("weekly target upserted: user %d, %d-W%02d -> %d", userID, target.Year, target.Week, target.TargetPoints)

	pkg.WriteJSON(w, target, http.StatusCreated)
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.targets.get")
	defer span.End()

	userID, ok := fitness.CallerID(w, r)
	if !ok {
		return
	}
	id, err := fitness.IDFromVars(r)
	if err != nil {
		fitness.WriteError(w, err, nil, "get target")
		return
	}
	span.SetAttributes(attribute.Int("id", id))

	target, err := handler.repo.Get(ctx, userID, id)
	if err != nil {
		fitness.WriteError(w, err, ErrTargetNotFound, "get target")
		return
	}

	pkg.WriteJSON(w, target, http.StatusOK)
}

// HandleUpdate only changes target_points. Year and week identify the target.
func (handler *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.targets.update")
	defer span.End()

	userID, ok := fitness.CallerID(w, r)
	if !ok {
		return
	}
	id, err := fitness.IDFromVars(r)
	if err != nil {
		fitness.WriteError(w, err, nil, "update target")
		return
	}

	var req UpdateRequest
	if err := fitness.DecodeJSON(r, &req); err != nil {
		fitness.WriteError(w, err, nil, "update target")
		return
	}
	if err := req.Validate(); err != nil {
		fitness.WriteError(w, err, nil, "update target")
		return
	}

	if err := handler.repo.SetPoints(ctx, userID, id, *req.TargetPoints); err != nil {
		fitness.WriteError(w, err, ErrTargetNotFound, "update target")
		return
	}

	updated, err := handler.repo.Get(ctx, userID, id)
	if err != nil {
		fitness.WriteError(w, err, ErrTargetNotFound, "get updated target")
		return
	}

	pkg.WriteJSON(w, updated, http.StatusOK)
}

func (handler *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.targets.delete")
	defer span.End()

	userID, ok := fitness.CallerID(w, r)
	if !ok {
		return
	}
	id, err := fitness.IDFromVars(r)
	if err != nil {
		fitness.WriteError(w, err, nil, "delete target")
		return
	}

	if err := handler.repo.Delete(ctx, userID, id); err != nil {
		fitness.WriteError(w, err, ErrTargetNotFound, "delete target")
		return
	}

	pkg.WriteJSON(w, DeleteTargetResponse{DeletedID: id}, http.StatusOK)
}
