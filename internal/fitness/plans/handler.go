package plans

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

//go:generate mockgen -source=$GOFILE -destination=plans_mocks_test.go -package=plans_test

type plansRepo interface {
	Add(ctx context.Context, plan RoutinePlan) (*RoutinePlan, error)
	Get(ctx context.Context, userID, id int) (*RoutinePlan, error)
	List(ctx context.Context, params ListParams) ([]RoutinePlan, error)
	Update(ctx context.Context, plan *RoutinePlan) error
	Delete(ctx context.Context, userID, id int) error
}

type DeletePlanResponse struct {
	DeletedID int `json:"deletedId"`
}

type Handler struct {
	repo plansRepo
}

func NewHandler(repo plansRepo) *Handler {
	return &Handler{
		repo: repo,
	}
}

func (handler *Handler) SetupRoutes(r *mux.Router) {
	r.HandleFunc("/plans", handler.HandleList).Methods("GET", "OPTIONS").Name("list-plans")
	r.HandleFunc("/plans", handler.HandleAdd).Methods("POST", "OPTIONS").Name("new-plan")
	r.HandleFunc("/plans/{id}", handler.HandleGet).Methods("GET", "OPTIONS").Name("get-plan")
	r.HandleFunc("/plans/{id}", handler.HandleUpdate).Methods("PUT", "OPTIONS").Name("update-plan")
	r.HandleFunc("/plans/{id}", handler.HandleDelete).Methods("DELETE", "OPTIONS").Name("delete-plan")
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.plans.list")
	defer span.End()

	userID, ok := fitness.CallerID(w, r)
	if !ok {
		return
	}

	startDate, err := fitness.OptionalDateParam(r, "start_date")
	if err != nil {
		fitness.WriteError(w, err, nil, "list plans")
		return
	}
	endDate, err := fitness.OptionalDateParam(r, "end_date")
	if err != nil {
		fitness.WriteError(w, err, nil, "list plans")
		return
	}

	plans, err := handler.repo.List(ctx, ListParams{
		UserID:    userID,
		StartDate: startDate,
		EndDate:   endDate,
	})
	if err != nil {
		log.Errorf("list plans for user %d: %s", userID, err)
		http.Error(w, "failed to get plans", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSON(w, plans, http.StatusOK)
}

func (handler *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.plans.new")
	defer span.End()

	userID, ok := fitness.CallerID(w, r)
	if !ok {
		return
	}

	var plan RoutinePlan
	if err := fitness.DecodeJSON(r, &plan); err != nil {
		fitness.WriteError(w, err, nil, "add plan")
		return
	}
	if err := plan.Validate(); err != nil {
		fitness.WriteError(w, err, nil, "add plan")
		return
	}
	plan.UserID = userID

	added, err := handler.repo.Add(ctx, plan)
	if err != nil {
		fitness.WriteError(w, err, nil, "add plan")
		return
	}

	log.Debugf("new plan added: user %d, %s -> routine %d", userID, added.Date, added.RoutineID)
	pkg.WriteJSON(w, added, http.StatusCreated)
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.plans.get")
	defer span.End()

	userID, ok := fitness.CallerID(w, r)
	if !ok {
		return
	}
	id, err := fitness.IDFromVars(r)
	if err != nil {
		fitness.WriteError(w, err, nil, "get plan")
		return
	}
	span.SetAttributes(attribute.Int("id", id))

	plan, err := handler.repo.Get(ctx, userID, id)
	if err != nil {
		fitness.WriteError(w, err, ErrPlanNotFound, "get plan")
		return
	}

	pkg.WriteJSON(w, plan, http.StatusOK)
}

func (handler *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.plans.update")
	defer span.End()

	userID, ok := fitness.CallerID(w, r)
	if !ok {
		return
	}
	id, err := fitness.IDFromVars(r)
	if err != nil {
		fitness.WriteError(w, err, nil, "update plan")
		return
	}

	var plan RoutinePlan
	if err := fitness.DecodeJSON(r, &plan); err != nil {
		fitness.WriteError(w, err, nil, "update plan")
		return
	}
	if err := plan.Validate(); err != nil {
		fitness.WriteError(w, err, nil, "update plan")
		return
	}
	plan.ID = id
	plan.UserID = userID

	if err := handler.repo.Update(ctx, &plan); err != nil {
		fitness.WriteError(w, err, ErrPlanNotFound, "update plan")
		return
	}

	updated, err := handler.repo.Get(ctx, userID, id)
	if err != nil {
		fitness.WriteError(w, err, ErrPlanNotFound, "get updated plan")
		return
	}

	pkg.WriteJSON(w, updated, http.StatusOK)
}

func (handler *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.plans.delete")
	defer span.End()

	userID, ok := fitness.CallerID(w, r)
	if !ok {
		return
	}
	id, err := fitness.IDFromVars(r)
	if err != nil {
		fitness.WriteError(w, err, nil, "delete plan")
		return
	}

	if err := handler.repo.Delete(ctx, userID, id); err != nil {
		fitness.WriteError(w, err, ErrPlanNotFound, "delete plan")
		return
	}

	pkg.WriteJSON(w, DeletePlanResponse{DeletedID: id}, http.StatusOK)
}
