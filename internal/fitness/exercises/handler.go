package exercises

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

//go:generate mockgen -source=$GOFILE -destination=exercises_mocks_test.go -package=exercises_test

type exercisesRepo interface {
	Add(ctx context.Context, exercise Exercise) (*Exercise, error)
	Get(ctx context.Context, id int) (*Exercise, error)
	List(ctx context.Context) ([]Exercise, error)
	Update(ctx context.Context, exercise *Exercise) error
	Delete(ctx context.Context, id int) error
}

type DeleteExerciseResponse struct {
	DeletedID int `json:"deletedId"`
}

type Handler struct {
	repo exercisesRepo
}

func NewHandler(repo exercisesRepo) *Handler {
	return &Handler{
		repo: repo,
	}
}

func (handler *Handler) SetupRoutes(r *mux.Router) {
	r.HandleFunc("/exercises", handler.HandleList).Methods("GET", "OPTIONS").Name("list-exercises")
	r.HandleFunc("/exercises", handler.HandleAdd).Methods("POST", "OPTIONS").Name("new-exercise")
	r.HandleFunc("/exercises/{id}", handler.HandleGet).Methods("GET", "OPTIONS").Name("get-exercise")
	r.HandleFunc("/exercises/{id}", handler.HandleUpdate).Methods("PUT", "OPTIONS").Name("update-exercise")
	r.HandleFunc("/exercises/{id}", handler.HandleDelete).Methods("DELETE", "OPTIONS").Name("delete-exercise")
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.exercises.list")
	defer span.End()

	exercises, err := handler.repo.List(ctx)
	if err != nil {
		log.Errorf("list exercises error: %s", err)
		http.Error(w, "failed to get exercises", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSON(w, exercises, http.StatusOK)
}

func (handler *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.exercises.new")
	defer span.End()

	var exercise Exercise
	if err := fitness.DecodeJSON(r, &exercise); err != nil {
		fitness.WriteError(w, err, nil, "add exercise")
		return
	}
	if err := exercise.Normalize(); err != nil {
		fitness.WriteError(w, err, nil, "add exercise")
		return
	}

	addedExercise, err := handler.repo.Add(ctx, exercise)
	if err != nil {
		fitness.WriteError(w, err, nil, "add exercise ["+exercise.Name+"]")
		return
	}

	log.Debugf("new exercise added: %d [%s]", addedExercise.ID, addedExercise.Name)
	pkg.WriteJSON(w, addedExercise, http.StatusCreated)
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.exercises.get")
	defer span.End()

	id, err := fitness.IDFromVars(r)
	if err != nil {
		fitness.WriteError(w, err, nil, "get exercise")
		return
	}
	span.SetAttributes(attribute.Int("id", id))

	e, err := handler.repo.Get(ctx, id)
	if err != nil {
		fitness.WriteError(w, err, ErrExerciseNotFound, "get exercise")
		return
	}

	pkg.WriteJSON(w, e, http.StatusOK)
}

func (handler *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.exercises.update")
	defer span.End()

	id, err := fitness.IDFromVars(r)
	if err != nil {
		fitness.WriteError(w, err, nil, "update exercise")
		return
	}

	var exercise Exercise
	if err := fitness.DecodeJSON(r, &exercise); err != nil {
		fitness.WriteError(w, err, nil, "update exercise")
		return
	}
	if err := exercise.Normalize(); err != nil {
		fitness.WriteError(w, err, nil, "update exercise")
		return
	}
	exercise.ID = id

	if err := handler.repo.Update(ctx, &exercise); err != nil {
		fitness.WriteError(w, err, ErrExerciseNotFound, "update exercise")
		return
	}

	log.Debugf("exercise updated: %d [%s]", exercise.ID, exercise.Name)
	pkg.WriteJSON(w, exercise, http.StatusOK)
}

func (handler *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.exercises.delete")
	defer span.End()

	id, err := fitness.IDFromVars(r)
	if err != nil {
		fitness.WriteError(w, err, nil, "delete exercise")
		return
	}

	if err := handler.repo.Delete(ctx, id); err != nil {
		fitness.WriteError(w, err, ErrExerciseNotFound, "delete exercise")
		return
	}

	pkg.WriteJSON(w, DeleteExerciseResponse{DeletedID: id}, http.StatusOK)
}
