package exercises

import (
	"context"
	"errors"
	"fmt"

	"github.com/2beens/fitpoints/internal/fitness"
	"github.com/2beens/fitpoints/internal/telemetry/tracing"
	"github.com/2beens/fitpoints/pkg"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

const exerciseColumns = `id, name, activity, type, muscle_group, sub_group, training_points`

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Add(ctx context.Context, exercise Exercise) (_ *Exercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.exercises.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	err = r.db.QueryRow(
		ctx,
		`INSERT INTO exercise (name, activity, type, muscle_group, sub_group, training_points)
			VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id;`,
		exercise.Name, exercise.Activity, exercise.Type, exercise.MuscleGroup, exercise.SubGroup, exercise.TrainingPoints,
	).Scan(&exercise.ID)
	if err != nil {
		if pkg.IsUniqueViolationError(err) {
			return nil, fmt.Errorf("exercise [%s]: %w", exercise.Name, fitness.ErrConflict)
		}
		return nil, err
	}

	span.SetAttributes(attribute.Int("exercise.id", exercise.ID))
	return &exercise, nil
}

func (r *Repo) Update(ctx context.Context, exercise *Exercise) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.exercises.update")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", exercise.ID))

	tag, err := r.db.Exec(
		ctx,
		`UPDATE exercise
			SET name = $1, activity = $2, type = $3, muscle_group = $4, sub_group = $5, training_points = $6
			WHERE id = $7;`,
		exercise.Name, exercise.Activity, exercise.Type, exercise.MuscleGroup, exercise.SubGroup, exercise.TrainingPoints, exercise.ID,
	)
	if err != nil {
		if pkg.IsUniqueViolationError(err) {
			return fmt.Errorf("exercise [%s]: %w", exercise.Name, fitness.ErrConflict)
		}
		return err
	}

	if tag.RowsAffected() == 0 {
		return ErrExerciseNotFound
	}

	return nil
}

func (r *Repo) Delete(ctx context.Context, id int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.exercises.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	tag, err := r.db.Exec(ctx, `DELETE FROM exercise WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrExerciseNotFound
	}
	return nil
}

func (r *Repo) Get(ctx context.Context, id int) (_ *Exercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.exercises.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	var e Exercise
	err = r.db.QueryRow(
		ctx,
		`SELECT `+exerciseColumns+` FROM exercise WHERE id = $1;`,
		id,
	).Scan(&e.ID, &e.Name, &e.Activity, &e.Type, &e.MuscleGroup, &e.SubGroup, &e.TrainingPoints)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}

	return &e, nil
}

// List returns all exercises ordered by name.
func (r *Repo) List(ctx context.Context) (_ []Exercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.exercises.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(ctx, `SELECT `+exerciseColumns+` FROM exercise ORDER BY name;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	exercises, err := RowsToExercises(rows)
	if err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.Int("exercises.count", len(exercises)))
	return exercises, nil
}

// RowsToExercises scans rows selected with the exercise columns in their table order.
func RowsToExercises(rows pgx.Rows) ([]Exercise, error) {
	exercises := make([]Exercise, 0)
	for rows.Next() {
		var e Exercise
		if err := rows.Scan(&e.ID, &e.Name, &e.Activity, &e.Type, &e.MuscleGroup, &e.SubGroup, &e.TrainingPoints); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		exercises = append(exercises, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return exercises, nil
}
