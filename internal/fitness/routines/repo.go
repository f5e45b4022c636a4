package routines

import (
	"context"
	"errors"
	"fmt"

	"github.com/2beens/fitpoints/internal/fitness"
	"github.com/2beens/fitpoints/internal/fitness/exercises"
	"github.com/2beens/fitpoints/internal/telemetry/tracing"
	"github.com/2beens/fitpoints/pkg"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Add(ctx context.Context, routine Routine) (_ *Routine, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.routines.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	err = pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		if err := tx.QueryRow(
			ctx,
			`INSERT INTO routine (name) VALUES ($1) RETURNING id;`,
			routine.Name,
		).Scan(&routine.ID); err != nil {
			return err
		}
		return linkExercises(ctx, tx, routine.ID, routine.Exercises)
	})
	if err != nil {
		return nil, mapWriteErr(err, routine.Name)
	}

	span.SetAttributes(attribute.Int("routine.id", routine.ID))
	return r.Get(ctx, routine.ID)
}

func (r *Repo) Update(ctx context.Context, routine *Routine) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.routines.update")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", routine.ID))

	err = pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `UPDATE routine SET name = $1 WHERE id = $2;`, routine.Name, routine.ID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrRoutineNotFound
		}
		if _, err := tx.Exec(ctx, `DELETE FROM routine_exercise WHERE routine_id = $1;`, routine.ID); err != nil {
			return err
		}
		return linkExercises(ctx, tx, routine.ID, routine.Exercises)
	})
	if err != nil {
		return mapWriteErr(err, routine.Name)
	}

	return nil
}

func (r *Repo) Delete(ctx context.Context, id int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.routines.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	tag, err := r.db.Exec(ctx, `DELETE FROM routine WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrRoutineNotFound
	}
	return nil
}

func (r *Repo) Get(ctx context.Context, id int) (_ *Routine, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.routines.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	routine := Routine{ID: id}
	err = r.db.QueryRow(ctx, `SELECT name FROM routine WHERE id = $1;`, id).Scan(&routine.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRoutineNotFound
		}
		return nil, err
	}

	byRoutine, err := r.exercisesByRoutine(ctx, &id)
	if err != nil {
		return nil, err
	}
	routine.setExercises(byRoutine[id])

	return &routine, nil
}

// List returns all routines ordered by name, each with its exercises.
func (r *Repo) List(ctx context.Context) (_ []Routine, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.routines.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(ctx, `SELECT id, name FROM routine ORDER BY name;`)
	if err != nil {
		return nil, err
	}
	routines, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Routine, error) {
		var routine Routine
		err := row.Scan(&routine.ID, &routine.Name)
		return routine, err
	})
	if err != nil {
		return nil, fmt.Errorf("collect routines: %w", err)
	}

	byRoutine, err := r.exercisesByRoutine(ctx, nil)
	if err != nil {
		return nil, err
	}
	for i := range routines {
		routines[i].setExercises(byRoutine[routines[i].ID])
	}

	span.SetAttributes(attribute.Int("routines.count", len(routines)))
	return routines, nil
}

// exercisesByRoutine loads routine exercises in one query, for one routine or all of them.
func (r *Repo) exercisesByRoutine(ctx context.Context, routineID *int) (map[int][]exercises.Exercise, error) {
	rows, err := r.db.Query(
		ctx,
		`SELECT re.routine_id, e.id, e.name, e.activity, e.type, e.muscle_group, e.sub_group, e.training_points
			FROM routine_exercise re
			JOIN exercise e ON e.id = re.exercise_id
			WHERE ($1::int IS NULL OR re.routine_id = $1)
			ORDER BY e.name;`,
		routineID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byRoutine := map[int][]exercises.Exercise{}
	for rows.Next() {
		var rid int
		var e exercises.Exercise
		if err := rows.Scan(&rid, &e.ID, &e.Name, &e.Activity, &e.Type, &e.MuscleGroup, &e.SubGroup, &e.TrainingPoints); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		byRoutine[rid] = append(byRoutine[rid], e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return byRoutine, nil
}

func (routine *Routine) setExercises(details []exercises.Exercise) {
	routine.ExercisesDetails = details
	if routine.ExercisesDetails == nil {
		routine.ExercisesDetails = []exercises.Exercise{}
	}
	routine.Exercises = make([]int, 0, len(details))
	for _, e := range details {
		routine.Exercises = append(routine.Exercises, e.ID)
	}
}

func linkExercises(ctx context.Context, tx pgx.Tx, routineID int, exerciseIDs []int) error {
	if len(exerciseIDs) == 0 {
		return nil
	}
	_, err := tx.Exec(
		ctx,
		`INSERT INTO routine_exercise (routine_id, exercise_id)
			SELECT $1, unnest($2::int[])
		ON CONFLICT DO NOTHING;`,
		routineID, exerciseIDs,
	)
	return err
}

func mapWriteErr(err error, name string) error {
	switch {
	case errors.Is(err, ErrRoutineNotFound):
		return err
	case pkg.IsUniqueViolationError(err):
		return fmt.Errorf("routine [%s]: %w", name, fitness.ErrConflict)
	case pkg.IsForeignKeyViolationError(err):
		log.Tracef("routine [%s] references unknown exercise: %s", name, err)
		return fitness.NewValidationError("exercises", "unknown exercise id")
	default:
		return err
	}
}
