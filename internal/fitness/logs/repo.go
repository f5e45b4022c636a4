package logs

import (
	"context"
	"fmt"
	"time"

	"github.com/2beens/fitpoints/internal/fitness"
	"github.com/2beens/fitpoints/internal/telemetry/tracing"
	"github.com/2beens/fitpoints/pkg"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

const selectLogs = `SELECT el.id, el.user_id, el.exercise_id, e.name, el.date, el.completed
	FROM exercise_log el
	JOIN exercise e ON e.id = el.exercise_id`

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

// Upsert creates the log for (user, exercise, date) or updates the completed
// flag of the existing one.
func (r *Repo) Upsert(ctx context.Context, userID int, req UpsertRequest) (_ *ExerciseLog, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.logs.upsert")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID))
	span.SetAttributes(attribute.Int("exercise.id", req.ExerciseID))

	var id int
	err = r.db.QueryRow(
		ctx,
		`INSERT INTO exercise_log (user_id, exercise_id, date, completed)
			VALUES ($1, $2, $3, COALESCE($4::boolean, false))
			ON CONFLICT (user_id, exercise_id, date)
			DO UPDATE SET completed = COALESCE($4::boolean, exercise_log.completed)
			RETURNING id;`,
		userID, req.ExerciseID, req.Date.Time, req.Completed,
	).Scan(&id)
	if err != nil {
		if pkg.IsForeignKeyViolationError(err) {
			return nil, fitness.NewValidationError("exercise", "unknown exercise id %d", req.ExerciseID)
		}
		return nil, fmt.Errorf("upsert exercise log: %w", err)
	}

	return r.Get(ctx, userID, id)
}

func (r *Repo) SetCompleted(ctx context.Context, userID, id int, completed bool) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.logs.set-completed")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	tag, err := r.db.Exec(
		ctx,
		`UPDATE exercise_log SET completed = $1 WHERE id = $2 AND user_id = $3;`,
		completed, id, userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrLogNotFound
	}
	return nil
}

func (r *Repo) Delete(ctx context.Context, userID, id int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.logs.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	tag, err := r.db.Exec(ctx, `DELETE FROM exercise_log WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrLogNotFound
	}
	return nil
}

func (r *Repo) Get(ctx context.Context, userID, id int) (_ *ExerciseLog, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.logs.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	rows, err := r.db.Query(ctx, selectLogs+` WHERE el.id = $1 AND el.user_id = $2;`, id, userID)
	if err != nil {
		return nil, err
	}

	logs, err := rowsToLogs(rows)
	if err != nil {
		return nil, err
	}
	if len(logs) != 1 {
		return nil, ErrLogNotFound
	}

	return &logs[0], nil
}

// List returns the user's logs ordered by date and exercise name, optionally
// within an inclusive date range.
func (r *Repo) List(ctx context.Context, params ListParams) (_ []ExerciseLog, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.logs.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", params.UserID))

	rows, err := r.db.Query(
		ctx,
		selectLogs+`
			WHERE el.user_id = $1
				AND ($2::date IS NULL OR el.date >= $2)
				AND ($3::date IS NULL OR el.date <= $3)
			ORDER BY el.date, e.name;`,
		params.UserID, dateArg(params.StartDate), dateArg(params.EndDate),
	)
	if err != nil {
		return nil, err
	}

	return rowsToLogs(rows)
}

func rowsToLogs(rows pgx.Rows) ([]ExerciseLog, error) {
	logs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (ExerciseLog, error) {
		var l ExerciseLog
		var date time.Time
		if err := row.Scan(&l.ID, &l.UserID, &l.ExerciseID, &l.ExerciseName, &date, &l.Completed); err != nil {
			return l, err
		}
		l.Date = pkg.DateOf(date)
		return l, nil
	})
	if err != nil {
		return nil, fmt.Errorf("collect exercise logs: %w", err)
	}
	return logs, nil
}

func dateArg(d *pkg.Date) *time.Time {
	if d == nil {
		return nil
	}
	return &d.Time
}
