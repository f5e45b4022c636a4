package plans

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/fitpoints/internal/fitness"
	"github.com/2beens/fitpoints/internal/telemetry/tracing"
	"github.com/2beens/fitpoints/pkg"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
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

func (r *Repo) Add(ctx context.Context, plan RoutinePlan) (_ *RoutinePlan, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.plans.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", plan.UserID))

	var id int
	err = r.db.QueryRow(
		ctx,
		`INSERT INTO routine_plan (user_id, routine_id, date) VALUES ($1, $2, $3) RETURNING id;`,
		plan.UserID, plan.RoutineID, plan.Date.Time,
	).Scan(&id)
	if err != nil {
		return nil, mapWriteErr(err, plan)
	}

	return r.Get(ctx, plan.UserID, id)
}

func (r *Repo) Update(ctx context.Context, plan *RoutinePlan) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.plans.update")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", plan.ID))

	tag, err := r.db.Exec(
		ctx,
		`UPDATE routine_plan SET routine_id = $1, date = $2 WHERE id = $3 AND user_id = $4;`,
		plan.RoutineID, plan.Date.Time, plan.ID, plan.UserID,
	)
	if err != nil {
		return mapWriteErr(err, *plan)
	}
	if tag.RowsAffected() == 0 {
		return ErrPlanNotFound
	}
	return nil
}

func (r *Repo) Delete(ctx context.Context, userID, id int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.plans.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	tag, err := r.db.Exec(ctx, `DELETE FROM routine_plan WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrPlanNotFound
	}
	return nil
}

func (r *Repo) Get(ctx context.Context, userID, id int) (_ *RoutinePlan, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.plans.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	rows, err := r.db.Query(
		ctx,
		`SELECT rp.id, rp.user_id, rp.routine_id, r.name, rp.date
			FROM routine_plan rp
			JOIN routine r ON r.id = rp.routine_id
			WHERE rp.id = $1 AND rp.user_id = $2;`,
		id, userID,
	)
	if err != nil {
		return nil, err
	}

	plans, err := rowsToPlans(rows)
	if err != nil {
		return nil, err
	}
	if len(plans) != 1 {
		return nil, ErrPlanNotFound
	}

	return &plans[0], nil
}

// List returns the user's plans ordered by date, optionally within an inclusive date range.
func (r *Repo) List(ctx context.Context, params ListParams) (_ []RoutinePlan, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.plans.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", params.UserID))

	rows, err := r.db.Query(
		ctx,
		`SELECT rp.id, rp.user_id, rp.routine_id, r.name, rp.date
			FROM routine_plan rp
			JOIN routine r ON r.id = rp.routine_id
			WHERE rp.user_id = $1
				AND ($2::date IS NULL OR rp.date >= $2)
				AND ($3::date IS NULL OR rp.date <= $3)
			ORDER BY rp.date;`,
		params.UserID, dateArg(params.StartDate), dateArg(params.EndDate),
	)
	if err != nil {
		return nil, err
	}

	return rowsToPlans(rows)
}

func rowsToPlans(rows pgx.Rows) ([]RoutinePlan, error) {
	plans, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (RoutinePlan, error) {
		var p RoutinePlan
		var date time.Time
		if err := row.Scan(&p.ID, &p.UserID, &p.RoutineID, &p.RoutineName, &date); err != nil {
			return p, err
		}
		p.Date = pkg.DateOf(date)
		return p, nil
	})
	if err != nil {
		return nil, fmt.Errorf("collect plans: %w", err)
	}
	return plans, nil
}

func dateArg(d *pkg.Date) *time.Time {
	if d == nil {
		return nil
	}
	return &d.Time
}

func mapWriteErr(err error, plan RoutinePlan) error {
	switch {
	case pkg.IsUniqueViolationError(err):
		return fmt.Errorf("plan for %s: %w", plan.Date, fitness.ErrConflict)
	case pkg.IsForeignKeyViolationError(err):
		return fitness.NewValidationError("routine", "unknown routine id %d", plan.RoutineID)
	case errors.Is(err, pgx.ErrNoRows):
		return ErrPlanNotFound
	default:
		return err
	}
}
