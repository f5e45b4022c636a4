package targets

import (
	"context"
	"fmt"

	"github.com/2beens/fitpoints/internal/telemetry/tracing"

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

// Upsert stores the target of (user, year, week), overwriting an existing one.
func (r *Repo) Upsert(ctx context.Context, userID int, req UpsertRequest) (_ *WeeklyTarget, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.targets.upsert")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID))
	span.SetAttributes(attribute.Int("year", req.Year))
	span.SetAttributes(attribute.Int("week", req.Week))

	points := DefaultTargetPoints
	if req.TargetPoints != nil {
		points = *req.TargetPoints
	}

	target := WeeklyTarget{
		UserID:       userID,
		Year:         req.Year,
		Week:         req.Week,
		TargetPoints: points,
	}
	err = r.db.QueryRow(
		ctx,
		`INSERT INTO weekly_target (user_id, year, week, target_points)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (user_id, year, week)
			DO UPDATE SET target_points = EXCLUDED.target_points
			RETURNING id;`,
		userID, req.Year, req.Week, points,
	).Scan(&target.ID)
	if err != nil {
		return nil, fmt.Errorf("upsert weekly target: %w", err)
	}

	return &target, nil
}

func (r *Repo) SetPoints(ctx context.Context, userID, id, points int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.targets.set-points")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	tag, err := r.db.Exec(
		ctx,
		`UPDATE weekly_target SET target_points = $1 WHERE id = $2 AND user_id = $3;`,
		points, id, userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrTargetNotFound
	}
	return nil
}

func (r *Repo) Delete(ctx context.Context, userID, id int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.targets.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	tag, err := r.db.Exec(ctx, `DELETE FROM weekly_target WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrTargetNotFound
	}
	return nil
}

func (r *Repo) Get(ctx context.Context, userID, id int) (_ *WeeklyTarget, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.targets.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	rows, err := r.db.Query(
		ctx,
		`SELECT id, user_id, year, week, target_points FROM weekly_target WHERE id = $1 AND user_id = $2;`,
		id, userID,
	)
	if err != nil {
		return nil, err
	}

	targets, err := rowsToTargets(rows)
	if err != nil {
		return nil, err
	}
	if len(targets) != 1 {
		return nil, ErrTargetNotFound
	}

	return &targets[0], nil
}

// List returns the user's targets, newest week first.
func (r *Repo) List(ctx context.Context, params ListParams) (_ []WeeklyTarget, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.targets.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", params.UserID))

	rows, err := r.db.Query(
		ctx,
		`SELECT id, user_id, year, week, target_points
			FROM weekly_target
			WHERE user_id = $1
				AND ($2::int IS NULL OR year = $2)
				AND ($3::int IS NULL OR week = $3)
			ORDER BY year DESC, week DESC;`,
		params.UserID, params.Year, params.Week,
	)
	if err != nil {
		return nil, err
	}

	return rowsToTargets(rows)
}

func rowsToTargets(rows pgx.Rows) ([]WeeklyTarget, error) {
	targets, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (WeeklyTarget, error) {
		var t WeeklyTarget
		err := row.Scan(&t.ID, &t.UserID, &t.Year, &t.Week, &t.TargetPoints)
		return t, err
	})
	if err != nil {
		return nil, fmt.Errorf("collect weekly targets: %w", err)
	}
	return targets, nil
}
