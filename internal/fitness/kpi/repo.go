package kpi

import (
	"context"
	"fmt"
	"time"

	"github.com/2beens/fitpoints/internal/telemetry/tracing"
	"github.com/2beens/fitpoints/pkg"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

// Repo reads the points of a whole window with one query per entity.
type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

// PlannedPoints sums, per planned date, the training points of the planned routine's exercises.
func (r *Repo) PlannedPoints(ctx context.Context, userID int, w Window) (_ []DayPoints, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.kpi.planned-points")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID))

	rows, err := r.db.Query(
		ctx,
		`SELECT rp.date, COALESCE(SUM(e.training_points), 0)
			FROM routine_plan rp
			LEFT JOIN routine_exercise re ON re.routine_id = rp.routine_id
			LEFT JOIN exercise e ON e.id = re.exercise_id
			WHERE rp.user_id = $1 AND rp.date BETWEEN $2 AND $3
			GROUP BY rp.date
			ORDER BY rp.date;`,
		userID, w.Start.Time, w.End.Time,
	)
	if err != nil {
		return nil, err
	}

	return rowsToDayPoints(rows)
}

// CompletedPoints sums, per date, the training points of the completed logs.
func (r *Repo) CompletedPoints(ctx context.Context, userID int, w Window) (_ []DayPoints, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.kpi.completed-points")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID))

	rows, err := r.db.Query(
		ctx,
		`SELECT el.date, SUM(e.training_points)
			FROM exercise_log el
			JOIN exercise e ON e.id = el.exercise_id
			WHERE el.user_id = $1 AND el.completed AND el.date BETWEEN $2 AND $3
			GROUP BY el.date
			ORDER BY el.date;`,
		userID, w.Start.Time, w.End.Time,
	)
	if err != nil {
		return nil, err
	}

	return rowsToDayPoints(rows)
}

// Targets returns the stored targets among the given weeks. Weeks without one are absent.
func (r *Repo) Targets(ctx context.Context, userID int, weeks []WeekKey) (_ map[WeekKey]int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.kpi.targets")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID))
	span.SetAttributes(attribute.Int("weeks", len(weeks)))

	years := make([]int, 0, len(weeks))
	weekNumbers := make([]int, 0, len(weeks))
	for _, wk := range weeks {
		years = append(years, wk.Year)
		weekNumbers = append(weekNumbers, wk.Week)
	}

	rows, err := r.db.Query(
		ctx,
		`SELECT year, week, target_points
			FROM weekly_target
			WHERE user_id = $1
				AND (year, week) IN (SELECT * FROM unnest($2::int[], $3::int[]));`,
		userID, years, weekNumbers,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	targets := make(map[WeekKey]int, len(weeks))
	var key WeekKey
	var points int
	_, err = pgx.ForEachRow(rows, []any{&key.Year, &key.Week, &points}, func() error {
		targets[key] = points
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("collect weekly targets: %w", err)
	}

	return targets, nil
}

func rowsToDayPoints(rows pgx.Rows) ([]DayPoints, error) {
	points, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (DayPoints, error) {
		var p DayPoints
		var date time.Time
		if err := row.Scan(&date, &p.Points); err != nil {
			return p, err
		}
		p.Date = pkg.DateOf(date)
		return p, nil
	})
	if err != nil {
		return nil, fmt.Errorf("collect day points: %w", err)
	}
	return points, nil
}
