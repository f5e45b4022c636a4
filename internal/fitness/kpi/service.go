package kpi

import (
	"context"
	"fmt"
	"time"

	"github.com/2beens/fitpoints/internal/fitness"
	"github.com/2beens/fitpoints/internal/telemetry/metrics"
	"github.com/2beens/fitpoints/internal/telemetry/tracing"
	"github.com/2beens/fitpoints/pkg"

	"go.opentelemetry.io/otel/attribute"
)

type pointsStore interface {
	PlannedPoints(ctx context.Context, userID int, w Window) ([]DayPoints, error)
	CompletedPoints(ctx context.Context, userID int, w Window) ([]DayPoints, error)
	Targets(ctx context.Context, userID int, weeks []WeekKey) (map[WeekKey]int, error)
}

type Service struct {
	store          pointsStore
	metricsManager *metrics.Manager
}

func NewService(store pointsStore, metricsManager *metrics.Manager) *Service {
	return &Service{
		store:          store,
		metricsManager: metricsManager,
	}
}

// ParseRange parses inclusive YYYY-MM-DD bounds. Both are required, start must
// not be after end and the window may span at most MaxRangeDays.
func ParseRange(startRaw, endRaw string) (Window, error) {
	if startRaw == "" {
		return Window{}, fitness.NewValidationError("start_date", "required")
	}
	if endRaw == "" {
		return Window{}, fitness.NewValidationError("end_date", "required")
	}
	start, err := pkg.ParseDate(startRaw)
	if err != nil {
		return Window{}, fitness.NewValidationError("start_date", "%s", err)
	}
	end, err := pkg.ParseDate(endRaw)
	if err != nil {
		return Window{}, fitness.NewValidationError("end_date", "%s", err)
	}

	w := Window{Start: start, End: end}
	if err := w.validate(); err != nil {
		return Window{}, err
	}
	return w, nil
}

func (w Window) validate() error {
	if w.Start.Year() < MinYear {
		return fitness.NewValidationError("start_date", "must not be before %d-01-01", MinYear)
	}
	if w.End.Year() < MinYear {
		return fitness.NewValidationError("end_date", "must not be before %d-01-01", MinYear)
	}
	if w.Start.After(w.End) {
		return fitness.NewValidationError("start_date", "must not be after end_date")
	}
	if w.DayCount() > MaxRangeDays {
		return fitness.NewValidationError("end_date", "range must not span more than %d days", MaxRangeDays)
	}
	return nil
}

func (s *Service) RangeSummary(ctx context.Context, userID int, w Window) (_ *Summary, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.kpi.range-summary")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID))
	span.SetAttributes(attribute.String("start_date", w.Start.String()))
	span.SetAttributes(attribute.String("end_date", w.End.String()))

	if err := w.validate(); err != nil {
		return nil, err
	}

	defer s.observe("range_summary", time.Now())

	snap, err := s.snapshot(ctx, userID, w, []WeekKey{WeekKeyOf(w.Start)})
	if err != nil {
		return nil, err
	}

	summary := RangeSummary(snap, w)
	return &summary, nil
}

func (s *Service) HistoricalWeeks(ctx context.Context, userID, weeksBack int, asOf pkg.Date) (_ []WeekStat, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.kpi.historical-weeks")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID))
	span.SetAttributes(attribute.Int("weeks_back", weeksBack))

	if weeksBack < 1 || weeksBack > MaxWeeksBack {
		return nil, fitness.NewValidationError("weeks_back", "must be between 1 and %d", MaxWeeksBack)
	}
	if asOf.Year() < MinYear {
		return nil, fitness.NewValidationError("as_of", "must not be before %d-01-01", MinYear)
	}

	defer s.observe("historical_weeks", time.Now())

	windows := WeekWindows(asOf, weeksBack)
	weeks := make([]WeekKey, 0, len(windows))
	for _, w := range windows {
		weeks = append(weeks, WeekKeyOf(w.Start))
	}
	// windows are contiguous, newest first
	whole := Window{
		Start: windows[len(windows)-1].Start,
		End:   windows[0].End,
	}

	snap, err := s.snapshot(ctx, userID, whole, weeks)
	if err != nil {
		return nil, err
	}

	return HistoricalWeeks(snap, windows), nil
}

func (s *Service) snapshot(ctx context.Context, userID int, w Window, weeks []WeekKey) (Snapshot, error) {
	planned, err := s.store.PlannedPoints(ctx, userID, w)
	if err != nil {
		return Snapshot{}, fmt.Errorf("get planned points: %w", err)
	}
	completed, err := s.store.CompletedPoints(ctx, userID, w)
	if err != nil {
		return Snapshot{}, fmt.Errorf("get completed points: %w", err)
	}
	targets, err := s.store.Targets(ctx, userID, weeks)
	if err != nil {
		return Snapshot{}, fmt.Errorf("get weekly targets: %w", err)
	}

	return Snapshot{
		Planned:   planned,
		Completed: completed,
		Targets:   targets,
	}, nil
}

func (s *Service) observe(kind string, start time.Time) {
	s.metricsManager.HistogramKPIDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
}
