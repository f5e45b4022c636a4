// Package kpi computes planned versus completed training points of a user
// over date ranges and trailing weeks.
//
// Computation is split in two: the Service reads every row a request needs
// in one query per entity, and the functions in this file aggregate those
// rows in memory without touching storage or the clock.
package kpi

import (
	"fmt"
	"math"
	"time"

	"github.com/2beens/fitpoints/internal/fitness/targets"
	"github.com/2beens/fitpoints/pkg"
)

const (
	DefaultTargetPoints = targets.DefaultTargetPoints
	DefaultWeeksBack    = 6
	MaxWeeksBack        = 104
	MaxRangeDays        = 366
	MinYear             = 1900
)

// WeekKey identifies an ISO week.
type WeekKey struct {
	Year int
	Week int
}

func WeekKeyOf(d pkg.Date) WeekKey {
	year, week := d.ISOWeek()
	return WeekKey{Year: year, Week: week}
}

// DayPoints is a number of training points attributed to one date.
type DayPoints struct {
	Date   pkg.Date
	Points int
}

// Snapshot holds the rows of one user needed to answer a KPI request.
// Planned and Completed may contain several rows for the same date.
type Snapshot struct {
	Planned   []DayPoints
	Completed []DayPoints
	Targets   map[WeekKey]int
}

type DayMetric struct {
	PlannedPoints         int `json:"planned_points"`
	CompletedPoints       int `json:"completed_points"`
	AchievementPercentage int `json:"achievement_percentage"`
}

type Summary struct {
	TargetPoints        int                  `json:"target_points"`
	PlannedPoints       int                  `json:"planned_points"`
	CompletedPoints     int                  `json:"completed_points"`
	PlanningAchievement int                  `json:"planning_achievement"`
	TrainingAchievement int                  `json:"training_achievement"`
	DailyMetrics        map[string]DayMetric `json:"daily_metrics"`
}

type WeekStat struct {
	Week                  string   `json:"week"`
	Year                  int      `json:"year"`
	WeekNumber            int      `json:"week_number"`
	WeekStart             pkg.Date `json:"week_start"`
	WeekEnd               pkg.Date `json:"week_end"`
	TargetPoints          int      `json:"target_points"`
	PlannedPoints         int      `json:"planned_points"`
	CompletedPoints       int      `json:"completed_points"`
	AchievementPercentage int      `json:"achievement_percentage"`
}

// Window is an inclusive date range.
type Window struct {
	Start pkg.Date
	End   pkg.Date
}

// DayCount is the number of dates in the window, counting both bounds.
func (w Window) DayCount() int {
	return int(w.End.Sub(w.Start.Time)/(24*time.Hour)) + 1
}

// Days returns every date of the window, oldest first.
func (w Window) Days() []pkg.Date {
	var days []pkg.Date
	for d := w.Start; !d.After(w.End); d = d.AddDays(1) {
		days = append(days, d)
	}
	return days
}

// WeekWindows returns the weeksBack windows anchored on asOf, newest first.
// Window i ends weekday(asOf)+7i days before asOf and spans seven days.
func WeekWindows(asOf pkg.Date, weeksBack int) []Window {
	windows := make([]Window, 0, weeksBack)
	for i := 0; i < weeksBack; i++ {
		end := asOf.AddDays(-(asOf.WeekdayFromMonday() + 7*i))
		windows = append(windows, Window{
			Start: end.AddDays(-6),
			End:   end,
		})
	}
	return windows
}

// Percentage returns round(part/whole*100), half to even, or 0 when whole is not positive.
func Percentage(part, whole int) int {
	if whole <= 0 {
		return 0
	}
	return int(math.RoundToEven(float64(part) * 100 / float64(whole)))
}

type dayIndex struct {
	planned   map[string]int
	completed map[string]int
	targets   map[WeekKey]int
}

func newDayIndex(snap Snapshot) dayIndex {
	idx := dayIndex{
		planned:   make(map[string]int, len(snap.Planned)),
		completed: make(map[string]int, len(snap.Completed)),
		targets:   snap.Targets,
	}
	for _, p := range snap.Planned {
		idx.planned[p.Date.String()] += p.Points
	}
	for _, c := range snap.Completed {
		idx.completed[c.Date.String()] += c.Points
	}
	return idx
}

func (idx dayIndex) target(key WeekKey) int {
	if points, ok := idx.targets[key]; ok {
		return points
	}
	return DefaultTargetPoints
}

func (idx dayIndex) sum(w Window) (planned, completed int) {
	for _, d := range w.Days() {
		planned += idx.planned[d.String()]
		completed += idx.completed[d.String()]
	}
	return planned, completed
}

// RangeSummary aggregates the window against the target of the ISO week of its start date.
func RangeSummary(snap Snapshot, w Window) Summary {
	idx := newDayIndex(snap)
	target := idx.target(WeekKeyOf(w.Start))

	summary := Summary{
		TargetPoints: target,
		DailyMetrics: make(map[string]DayMetric),
	}
	for _, d := range w.Days() {
		key := d.String()
		planned := idx.planned[key]
		completed := idx.completed[key]
		summary.PlannedPoints += planned
		summary.CompletedPoints += completed
		summary.DailyMetrics[key] = DayMetric{
			PlannedPoints:         planned,
			CompletedPoints:       completed,
			AchievementPercentage: Percentage(completed, planned),
		}
	}
	summary.PlanningAchievement = Percentage(summary.PlannedPoints, target)
	summary.TrainingAchievement = Percentage(summary.CompletedPoints, target)

	return summary
}

// HistoricalWeeks aggregates each window (as given by WeekWindows, newest
// first) and returns the stats oldest first.
func HistoricalWeeks(snap Snapshot, windows []Window) []WeekStat {
	idx := newDayIndex(snap)

	stats := make([]WeekStat, len(windows))
	for i, w := range windows {
		key := WeekKeyOf(w.Start)
		target := idx.target(key)
		planned, completed := idx.sum(w)
		stats[len(windows)-1-i] = WeekStat{
			Week:                  fmt.Sprintf("Week %d", key.Week),
			Year:                  key.Year,
			WeekNumber:            key.Week,
			WeekStart:             w.Start,
			WeekEnd:               w.End,
			TargetPoints:          target,
			PlannedPoints:         planned,
			CompletedPoints:       completed,
			AchievementPercentage: Percentage(completed, target),
		}
	}

	return stats
}
