//go:build integration_test || all_tests

package internal_test

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2beens/fitpoints/internal/fitness/exercises"
	"github.com/2beens/fitpoints/internal/fitness/kpi"
	"github.com/2beens/fitpoints/internal/fitness/logs"
	"github.com/2beens/fitpoints/internal/fitness/plans"
	"github.com/2beens/fitpoints/internal/fitness/routines"
	"github.com/2beens/fitpoints/internal/fitness/targets"
	"github.com/2beens/fitpoints/pkg"
)

func boolPtr(b bool) *bool { return &b }
func intPtr(i int) *int { return &i }

func (s *IntegrationTestSuite) newExercise(ctx context.Context, token string, points int) exercises.Exercise {
	var added exercises.Exercise
	s.doRequest(ctx, http.MethodPost, "/exercises", token, exercises.Exercise{
		Name:           fmt.Sprintf("%s %d", gofakeit.Verb(), gofakeit.Number(1, 1_000_000)),
		Activity:       "Strength",
		Type:           "Barbell",
		MuscleGroup:    "Legs",
		TrainingPoints: points,
	}, http.StatusCreated, &added)
	require.NotZero(s.T(), added.ID)
	return added
}

func (s *IntegrationTestSuite) TestExerciseLog_UpsertIsIdempotent() {
	t := s.T()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	user, token := s.registerAndLogin(ctx)
	exercise := s.newExercise(ctx, token, 5)

	req := logs.UpsertRequest{
		ExerciseID: exercise.ID,
		Date:       pkg.NewDate(2025, time.March, 4),
		Completed:  boolPtr(true),
	}

	var first, second logs.ExerciseLog
	s.doRequest(ctx, http.MethodPost, "/logs", token, req, http.StatusCreated, &first)
	s.doRequest(ctx, http.MethodPost, "/logs", token, req, http.StatusCreated, &second)

	assert.Equal(t, first.ID, second.ID)
	assert.True(t, second.Completed)
	assert.Equal(t, exercise.Name, second.ExerciseName)

	assert.Equal(t, 1, s.countRows(
		`SELECT COUNT(*) FROM exercise_log WHERE user_id = $1 AND exercise_id = $2 AND date = $3 AND completed`,
		user.ID, exercise.ID, "2025-03-04",
	))
}

func (s *IntegrationTestSuite) TestWeeklyTarget_UpsertOverwritesPoints() {
	t := s.T()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	user, token := s.registerAndLogin(ctx)

	var first, second targets.WeeklyTarget
	s.doRequest(ctx, http.MethodPost, "/targets", token, targets.UpsertRequest{
		Year: 2025, Week: 10, TargetPoints: intPtr(40),
	}, http.StatusCreated, &first)
	s.doRequest(ctx, http.MethodPost, "/targets", token, targets.UpsertRequest{
		Year: 2025, Week: 10, TargetPoints: intPtr(60),
	}, http.StatusCreated, &second)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 60, second.TargetPoints)

	var storedPoints int
	require.NoError(t, s.DB.QueryRow(
		`SELECT target_points FROM weekly_target WHERE user_id = $1 AND year = 2025 AND week = 10`,
		user.ID,
	).Scan(&storedPoints))
	assert.Equal(t, 60, storedPoints)
	assert.Equal(t, 1, s.countRows(`SELECT COUNT(*) FROM weekly_target WHERE user_id = $1`, user.ID))

	// target left out falls back to the default
	var defaulted targets.WeeklyTarget
	s.doRequest(ctx, http.MethodPost, "/targets", token, targets.UpsertRequest{
		Year: 2025, Week: 11,
	}, http.StatusCreated, &defaulted)
	assert.Equal(t, targets.DefaultTargetPoints, defaulted.TargetPoints)
}

func (s *IntegrationTestSuite) TestKPI_RangeSummaryScenario() {
	t := s.T()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	_, token := s.registerAndLogin(ctx)

	squats := s.newExercise(ctx, token, 10)
	press := s.newExercise(ctx, token, 12)
	rows := s.newExercise(ctx, token, 8)

	var routine routines.Routine
	s.doRequest(ctx, http.MethodPost, "/routines", token, routines.Routine{
		Name:      fmt.Sprintf("routine %d", gofakeit.Number(1, 1_000_000)),
		Exercises: []int{squats.ID, press.ID, rows.ID},
	}, http.StatusCreated, &routine)
	require.Len(t, routine.ExercisesDetails, 3)

	aprilFirst := pkg.NewDate(2025, time.April, 1)
	s.doRequest(ctx, http.MethodPost, "/plans", token, plans.RoutinePlan{
		RoutineID: routine.ID,
		Date:      aprilFirst,
	}, http.StatusCreated, nil)

	s.doRequest(ctx, http.MethodPost, "/targets", token, targets.UpsertRequest{
		Year: 2025, Week: 14, TargetPoints: intPtr(100),
	}, http.StatusCreated, nil)

	s.doRequest(ctx, http.MethodPost, "/logs", token, logs.UpsertRequest{
		ExerciseID: squats.ID,
		Date:       aprilFirst,
		Completed:  boolPtr(true),
	}, http.StatusCreated, nil)
	// logged but not completed, does not count
	s.doRequest(ctx, http.MethodPost, "/logs", token, logs.UpsertRequest{
		ExerciseID: press.ID,
		Date:       aprilFirst,
	}, http.StatusCreated, nil)

	var summary kpi.Summary
	s.doRequest(ctx, http.MethodGet, "/kpi/summary?start_date=2025-04-01&end_date=2025-04-01", token, nil, http.StatusOK, &summary)

	assert.Equal(t, kpi.Summary{
		TargetPoints:        100,
		PlannedPoints:       30,
		CompletedPoints:     10,
		PlanningAchievement: 30,
		TrainingAchievement: 10,
		DailyMetrics: map[string]kpi.DayMetric{
			"2025-04-01": {PlannedPoints: 30, CompletedPoints: 10, AchievementPercentage: 33},
		},
	}, summary)

	// the next week has no target
	var nextWeek kpi.Summary
	s.doRequest(ctx, http.MethodGet, "/kpi/summary?start_date=2025-04-07&end_date=2025-04-13", token, nil, http.StatusOK, &nextWeek)
	assert.Equal(t, kpi.DefaultTargetPoints, nextWeek.TargetPoints)
	assert.Len(t, nextWeek.DailyMetrics, 7)

	s.doRequest(ctx, http.MethodGet, "/kpi/summary?start_date=2025-04-02&end_date=2025-04-01", token, nil, http.StatusBadRequest, nil)
	s.doRequest(ctx, http.MethodGet, "/kpi/summary?start_date=2025-04-01", token, nil, http.StatusBadRequest, nil)
}

func (s *IntegrationTestSuite) TestKPI_HistoricalWeeks() {
	t := s.T()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	_, token := s.registerAndLogin(ctx)
	exercise := s.newExercise(ctx, token, 20)

	// as_of 2025-04-09 (Wednesday): windows end on 04-07, 03-31 and 03-24
	s.doRequest(ctx, http.MethodPost, "/logs", token, logs.UpsertRequest{
		ExerciseID: exercise.ID,
		Date:       pkg.NewDate(2025, time.April, 3),
		Completed:  boolPtr(true),
	}, http.StatusCreated, nil)
	s.doRequest(ctx, http.MethodPost, "/targets", token, targets.UpsertRequest{
		Year: 2025, Week: 14, TargetPoints: intPtr(40),
	}, http.StatusCreated, nil)

	var weeks []kpi.WeekStat
	s.doRequest(ctx, http.MethodGet, "/kpi/weeks?weeks_back=3&as_of=2025-04-09", token, nil, http.StatusOK, &weeks)
	require.Len(t, weeks, 3)

	assert.Equal(t, "2025-03-18", weeks[0].WeekStart.String())
	assert.Equal(t, "2025-03-25", weeks[1].WeekStart.String())
	assert.Equal(t, "2025-04-01", weeks[2].WeekStart.String())
	for i := 1; i < len(weeks); i++ {
		assert.Equal(t, weeks[i-1].WeekEnd.AddDays(1), weeks[i].WeekStart)
	}

	assert.Equal(t, kpi.DefaultTargetPoints, weeks[0].TargetPoints)
	assert.Equal(t, 40, weeks[2].TargetPoints)
	assert.Equal(t, 20, weeks[2].CompletedPoints)
	assert.Equal(t, 50, weeks[2].AchievementPercentage)

	s.doRequest(ctx, http.MethodGet, "/kpi/weeks?weeks_back=0", token, nil, http.StatusBadRequest, nil)
}

func (s *IntegrationTestSuite) TestUserScoping() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	_, ownerToken := s.registerAndLogin(ctx)
	_, otherToken := s.registerAndLogin(ctx)

	var target targets.WeeklyTarget
	s.doRequest(ctx, http.MethodPost, "/targets", ownerToken, targets.UpsertRequest{
		Year: 2025, Week: 20, TargetPoints: intPtr(70),
	}, http.StatusCreated, &target)

	path := fmt.Sprintf("/targets/%d", target.ID)
	s.doRequest(ctx, http.MethodGet, path, otherToken, nil, http.StatusNotFound, nil)
	s.doRequest(ctx, http.MethodDelete, path, otherToken, nil, http.StatusNotFound, nil)
	s.doRequest(ctx, http.MethodGet, path, ownerToken, nil, http.StatusOK, nil)

	// logout invalidates the session
	s.doRequest(ctx, http.MethodGet, "/auth/logout", otherToken, nil, http.StatusOK, nil)
	s.doRequest(ctx, http.MethodGet, "/targets", otherToken, nil, http.StatusUnauthorized, nil)
}
