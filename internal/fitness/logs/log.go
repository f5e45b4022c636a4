package logs

import (
	"errors"

	"github.com/2beens/fitpoints/internal/fitness"
	"github.com/2beens/fitpoints/pkg"
)

var ErrLogNotFound = errors.New("exercise log not found")

// ExerciseLog records whether a user completed an exercise on a date.
type ExerciseLog struct {
	ID           int      `json:"id"`
	UserID       int      `json:"user"`
	ExerciseID   int      `json:"exercise"`
	ExerciseName string   `json:"exercise_name"`
	Date         pkg.Date `json:"date"`
	Completed    bool     `json:"completed"`
}

// UpsertRequest is the body of a log create. A nil Completed keeps the
// stored value of an existing log, and means false for a new one.
type UpsertRequest struct {
	ExerciseID int      `json:"exercise"`
	Date       pkg.Date `json:"date"`
	Completed  *bool    `json:"completed"`
}

func (r *UpsertRequest) Validate() error {
	if r.ExerciseID <= 0 {
		return fitness.NewValidationError("exercise", "required")
	}
	if r.Date.IsZero() {
		return fitness.NewValidationError("date", "required")
	}
	return nil
}

type UpdateRequest struct {
	Completed *bool `json:"completed"`
}

type ListParams struct {
	UserID    int
	StartDate *pkg.Date
	EndDate   *pkg.Date
}
