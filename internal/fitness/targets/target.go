package targets

import (
	"errors"

	"github.com/2beens/fitpoints/internal/fitness"
)

// DefaultTargetPoints applies to every week without an explicit target.
const DefaultTargetPoints = 50

var ErrTargetNotFound = errors.New("weekly target not found")

// WeeklyTarget is the points goal of a user for one ISO week.
type WeeklyTarget struct {
	ID           int `json:"id"`
	UserID       int `json:"user"`
	Year         int `json:"year"`
	Week         int `json:"week"`
	TargetPoints int `json:"target_points"`
}

type UpsertRequest struct {
	Year         int  `json:"year"`
	Week         int  `json:"week"`
	TargetPoints *int `json:"target_points"`
}

// Normalize validates the request and fills the default target.
func (r *UpsertRequest) Normalize() error {
	if r.Year <= 0 {
		return fitness.NewValidationError("year", "required")
	}
	if r.Week < 1 || r.Week > 53 {
		return fitness.NewValidationError("week", "must be between 1 and 53")
	}
	if r.TargetPoints == nil {
		points := DefaultTargetPoints
		r.TargetPoints = &points
	}
	return validatePoints(*r.TargetPoints)
}

type UpdateRequest struct {
	TargetPoints *int `json:"target_points"`
}

func (r *UpdateRequest) Validate() error {
	if r.TargetPoints == nil {
		return fitness.NewValidationError("target_points", "required")
	}
	return validatePoints(*r.TargetPoints)
}

func validatePoints(points int) error {
	if points < 0 {
		return fitness.NewValidationError("target_points", "must not be negative")
	}
	return nil
}

type ListParams struct {
	UserID int
	Year   *int
	Week   *int
}
