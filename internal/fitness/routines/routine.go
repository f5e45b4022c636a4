package routines

import (
	"errors"
	"slices"
	"strings"

	"github.com/2beens/fitpoints/internal/fitness"
	"github.com/2beens/fitpoints/internal/fitness/exercises"
)

var ErrRoutineNotFound = errors.New("routine not found")

type Routine struct {
	ID               int                  `json:"id"`
	Name             string               `json:"name"`
	Exercises        []int                `json:"exercises"`
	ExercisesDetails []exercises.Exercise `json:"exercises_details"`
}

// TrainingPoints sums the points of the routine's exercises.
func (r Routine) TrainingPoints() int {
	total := 0
	for _, e := range r.ExercisesDetails {
		total += e.TrainingPoints
	}
	return total
}

// Normalize trims the name and collapses the exercise ids into a sorted set.
func (r *Routine) Normalize() error {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return fitness.NewValidationError("name", "empty")
	}
	if len(r.Name) > 100 {
		return fitness.NewValidationError("name", "longer than 100 characters")
	}
	for _, id := range r.Exercises {
		if id <= 0 {
			return fitness.NewValidationError("exercises", "invalid exercise id %d", id)
		}
	}
	ids := slices.Clone(r.Exercises)
	slices.Sort(ids)
	r.Exercises = slices.Compact(ids)
	if r.Exercises == nil {
		r.Exercises = []int{}
	}
	return nil
}
