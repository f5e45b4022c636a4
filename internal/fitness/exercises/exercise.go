package exercises

import (
	"errors"
	"slices"
	"strings"

	"github.com/2beens/fitpoints/internal/fitness"
)

var ErrExerciseNotFound = errors.New("exercise not found")

const DefaultTrainingPoints = 1

var (
	Activities   = []string{"Strength", "Cardio", "Flexibility", "Balance"}
	Types        = []string{"Barbell", "Dumbbell", "Machine", "Bodyweight", "Kettlebell", "Resistance Band", "Run", "Other"}
	MuscleGroups = []string{"Chest", "Back", "Shoulders", "Arms", "Legs", "Abs", "Full Body"}
	SubGroups    = []string{
		"Upper Chest", "Lower Chest",
		"Lats", "Traps",
		"Quads", "Hamstrings", "Calves", "Glutes",
		"Biceps", "Triceps",
	}
)

type Exercise struct {
	ID             int     `json:"id"`
	Name           string  `json:"name"`
	Activity       string  `json:"activity"`
	Type           string  `json:"type"`
	MuscleGroup    string  `json:"muscle_group"`
	SubGroup       *string `json:"sub_group"`
	TrainingPoints int     `json:"training_points"`
}

// Normalize trims the input, applies defaults and checks the enumerations.
func (e *Exercise) Normalize() error {
	e.Name = strings.TrimSpace(e.Name)
	if e.Name == "" {
		return fitness.NewValidationError("name", "empty")
	}
	if len(e.Name) > 100 {
		return fitness.NewValidationError("name", "longer than 100 characters")
	}
	if !slices.Contains(Activities, e.Activity) {
		return fitness.NewValidationError("activity", "must be one of %s", strings.Join(Activities, ", "))
	}
	if !slices.Contains(Types, e.Type) {
		return fitness.NewValidationError("type", "must be one of %s", strings.Join(Types, ", "))
	}
	if !slices.Contains(MuscleGroups, e.MuscleGroup) {
		return fitness.NewValidationError("muscle_group", "must be one of %s", strings.Join(MuscleGroups, ", "))
	}
	if e.SubGroup != nil && *e.SubGroup == "" {
		e.SubGroup = nil
	}
	if e.SubGroup != nil && !slices.Contains(SubGroups, *e.SubGroup) {
		return fitness.NewValidationError("sub_group", "must be one of %s", strings.Join(SubGroups, ", "))
	}
	if e.TrainingPoints == 0 {
		e.TrainingPoints = DefaultTrainingPoints
	}
	if e.TrainingPoints < 0 {
		return fitness.NewValidationError("training_points", "must be a positive integer")
	}
	return nil
}
