package plans

import (
	"errors"

	"github.com/2beens/fitpoints/internal/fitness"
	"github.com/2beens/fitpoints/pkg"
)

var ErrPlanNotFound = errors.New("routine plan not found")

// RoutinePlan assigns one routine to one calendar date of a user.
type RoutinePlan struct {
	ID          int      `json:"id"`
	UserID      int      `json:"user"`
	RoutineID   int      `json:"routine"`
	RoutineName string   `json:"routine_name"`
	Date        pkg.Date `json:"date"`
}

type ListParams struct {
	UserID    int
	StartDate *pkg.Date
	EndDate   *pkg.Date
}

func (p *RoutinePlan) Validate() error {
	if p.RoutineID <= 0 {
		return fitness.NewValidationError("routine", "required")
	}
	if p.Date.IsZero() {
		return fitness.NewValidationError("date", "required")
	}
	return nil
}
