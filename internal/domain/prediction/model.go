package prediction

import (
	"fmt"
	"time"
)

// Prediction is a user's guessed final score for one fixture. There is at
// most one per (user, fixture); a resubmission before the window closes
// replaces the earlier one. Predictions are never deleted, they remain for
// scoring and audit after the fixture finishes.
type Prediction struct {
	UserID      int64
	FixtureID   int64
	HomeGoals   int
	AwayGoals   int
	SubmittedAt time.Time
}

func (p Prediction) Validate() error {
	if p.UserID <= 0 {
		return fmt.Errorf("user id must be greater than zero")
	}
	if p.FixtureID <= 0 {
		return fmt.Errorf("fixture id must be greater than zero")
	}
	if p.HomeGoals < 0 || p.AwayGoals < 0 {
		return fmt.Errorf("predicted goals cannot be negative")
	}

	return nil
}
