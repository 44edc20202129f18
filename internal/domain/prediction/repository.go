package prediction

import (
	"context"
	"time"
)

// Repository persists predictions. Upsert must be atomic per (user, fixture):
// two concurrent submissions for the same pair leave exactly one stored
// prediction, never a partially written one.
type Repository interface {
	Upsert(ctx context.Context, p Prediction) error
	Get(ctx context.Context, userID, fixtureID int64) (Prediction, bool, error)
	ListByFixture(ctx context.Context, fixtureID int64) ([]Prediction, error)
	ListByUserBetween(ctx context.Context, userID int64, from, to time.Time) ([]Prediction, error)
}
