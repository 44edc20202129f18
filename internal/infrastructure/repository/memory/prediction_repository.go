package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/matchdaybot/predictions/internal/domain/fixture"
	"github.com/matchdaybot/predictions/internal/domain/prediction"
)

type predictionKey struct {
	userID    int64
	fixtureID int64
}

// PredictionRepository keeps one row per (user, fixture) under a single
// mutex, so concurrent submissions settle on the last full write.
type PredictionRepository struct {
	mu       sync.RWMutex
	items    map[predictionKey]prediction.Prediction
	fixtures *FixtureRepository
}

// NewPredictionRepository takes the fixture repository it filters kickoff
// ranges against, mirroring the SQL join in the postgres implementation.
func NewPredictionRepository(fixtures *FixtureRepository) *PredictionRepository {
	return &PredictionRepository{
		items:    make(map[predictionKey]prediction.Prediction),
		fixtures: fixtures,
	}
}

func (r *PredictionRepository) Upsert(_ context.Context, p prediction.Prediction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[predictionKey{userID: p.UserID, fixtureID: p.FixtureID}] = p
	return nil
}

func (r *PredictionRepository) Get(_ context.Context, userID, fixtureID int64) (prediction.Prediction, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.items[predictionKey{userID: userID, fixtureID: fixtureID}]
	return p, ok, nil
}

func (r *PredictionRepository) ListByFixture(_ context.Context, fixtureID int64) ([]prediction.Prediction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]prediction.Prediction, 0)
	for _, p := range r.items {
		if p.FixtureID == fixtureID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

func (r *PredictionRepository) ListByUserBetween(ctx context.Context, userID int64, from, to time.Time) ([]prediction.Prediction, error) {
	r.mu.RLock()
	mine := make([]prediction.Prediction, 0)
	for _, p := range r.items {
		if p.UserID == userID {
			mine = append(mine, p)
		}
	}
	r.mu.RUnlock()

	type row struct {
		p  prediction.Prediction
		fx fixture.Fixture
	}
	rows := make([]row, 0, len(mine))
	for _, p := range mine {
		fx, found, err := r.fixtures.Get(ctx, p.FixtureID)
		if err != nil {
			return nil, err
		}
		if !found || fx.KickoffAt.Before(from) || !fx.KickoffAt.Before(to) {
			continue
		}
		rows = append(rows, row{p: p, fx: fx})
	}
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].fx.KickoffAt.Equal(rows[j].fx.KickoffAt) {
			return rows[i].fx.KickoffAt.Before(rows[j].fx.KickoffAt)
		}
		return rows[i].p.FixtureID < rows[j].p.FixtureID
	})

	out := make([]prediction.Prediction, 0, len(rows))
	for _, item := range rows {
		out = append(out, item.p)
	}
	return out, nil
}
