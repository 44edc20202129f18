package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/matchdaybot/predictions/internal/domain/fixture"
)

type FixtureRepository struct {
	mu    sync.RWMutex
	items map[int64]fixture.Fixture
}

func NewFixtureRepository(fixtures []fixture.Fixture) *FixtureRepository {
	items := make(map[int64]fixture.Fixture, len(fixtures))
	for _, fx := range fixtures {
		items[fx.ID] = fx
	}
	return &FixtureRepository{items: items}
}

func (r *FixtureRepository) Upsert(_ context.Context, fixtures []fixture.Fixture) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, fx := range fixtures {
		fx.Status = fixture.NormalizeStatus(fx.Status)
		r.items[fx.ID] = fx
	}
	return nil
}

func (r *FixtureRepository) Get(_ context.Context, fixtureID int64) (fixture.Fixture, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	fx, ok := r.items[fixtureID]
	return fx, ok, nil
}

func (r *FixtureRepository) ListByLeagueBetween(_ context.Context, leagueID int64, from, to time.Time) ([]fixture.Fixture, error) {
	out := r.snapshotByLeague(leagueID)
	filtered := out[:0]
	for _, fx := range out {
		if fx.KickoffAt.Before(from) || !fx.KickoffAt.Before(to) {
			continue
		}
		filtered = append(filtered, fx)
	}
	return filtered, nil
}

func (r *FixtureRepository) ListUpcomingByLeague(_ context.Context, leagueID int64, after time.Time, limit int) ([]fixture.Fixture, error) {
	out := make([]fixture.Fixture, 0, limit)
	for _, fx := range r.snapshotByLeague(leagueID) {
		if !fx.KickoffAt.After(after) {
			continue
		}
		out = append(out, fx)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *FixtureRepository) ListResultsByLeague(_ context.Context, leagueID int64, limit int) ([]fixture.Fixture, error) {
	all := r.snapshotByLeague(leagueID)
	out := make([]fixture.Fixture, 0, limit)
	for i := len(all) - 1; i >= 0; i-- {
		if !all[i].IsFinished() {
			continue
		}
		out = append(out, all[i])
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *FixtureRepository) ListFinishedByLeague(_ context.Context, leagueID int64) ([]fixture.Fixture, error) {
	all := r.snapshotByLeague(leagueID)
	out := all[:0]
	for _, fx := range all {
		if fx.IsFinished() {
			out = append(out, fx)
		}
	}
	return out, nil
}

// snapshotByLeague returns the league's fixtures sorted by kickoff then ID.
func (r *FixtureRepository) snapshotByLeague(leagueID int64) []fixture.Fixture {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]fixture.Fixture, 0)
	for _, fx := range r.items {
		if fx.LeagueID == leagueID {
			out = append(out, fx)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].KickoffAt.Equal(out[j].KickoffAt) {
			return out[i].KickoffAt.Before(out[j].KickoffAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}
