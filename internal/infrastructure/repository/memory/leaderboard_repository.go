package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/matchdaybot/predictions/internal/domain/scoring"
)

type boardKey struct {
	leagueID  int64
	fixtureID int64
}

// LeaderboardRepository keeps applied scores per (league, fixture). The map
// entry doubles as the applied marker; Apply's existence check and write
// share one critical section.
type LeaderboardRepository struct {
	mu      sync.Mutex
	applied map[boardKey][]scoring.FixtureScore
}

func NewLeaderboardRepository() *LeaderboardRepository {
	return &LeaderboardRepository{applied: make(map[boardKey][]scoring.FixtureScore)}
}

func (r *LeaderboardRepository) Apply(_ context.Context, leagueID, fixtureID int64, scores []scoring.FixtureScore) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := boardKey{leagueID: leagueID, fixtureID: fixtureID}
	if _, ok := r.applied[key]; ok {
		return false, nil
	}
	r.applied[key] = append([]scoring.FixtureScore(nil), scores...)
	return true, nil
}

func (r *LeaderboardRepository) Correct(_ context.Context, leagueID, fixtureID int64, scores []scoring.FixtureScore) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.applied[boardKey{leagueID: leagueID, fixtureID: fixtureID}] = append([]scoring.FixtureScore(nil), scores...)
	return nil
}

func (r *LeaderboardRepository) Applied(_ context.Context, leagueID, fixtureID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.applied[boardKey{leagueID: leagueID, fixtureID: fixtureID}]
	return ok, nil
}

func (r *LeaderboardRepository) ListByLeague(_ context.Context, leagueID int64) ([]scoring.FixtureScore, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]scoring.FixtureScore, 0)
	for key, scores := range r.applied {
		if key.leagueID == leagueID {
			out = append(out, scores...)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].FixtureID != out[j].FixtureID {
			return out[i].FixtureID < out[j].FixtureID
		}
		return out[i].UserID < out[j].UserID
	})
	return out, nil
}
