// Package memory holds mutex-guarded in-memory repositories, used for local
// development and tests without a database.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/matchdaybot/predictions/internal/domain/league"
)

type LeagueRepository struct {
	mu    sync.RWMutex
	items map[int64]league.League
}

func NewLeagueRepository(leagues []league.League) *LeagueRepository {
	items := make(map[int64]league.League, len(leagues))
	for _, l := range leagues {
		items[l.ID] = l
	}
	return &LeagueRepository{items: items}
}

func (r *LeagueRepository) List(_ context.Context) ([]league.League, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]league.League, 0, len(r.items))
	for _, l := range r.items {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *LeagueRepository) GetByID(_ context.Context, leagueID int64) (league.League, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	l, ok := r.items[leagueID]
	return l, ok, nil
}

func (r *LeagueRepository) Upsert(_ context.Context, leagues []league.League) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, l := range leagues {
		r.items[l.ID] = l
	}
	return nil
}
