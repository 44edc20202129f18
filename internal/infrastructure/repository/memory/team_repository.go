package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/matchdaybot/predictions/internal/domain/team"
)

type TeamRepository struct {
	mu    sync.RWMutex
	items map[int64]team.Team
}

func NewTeamRepository(teams []team.Team) *TeamRepository {
	items := make(map[int64]team.Team, len(teams))
	for _, t := range teams {
		items[t.ID] = t
	}
	return &TeamRepository{items: items}
}

func (r *TeamRepository) ListByLeague(_ context.Context, leagueID int64) ([]team.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]team.Team, 0)
	for _, t := range r.items {
		if t.LeagueID == leagueID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *TeamRepository) Upsert(_ context.Context, teams []team.Team) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, t := range teams {
		r.items[t.ID] = t
	}
	return nil
}
