package cached

import (
	"context"
	"fmt"
	"time"

	"github.com/matchdaybot/predictions/internal/domain/fixture"
	"github.com/matchdaybot/predictions/internal/domain/league"
	"github.com/matchdaybot/predictions/internal/domain/team"
	"github.com/matchdaybot/predictions/internal/platform/cache"
)

type fixtureSource interface {
	Leagues(ctx context.Context) ([]league.League, error)
	TeamsByLeague(ctx context.Context, leagueID int64, season string) ([]team.Team, error)
	FixtureByID(ctx context.Context, fixtureID int64) (fixture.Fixture, bool, error)
	FixturesByLeagueBetween(ctx context.Context, leagueID int64, from, to time.Time) ([]fixture.Fixture, error)
}

type fixtureLookup struct {
	item  fixture.Fixture
	found bool
}

// Source caches provider reads for a short TTL. The provider meters by
// request, so repeated lookups inside one refresh or chat burst should hit
// the provider once. Errors are never cached.
type Source struct {
	inner fixtureSource
	store *cache.Store
}

func NewSource(inner fixtureSource, store *cache.Store) *Source {
	return &Source{
		inner: inner,
		store: store,
	}
}

func (s *Source) Leagues(ctx context.Context) ([]league.League, error) {
	value, err := s.store.GetOrLoad(ctx, "source:leagues", func(ctx context.Context) (any, error) {
		return s.inner.Leagues(ctx)
	})
	if err != nil {
		return nil, err
	}
	return value.([]league.League), nil
}

func (s *Source) TeamsByLeague(ctx context.Context, leagueID int64, season string) ([]team.Team, error) {
	key := fmt.Sprintf("source:teams:%d:%s", leagueID, season)
	value, err := s.store.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		return s.inner.TeamsByLeague(ctx, leagueID, season)
	})
	if err != nil {
		return nil, err
	}
	return value.([]team.Team), nil
}

func (s *Source) FixtureByID(ctx context.Context, fixtureID int64) (fixture.Fixture, bool, error) {
	key := fmt.Sprintf("source:fixture:%d", fixtureID)
	value, err := s.store.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, found, err := s.inner.FixtureByID(ctx, fixtureID)
		if err != nil {
			return nil, err
		}
		return fixtureLookup{item: item, found: found}, nil
	})
	if err != nil {
		return fixture.Fixture{}, false, err
	}

	lookup := value.(fixtureLookup)
	return lookup.item, lookup.found, nil
}

func (s *Source) FixturesByLeagueBetween(ctx context.Context, leagueID int64, from, to time.Time) ([]fixture.Fixture, error) {
	key := fmt.Sprintf("source:fixtures:%d:%d:%d", leagueID, from.UTC().Unix(), to.UTC().Unix())
	value, err := s.store.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		return s.inner.FixturesByLeagueBetween(ctx, leagueID, from, to)
	})
	if err != nil {
		return nil, err
	}
	return value.([]fixture.Fixture), nil
}
