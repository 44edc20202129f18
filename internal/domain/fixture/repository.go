package fixture

import (
	"context"
	"time"
)

// Repository is the local fixture cache, refreshed from the upstream source.
type Repository interface {
	Upsert(ctx context.Context, fixtures []Fixture) error
	Get(ctx context.Context, fixtureID int64) (Fixture, bool, error)
	ListByLeagueBetween(ctx context.Context, leagueID int64, from, to time.Time) ([]Fixture, error)
	ListUpcomingByLeague(ctx context.Context, leagueID int64, after time.Time, limit int) ([]Fixture, error)
	ListResultsByLeague(ctx context.Context, leagueID int64, limit int) ([]Fixture, error)
	ListFinishedByLeague(ctx context.Context, leagueID int64) ([]Fixture, error)
}
