package usecase

import (
	"context"
	"time"

	"github.com/matchdaybot/predictions/internal/domain/fixture"
	"github.com/matchdaybot/predictions/internal/domain/league"
	"github.com/matchdaybot/predictions/internal/domain/team"
)

// FixtureSource is the upstream football data provider. A false found flag
// means the source answered and the entity does not exist; a non-nil error
// means the source could not answer, and callers surface it as
// ErrSourceUnavailable.
type FixtureSource interface {
	Leagues(ctx context.Context) ([]league.League, error)
	TeamsByLeague(ctx context.Context, leagueID int64, season string) ([]team.Team, error)
	FixtureByID(ctx context.Context, fixtureID int64) (fixture.Fixture, bool, error)
	FixturesByLeagueBetween(ctx context.Context, leagueID int64, from, to time.Time) ([]fixture.Fixture, error)
}
