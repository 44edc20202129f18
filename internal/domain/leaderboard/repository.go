package leaderboard

import (
	"context"

	"github.com/matchdaybot/predictions/internal/domain/scoring"
)

// Repository persists per-fixture score contributions. Each (league, fixture)
// pair carries an applied marker so a fixture's scores land at most once.
type Repository interface {
	// Apply records scores for a fixture if it has not been applied yet.
	// The check and the write are atomic; applied reports whether this
	// call won. A false return with a nil error means the fixture was
	// already applied by an earlier call.
	Apply(ctx context.Context, leagueID, fixtureID int64, scores []scoring.FixtureScore) (applied bool, err error)

	// Correct replaces any previously applied scores for the fixture with
	// the given set, atomically. The fixture counts as applied afterwards
	// even if it was not before.
	Correct(ctx context.Context, leagueID, fixtureID int64, scores []scoring.FixtureScore) error

	// Applied reports whether the fixture's scores have been applied.
	Applied(ctx context.Context, leagueID, fixtureID int64) (bool, error)

	// ListByLeague returns every applied score row for the league.
	ListByLeague(ctx context.Context, leagueID int64) ([]scoring.FixtureScore, error)
}
