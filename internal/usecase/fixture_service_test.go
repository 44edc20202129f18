package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/matchdaybot/predictions/internal/domain/fixture"
	"github.com/matchdaybot/predictions/internal/domain/league"
)

func newTestFixtureService(fixtures *stubFixtureRepository, source *stubFixtureSource) *FixtureService {
	leagues := &stubLeagueRepository{byID: map[int64]league.League{39: {ID: 39, Name: "Premier League"}}}
	service := NewFixtureService(fixtures, leagues, source)
	service.now = func() time.Time { return testNow }
	return service
}

func TestFixtureService_UpcomingRespectsLimit(t *testing.T) {
	t.Parallel()

	fixtures := newStubFixtureRepository(
		fixture.Fixture{ID: 1, LeagueID: 39, KickoffAt: testNow.Add(1 * time.Hour), Status: fixture.StatusScheduled},
		fixture.Fixture{ID: 2, LeagueID: 39, KickoffAt: testNow.Add(2 * time.Hour), Status: fixture.StatusScheduled},
		fixture.Fixture{ID: 3, LeagueID: 39, KickoffAt: testNow.Add(3 * time.Hour), Status: fixture.StatusScheduled},
		fixture.Fixture{ID: 4, LeagueID: 39, KickoffAt: testNow.Add(-1 * time.Hour), Status: fixture.StatusFinished},
	)
	service := newTestFixtureService(fixtures, newStubFixtureSource())

	got, err := service.Upcoming(context.Background(), 39, 2)
	if err != nil {
		t.Fatalf("Upcoming error: %v", err)
	}
	if len(got) != 2 || got[0].ID != 1 || got[1].ID != 2 {
		t.Fatalf("unexpected upcoming fixtures: %+v", got)
	}
}

func TestFixtureService_BetweenDefaultsAroundNow(t *testing.T) {
	t.Parallel()

	fixtures := newStubFixtureRepository(
		fixture.Fixture{ID: 1, LeagueID: 39, KickoffAt: testNow.Add(-4 * 24 * time.Hour), Status: fixture.StatusFinished},
		fixture.Fixture{ID: 2, LeagueID: 39, KickoffAt: testNow.Add(-24 * time.Hour), Status: fixture.StatusFinished},
		fixture.Fixture{ID: 3, LeagueID: 39, KickoffAt: testNow.Add(24 * time.Hour), Status: fixture.StatusScheduled},
		fixture.Fixture{ID: 4, LeagueID: 39, KickoffAt: testNow.Add(6 * 24 * time.Hour), Status: fixture.StatusScheduled},
	)
	service := newTestFixtureService(fixtures, newStubFixtureSource())

	got, err := service.Between(context.Background(), 39, time.Time{}, time.Time{})
	if err != nil {
		t.Fatalf("Between error: %v", err)
	}
	if len(got) != 2 || got[0].ID != 2 || got[1].ID != 3 {
		t.Fatalf("default window should cover -3d..+5d: %+v", got)
	}
}

func TestFixtureService_BetweenRejectsInvertedRange(t *testing.T) {
	t.Parallel()

	service := newTestFixtureService(newStubFixtureRepository(), newStubFixtureSource())

	_, err := service.Between(context.Background(), 39, testNow, testNow.Add(-time.Hour))
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestFixtureService_Today(t *testing.T) {
	t.Parallel()

	fixtures := newStubFixtureRepository(
		fixture.Fixture{ID: 1, LeagueID: 39, KickoffAt: testNow.Add(-11 * time.Hour), Status: fixture.StatusFinished},
		fixture.Fixture{ID: 2, LeagueID: 39, KickoffAt: testNow.Add(5 * time.Hour), Status: fixture.StatusScheduled},
		fixture.Fixture{ID: 3, LeagueID: 39, KickoffAt: testNow.Add(13 * time.Hour), Status: fixture.StatusScheduled},
	)
	service := newTestFixtureService(fixtures, newStubFixtureSource())

	got, err := service.Today(context.Background(), 39)
	if err != nil {
		t.Fatalf("Today error: %v", err)
	}
	if len(got) != 2 || got[0].ID != 1 || got[1].ID != 2 {
		t.Fatalf("unexpected fixtures for today: %+v", got)
	}
}

func TestFixtureService_GetFixtureCachesSourceHit(t *testing.T) {
	t.Parallel()

	source := newStubFixtureSource(fixture.Fixture{ID: 5005, LeagueID: 39, KickoffAt: testNow.Add(time.Hour), Status: fixture.StatusScheduled})
	fixtures := newStubFixtureRepository()
	service := newTestFixtureService(fixtures, source)
	ctx := context.Background()

	if _, err := service.GetFixture(ctx, 5005); err != nil {
		t.Fatalf("GetFixture error: %v", err)
	}
	if _, err := service.GetFixture(ctx, 5005); err != nil {
		t.Fatalf("GetFixture error: %v", err)
	}
	if source.fetches != 1 {
		t.Fatalf("expected one source fetch, got %d", source.fetches)
	}
}

func TestFixtureService_UnknownLeague(t *testing.T) {
	t.Parallel()

	service := newTestFixtureService(newStubFixtureRepository(), newStubFixtureSource())

	if _, err := service.Upcoming(context.Background(), 9999, 5); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
