package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/matchdaybot/predictions/internal/domain/fixture"
	"github.com/matchdaybot/predictions/internal/domain/league"
)

const (
	defaultUpcomingLimit = 10
	defaultResultsLimit  = 10
	maxListLimit         = 50

	// Default window for date-range listings, matching the prediction
	// overview most users want: recent results plus the next few days.
	defaultRangeLookback  = 3 * 24 * time.Hour
	defaultRangeLookahead = 5 * 24 * time.Hour
)

// FixtureService reads fixtures from the local store and falls back to the
// upstream source for fixtures not cached yet.
type FixtureService struct {
	fixtureRepo fixture.Repository
	leagueRepo  league.Repository
	source      FixtureSource
	now         func() time.Time
}

func NewFixtureService(fixtureRepo fixture.Repository, leagueRepo league.Repository, source FixtureSource) *FixtureService {
	return &FixtureService{
		fixtureRepo: fixtureRepo,
		leagueRepo:  leagueRepo,
		source:      source,
		now:         time.Now,
	}
}

// GetFixture returns the fixture from the local store, asking the source for
// it on a miss and caching the answer.
func (s *FixtureService) GetFixture(ctx context.Context, fixtureID int64) (fixture.Fixture, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FixtureService.GetFixture")
	defer span.End()

	if fixtureID <= 0 {
		return fixture.Fixture{}, fmt.Errorf("%w: fixture id must be greater than zero", ErrInvalidInput)
	}

	item, found, err := s.fixtureRepo.Get(ctx, fixtureID)
	if err != nil {
		return fixture.Fixture{}, fmt.Errorf("get fixture: %w", err)
	}
	if found {
		return item, nil
	}

	item, found, err = s.source.FixtureByID(ctx, fixtureID)
	if err != nil {
		return fixture.Fixture{}, fmt.Errorf("%w: fetch fixture %d: %v", ErrSourceUnavailable, fixtureID, err)
	}
	if !found {
		return fixture.Fixture{}, fmt.Errorf("%w: fixture=%d", ErrNotFound, fixtureID)
	}

	if err := s.fixtureRepo.Upsert(ctx, []fixture.Fixture{item}); err != nil {
		return fixture.Fixture{}, fmt.Errorf("cache fetched fixture: %w", err)
	}
	return item, nil
}

func (s *FixtureService) Upcoming(ctx context.Context, leagueID int64, limit int) ([]fixture.Fixture, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FixtureService.Upcoming")
	defer span.End()

	if err := s.ensureLeague(ctx, leagueID); err != nil {
		return nil, err
	}
	limit = clampLimit(limit, defaultUpcomingLimit)

	items, err := s.fixtureRepo.ListUpcomingByLeague(ctx, leagueID, s.now().UTC(), limit)
	if err != nil {
		return nil, fmt.Errorf("list upcoming fixtures: %w", err)
	}
	return items, nil
}

func (s *FixtureService) Results(ctx context.Context, leagueID int64, limit int) ([]fixture.Fixture, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FixtureService.Results")
	defer span.End()

	if err := s.ensureLeague(ctx, leagueID); err != nil {
		return nil, err
	}
	limit = clampLimit(limit, defaultResultsLimit)

	items, err := s.fixtureRepo.ListResultsByLeague(ctx, leagueID, limit)
	if err != nil {
		return nil, fmt.Errorf("list fixture results: %w", err)
	}
	return items, nil
}

// Between lists fixtures in [from, to). Zero bounds fall back to the default
// window around now.
func (s *FixtureService) Between(ctx context.Context, leagueID int64, from, to time.Time) ([]fixture.Fixture, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FixtureService.Between")
	defer span.End()

	if err := s.ensureLeague(ctx, leagueID); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	if from.IsZero() {
		from = now.Add(-defaultRangeLookback)
	}
	if to.IsZero() {
		to = now.Add(defaultRangeLookahead)
	}
	if !to.After(from) {
		return nil, fmt.Errorf("%w: range end must be after range start", ErrInvalidInput)
	}

	items, err := s.fixtureRepo.ListByLeagueBetween(ctx, leagueID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list fixtures between: %w", err)
	}
	return items, nil
}

// Today lists the league's fixtures for the current UTC day.
func (s *FixtureService) Today(ctx context.Context, leagueID int64) ([]fixture.Fixture, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FixtureService.Today")
	defer span.End()

	now := s.now().UTC()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return s.Between(ctx, leagueID, dayStart, dayStart.Add(24*time.Hour))
}

func (s *FixtureService) ensureLeague(ctx context.Context, leagueID int64) error {
	if leagueID <= 0 {
		return fmt.Errorf("%w: league id must be greater than zero", ErrInvalidInput)
	}
	_, found, err := s.leagueRepo.GetByID(ctx, leagueID)
	if err != nil {
		return fmt.Errorf("get league: %w", err)
	}
	if !found {
		return fmt.Errorf("%w: league=%d", ErrNotFound, leagueID)
	}
	return nil
}

func clampLimit(limit, fallback int) int {
	if limit <= 0 {
		return fallback
	}
	if limit > maxListLimit {
		return maxListLimit
	}
	return limit
}
