package usecase

import (
	"context"
	"fmt"

	"github.com/matchdaybot/predictions/internal/domain/league"
	"github.com/matchdaybot/predictions/internal/domain/team"
)

type LeagueService struct {
	leagueRepo league.Repository
	teamRepo   team.Repository
}

func NewLeagueService(leagueRepo league.Repository, teamRepo team.Repository) *LeagueService {
	return &LeagueService{
		leagueRepo: leagueRepo,
		teamRepo:   teamRepo,
	}
}

func (s *LeagueService) List(ctx context.Context) ([]league.League, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.List")
	defer span.End()

	items, err := s.leagueRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list leagues: %w", err)
	}
	return items, nil
}

func (s *LeagueService) Get(ctx context.Context, leagueID int64) (league.League, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.Get")
	defer span.End()

	if leagueID <= 0 {
		return league.League{}, fmt.Errorf("%w: league id must be greater than zero", ErrInvalidInput)
	}

	item, found, err := s.leagueRepo.GetByID(ctx, leagueID)
	if err != nil {
		return league.League{}, fmt.Errorf("get league: %w", err)
	}
	if !found {
		return league.League{}, fmt.Errorf("%w: league=%d", ErrNotFound, leagueID)
	}
	return item, nil
}

func (s *LeagueService) Teams(ctx context.Context, leagueID int64) ([]team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.Teams")
	defer span.End()

	if _, err := s.Get(ctx, leagueID); err != nil {
		return nil, err
	}

	items, err := s.teamRepo.ListByLeague(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("list teams by league: %w", err)
	}
	return items, nil
}
