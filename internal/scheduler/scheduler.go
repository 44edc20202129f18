package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/matchdaybot/predictions/internal/domain/team"
	"github.com/matchdaybot/predictions/internal/platform/logging"
	"github.com/matchdaybot/predictions/internal/usecase"
)

// Scheduler drives the periodic fixture refresh. A short interval job keeps
// scores current during match days, and a nightly job catches anything the
// interval runs missed.
type Scheduler struct {
	s               gocron.Scheduler
	refreshService  *usecase.RefreshService
	teamRepo        team.Repository
	refreshInterval time.Duration
	logger          *logging.Logger
}

func NewScheduler(
	refreshService *usecase.RefreshService,
	teamRepo team.Repository,
	refreshInterval time.Duration,
	logger *logging.Logger,
) (*Scheduler, error) {
	if logger == nil {
		logger = logging.Default()
	}

	s, err := gocron.NewScheduler(
		gocron.WithLocation(time.UTC),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	return &Scheduler{
		s:               s,
		refreshService:  refreshService,
		teamRepo:        teamRepo,
		refreshInterval: refreshInterval,
		logger:          logger,
	}, nil
}

func (s *Scheduler) Start() error {
	// Interval refresh during the day.
	_, err := s.s.NewJob(
		gocron.DurationJob(s.refreshInterval),
		gocron.NewTask(s.runRefresh),
	)
	if err != nil {
		return fmt.Errorf("failed to create interval refresh job: %w", err)
	}

	// Nightly refresh shortly after midnight UTC.
	_, err = s.s.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(0, 5, 0))),
		gocron.NewTask(s.runRefresh),
	)
	if err != nil {
		return fmt.Errorf("failed to create nightly refresh job: %w", err)
	}

	// Weekly league and team catalog sync.
	_, err = s.s.NewJob(
		gocron.WeeklyJob(1, gocron.NewWeekdays(time.Monday), gocron.NewAtTimes(gocron.NewAtTime(3, 0, 0))),
		gocron.NewTask(s.runSyncLeagues),
	)
	if err != nil {
		return fmt.Errorf("failed to create league sync job: %w", err)
	}

	s.s.Start()
	return nil
}

func (s *Scheduler) Stop() error {
	return s.s.Shutdown()
}

func (s *Scheduler) runRefresh() {
	ctx := context.Background()

	result, err := s.refreshService.RefreshAll(ctx)
	if err != nil {
		s.logger.Error("scheduled refresh failed", "error", err)
		return
	}

	s.logger.Info("scheduled refresh finished",
		"leagues", result.LeagueCount,
		"success", result.SuccessCount,
		"failed", result.FailedCount,
	)
}

func (s *Scheduler) runSyncLeagues() {
	ctx := context.Background()

	count, err := s.refreshService.SyncLeagues(ctx, s.teamRepo)
	if err != nil {
		s.logger.Error("scheduled league sync failed", "error", err)
		return
	}

	s.logger.Info("scheduled league sync finished", "leagues", count)
}
