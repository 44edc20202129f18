package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/matchdaybot/predictions/internal/domain/fixture"
	"github.com/matchdaybot/predictions/internal/domain/league"
	"github.com/matchdaybot/predictions/internal/domain/team"
	"github.com/matchdaybot/predictions/internal/platform/logging"
)

type teamWriter interface {
	Upsert(ctx context.Context, teams []team.Team) error
}

const defaultRefreshWorkers = 4

// Default refresh horizon: far enough back to catch late final scores, far
// enough forward to warm the cache for upcoming prediction windows.
const (
	refreshLookback  = 7 * 24 * time.Hour
	refreshLookahead = 7 * 24 * time.Hour
)

// RefreshService pulls fixtures from the upstream source into the local
// store and scores any newly finished ones. It runs on a schedule and on
// demand through the internal job endpoint.
type RefreshService struct {
	leagueRepo  league.Repository
	fixtureRepo fixture.Repository
	source      FixtureSource
	scoring     *ScoringService
	logger      *logging.Logger
	maxWorkers  int
	now         func() time.Time
}

func NewRefreshService(
	leagueRepo league.Repository,
	fixtureRepo fixture.Repository,
	source FixtureSource,
	scoring *ScoringService,
	logger *logging.Logger,
	maxWorkers int,
) *RefreshService {
	if logger == nil {
		logger = logging.Default()
	}
	if maxWorkers < 1 {
		maxWorkers = defaultRefreshWorkers
	}
	return &RefreshService{
		leagueRepo:  leagueRepo,
		fixtureRepo: fixtureRepo,
		source:      source,
		scoring:     scoring,
		logger:      logger,
		maxWorkers:  maxWorkers,
		now:         time.Now,
	}
}

// RefreshLeagueResult reports one league's refresh run.
type RefreshLeagueResult struct {
	LeagueID       int64  `json:"league_id"`
	Fixtures       int    `json:"fixtures"`
	ScoredFixtures int    `json:"scored_fixtures"`
	Status         string `json:"status"`
	Message        string `json:"message,omitempty"`
}

// RefreshResult reports a whole refresh run across leagues.
type RefreshResult struct {
	LeagueCount  int                   `json:"league_count"`
	SuccessCount int                   `json:"success_count"`
	FailedCount  int                   `json:"failed_count"`
	Leagues      []RefreshLeagueResult `json:"leagues"`
}

// RefreshAll refreshes every known league, fanning out across a bounded
// worker pool. Individual league failures are recorded per league and do
// not abort the run.
func (s *RefreshService) RefreshAll(ctx context.Context) (RefreshResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RefreshService.RefreshAll")
	defer span.End()

	leagues, err := s.leagueRepo.List(ctx)
	if err != nil {
		return RefreshResult{}, fmt.Errorf("list leagues: %w", err)
	}
	if len(leagues) == 0 {
		return RefreshResult{}, nil
	}

	workerCount := s.maxWorkers
	if workerCount > len(leagues) {
		workerCount = len(leagues)
	}
	pool, err := ants.NewPool(workerCount)
	if err != nil {
		return RefreshResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var successCount, failedCount atomic.Int64
	results := make(chan RefreshLeagueResult, len(leagues))

	var workers sync.WaitGroup
	for _, item := range leagues {
		item := item
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			row := RefreshLeagueResult{LeagueID: item.ID, Status: "success"}
			fixtures, scored, runErr := s.RefreshLeague(ctx, item.ID)
			row.Fixtures = fixtures
			row.ScoredFixtures = scored
			if runErr != nil {
				row.Status = "failed"
				row.Message = runErr.Error()
				failedCount.Add(1)
			} else {
				successCount.Add(1)
			}

			results <- row
		}); err != nil {
			workers.Done()
			return RefreshResult{}, fmt.Errorf("submit refresh to worker pool: %w", err)
		}
	}

	workers.Wait()
	close(results)

	result := RefreshResult{LeagueCount: len(leagues)}
	for row := range results {
		result.Leagues = append(result.Leagues, row)
	}
	sort.SliceStable(result.Leagues, func(i, j int) bool {
		return result.Leagues[i].LeagueID < result.Leagues[j].LeagueID
	})

	result.SuccessCount = int(successCount.Load())
	result.FailedCount = int(failedCount.Load())
	return result, nil
}

// RefreshLeague pulls the league's fixtures around now into the local store,
// then scores finished fixtures that have not been applied yet.
func (s *RefreshService) RefreshLeague(ctx context.Context, leagueID int64) (fixtures, scored int, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RefreshService.RefreshLeague")
	defer span.End()

	if leagueID <= 0 {
		return 0, 0, fmt.Errorf("%w: league id must be greater than zero", ErrInvalidInput)
	}

	now := s.now().UTC()
	items, err := s.source.FixturesByLeagueBetween(ctx, leagueID, now.Add(-refreshLookback), now.Add(refreshLookahead))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: fetch fixtures league=%d: %v", ErrSourceUnavailable, leagueID, err)
	}
	if len(items) > 0 {
		if err := s.fixtureRepo.Upsert(ctx, items); err != nil {
			return 0, 0, fmt.Errorf("store fixtures: %w", err)
		}
	}

	scored, err = s.scoreFinished(ctx, items)
	if err != nil {
		return len(items), scored, err
	}

	s.logger.InfoContext(ctx, "league refreshed",
		"league_id", leagueID,
		"fixtures", len(items),
		"scored_fixtures", scored,
	)
	return len(items), scored, nil
}

// SyncLeagues pulls the league and team catalog from the source. It runs far
// less often than fixture refreshes because the catalog barely changes.
func (s *RefreshService) SyncLeagues(ctx context.Context, teamRepo teamWriter) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RefreshService.SyncLeagues")
	defer span.End()

	leagues, err := s.source.Leagues(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: fetch leagues: %v", ErrSourceUnavailable, err)
	}
	if len(leagues) == 0 {
		return 0, nil
	}
	if err := s.leagueRepo.Upsert(ctx, leagues); err != nil {
		return 0, fmt.Errorf("store leagues: %w", err)
	}

	for _, item := range leagues {
		teams, err := s.source.TeamsByLeague(ctx, item.ID, item.Season)
		if err != nil {
			s.logger.WarnContext(ctx, "team sync failed", "league_id", item.ID, "error", err)
			continue
		}
		if len(teams) == 0 {
			continue
		}
		if err := teamRepo.Upsert(ctx, teams); err != nil {
			return len(leagues), fmt.Errorf("store teams: %w", err)
		}
	}
	return len(leagues), nil
}

func (s *RefreshService) scoreFinished(ctx context.Context, fixtures []fixture.Fixture) (int, error) {
	scored := 0
	for _, fx := range fixtures {
		if !fx.IsFinished() {
			continue
		}
		if _, err := s.scoring.ScoreFixture(ctx, fx.ID); err != nil {
			if errors.Is(err, ErrAlreadyScored) {
				continue
			}
			return scored, fmt.Errorf("score fixture %d: %w", fx.ID, err)
		}
		scored++
	}
	return scored, nil
}
