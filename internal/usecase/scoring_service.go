package usecase

import (
	"context"
	"fmt"
	"strconv"

	"github.com/matchdaybot/predictions/internal/domain/fixture"
	"github.com/matchdaybot/predictions/internal/domain/leaderboard"
	"github.com/matchdaybot/predictions/internal/domain/prediction"
	"github.com/matchdaybot/predictions/internal/domain/scoring"
	"github.com/matchdaybot/predictions/internal/platform/resilience"
)

// ScoringService awards points for finished fixtures. A fixture's scores are
// applied at most once; repeat requests fail with ErrAlreadyScored and the
// only way past the marker is the explicit correction path.
type ScoringService struct {
	fixtureRepo    fixture.Repository
	predictionRepo prediction.Repository
	boardRepo      leaderboard.Repository
	fixtures       fixtureGetter
	scoreFlight    resilience.SingleFlight
}

func NewScoringService(
	fixtureRepo fixture.Repository,
	predictionRepo prediction.Repository,
	boardRepo leaderboard.Repository,
	fixtures fixtureGetter,
) *ScoringService {
	return &ScoringService{
		fixtureRepo:    fixtureRepo,
		predictionRepo: predictionRepo,
		boardRepo:      boardRepo,
		fixtures:       fixtures,
	}
}

// ScoreReport summarizes one applied scoring run.
type ScoreReport struct {
	LeagueID  int64
	FixtureID int64
	HomeGoals int
	AwayGoals int
	Scores    []scoring.FixtureScore
}

// ScoreFixture awards points for a finished fixture. Concurrent calls for
// the same fixture collapse into one run; exactly one caller applies, the
// rest get ErrAlreadyScored.
func (s *ScoringService) ScoreFixture(ctx context.Context, fixtureID int64) (ScoreReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoringService.ScoreFixture")
	defer span.End()

	if fixtureID <= 0 {
		return ScoreReport{}, fmt.Errorf("%w: fixture id must be greater than zero", ErrInvalidInput)
	}

	key := "scoring:fixture:" + strconv.FormatInt(fixtureID, 10)
	value, err, shared := s.scoreFlight.Do(key, func() (any, error) {
		return s.scoreFixtureOnce(ctx, fixtureID)
	})
	if err != nil {
		return ScoreReport{}, err
	}

	if shared {
		return ScoreReport{}, fmt.Errorf("%w: fixture=%d", ErrAlreadyScored, fixtureID)
	}
	return value.(ScoreReport), nil
}

func (s *ScoringService) scoreFixtureOnce(ctx context.Context, fixtureID int64) (ScoreReport, error) {
	fx, err := s.fixtures.GetFixture(ctx, fixtureID)
	if err != nil {
		return ScoreReport{}, err
	}
	if !fx.IsFinished() {
		return ScoreReport{}, fmt.Errorf("%w: fixture=%d status=%s", ErrNotFinished, fixtureID, fixture.NormalizeStatus(fx.Status))
	}

	applied, err := s.boardRepo.Applied(ctx, fx.LeagueID, fx.ID)
	if err != nil {
		return ScoreReport{}, fmt.Errorf("check applied marker: %w", err)
	}
	if applied {
		return ScoreReport{}, fmt.Errorf("%w: fixture=%d", ErrAlreadyScored, fixtureID)
	}

	scores, err := s.computeScores(ctx, fx)
	if err != nil {
		return ScoreReport{}, err
	}

	won, err := s.boardRepo.Apply(ctx, fx.LeagueID, fx.ID, scores)
	if err != nil {
		return ScoreReport{}, fmt.Errorf("apply fixture scores: %w", err)
	}
	if !won {
		return ScoreReport{}, fmt.Errorf("%w: fixture=%d", ErrAlreadyScored, fixtureID)
	}

	return ScoreReport{
		LeagueID:  fx.LeagueID,
		FixtureID: fx.ID,
		HomeGoals: *fx.HomeGoals,
		AwayGoals: *fx.AwayGoals,
		Scores:    scores,
	}, nil
}

// RescoreFixture is the correction path. It overwrites the fixture's stored
// result with the given score and replaces all previously applied points in
// one atomic swap. Use it only when the upstream result was wrong.
func (s *ScoringService) RescoreFixture(ctx context.Context, fixtureID int64, homeGoals, awayGoals int) (ScoreReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoringService.RescoreFixture")
	defer span.End()

	if fixtureID <= 0 {
		return ScoreReport{}, fmt.Errorf("%w: fixture id must be greater than zero", ErrInvalidInput)
	}
	if homeGoals < 0 || awayGoals < 0 {
		return ScoreReport{}, fmt.Errorf("%w: goals cannot be negative", ErrInvalidInput)
	}

	fx, err := s.fixtures.GetFixture(ctx, fixtureID)
	if err != nil {
		return ScoreReport{}, err
	}

	fx.Status = fixture.StatusFinished
	fx.HomeGoals = &homeGoals
	fx.AwayGoals = &awayGoals
	if err := s.fixtureRepo.Upsert(ctx, []fixture.Fixture{fx}); err != nil {
		return ScoreReport{}, fmt.Errorf("store corrected result: %w", err)
	}

	scores, err := s.computeScores(ctx, fx)
	if err != nil {
		return ScoreReport{}, err
	}
	if err := s.boardRepo.Correct(ctx, fx.LeagueID, fx.ID, scores); err != nil {
		return ScoreReport{}, fmt.Errorf("correct fixture scores: %w", err)
	}

	return ScoreReport{
		LeagueID:  fx.LeagueID,
		FixtureID: fx.ID,
		HomeGoals: homeGoals,
		AwayGoals: awayGoals,
		Scores:    scores,
	}, nil
}

func (s *ScoringService) computeScores(ctx context.Context, fx fixture.Fixture) ([]scoring.FixtureScore, error) {
	predictions, err := s.predictionRepo.ListByFixture(ctx, fx.ID)
	if err != nil {
		return nil, fmt.Errorf("list predictions by fixture: %w", err)
	}

	scores := make([]scoring.FixtureScore, 0, len(predictions))
	for _, p := range predictions {
		outcome := scoring.Classify(*fx.HomeGoals, *fx.AwayGoals, p.HomeGoals, p.AwayGoals)
		scores = append(scores, scoring.FixtureScore{
			LeagueID:  fx.LeagueID,
			FixtureID: fx.ID,
			UserID:    p.UserID,
			Points:    outcome.Points(),
			Outcome:   outcome,
		})
	}
	return scores, nil
}
