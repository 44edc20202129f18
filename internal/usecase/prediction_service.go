package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/matchdaybot/predictions/internal/domain/fixture"
	"github.com/matchdaybot/predictions/internal/domain/prediction"
)

type fixtureGetter interface {
	GetFixture(ctx context.Context, fixtureID int64) (fixture.Fixture, error)
}

// PredictionService accepts and lists score predictions. Submission runs the
// full gate: the fixture must exist ahead of any local cache, and the window
// must still be open.
type PredictionService struct {
	predictionRepo prediction.Repository
	fixtureRepo    fixture.Repository
	fixtures       fixtureGetter
	now            func() time.Time
}

func NewPredictionService(predictionRepo prediction.Repository, fixtureRepo fixture.Repository, fixtures fixtureGetter) *PredictionService {
	return &PredictionService{
		predictionRepo: predictionRepo,
		fixtureRepo:    fixtureRepo,
		fixtures:       fixtures,
		now:            time.Now,
	}
}

// UserPrediction pairs a stored prediction with its fixture for listings.
type UserPrediction struct {
	Prediction prediction.Prediction
	Fixture    fixture.Fixture
}

// SubmitEntry is one requested prediction in a batch submission.
type SubmitEntry struct {
	FixtureID int64
	HomeGoals int
	AwayGoals int
}

// SubmitOutcome is the per-entry result of a batch submission. Err is nil
// when the entry was accepted.
type SubmitOutcome struct {
	FixtureID  int64
	Prediction prediction.Prediction
	Err        error
}

// Submit stores or replaces the user's prediction for a fixture. Replacing
// an earlier prediction is allowed any number of times while the window is
// open; the stored prediction is always the latest accepted one.
func (s *PredictionService) Submit(ctx context.Context, userID, fixtureID int64, homeGoals, awayGoals int) (prediction.Prediction, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PredictionService.Submit")
	defer span.End()

	p := prediction.Prediction{
		UserID:    userID,
		FixtureID: fixtureID,
		HomeGoals: homeGoals,
		AwayGoals: awayGoals,
	}
	if err := p.Validate(); err != nil {
		return prediction.Prediction{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	item, err := s.fixtures.GetFixture(ctx, fixtureID)
	if err != nil {
		return prediction.Prediction{}, err
	}
	if fixture.IsCancelledLikeStatus(item.Status) {
		return prediction.Prediction{}, fmt.Errorf("%w: fixture %d is %s", ErrInvalidInput, fixtureID, fixture.NormalizeStatus(item.Status))
	}
	if !item.WindowOpen(s.now().UTC()) {
		return prediction.Prediction{}, fmt.Errorf("%w: fixture %d closed at %s", ErrWindowClosed, fixtureID, item.KickoffAt.Add(-fixture.SubmissionCutoff).UTC().Format(time.RFC3339))
	}

	p.SubmittedAt = s.now().UTC()
	if err := s.predictionRepo.Upsert(ctx, p); err != nil {
		return prediction.Prediction{}, fmt.Errorf("store prediction: %w", err)
	}
	return p, nil
}

// SubmitMany applies each entry independently, mirroring Submit per entry.
// One bad fixture never blocks the rest of the batch.
func (s *PredictionService) SubmitMany(ctx context.Context, userID int64, entries []SubmitEntry) ([]SubmitOutcome, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PredictionService.SubmitMany")
	defer span.End()

	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: at least one prediction is required", ErrInvalidInput)
	}

	outcomes := make([]SubmitOutcome, 0, len(entries))
	for _, entry := range entries {
		stored, err := s.Submit(ctx, userID, entry.FixtureID, entry.HomeGoals, entry.AwayGoals)
		outcomes = append(outcomes, SubmitOutcome{
			FixtureID:  entry.FixtureID,
			Prediction: stored,
			Err:        err,
		})
	}
	return outcomes, nil
}

func (s *PredictionService) Get(ctx context.Context, userID, fixtureID int64) (prediction.Prediction, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PredictionService.Get")
	defer span.End()

	if userID <= 0 || fixtureID <= 0 {
		return prediction.Prediction{}, fmt.Errorf("%w: user id and fixture id are required", ErrInvalidInput)
	}

	item, found, err := s.predictionRepo.Get(ctx, userID, fixtureID)
	if err != nil {
		return prediction.Prediction{}, fmt.Errorf("get prediction: %w", err)
	}
	if !found {
		return prediction.Prediction{}, fmt.Errorf("%w: prediction user=%d fixture=%d", ErrNotFound, userID, fixtureID)
	}
	return item, nil
}

// ListForUser returns the user's predictions whose fixtures kick off in
// [from, to), joined with fixture details and ordered by kickoff. Zero
// bounds default to the standard window around now.
func (s *PredictionService) ListForUser(ctx context.Context, userID int64, from, to time.Time) ([]UserPrediction, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PredictionService.ListForUser")
	defer span.End()

	if userID <= 0 {
		return nil, fmt.Errorf("%w: user id must be greater than zero", ErrInvalidInput)
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

	items, err := s.predictionRepo.ListByUserBetween(ctx, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list predictions by user: %w", err)
	}

	out := make([]UserPrediction, 0, len(items))
	for _, p := range items {
		fx, found, err := s.fixtureRepo.Get(ctx, p.FixtureID)
		if err != nil {
			return nil, fmt.Errorf("get fixture for prediction: %w", err)
		}
		if !found {
			continue
		}
		out = append(out, UserPrediction{Prediction: p, Fixture: fx})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Fixture.KickoffAt.Equal(out[j].Fixture.KickoffAt) {
			return out[i].Fixture.KickoffAt.Before(out[j].Fixture.KickoffAt)
		}
		return out[i].Fixture.ID < out[j].Fixture.ID
	})
	return out, nil
}
