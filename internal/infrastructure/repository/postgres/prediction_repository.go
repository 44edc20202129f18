package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/matchdaybot/predictions/internal/domain/prediction"
	qb "github.com/matchdaybot/predictions/internal/platform/querybuilder"
)

type PredictionRepository struct {
	db *sqlx.DB
}

func NewPredictionRepository(db *sqlx.DB) *PredictionRepository {
	return &PredictionRepository{db: db}
}

// Upsert relies on the (user_id, fixture_id) primary key: concurrent
// submissions serialize on the row and the last commit wins whole.
func (r *PredictionRepository) Upsert(ctx context.Context, p prediction.Prediction) error {
	model := predictionTableModel{
		UserID:      p.UserID,
		FixtureID:   p.FixtureID,
		HomeGoals:   p.HomeGoals,
		AwayGoals:   p.AwayGoals,
		SubmittedAt: p.SubmittedAt.UTC(),
	}

	query, args, err := qb.InsertModel("predictions", model, `ON CONFLICT (user_id, fixture_id)
DO UPDATE SET
    home_goals = EXCLUDED.home_goals,
    away_goals = EXCLUDED.away_goals,
    submitted_at = EXCLUDED.submitted_at`)
	if err != nil {
		return fmt.Errorf("build upsert prediction query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert prediction: %w", err)
	}
	return nil
}

func (r *PredictionRepository) Get(ctx context.Context, userID, fixtureID int64) (prediction.Prediction, bool, error) {
	query, args, err := qb.Select("*").From("predictions").
		Where(
			qb.Eq("user_id", userID),
			qb.Eq("fixture_id", fixtureID),
		).
		ToSQL()
	if err != nil {
		return prediction.Prediction{}, false, fmt.Errorf("build get prediction query: %w", err)
	}

	var row predictionTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return prediction.Prediction{}, false, nil
		}
		return prediction.Prediction{}, false, fmt.Errorf("get prediction: %w", err)
	}
	return rowToPrediction(row), true, nil
}

func (r *PredictionRepository) ListByFixture(ctx context.Context, fixtureID int64) ([]prediction.Prediction, error) {
	query, args, err := qb.Select("*").From("predictions").
		Where(qb.Eq("fixture_id", fixtureID)).
		OrderBy("user_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select predictions by fixture query: %w", err)
	}
	return r.selectPredictions(ctx, query, args)
}

// ListByUserBetween filters on the fixture's kickoff, not the submission
// time, so the result matches the fixture listings it is shown next to.
func (r *PredictionRepository) ListByUserBetween(ctx context.Context, userID int64, from, to time.Time) ([]prediction.Prediction, error) {
	query, args, err := qb.Select("p.*").From("predictions p JOIN fixtures f ON f.id = p.fixture_id").
		Where(
			qb.Eq("p.user_id", userID),
			qb.Gte("f.kickoff_at", from.UTC()),
			qb.Lt("f.kickoff_at", to.UTC()),
		).
		OrderBy("f.kickoff_at", "p.fixture_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select predictions by user query: %w", err)
	}
	return r.selectPredictions(ctx, query, args)
}

func (r *PredictionRepository) selectPredictions(ctx context.Context, query string, args []any) ([]prediction.Prediction, error) {
	var rows []predictionTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select predictions: %w", err)
	}

	out := make([]prediction.Prediction, 0, len(rows))
	for _, row := range rows {
		out = append(out, rowToPrediction(row))
	}
	return out, nil
}

func rowToPrediction(row predictionTableModel) prediction.Prediction {
	return prediction.Prediction{
		UserID:      row.UserID,
		FixtureID:   row.FixtureID,
		HomeGoals:   row.HomeGoals,
		AwayGoals:   row.AwayGoals,
		SubmittedAt: row.SubmittedAt.UTC(),
	}
}
