package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/matchdaybot/predictions/internal/domain/scoring"
	qb "github.com/matchdaybot/predictions/internal/platform/querybuilder"
)

// LeaderboardRepository stores applied fixture scores. The
// fixture_score_marks row is the idempotency gate: inserting it with
// DO NOTHING decides atomically which caller applies a fixture.
type LeaderboardRepository struct {
	db *sqlx.DB
}

func NewLeaderboardRepository(db *sqlx.DB) *LeaderboardRepository {
	return &LeaderboardRepository{db: db}
}

func (r *LeaderboardRepository) Apply(ctx context.Context, leagueID, fixtureID int64, scores []scoring.FixtureScore) (bool, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin apply scores tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	markQuery, markArgs, err := qb.InsertInto("fixture_score_marks").
		Columns("league_id", "fixture_id").
		Values(leagueID, fixtureID).
		Suffix("ON CONFLICT (league_id, fixture_id) DO NOTHING").
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build insert score mark query: %w", err)
	}

	result, err := tx.ExecContext(ctx, markQuery, markArgs...)
	if err != nil {
		return false, fmt.Errorf("insert score mark: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("score mark rows affected: %w", err)
	}
	if affected == 0 {
		return false, nil
	}

	if err := insertScores(ctx, tx, scores); err != nil {
		return false, err
	}
	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit apply scores tx: %w", err)
	}
	return true, nil
}

func (r *LeaderboardRepository) Correct(ctx context.Context, leagueID, fixtureID int64, scores []scoring.FixtureScore) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin correct scores tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	markQuery, markArgs, err := qb.InsertInto("fixture_score_marks").
		Columns("league_id", "fixture_id").
		Values(leagueID, fixtureID).
		Suffix("ON CONFLICT (league_id, fixture_id) DO UPDATE SET applied_at = NOW()").
		ToSQL()
	if err != nil {
		return fmt.Errorf("build upsert score mark query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, markQuery, markArgs...); err != nil {
		return fmt.Errorf("upsert score mark: %w", err)
	}

	deleteQuery, deleteArgs, err := qb.DeleteFrom("fixture_scores").
		Where(
			qb.Eq("league_id", leagueID),
			qb.Eq("fixture_id", fixtureID),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete fixture scores query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, deleteQuery, deleteArgs...); err != nil {
		return fmt.Errorf("delete fixture scores: %w", err)
	}

	if err := insertScores(ctx, tx, scores); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit correct scores tx: %w", err)
	}
	return nil
}

func (r *LeaderboardRepository) Applied(ctx context.Context, leagueID, fixtureID int64) (bool, error) {
	query, args, err := qb.Select("1").From("fixture_score_marks").
		Where(
			qb.Eq("league_id", leagueID),
			qb.Eq("fixture_id", fixtureID),
		).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build get score mark query: %w", err)
	}

	var one int
	if err := r.db.GetContext(ctx, &one, query, args...); err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("get score mark: %w", err)
	}
	return true, nil
}

func (r *LeaderboardRepository) ListByLeague(ctx context.Context, leagueID int64) ([]scoring.FixtureScore, error) {
	query, args, err := qb.Select("*").From("fixture_scores").
		Where(qb.Eq("league_id", leagueID)).
		OrderBy("fixture_id", "user_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select fixture scores query: %w", err)
	}

	var rows []fixtureScoreTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select fixture scores: %w", err)
	}

	out := make([]scoring.FixtureScore, 0, len(rows))
	for _, row := range rows {
		out = append(out, rowToScore(row))
	}
	return out, nil
}

func insertScores(ctx context.Context, tx *sqlx.Tx, scores []scoring.FixtureScore) error {
	if len(scores) == 0 {
		return nil
	}

	models := make([]fixtureScoreInsertModel, 0, len(scores))
	for _, score := range scores {
		models = append(models, scoreToInsertModel(score))
	}

	query, args, err := qb.InsertModels("fixture_scores", models, "")
	if err != nil {
		return fmt.Errorf("build insert fixture scores query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert fixture scores: %w", err)
	}
	return nil
}
