package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/matchdaybot/predictions/internal/domain/fixture"
	qb "github.com/matchdaybot/predictions/internal/platform/querybuilder"
)

// Finished-status codes as stored. Upserts normalize provider codes first,
// but rows written before normalization may still carry raw codes.
var finishedStatusValues = []any{fixture.StatusFinished, "FT", "AET", "PEN"}

type FixtureRepository struct {
	db *sqlx.DB
}

func NewFixtureRepository(db *sqlx.DB) *FixtureRepository {
	return &FixtureRepository{db: db}
}

func (r *FixtureRepository) Upsert(ctx context.Context, fixtures []fixture.Fixture) error {
	if len(fixtures) == 0 {
		return nil
	}

	models := make([]fixtureInsertModel, 0, len(fixtures))
	for _, fx := range fixtures {
		models = append(models, fixtureToInsertModel(fx))
	}

	query, args, err := qb.InsertModels("fixtures", models, `ON CONFLICT (id)
DO UPDATE SET
    league_id = EXCLUDED.league_id,
    home_team_id = EXCLUDED.home_team_id,
    away_team_id = EXCLUDED.away_team_id,
    home_team = EXCLUDED.home_team,
    away_team = EXCLUDED.away_team,
    kickoff_at = EXCLUDED.kickoff_at,
    status = EXCLUDED.status,
    home_goals = EXCLUDED.home_goals,
    away_goals = EXCLUDED.away_goals,
    updated_at = NOW()`)
	if err != nil {
		return fmt.Errorf("build upsert fixtures query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert fixtures: %w", err)
	}
	return nil
}

func (r *FixtureRepository) Get(ctx context.Context, fixtureID int64) (fixture.Fixture, bool, error) {
	query, args, err := qb.Select("*").From("fixtures").
		Where(qb.Eq("id", fixtureID)).
		ToSQL()
	if err != nil {
		return fixture.Fixture{}, false, fmt.Errorf("build get fixture query: %w", err)
	}

	var row fixtureTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return fixture.Fixture{}, false, nil
		}
		return fixture.Fixture{}, false, fmt.Errorf("get fixture: %w", err)
	}
	return row.toDomain(), true, nil
}

func (r *FixtureRepository) ListByLeagueBetween(ctx context.Context, leagueID int64, from, to time.Time) ([]fixture.Fixture, error) {
	query, args, err := qb.Select("*").From("fixtures").
		Where(
			qb.Eq("league_id", leagueID),
			qb.Gte("kickoff_at", from.UTC()),
			qb.Lt("kickoff_at", to.UTC()),
		).
		OrderBy("kickoff_at", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select fixtures between query: %w", err)
	}
	return r.selectFixtures(ctx, query, args)
}

func (r *FixtureRepository) ListUpcomingByLeague(ctx context.Context, leagueID int64, after time.Time, limit int) ([]fixture.Fixture, error) {
	query, args, err := qb.Select("*").From("fixtures").
		Where(
			qb.Eq("league_id", leagueID),
			qb.Gt("kickoff_at", after.UTC()),
		).
		OrderBy("kickoff_at", "id").
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select upcoming fixtures query: %w", err)
	}
	return r.selectFixtures(ctx, query, args)
}

func (r *FixtureRepository) ListResultsByLeague(ctx context.Context, leagueID int64, limit int) ([]fixture.Fixture, error) {
	query, args, err := qb.Select("*").From("fixtures").
		Where(
			qb.Eq("league_id", leagueID),
			qb.In("status", finishedStatusValues),
		).
		OrderBy("kickoff_at DESC", "id DESC").
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select fixture results query: %w", err)
	}
	return r.selectFixtures(ctx, query, args)
}

func (r *FixtureRepository) ListFinishedByLeague(ctx context.Context, leagueID int64) ([]fixture.Fixture, error) {
	query, args, err := qb.Select("*").From("fixtures").
		Where(
			qb.Eq("league_id", leagueID),
			qb.In("status", finishedStatusValues),
		).
		OrderBy("kickoff_at", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select finished fixtures query: %w", err)
	}
	return r.selectFixtures(ctx, query, args)
}

func (r *FixtureRepository) selectFixtures(ctx context.Context, query string, args []any) ([]fixture.Fixture, error) {
	var rows []fixtureTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select fixtures: %w", err)
	}

	out := make([]fixture.Fixture, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}
