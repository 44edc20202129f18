package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/matchdaybot/predictions/internal/domain/league"
	qb "github.com/matchdaybot/predictions/internal/platform/querybuilder"
)

type LeagueRepository struct {
	db *sqlx.DB
}

func NewLeagueRepository(db *sqlx.DB) *LeagueRepository {
	return &LeagueRepository{db: db}
}

func (r *LeagueRepository) List(ctx context.Context) ([]league.League, error) {
	query, args, err := qb.Select("*").From("leagues").
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select leagues query: %w", err)
	}

	var rows []leagueTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select leagues: %w", err)
	}

	out := make([]league.League, 0, len(rows))
	for _, row := range rows {
		out = append(out, league.League{
			ID:      row.ID,
			Name:    row.Name,
			Country: row.Country,
			Season:  row.Season,
		})
	}
	return out, nil
}

func (r *LeagueRepository) GetByID(ctx context.Context, leagueID int64) (league.League, bool, error) {
	query, args, err := qb.Select("*").From("leagues").
		Where(qb.Eq("id", leagueID)).
		ToSQL()
	if err != nil {
		return league.League{}, false, fmt.Errorf("build get league by id query: %w", err)
	}

	var row leagueTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return league.League{}, false, nil
		}
		return league.League{}, false, fmt.Errorf("get league by id: %w", err)
	}

	return league.League{
		ID:      row.ID,
		Name:    row.Name,
		Country: row.Country,
		Season:  row.Season,
	}, true, nil
}

func (r *LeagueRepository) Upsert(ctx context.Context, leagues []league.League) error {
	if len(leagues) == 0 {
		return nil
	}

	models := make([]leagueInsertModel, 0, len(leagues))
	for _, item := range leagues {
		models = append(models, leagueInsertModel{
			ID:      item.ID,
			Name:    item.Name,
			Country: item.Country,
			Season:  item.Season,
		})
	}

	query, args, err := qb.InsertModels("leagues", models, `ON CONFLICT (id)
DO UPDATE SET
    name = EXCLUDED.name,
    country = EXCLUDED.country,
    season = EXCLUDED.season,
    updated_at = NOW()`)
	if err != nil {
		return fmt.Errorf("build upsert leagues query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert leagues: %w", err)
	}
	return nil
}
