package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/matchdaybot/predictions/internal/domain/team"
	qb "github.com/matchdaybot/predictions/internal/platform/querybuilder"
)

type TeamRepository struct {
	db *sqlx.DB
}

func NewTeamRepository(db *sqlx.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) ListByLeague(ctx context.Context, leagueID int64) ([]team.Team, error) {
	query, args, err := qb.Select("*").From("teams").
		Where(qb.Eq("league_id", leagueID)).
		OrderBy("name", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select teams query: %w", err)
	}

	var rows []teamTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select teams by league: %w", err)
	}

	out := make([]team.Team, 0, len(rows))
	for _, row := range rows {
		out = append(out, team.Team{
			ID:       row.ID,
			LeagueID: row.LeagueID,
			Name:     row.Name,
			Short:    row.ShortName,
		})
	}
	return out, nil
}

func (r *TeamRepository) Upsert(ctx context.Context, teams []team.Team) error {
	if len(teams) == 0 {
		return nil
	}

	models := make([]teamInsertModel, 0, len(teams))
	for _, item := range teams {
		models = append(models, teamInsertModel{
			ID:        item.ID,
			LeagueID:  item.LeagueID,
			Name:      item.Name,
			ShortName: item.Short,
		})
	}

	query, args, err := qb.InsertModels("teams", models, `ON CONFLICT (id)
DO UPDATE SET
    league_id = EXCLUDED.league_id,
    name = EXCLUDED.name,
    short_name = EXCLUDED.short_name,
    updated_at = NOW()`)
	if err != nil {
		return fmt.Errorf("build upsert teams query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert teams: %w", err)
	}
	return nil
}
