package postgres

import (
	"database/sql"
	"time"

	"github.com/matchdaybot/predictions/internal/domain/fixture"
)

type fixtureTableModel struct {
	ID         int64         `db:"id"`
	LeagueID   int64         `db:"league_id"`
	HomeTeamID int64         `db:"home_team_id"`
	AwayTeamID int64         `db:"away_team_id"`
	HomeTeam   string        `db:"home_team"`
	AwayTeam   string        `db:"away_team"`
	KickoffAt  time.Time     `db:"kickoff_at"`
	Status     string        `db:"status"`
	HomeGoals  sql.NullInt64 `db:"home_goals"`
	AwayGoals  sql.NullInt64 `db:"away_goals"`
	CreatedAt  time.Time     `db:"created_at"`
	UpdatedAt  time.Time     `db:"updated_at"`
}

type fixtureInsertModel struct {
	ID         int64         `db:"id"`
	LeagueID   int64         `db:"league_id"`
	HomeTeamID int64         `db:"home_team_id"`
	AwayTeamID int64         `db:"away_team_id"`
	HomeTeam   string        `db:"home_team"`
	AwayTeam   string        `db:"away_team"`
	KickoffAt  time.Time     `db:"kickoff_at"`
	Status     string        `db:"status"`
	HomeGoals  sql.NullInt64 `db:"home_goals"`
	AwayGoals  sql.NullInt64 `db:"away_goals"`
}

func (m fixtureTableModel) toDomain() fixture.Fixture {
	return fixture.Fixture{
		ID:         m.ID,
		LeagueID:   m.LeagueID,
		HomeTeamID: m.HomeTeamID,
		AwayTeamID: m.AwayTeamID,
		HomeTeam:   m.HomeTeam,
		AwayTeam:   m.AwayTeam,
		KickoffAt:  m.KickoffAt.UTC(),
		Status:     m.Status,
		HomeGoals:  nullIntToPtr(m.HomeGoals),
		AwayGoals:  nullIntToPtr(m.AwayGoals),
	}
}

func fixtureToInsertModel(fx fixture.Fixture) fixtureInsertModel {
	return fixtureInsertModel{
		ID:         fx.ID,
		LeagueID:   fx.LeagueID,
		HomeTeamID: fx.HomeTeamID,
		AwayTeamID: fx.AwayTeamID,
		HomeTeam:   fx.HomeTeam,
		AwayTeam:   fx.AwayTeam,
		KickoffAt:  fx.KickoffAt.UTC(),
		Status:     fixture.NormalizeStatus(fx.Status),
		HomeGoals:  ptrToNullInt(fx.HomeGoals),
		AwayGoals:  ptrToNullInt(fx.AwayGoals),
	}
}
