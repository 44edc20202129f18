package postgres

import (
	"time"

	"github.com/matchdaybot/predictions/internal/domain/scoring"
)

type fixtureScoreMarkModel struct {
	LeagueID  int64     `db:"league_id"`
	FixtureID int64     `db:"fixture_id"`
	AppliedAt time.Time `db:"applied_at"`
}

type fixtureScoreTableModel struct {
	LeagueID  int64  `db:"league_id"`
	FixtureID int64  `db:"fixture_id"`
	UserID    int64  `db:"user_id"`
	Points    int    `db:"points"`
	Outcome   string `db:"outcome"`
}

type fixtureScoreInsertModel struct {
	LeagueID  int64  `db:"league_id"`
	FixtureID int64  `db:"fixture_id"`
	UserID    int64  `db:"user_id"`
	Points    int    `db:"points"`
	Outcome   string `db:"outcome"`
}

func scoreToInsertModel(score scoring.FixtureScore) fixtureScoreInsertModel {
	return fixtureScoreInsertModel{
		LeagueID:  score.LeagueID,
		FixtureID: score.FixtureID,
		UserID:    score.UserID,
		Points:    score.Points,
		Outcome:   string(score.Outcome),
	}
}

func rowToScore(row fixtureScoreTableModel) scoring.FixtureScore {
	return scoring.FixtureScore{
		LeagueID:  row.LeagueID,
		FixtureID: row.FixtureID,
		UserID:    row.UserID,
		Points:    row.Points,
		Outcome:   scoring.Outcome(row.Outcome),
	}
}
