package postgres

import "time"

type predictionTableModel struct {
	UserID      int64     `db:"user_id"`
	FixtureID   int64     `db:"fixture_id"`
	HomeGoals   int       `db:"home_goals"`
	AwayGoals   int       `db:"away_goals"`
	SubmittedAt time.Time `db:"submitted_at"`
}
