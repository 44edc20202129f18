package postgres

import "time"

type leagueTableModel struct {
	ID        int64     `db:"id"`
	Name      string    `db:"name"`
	Country   string    `db:"country"`
	Season    string    `db:"season"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type leagueInsertModel struct {
	ID      int64  `db:"id"`
	Name    string `db:"name"`
	Country string `db:"country"`
	Season  string `db:"season"`
}
