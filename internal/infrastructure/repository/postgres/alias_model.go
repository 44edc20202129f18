package postgres

import "time"

type aliasTableModel struct {
	Namespace string    `db:"namespace"`
	Alias     string    `db:"alias"`
	TargetID  int64     `db:"target_id"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type aliasInsertModel struct {
	Namespace string `db:"namespace"`
	Alias     string `db:"alias"`
	TargetID  int64  `db:"target_id"`
}
