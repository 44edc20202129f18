package team

import "context"

type Repository interface {
	ListByLeague(ctx context.Context, leagueID int64) ([]Team, error)
	Upsert(ctx context.Context, teams []Team) error
}
