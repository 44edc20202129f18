package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/matchdaybot/predictions/internal/infrastructure/repository/memory"
)

// BootstrapSeed loads the default leagues and league aliases into an empty
// database. A non-empty leagues table means an operator or a sync already
// populated it, so the seed backs off entirely.
func BootstrapSeed(ctx context.Context, db *sqlx.DB) error {
	var count int
	if err := db.GetContext(ctx, &count, `SELECT COUNT(1) FROM leagues`); err != nil {
		return fmt.Errorf("count leagues for bootstrap seed: %w", err)
	}
	if count > 0 {
		return nil
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, l := range memory.SeedLeagues() {
		query, args, err := sqlx.Named(`
INSERT INTO leagues (id, name, country, season)
VALUES (:id, :name, :country, :season)
ON CONFLICT (id) DO NOTHING`, map[string]any{
			"id":      l.ID,
			"name":    l.Name,
			"country": l.Country,
			"season":  l.Season,
		})
		if err != nil {
			return fmt.Errorf("bind seed league %d query: %w", l.ID, err)
		}
		query = tx.Rebind(query)
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("seed league %d: %w", l.ID, err)
		}
	}

	for _, a := range memory.SeedAliases() {
		query, args, err := sqlx.Named(`
INSERT INTO aliases (namespace, alias, target_id)
VALUES (:namespace, :alias, :target_id)
ON CONFLICT (namespace, alias) DO NOTHING`, map[string]any{
			"namespace": string(a.Namespace),
			"alias":     a.Text,
			"target_id": a.TargetID,
		})
		if err != nil {
			return fmt.Errorf("bind seed alias %q query: %w", a.Text, err)
		}
		query = tx.Rebind(query)
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("seed alias %q: %w", a.Text, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed tx: %w", err)
	}
	return nil
}
