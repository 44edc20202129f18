package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/matchdaybot/predictions/internal/domain/alias"
	qb "github.com/matchdaybot/predictions/internal/platform/querybuilder"
)

type AliasRepository struct {
	db *sqlx.DB
}

func NewAliasRepository(db *sqlx.DB) *AliasRepository {
	return &AliasRepository{db: db}
}

// Set upserts on the (namespace, alias) primary key. xmax is nonzero only
// when the row existed before, which is exactly the replaced flag.
func (r *AliasRepository) Set(ctx context.Context, a alias.Alias) (bool, error) {
	model := aliasInsertModel{
		Namespace: string(a.Namespace),
		Alias:     a.Text,
		TargetID:  a.TargetID,
	}

	query, args, err := qb.InsertModel("aliases", model, `ON CONFLICT (namespace, alias)
DO UPDATE SET
    target_id = EXCLUDED.target_id,
    updated_at = NOW()
RETURNING (xmax <> 0) AS replaced`)
	if err != nil {
		return false, fmt.Errorf("build upsert alias query: %w", err)
	}

	var replaced bool
	if err := r.db.GetContext(ctx, &replaced, query, args...); err != nil {
		return false, fmt.Errorf("upsert alias: %w", err)
	}
	return replaced, nil
}

func (r *AliasRepository) Get(ctx context.Context, ns alias.Namespace, text string) (alias.Alias, bool, error) {
	query, args, err := qb.Select("*").From("aliases").
		Where(
			qb.Eq("namespace", string(ns)),
			qb.Eq("alias", text),
		).
		ToSQL()
	if err != nil {
		return alias.Alias{}, false, fmt.Errorf("build get alias query: %w", err)
	}

	var row aliasTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return alias.Alias{}, false, nil
		}
		return alias.Alias{}, false, fmt.Errorf("get alias: %w", err)
	}
	return rowToAlias(row), true, nil
}

func (r *AliasRepository) Delete(ctx context.Context, ns alias.Namespace, text string) (bool, error) {
	query, args, err := qb.DeleteFrom("aliases").
		Where(
			qb.Eq("namespace", string(ns)),
			qb.Eq("alias", text),
		).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build delete alias query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("delete alias: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete alias rows affected: %w", err)
	}
	return affected > 0, nil
}

func (r *AliasRepository) ListByTarget(ctx context.Context, ns alias.Namespace, targetID int64) ([]alias.Alias, error) {
	query, args, err := qb.Select("*").From("aliases").
		Where(
			qb.Eq("namespace", string(ns)),
			qb.Eq("target_id", targetID),
		).
		OrderBy("alias").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select aliases by target query: %w", err)
	}
	return r.selectAliases(ctx, query, args)
}

func (r *AliasRepository) ListByNamespace(ctx context.Context, ns alias.Namespace) ([]alias.Alias, error) {
	query, args, err := qb.Select("*").From("aliases").
		Where(qb.Eq("namespace", string(ns))).
		OrderBy("alias").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select aliases by namespace query: %w", err)
	}
	return r.selectAliases(ctx, query, args)
}

func (r *AliasRepository) selectAliases(ctx context.Context, query string, args []any) ([]alias.Alias, error) {
	var rows []aliasTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select aliases: %w", err)
	}

	out := make([]alias.Alias, 0, len(rows))
	for _, row := range rows {
		out = append(out, rowToAlias(row))
	}
	return out, nil
}

func rowToAlias(row aliasTableModel) alias.Alias {
	return alias.Alias{
		Namespace: alias.Namespace(row.Namespace),
		Text:      row.Alias,
		TargetID:  row.TargetID,
	}
}
