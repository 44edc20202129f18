package alias

import "context"

// Repository persists the global alias namespace. Set must be atomic per
// (namespace, normalized text): concurrent writers race and the last write
// commits whole, never a torn entry.
type Repository interface {
	Set(ctx context.Context, a Alias) (replaced bool, err error)
	Get(ctx context.Context, ns Namespace, text string) (Alias, bool, error)
	Delete(ctx context.Context, ns Namespace, text string) (bool, error)
	ListByTarget(ctx context.Context, ns Namespace, targetID int64) ([]Alias, error)
	ListByNamespace(ctx context.Context, ns Namespace) ([]Alias, error)
}
