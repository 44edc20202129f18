package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/matchdaybot/predictions/internal/domain/alias"
)

type aliasKey struct {
	ns   alias.Namespace
	text string
}

type AliasRepository struct {
	mu    sync.RWMutex
	items map[aliasKey]alias.Alias
}

func NewAliasRepository(aliases []alias.Alias) *AliasRepository {
	items := make(map[aliasKey]alias.Alias, len(aliases))
	for _, a := range aliases {
		items[aliasKey{ns: a.Namespace, text: a.Text}] = a
	}
	return &AliasRepository{items: items}
}

func (r *AliasRepository) Set(_ context.Context, a alias.Alias) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := aliasKey{ns: a.Namespace, text: a.Text}
	_, replaced := r.items[key]
	r.items[key] = a
	return replaced, nil
}

func (r *AliasRepository) Get(_ context.Context, ns alias.Namespace, text string) (alias.Alias, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.items[aliasKey{ns: ns, text: text}]
	return a, ok, nil
}

func (r *AliasRepository) Delete(_ context.Context, ns alias.Namespace, text string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := aliasKey{ns: ns, text: text}
	_, ok := r.items[key]
	delete(r.items, key)
	return ok, nil
}

func (r *AliasRepository) ListByTarget(_ context.Context, ns alias.Namespace, targetID int64) ([]alias.Alias, error) {
	return r.filter(func(a alias.Alias) bool {
		return a.Namespace == ns && a.TargetID == targetID
	}), nil
}

func (r *AliasRepository) ListByNamespace(_ context.Context, ns alias.Namespace) ([]alias.Alias, error) {
	return r.filter(func(a alias.Alias) bool {
		return a.Namespace == ns
	}), nil
}

func (r *AliasRepository) filter(keep func(alias.Alias) bool) []alias.Alias {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]alias.Alias, 0)
	for _, a := range r.items {
		if keep(a) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Text < out[j].Text })
	return out
}
