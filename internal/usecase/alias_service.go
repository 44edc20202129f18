package usecase

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/matchdaybot/predictions/internal/domain/alias"
)

const maxAliasSuggestions = 3

// AliasService manages the global alias registry and resolves user-supplied
// tokens to entity IDs.
type AliasService struct {
	aliasRepo alias.Repository
}

func NewAliasService(aliasRepo alias.Repository) *AliasService {
	return &AliasService{aliasRepo: aliasRepo}
}

// Set creates or overwrites an alias. Overwriting is allowed for everyone,
// last writer wins; replaced reports whether an earlier mapping existed.
func (s *AliasService) Set(ctx context.Context, ns alias.Namespace, text string, targetID int64) (replaced bool, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AliasService.Set")
	defer span.End()

	text = alias.Normalize(text)
	if text == "" {
		return false, fmt.Errorf("%w: alias text is required", ErrInvalidInput)
	}
	if alias.IsNumeric(text) {
		return false, fmt.Errorf("%w: alias text cannot be purely numeric", ErrInvalidInput)
	}
	if targetID <= 0 {
		return false, fmt.Errorf("%w: target id must be greater than zero", ErrInvalidInput)
	}

	replaced, err = s.aliasRepo.Set(ctx, alias.Alias{Namespace: ns, Text: text, TargetID: targetID})
	if err != nil {
		return false, fmt.Errorf("set alias: %w", err)
	}
	return replaced, nil
}

// SetAliasEntry is one mapping in a bulk alias registration.
type SetAliasEntry struct {
	Text     string
	TargetID int64
}

// SetAliasOutcome reports one entry of a bulk registration. Err carries the
// per-entry failure, nil on success.
type SetAliasOutcome struct {
	Text     string
	Replaced bool
	Err      error
}

// SetMany applies each entry independently, mirroring Set per entry. A bad
// entry never blocks the rest of the batch.
func (s *AliasService) SetMany(ctx context.Context, ns alias.Namespace, entries []SetAliasEntry) ([]SetAliasOutcome, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AliasService.SetMany")
	defer span.End()

	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: at least one alias is required", ErrInvalidInput)
	}

	outcomes := make([]SetAliasOutcome, 0, len(entries))
	for _, entry := range entries {
		replaced, err := s.Set(ctx, ns, entry.Text, entry.TargetID)
		outcomes = append(outcomes, SetAliasOutcome{
			Text:     alias.Normalize(entry.Text),
			Replaced: replaced,
			Err:      err,
		})
	}
	return outcomes, nil
}

func (s *AliasService) Get(ctx context.Context, ns alias.Namespace, text string) (alias.Alias, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AliasService.Get")
	defer span.End()

	text = alias.Normalize(text)
	if text == "" {
		return alias.Alias{}, fmt.Errorf("%w: alias text is required", ErrInvalidInput)
	}

	item, found, err := s.aliasRepo.Get(ctx, ns, text)
	if err != nil {
		return alias.Alias{}, fmt.Errorf("get alias: %w", err)
	}
	if !found {
		return alias.Alias{}, fmt.Errorf("%w: %s alias %q", ErrNotFound, ns, text)
	}
	return item, nil
}

func (s *AliasService) Delete(ctx context.Context, ns alias.Namespace, text string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.AliasService.Delete")
	defer span.End()

	text = alias.Normalize(text)
	if text == "" {
		return fmt.Errorf("%w: alias text is required", ErrInvalidInput)
	}

	deleted, err := s.aliasRepo.Delete(ctx, ns, text)
	if err != nil {
		return fmt.Errorf("delete alias: %w", err)
	}
	if !deleted {
		return fmt.Errorf("%w: %s alias %q", ErrNotFound, ns, text)
	}
	return nil
}

func (s *AliasService) ListForTarget(ctx context.Context, ns alias.Namespace, targetID int64) ([]alias.Alias, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AliasService.ListForTarget")
	defer span.End()

	if targetID <= 0 {
		return nil, fmt.Errorf("%w: target id must be greater than zero", ErrInvalidInput)
	}

	items, err := s.aliasRepo.ListByTarget(ctx, ns, targetID)
	if err != nil {
		return nil, fmt.Errorf("list aliases by target: %w", err)
	}
	return items, nil
}

// Resolve turns a user-supplied token into an entity ID. Tokens made of
// digits parse directly and never touch the registry, even when an equal
// alias text exists. Unknown tokens fail with ErrNotFound; close alias
// matches are folded into the error message.
func (s *AliasService) Resolve(ctx context.Context, ns alias.Namespace, token string) (int64, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AliasService.Resolve")
	defer span.End()

	token = alias.Normalize(token)
	if token == "" {
		return 0, fmt.Errorf("%w: %s token is required", ErrInvalidInput, ns)
	}

	if alias.IsNumeric(token) {
		id, err := strconv.ParseInt(token, 10, 64)
		if err != nil || id <= 0 {
			return 0, fmt.Errorf("%w: invalid %s id %q", ErrInvalidInput, ns, token)
		}
		return id, nil
	}

	item, found, err := s.aliasRepo.Get(ctx, ns, token)
	if err != nil {
		return 0, fmt.Errorf("resolve alias: %w", err)
	}
	if found {
		return item.TargetID, nil
	}

	suggestions := s.suggest(ctx, ns, token)
	if len(suggestions) > 0 {
		return 0, fmt.Errorf("%w: %s alias %q (did you mean: %s)", ErrNotFound, ns, token, strings.Join(suggestions, ", "))
	}
	return 0, fmt.Errorf("%w: %s alias %q", ErrNotFound, ns, token)
}

func (s *AliasService) suggest(ctx context.Context, ns alias.Namespace, token string) []string {
	known, err := s.aliasRepo.ListByNamespace(ctx, ns)
	if err != nil || len(known) == 0 {
		return nil
	}

	texts := make([]string, 0, len(known))
	for _, item := range known {
		texts = append(texts, item.Text)
	}

	ranked := fuzzy.RankFindNormalizedFold(token, texts)
	sort.Sort(ranked)

	out := make([]string, 0, maxAliasSuggestions)
	for _, match := range ranked {
		out = append(out, match.Target)
		if len(out) == maxAliasSuggestions {
			break
		}
	}
	return out
}
