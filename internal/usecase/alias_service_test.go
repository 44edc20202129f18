package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/matchdaybot/predictions/internal/domain/alias"
)

func TestAliasService_SetAndResolveCaseInsensitive(t *testing.T) {
	t.Parallel()

	service := NewAliasService(newStubAliasRepository())
	ctx := context.Background()

	replaced, err := service.Set(ctx, alias.NamespaceLeague, "  Prem  ", 2655)
	if err != nil {
		t.Fatalf("Set error: %v", err)
	}
	if replaced {
		t.Fatal("first set should not report replaced")
	}

	for _, token := range []string{"prem", "PREM", "Prem"} {
		id, err := service.Resolve(ctx, alias.NamespaceLeague, token)
		if err != nil {
			t.Fatalf("Resolve(%q) error: %v", token, err)
		}
		if id != 2655 {
			t.Fatalf("Resolve(%q) got=%d want=2655", token, id)
		}
	}
}

func TestAliasService_SetOverwriteLastWriterWins(t *testing.T) {
	t.Parallel()

	service := NewAliasService(newStubAliasRepository())
	ctx := context.Background()

	if _, err := service.Set(ctx, alias.NamespaceTeam, "spurs", 47); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	replaced, err := service.Set(ctx, alias.NamespaceTeam, "SPURS", 61)
	if err != nil {
		t.Fatalf("Set error: %v", err)
	}
	if !replaced {
		t.Fatal("expected overwrite to report replaced")
	}

	id, err := service.Resolve(ctx, alias.NamespaceTeam, "spurs")
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if id != 61 {
		t.Fatalf("Resolve got=%d want=61", id)
	}
}

func TestAliasService_RejectsNumericText(t *testing.T) {
	t.Parallel()

	service := NewAliasService(newStubAliasRepository())

	_, err := service.Set(context.Background(), alias.NamespaceFixture, "12345", 99)
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestAliasService_NumericTokenBypassesRegistry(t *testing.T) {
	t.Parallel()

	service := NewAliasService(newStubAliasRepository())

	id, err := service.Resolve(context.Background(), alias.NamespaceFixture, "867354")
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if id != 867354 {
		t.Fatalf("Resolve got=%d want=867354", id)
	}
}

func TestAliasService_NamespacesAreIndependent(t *testing.T) {
	t.Parallel()

	service := NewAliasService(newStubAliasRepository())
	ctx := context.Background()

	if _, err := service.Set(ctx, alias.NamespaceLeague, "united", 1); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	if _, err := service.Set(ctx, alias.NamespaceTeam, "united", 33); err != nil {
		t.Fatalf("Set error: %v", err)
	}

	leagueID, err := service.Resolve(ctx, alias.NamespaceLeague, "united")
	if err != nil {
		t.Fatalf("Resolve league error: %v", err)
	}
	teamID, err := service.Resolve(ctx, alias.NamespaceTeam, "united")
	if err != nil {
		t.Fatalf("Resolve team error: %v", err)
	}
	if leagueID != 1 || teamID != 33 {
		t.Fatalf("cross-namespace resolution leaked: league=%d team=%d", leagueID, teamID)
	}
}

func TestAliasService_ResolveUnknownSuggestsCloseMatches(t *testing.T) {
	t.Parallel()

	service := NewAliasService(newStubAliasRepository())
	ctx := context.Background()

	if _, err := service.Set(ctx, alias.NamespaceTeam, "arsenal", 42); err != nil {
		t.Fatalf("Set error: %v", err)
	}

	_, err := service.Resolve(ctx, alias.NamespaceTeam, "arsnal")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if !strings.Contains(err.Error(), "arsenal") {
		t.Fatalf("expected suggestion in error, got %q", err.Error())
	}
}

func TestAliasService_DeleteThenResolveFails(t *testing.T) {
	t.Parallel()

	service := NewAliasService(newStubAliasRepository())
	ctx := context.Background()

	if _, err := service.Set(ctx, alias.NamespaceUser, "dave", 7001); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	if err := service.Delete(ctx, alias.NamespaceUser, "DAVE"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if err := service.Delete(ctx, alias.NamespaceUser, "dave"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
	if _, err := service.Resolve(ctx, alias.NamespaceUser, "dave"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestAliasService_SetManyAppliesEachIndependently(t *testing.T) {
	t.Parallel()

	service := NewAliasService(newStubAliasRepository())
	ctx := context.Background()

	outcomes, err := service.SetMany(ctx, alias.NamespaceTeam, []SetAliasEntry{
		{Text: "City", TargetID: 50},
		{Text: "42", TargetID: 42},
		{Text: "Arsenal", TargetID: 42},
	})
	if err != nil {
		t.Fatalf("SetMany error: %v", err)
	}
	if len(outcomes) != 3 {
		t.Fatalf("outcomes got=%d want=3", len(outcomes))
	}

	if outcomes[0].Err != nil || outcomes[0].Text != "city" {
		t.Fatalf("first outcome got=%+v", outcomes[0])
	}
	if !errors.Is(outcomes[1].Err, ErrInvalidInput) {
		t.Fatalf("numeric alias should fail with ErrInvalidInput, got %v", outcomes[1].Err)
	}
	if outcomes[2].Err != nil {
		t.Fatalf("third outcome error: %v", outcomes[2].Err)
	}

	id, err := service.Resolve(ctx, alias.NamespaceTeam, "arsenal")
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if id != 42 {
		t.Fatalf("Resolve got=%d want=42", id)
	}
}

func TestAliasService_SetManyEmptyBatchRejected(t *testing.T) {
	t.Parallel()

	service := NewAliasService(newStubAliasRepository())

	if _, err := service.SetMany(context.Background(), alias.NamespaceTeam, nil); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
