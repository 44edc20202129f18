package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/matchdaybot/predictions/internal/domain/alias"
	"github.com/matchdaybot/predictions/internal/domain/league"
	"github.com/matchdaybot/predictions/internal/domain/scoring"
)

func newTestLeaderboardService(board *stubLeaderboardRepository, aliases *stubAliasRepository) *LeaderboardService {
	leagues := &stubLeagueRepository{byID: map[int64]league.League{39: {ID: 39, Name: "Premier League"}}}
	return NewLeaderboardService(board, leagues, aliases)
}

func seedScores(t *testing.T, board *stubLeaderboardRepository, fixtureID int64, scores ...scoring.FixtureScore) {
	t.Helper()
	applied, err := board.Apply(context.Background(), 39, fixtureID, scores)
	if err != nil || !applied {
		t.Fatalf("seed scores fixture=%d: applied=%v err=%v", fixtureID, applied, err)
	}
}

func TestLeaderboardService_StandingsAggregation(t *testing.T) {
	t.Parallel()

	board := newStubLeaderboardRepository()
	seedScores(t, board, 1001,
		scoring.FixtureScore{LeagueID: 39, FixtureID: 1001, UserID: 1, Points: 3, Outcome: scoring.OutcomeExact},
		scoring.FixtureScore{LeagueID: 39, FixtureID: 1001, UserID: 2, Points: 1, Outcome: scoring.OutcomeResult},
	)
	seedScores(t, board, 1002,
		scoring.FixtureScore{LeagueID: 39, FixtureID: 1002, UserID: 1, Points: 1, Outcome: scoring.OutcomeResult},
		scoring.FixtureScore{LeagueID: 39, FixtureID: 1002, UserID: 2, Points: 0, Outcome: scoring.OutcomeMiss},
	)

	service := newTestLeaderboardService(board, newStubAliasRepository())
	got, err := service.Standings(context.Background(), 39)
	if err != nil {
		t.Fatalf("Standings error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}

	first := got[0]
	if first.UserID != 1 || first.Points != 4 || first.Fixtures != 2 || first.ExactScores != 1 || first.Results != 1 || first.Rank != 1 {
		t.Fatalf("unexpected first entry: %+v", first)
	}
	second := got[1]
	if second.UserID != 2 || second.Points != 1 || second.Rank != 2 {
		t.Fatalf("unexpected second entry: %+v", second)
	}
}

func TestLeaderboardService_TieBreakByUserID(t *testing.T) {
	t.Parallel()

	board := newStubLeaderboardRepository()
	seedScores(t, board, 1001,
		scoring.FixtureScore{LeagueID: 39, FixtureID: 1001, UserID: 42, Points: 3, Outcome: scoring.OutcomeExact},
		scoring.FixtureScore{LeagueID: 39, FixtureID: 1001, UserID: 7, Points: 3, Outcome: scoring.OutcomeExact},
		scoring.FixtureScore{LeagueID: 39, FixtureID: 1001, UserID: 9, Points: 1, Outcome: scoring.OutcomeResult},
	)

	service := newTestLeaderboardService(board, newStubAliasRepository())
	got, err := service.Standings(context.Background(), 39)
	if err != nil {
		t.Fatalf("Standings error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(got))
	}

	if got[0].UserID != 7 || got[1].UserID != 42 || got[2].UserID != 9 {
		t.Fatalf("unexpected order: %d, %d, %d", got[0].UserID, got[1].UserID, got[2].UserID)
	}
	if got[0].Rank != 1 || got[1].Rank != 1 || got[2].Rank != 3 {
		t.Fatalf("unexpected ranks: %d, %d, %d", got[0].Rank, got[1].Rank, got[2].Rank)
	}
}

func TestLeaderboardService_UnknownLeague(t *testing.T) {
	t.Parallel()

	service := newTestLeaderboardService(newStubLeaderboardRepository(), newStubAliasRepository())

	_, err := service.Standings(context.Background(), 9999)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLeaderboardService_EmptyLeagueStandings(t *testing.T) {
	t.Parallel()

	service := newTestLeaderboardService(newStubLeaderboardRepository(), newStubAliasRepository())

	got, err := service.Standings(context.Background(), 39)
	if err != nil {
		t.Fatalf("Standings error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty standings, got %d entries", len(got))
	}
}

func TestLeaderboardService_RenderTable(t *testing.T) {
	t.Parallel()

	board := newStubLeaderboardRepository()
	seedScores(t, board, 1001,
		scoring.FixtureScore{LeagueID: 39, FixtureID: 1001, UserID: 7, Points: 3, Outcome: scoring.OutcomeExact},
		scoring.FixtureScore{LeagueID: 39, FixtureID: 1001, UserID: 8, Points: 0, Outcome: scoring.OutcomeMiss},
	)

	aliases := newStubAliasRepository()
	if _, err := aliases.Set(context.Background(), alias.Alias{Namespace: alias.NamespaceUser, Text: "dave", TargetID: 7}); err != nil {
		t.Fatalf("seed alias: %v", err)
	}

	service := newTestLeaderboardService(board, aliases)
	entries, err := service.Standings(context.Background(), 39)
	if err != nil {
		t.Fatalf("Standings error: %v", err)
	}

	table := service.RenderTable(context.Background(), "Premier League", entries)
	lines := strings.Split(strings.TrimRight(table, "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected title, header and 2 rows, got %d lines:\n%s", len(lines), table)
	}
	if !strings.Contains(lines[1], "USER") || !strings.Contains(lines[1], "PTS") {
		t.Fatalf("missing header: %q", lines[1])
	}
	if !strings.Contains(lines[2], "dave") {
		t.Fatalf("alias not used for display: %q", lines[2])
	}
	if !strings.Contains(lines[3], "8") {
		t.Fatalf("numeric fallback missing: %q", lines[3])
	}
}
