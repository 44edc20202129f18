package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/matchdaybot/predictions/internal/domain/alias"
	"github.com/matchdaybot/predictions/internal/domain/leaderboard"
	"github.com/matchdaybot/predictions/internal/domain/league"
	"github.com/matchdaybot/predictions/internal/domain/scoring"
)

// LeaderboardService aggregates applied fixture scores into per-league
// standings.
type LeaderboardService struct {
	boardRepo  leaderboard.Repository
	leagueRepo league.Repository
	aliasRepo  alias.Repository
}

func NewLeaderboardService(boardRepo leaderboard.Repository, leagueRepo league.Repository, aliasRepo alias.Repository) *LeaderboardService {
	return &LeaderboardService{
		boardRepo:  boardRepo,
		leagueRepo: leagueRepo,
		aliasRepo:  aliasRepo,
	}
}

// Standings returns the league's table ordered by points descending, user ID
// ascending on ties. Equal points share a competition rank and the next
// distinct total skips past them.
func (s *LeaderboardService) Standings(ctx context.Context, leagueID int64) ([]leaderboard.Entry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeaderboardService.Standings")
	defer span.End()

	if leagueID <= 0 {
		return nil, fmt.Errorf("%w: league id must be greater than zero", ErrInvalidInput)
	}
	_, found, err := s.leagueRepo.GetByID(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("get league: %w", err)
	}
	if !found {
		return nil, fmt.Errorf("%w: league=%d", ErrNotFound, leagueID)
	}

	rows, err := s.boardRepo.ListByLeague(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("list league scores: %w", err)
	}

	byUser := make(map[int64]*leaderboard.Entry)
	for _, row := range rows {
		entry, ok := byUser[row.UserID]
		if !ok {
			entry = &leaderboard.Entry{LeagueID: leagueID, UserID: row.UserID}
			byUser[row.UserID] = entry
		}
		entry.Points += row.Points
		entry.Fixtures++
		switch row.Outcome {
		case scoring.OutcomeExact:
			entry.ExactScores++
		case scoring.OutcomeResult:
			entry.Results++
		}
	}

	entries := make([]leaderboard.Entry, 0, len(byUser))
	for _, entry := range byUser {
		entries = append(entries, *entry)
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Points != entries[j].Points {
			return entries[i].Points > entries[j].Points
		}
		return entries[i].UserID < entries[j].UserID
	})

	for i := range entries {
		if i > 0 && entries[i].Points == entries[i-1].Points {
			entries[i].Rank = entries[i-1].Rank
			continue
		}
		entries[i].Rank = i + 1
	}
	return entries, nil
}

// RenderTable formats standings as a fixed-width text table. Users with a
// registered alias show it in place of their numeric ID.
func (s *LeaderboardService) RenderTable(ctx context.Context, leagueName string, entries []leaderboard.Entry) string {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeaderboardService.RenderTable")
	defer span.End()

	var b strings.Builder
	if leagueName != "" {
		fmt.Fprintf(&b, "%s\n", leagueName)
	}
	fmt.Fprintf(&b, "%-4s %-20s %6s %6s %6s\n", "#", "USER", "PTS", "EXACT", "GAMES")

	for _, entry := range entries {
		name := s.displayName(ctx, entry.UserID)
		if len(name) > 20 {
			name = name[:20]
		}
		fmt.Fprintf(&b, "%-4d %-20s %6d %6d %6d\n", entry.Rank, name, entry.Points, entry.ExactScores, entry.Fixtures)
	}
	return b.String()
}

func (s *LeaderboardService) displayName(ctx context.Context, userID int64) string {
	if s.aliasRepo != nil {
		if aliases, err := s.aliasRepo.ListByTarget(ctx, alias.NamespaceUser, userID); err == nil && len(aliases) > 0 {
			return aliases[0].Text
		}
	}
	return fmt.Sprintf("%d", userID)
}
