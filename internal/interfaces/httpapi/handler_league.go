package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/matchdaybot/predictions/internal/domain/alias"
)

func (h *Handler) ListLeagues(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListLeagues")
	defer span.End()

	leagues, err := h.leagueService.List(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list leagues failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]leagueDTO, 0, len(leagues))
	for _, l := range leagues {
		items = append(items, leagueToDTO(l))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetLeague(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetLeague")
	defer span.End()

	token := r.PathValue("leagueToken")
	leagueID, err := h.resolveLeague(ctx, token)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.leagueService.Get(ctx, leagueID)
	if err != nil {
		h.logger.WarnContext(ctx, "get league failed", "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, leagueToDTO(item))
}

func (h *Handler) ListTeamsByLeague(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTeamsByLeague")
	defer span.End()

	token := r.PathValue("leagueToken")
	leagueID, err := h.resolveLeague(ctx, token)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	teams, err := h.leagueService.Teams(ctx, leagueID)
	if err != nil {
		h.logger.WarnContext(ctx, "list teams failed", "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]teamDTO, 0, len(teams))
	for _, t := range teams {
		items = append(items, teamToDTO(t))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetLeaderboard")
	defer span.End()

	token := r.PathValue("leagueToken")
	leagueID, err := h.resolveLeague(ctx, token)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.leagueService.Get(ctx, leagueID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	entries, err := h.leaderboardService.Standings(ctx, leagueID)
	if err != nil {
		h.logger.WarnContext(ctx, "get leaderboard failed", "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	out := leaderboardDTO{
		LeagueID: leagueID,
		League:   item.Name,
		Entries:  make([]leaderboardEntryDTO, 0, len(entries)),
	}
	for _, e := range entries {
		out.Entries = append(out.Entries, leaderboardEntryToDTO(e, h.leaderboardDisplayName(ctx, e.UserID)))
	}

	if strings.EqualFold(strings.TrimSpace(r.URL.Query().Get("mode")), "table") {
		out.Table = h.leaderboardService.RenderTable(ctx, item.Name, entries)
	}

	writeSuccess(ctx, w, http.StatusOK, out)
}

// leaderboardDisplayName returns the first registered user alias, or empty
// when the user has none.
func (h *Handler) leaderboardDisplayName(ctx context.Context, userID int64) string {
	aliases, err := h.aliasService.ListForTarget(ctx, alias.NamespaceUser, userID)
	if err != nil || len(aliases) == 0 {
		return ""
	}
	return aliases[0].Text
}
