package httpapi

import (
	"net/http"
)

func (h *Handler) GetFixture(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetFixture")
	defer span.End()

	token := r.PathValue("fixtureToken")
	fixtureID, err := h.resolveFixture(ctx, token)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.fixtureService.GetFixture(ctx, fixtureID)
	if err != nil {
		h.logger.WarnContext(ctx, "get fixture failed", "fixture_id", fixtureID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, fixtureToDTO(item))
}

func (h *Handler) ListUpcomingFixtures(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListUpcomingFixtures")
	defer span.End()

	token := r.PathValue("leagueToken")
	leagueID, err := h.resolveLeague(ctx, token)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	limit, err := parseLimitQuery(r.URL.Query().Get("limit"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	fixtures, err := h.fixtureService.Upcoming(ctx, leagueID, limit)
	if err != nil {
		h.logger.WarnContext(ctx, "list upcoming fixtures failed", "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, fixturesToDTOs(fixtures))
}

func (h *Handler) ListFixtureResults(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListFixtureResults")
	defer span.End()

	token := r.PathValue("leagueToken")
	leagueID, err := h.resolveLeague(ctx, token)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	limit, err := parseLimitQuery(r.URL.Query().Get("limit"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	fixtures, err := h.fixtureService.Results(ctx, leagueID, limit)
	if err != nil {
		h.logger.WarnContext(ctx, "list fixture results failed", "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, fixturesToDTOs(fixtures))
}

func (h *Handler) ListFixturesByLeague(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListFixturesByLeague")
	defer span.End()

	token := r.PathValue("leagueToken")
	leagueID, err := h.resolveLeague(ctx, token)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	from, err := parseTimeQuery("from", r.URL.Query().Get("from"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	to, err := parseTimeQuery("to", r.URL.Query().Get("to"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	fixtures, err := h.fixtureService.Between(ctx, leagueID, from, to)
	if err != nil {
		h.logger.WarnContext(ctx, "list fixtures failed", "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, fixturesToDTOs(fixtures))
}

func (h *Handler) ListTodayFixtures(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTodayFixtures")
	defer span.End()

	token := r.PathValue("leagueToken")
	leagueID, err := h.resolveLeague(ctx, token)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	fixtures, err := h.fixtureService.Today(ctx, leagueID)
	if err != nil {
		h.logger.WarnContext(ctx, "list today fixtures failed", "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, fixturesToDTOs(fixtures))
}
