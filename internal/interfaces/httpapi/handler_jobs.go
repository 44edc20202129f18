package httpapi

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/matchdaybot/predictions/internal/usecase"
)

type internalRefreshRequest struct {
	LeagueID string `json:"league_id"`
}

// RunRefreshJob refreshes fixture data, either for one league or for every
// known league when the body names none.
func (h *Handler) RunRefreshJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunRefreshJob")
	defer span.End()

	req, err := decodeInternalRefreshRequest(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	if strings.TrimSpace(req.LeagueID) != "" {
		leagueID, err := h.resolveLeague(ctx, req.LeagueID)
		if err != nil {
			writeError(ctx, w, err)
			return
		}

		fixtures, scored, err := h.refreshService.RefreshLeague(ctx, leagueID)
		if err != nil {
			h.logger.WarnContext(ctx, "refresh league job failed", "league_id", leagueID, "error", err)
			writeError(ctx, w, err)
			return
		}

		writeSuccess(ctx, w, http.StatusOK, usecase.RefreshLeagueResult{
			LeagueID:       leagueID,
			Fixtures:       fixtures,
			ScoredFixtures: scored,
			Status:         "ok",
		})
		return
	}

	result, err := h.refreshService.RefreshAll(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "refresh all job failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

// RunSyncLeaguesJob pulls the league and team catalog from the data provider.
func (h *Handler) RunSyncLeaguesJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunSyncLeaguesJob")
	defer span.End()

	count, err := h.refreshService.SyncLeagues(ctx, h.teamRepo)
	if err != nil {
		h.logger.WarnContext(ctx, "sync leagues job failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]int{"leagues": count})
}

// RunScoreFixtureJob awards points for a finished fixture.
func (h *Handler) RunScoreFixtureJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunScoreFixtureJob")
	defer span.End()

	fixtureID, err := h.resolveFixture(ctx, r.PathValue("fixtureToken"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	report, err := h.scoringService.ScoreFixture(ctx, fixtureID)
	if err != nil {
		h.logger.WarnContext(ctx, "score fixture job failed", "fixture_id", fixtureID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, scoreReportToDTO(report))
}

// RunRescoreFixtureJob corrects a fixture result and replaces any points
// already awarded for it.
func (h *Handler) RunRescoreFixtureJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunRescoreFixtureJob")
	defer span.End()

	fixtureID, err := h.resolveFixture(ctx, r.PathValue("fixtureToken"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req rescoreFixtureRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	report, err := h.scoringService.RescoreFixture(ctx, fixtureID, req.HomeGoals, req.AwayGoals)
	if err != nil {
		h.logger.WarnContext(ctx, "rescore fixture job failed", "fixture_id", fixtureID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, scoreReportToDTO(report))
}

func decodeInternalRefreshRequest(r *http.Request) (internalRefreshRequest, error) {
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	var req internalRefreshRequest
	if err := decoder.Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			return internalRefreshRequest{}, nil
		}
		return internalRefreshRequest{}, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}

	return req, nil
}
