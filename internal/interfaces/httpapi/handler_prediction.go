package httpapi

import (
	"fmt"
	"net/http"

	sonic "github.com/bytedance/sonic"
	"github.com/matchdaybot/predictions/internal/usecase"
)

func (h *Handler) SubmitPrediction(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SubmitPrediction")
	defer span.End()

	userID, ok := userIDFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: user is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req submitPredictionRequest
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

	fixtureID, err := h.resolveFixture(ctx, req.FixtureID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.predictionService.Submit(ctx, userID, fixtureID, req.HomeGoals, req.AwayGoals)
	if err != nil {
		h.logger.WarnContext(ctx, "submit prediction failed", "user_id", userID, "fixture_id", fixtureID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, predictionToDTO(item))
}

func (h *Handler) SubmitPredictionBatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SubmitPredictionBatch")
	defer span.End()

	userID, ok := userIDFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: user is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req submitPredictionBatchRequest
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

	entries := make([]usecase.SubmitEntry, 0, len(req.Predictions))
	for _, p := range req.Predictions {
		fixtureID, err := h.resolveFixture(ctx, p.FixtureID)
		if err != nil {
			writeError(ctx, w, err)
			return
		}
		entries = append(entries, usecase.SubmitEntry{
			FixtureID: fixtureID,
			HomeGoals: p.HomeGoals,
			AwayGoals: p.AwayGoals,
		})
	}

	outcomes, err := h.predictionService.SubmitMany(ctx, userID, entries)
	if err != nil {
		h.logger.WarnContext(ctx, "submit prediction batch failed", "user_id", userID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]submitOutcomeDTO, 0, len(outcomes))
	for _, outcome := range outcomes {
		item := submitOutcomeDTO{FixtureID: outcome.FixtureID}
		if outcome.Err != nil {
			item.Error = outcome.Err.Error()
		} else {
			dto := predictionToDTO(outcome.Prediction)
			item.Prediction = &dto
		}
		items = append(items, item)
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) ListMyPredictions(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMyPredictions")
	defer span.End()

	userID, ok := userIDFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: user is missing from request context", usecase.ErrUnauthorized))
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

	predictions, err := h.predictionService.ListForUser(ctx, userID, from, to)
	if err != nil {
		h.logger.WarnContext(ctx, "list predictions failed", "user_id", userID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]userPredictionDTO, 0, len(predictions))
	for _, p := range predictions {
		items = append(items, userPredictionDTO{
			Prediction: predictionToDTO(p.Prediction),
			Fixture:    fixtureToDTO(p.Fixture),
		})
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetMyPrediction(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMyPrediction")
	defer span.End()

	userID, ok := userIDFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: user is missing from request context", usecase.ErrUnauthorized))
		return
	}

	token := r.PathValue("fixtureToken")
	fixtureID, err := h.resolveFixture(ctx, token)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.predictionService.Get(ctx, userID, fixtureID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, predictionToDTO(item))
}
