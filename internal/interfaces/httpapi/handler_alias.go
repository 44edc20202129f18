package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/matchdaybot/predictions/internal/domain/alias"
	"github.com/matchdaybot/predictions/internal/usecase"
)

func (h *Handler) SetAlias(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SetAlias")
	defer span.End()

	ns, err := alias.ParseNamespace(r.PathValue("namespace"))
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err))
		return
	}
	text := r.PathValue("alias")

	var req setAliasRequest
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

	replaced, err := h.aliasService.Set(ctx, ns, text, req.TargetID)
	if err != nil {
		h.logger.WarnContext(ctx, "set alias failed", "namespace", string(ns), "alias", text, "error", err)
		writeError(ctx, w, err)
		return
	}

	status := http.StatusCreated
	if replaced {
		status = http.StatusOK
	}
	writeSuccess(ctx, w, status, aliasToDTO(alias.Alias{
		Namespace: ns,
		Text:      alias.Normalize(text),
		TargetID:  req.TargetID,
	}, replaced))
}

func (h *Handler) SetAliasBatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SetAliasBatch")
	defer span.End()

	ns, err := alias.ParseNamespace(r.PathValue("namespace"))
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err))
		return
	}

	var req setAliasBatchRequest
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

	entries := make([]usecase.SetAliasEntry, 0, len(req.Aliases))
	for _, item := range req.Aliases {
		entries = append(entries, usecase.SetAliasEntry{Text: item.Alias, TargetID: item.TargetID})
	}

	outcomes, err := h.aliasService.SetMany(ctx, ns, entries)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items := make([]setAliasOutcomeDTO, 0, len(outcomes))
	for _, outcome := range outcomes {
		dto := setAliasOutcomeDTO{Alias: outcome.Text, Replaced: outcome.Replaced}
		if outcome.Err != nil {
			dto.Error = outcome.Err.Error()
		}
		items = append(items, dto)
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetAlias(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetAlias")
	defer span.End()

	ns, err := alias.ParseNamespace(r.PathValue("namespace"))
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err))
		return
	}

	item, err := h.aliasService.Get(ctx, ns, r.PathValue("alias"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, aliasToDTO(item, false))
}

func (h *Handler) DeleteAlias(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteAlias")
	defer span.End()

	ns, err := alias.ParseNamespace(r.PathValue("namespace"))
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err))
		return
	}
	text := r.PathValue("alias")

	if err := h.aliasService.Delete(ctx, ns, text); err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{
		"namespace": string(ns),
		"alias":     alias.Normalize(text),
		"status":    "deleted",
	})
}

func (h *Handler) ListAliasesForTarget(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListAliasesForTarget")
	defer span.End()

	ns, err := alias.ParseNamespace(r.PathValue("namespace"))
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err))
		return
	}

	targetID, err := strconv.ParseInt(strings.TrimSpace(r.PathValue("targetID")), 10, 64)
	if err != nil || targetID <= 0 {
		writeError(ctx, w, fmt.Errorf("%w: target id must be a positive integer", usecase.ErrInvalidInput))
		return
	}

	aliases, err := h.aliasService.ListForTarget(ctx, ns, targetID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items := make([]aliasDTO, 0, len(aliases))
	for _, a := range aliases {
		items = append(items, aliasToDTO(a, false))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) ResolveAlias(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ResolveAlias")
	defer span.End()

	ns, err := alias.ParseNamespace(r.PathValue("namespace"))
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err))
		return
	}
	token := r.PathValue("alias")

	targetID, err := h.aliasService.Resolve(ctx, ns, token)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]any{
		"namespace": string(ns),
		"token":     token,
		"targetId":  targetID,
	})
}
