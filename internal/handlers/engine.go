package handlers

import (
	"net/http"

	"github.com/rotolab/roto-api/internal/cache"
	"github.com/rotolab/roto-api/internal/logic"
	"github.com/rotolab/roto-api/internal/models"
)

// ListCategories returns the scored categories in configuration order.
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	h.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"categories": h.analysis.Registry().All(),
	})
}

// PostStandings ranks an ad-hoc entity set over the requested categories, or all
// registered ones when none are named.
func (h *Handler) PostStandings(w http.ResponseWriter, r *http.Request) {
	var req models.StandingsRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	st, ignored, err := h.analysis.Standings(r.Context(), req.Entities, req.Categories)
	if err != nil {
		h.engineError(w, err)
		return
	}
	h.jsonResponse(w, http.StatusOK, models.StandingsResponse{
		Standings:         st,
		IgnoredCategories: ignored,
	})
}

// PostAnalysis runs the full pipeline on an inline league. Reports are cached by a
// hash of the league and options, so identical requests are answered from Redis.
func (h *Handler) PostAnalysis(w http.ResponseWriter, r *http.Request) {
	var req models.AnalysisRequest
	if !h.decodeBody(w, r, &req) {
		return
	}
	ctx := r.Context()

	key, err := cache.ContentKey(req.League, req.Options)
	if err != nil {
		h.logger.Warnw("Failed to hash analysis request", "error", err)
		key = ""
	}
	if key != "" && h.cache != nil {
		report, ok, err := h.cache.Get(ctx, key)
		if err != nil {
			h.logger.Warnw("Report cache read failed", "key", key, "error", err)
		}
		if ok {
			w.Header().Set("X-Cache", "HIT")
			h.jsonResponse(w, http.StatusOK, report)
			return
		}
	}

	report, err := h.analysis.Analyze(ctx, req.League, req.Options)
	if err != nil {
		h.engineError(w, err)
		return
	}

	if key != "" && h.cache != nil {
		if err := h.cache.Set(ctx, key, report); err != nil {
			h.logger.Warnw("Report cache write failed", "key", key, "error", err)
		}
	}
	w.Header().Set("X-Cache", "MISS")
	h.jsonResponse(w, http.StatusOK, report)
}

// PostTrades matches a target against precomputed profiles.
func (h *Handler) PostTrades(w http.ResponseWriter, r *http.Request) {
	var req models.TradeRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	recs, err := logic.RecommendPartners(req.Target, req.Profiles, req.TopN)
	if err != nil {
		h.engineError(w, err)
		return
	}
	h.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"target":          req.Target,
		"recommendations": recs,
	})
}
