package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/rotolab/roto-api/internal/cache"
	"github.com/rotolab/roto-api/internal/logic"
	"github.com/rotolab/roto-api/internal/models"
)

// PutLeague stores a league snapshot and queues a background recompute of its report.
func (h *Handler) PutLeague(w http.ResponseWriter, r *http.Request) {
	leagueID := chi.URLParam(r, "leagueID")

	var league models.League
	if !h.decodeBody(w, r, &league) {
		return
	}
	if league.ID != "" && league.ID != leagueID {
		h.errorResponse(w, http.StatusBadRequest, "League id in body does not match URL")
		return
	}
	league.ID = leagueID
	if len(league.Teams) == 0 && len(league.Rosters) == 0 {
		h.errorResponse(w, http.StatusBadRequest, "League needs teams or rosters")
		return
	}
	// JSONB cannot hold NaN or Inf, so reject them before they reach the store.
	if err := logic.CheckFinite(league.Teams, league.Players, league.FreeAgents); err != nil {
		h.engineError(w, err)
		return
	}

	ctx := r.Context()
	if err := h.store.SaveLeague(ctx, league); err != nil {
		h.logger.Errorw("Failed to save league", "league", leagueID, "error", err)
		h.errorResponse(w, http.StatusInternalServerError, "Failed to save league")
		return
	}
	if h.cache != nil {
		if err := h.cache.Invalidate(ctx, leagueID); err != nil {
			h.logger.Warnw("Failed to invalidate cached report", "league", leagueID, "error", err)
		}
	}

	resp := models.LeagueAcceptedResponse{LeagueID: leagueID}
	if h.queue != nil {
		runID, ok := h.queue.Enqueue(leagueID)
		if ok {
			resp.RunID = runID.String()
			resp.Queued = true
		} else {
			h.logger.Warnw("Recompute queue full, report will be computed on read", "league", leagueID)
		}
	}
	h.jsonResponse(w, http.StatusAccepted, resp)
}

// DeleteLeague removes a stored snapshot and its cached report.
func (h *Handler) DeleteLeague(w http.ResponseWriter, r *http.Request) {
	leagueID := chi.URLParam(r, "leagueID")
	ctx := r.Context()

	if err := h.store.DeleteLeague(ctx, leagueID); err != nil {
		h.engineError(w, err)
		return
	}
	if h.cache != nil {
		if err := h.cache.Invalidate(ctx, leagueID); err != nil {
			h.logger.Warnw("Failed to invalidate cached report", "league", leagueID, "error", err)
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetLeagueReport serves the cached report, computing it from the stored snapshot on a miss.
func (h *Handler) GetLeagueReport(w http.ResponseWriter, r *http.Request) {
	leagueID := chi.URLParam(r, "leagueID")

	report, hit, err := h.leagueReport(r, leagueID)
	if err != nil {
		h.engineError(w, err)
		return
	}
	if hit {
		w.Header().Set("X-Cache", "HIT")
	} else {
		w.Header().Set("X-Cache", "MISS")
	}
	h.jsonResponse(w, http.StatusOK, report)
}

// GetTeamTrades returns one team's profile and trade partners. Without top_n the
// stored league report is reused.
func (h *Handler) GetTeamTrades(w http.ResponseWriter, r *http.Request) {
	leagueID := chi.URLParam(r, "leagueID")
	teamID := chi.URLParam(r, "teamID")
	ctx := r.Context()

	var report *models.LeagueReport
	if raw := r.URL.Query().Get("top_n"); raw != "" {
		topN, err := strconv.Atoi(raw)
		if err != nil || topN <= 0 {
			h.errorResponse(w, http.StatusBadRequest, "top_n must be a positive integer")
			return
		}
		league, err := h.store.LoadLeague(ctx, leagueID)
		if err != nil {
			h.engineError(w, err)
			return
		}
		report, err = h.analysis.Analyze(ctx, *league, models.AnalysisOptions{TargetTeam: teamID, TopN: topN})
		if err != nil {
			h.engineError(w, err)
			return
		}
	} else {
		var err error
		report, _, err = h.leagueReport(r, leagueID)
		if err != nil {
			h.engineError(w, err)
			return
		}
	}

	for _, team := range report.Teams {
		if team.TeamID == teamID {
			h.jsonResponse(w, http.StatusOK, map[string]interface{}{
				"league_id":      leagueID,
				"team_id":        teamID,
				"profile":        team.Profile,
				"trade_partners": team.TradePartners,
			})
			return
		}
	}
	h.errorResponse(w, http.StatusNotFound, "Team not found in league")
}

func (h *Handler) leagueReport(r *http.Request, leagueID string) (*models.LeagueReport, bool, error) {
	ctx := r.Context()
	key := cache.LeagueKey(leagueID)

	if h.cache != nil {
		report, ok, err := h.cache.Get(ctx, key)
		if err != nil {
			h.logger.Warnw("Report cache read failed", "key", key, "error", err)
		}
		if ok {
			return report, true, nil
		}
	}

	league, err := h.store.LoadLeague(ctx, leagueID)
	if err != nil {
		return nil, false, err
	}
	report, err := h.analysis.Analyze(ctx, *league, models.AnalysisOptions{})
	if err != nil {
		return nil, false, err
	}

	if h.cache != nil {
		if err := h.cache.Set(ctx, key, report); err != nil {
			h.logger.Warnw("Report cache write failed", "key", key, "error", err)
		}
	}
	return report, false, nil
}
