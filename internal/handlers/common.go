package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rotolab/roto-api/internal/logic"
	"github.com/rotolab/roto-api/internal/store"
)

// Health check endpoint
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().UTC(),
	})
}

// Ready check endpoint
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	checks := make(map[string]bool, len(h.checks))
	allHealthy := true
	for name, check := range h.checks {
		ok := check(ctx) == nil
		checks[name] = ok
		if !ok {
			allHealthy = false
		}
	}

	depth := 0
	if h.queue != nil {
		depth = h.queue.QueueDepth()
	}

	w.Header().Set("Content-Type", "application/json")
	if !allHealthy {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	json.NewEncoder(w).Encode(map[string]interface{}{
		"ready":      allHealthy,
		"checks":     checks,
		"queueDepth": depth,
	})
}

// decodeBody reads a size-limited JSON body into dst and validates it. It writes the
// error response itself and reports whether the handler should continue.
func (h *Handler) decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodySize)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.errorResponse(w, http.StatusRequestEntityTooLarge, "Request body too large")
			return false
		}
		h.errorResponse(w, http.StatusBadRequest, "Invalid JSON body: "+err.Error())
		return false
	}
	if err := h.validator.Struct(dst); err != nil {
		h.errorResponse(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return false
	}
	return true
}

// engineError maps ranking and storage errors onto HTTP statuses.
func (h *Handler) engineError(w http.ResponseWriter, err error) {
	var engErr *logic.Error
	switch {
	case errors.As(err, &engErr):
		status := http.StatusBadRequest
		if engErr.Kind == logic.KindUnknownEntityReference {
			status = http.StatusNotFound
		}
		h.jsonResponse(w, status, map[string]interface{}{
			"error":      engErr.Error(),
			"kind":       engErr.Kind,
			"category":   engErr.Category,
			"entity_ids": engErr.EntityIDs,
		})
	case errors.Is(err, store.ErrLeagueNotFound):
		h.errorResponse(w, http.StatusNotFound, "League not found")
	default:
		h.logger.Errorw("Request failed", "error", err)
		h.errorResponse(w, http.StatusInternalServerError, "Internal server error")
	}
}

func (h *Handler) jsonResponse(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (h *Handler) errorResponse(w http.ResponseWriter, status int, message string) {
	h.jsonResponse(w, status, map[string]string{"error": message})
}
