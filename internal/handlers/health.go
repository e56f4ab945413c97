package handlers

import "net/http"

// Health: GET /health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSONResp(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"timestamp": h.timestamp(),
		"version":   Version,
	})
}
