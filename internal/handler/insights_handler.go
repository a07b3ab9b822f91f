// internal/handler/insights_handler.go
package handler

import (
	"net/http"

	"github.com/unclebandit/leadreach-backend/internal/insights"
)

// InsightsHandler serves POST /insights.
type InsightsHandler struct {
	Service *insights.Service
}

func NewInsightsHandler(svc *insights.Service) *InsightsHandler {
	return &InsightsHandler{Service: svc}
}

// Generate runs one insight action and returns the JSON object the model produced.
func (h *InsightsHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req insights.Request
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	obj, err := h.Service.Run(r.Context(), req)
	if err != nil {
		WriteError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(obj) //nolint:errcheck
}
