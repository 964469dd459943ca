package handlers

import (
	"net/http"
	"strconv"

	"github.com/ternarybob/arbor"
)

// AnalysisHandler serves LLM business assessments.
type AnalysisHandler struct {
	service AnalysisService
	logger  arbor.ILogger
}

// NewAnalysisHandler creates a new analysis handler
func NewAnalysisHandler(service AnalysisService, logger arbor.ILogger) *AnalysisHandler {
	return &AnalysisHandler{
		service: service,
		logger:  logger,
	}
}

// AnalyzeHandler handles GET /api/analysis/{ticker}?name=...&refresh=true
func (h *AnalysisHandler) AnalyzeHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	ticker := PathParam(r, "/api/analysis/")
	if ticker == "" {
		WriteError(w, http.StatusBadRequest, "Ticker is required")
		return
	}
	refresh, _ := strconv.ParseBool(r.URL.Query().Get("refresh"))

	result, err := h.service.Analyze(r.Context(), ticker, r.URL.Query().Get("name"), refresh)
	if err != nil {
		WriteServiceError(w, h.logger, err, "analyze business")
		return
	}
	WriteJSON(w, http.StatusOK, result)
}
