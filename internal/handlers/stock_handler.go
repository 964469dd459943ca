package handlers

import (
	"net/http"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/sticker/internal/common"
	"github.com/ternarybob/sticker/internal/interfaces"
)

// StockHandler serves quotes and yearly histories.
type StockHandler struct {
	market  interfaces.MarketDataProvider
	history HistoryService
	logger  arbor.ILogger
}

// NewStockHandler creates a new stock handler
func NewStockHandler(market interfaces.MarketDataProvider, history HistoryService, logger arbor.ILogger) *StockHandler {
	return &StockHandler{
		market:  market,
		history: history,
		logger:  logger,
	}
}

// QuoteHandler handles GET /api/stock/{ticker}
func (h *StockHandler) QuoteHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	ticker := common.ParseTicker(PathParam(r, "/api/stock/"))
	if !ticker.Valid() {
		WriteError(w, http.StatusBadRequest, "Ticker is required")
		return
	}

	quote, err := h.market.GetQuote(r.Context(), ticker.Symbol())
	if err != nil {
		WriteServiceError(w, h.logger, err, "fetch stock quote")
		return
	}

	WriteJSON(w, http.StatusOK, quote)
}

// HistoryHandler handles GET /api/history/{ticker}
func (h *StockHandler) HistoryHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	raw := PathParam(r, "/api/history/")
	if raw == "" {
		WriteError(w, http.StatusBadRequest, "Ticker is required")
		return
	}

	result, err := h.history.GetHistory(r.Context(), raw)
	if err != nil {
		WriteServiceError(w, h.logger, err, "build history")
		return
	}

	WriteJSON(w, http.StatusOK, result)
}
