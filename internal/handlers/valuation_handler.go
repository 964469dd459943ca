package handlers

import (
	"math"
	"net/http"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/sticker/internal/valuation"
)

// PaybackRequest is the body of POST /api/payback.
type PaybackRequest struct {
	Price      float64 `json:"price"`
	EPS        float64 `json:"eps"`
	GrowthRate float64 `json:"growth_rate"`
}

// ValuationHandler exposes the calculators.
type ValuationHandler struct {
	logger arbor.ILogger
}

// NewValuationHandler creates a new valuation handler
func NewValuationHandler(logger arbor.ILogger) *ValuationHandler {
	return &ValuationHandler{logger: logger}
}

// ValuationHandler handles POST /api/valuation
func (h *ValuationHandler) ValuationHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var in valuation.ValuationInputs
	if !DecodeJSON(w, r, &in) {
		return
	}
	if msg := checkInputs(in.CurrentPrice, in.EPS, in.GrowthRate); msg != "" {
		WriteError(w, http.StatusBadRequest, msg)
		return
	}
	if in.HistoricalHighPE != nil && !finite(*in.HistoricalHighPE) {
		WriteError(w, http.StatusBadRequest, "historical_high_pe must be a finite number")
		return
	}
	if in.MOSPercentage != nil && (*in.MOSPercentage < 0 || *in.MOSPercentage > 100) {
		WriteError(w, http.StatusBadRequest, "mos_percentage must be between 0 and 100")
		return
	}

	result := valuation.DeriveValuation(in)
	if !finite(result.StickerPrice, result.FuturePE, result.MOSPrice) || !finiteLedger(result.Breakdown) {
		WriteError(w, http.StatusBadRequest, "inputs are out of range")
		return
	}

	h.logger.Debug().
		Float64("eps", in.EPS).
		Float64("growth_rate", in.GrowthRate).
		Float64("sticker_price", result.StickerPrice).
		Int("payback_years", result.PaybackYears).
		Msg("Valuation computed")

	WriteJSON(w, http.StatusOK, result)
}

// PaybackHandler handles POST /api/payback
func (h *ValuationHandler) PaybackHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req PaybackRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	if msg := checkInputs(req.Price, req.EPS, req.GrowthRate); msg != "" {
		WriteError(w, http.StatusBadRequest, msg)
		return
	}

	result := valuation.CalculatePaybackTime(req.Price, req.EPS, req.GrowthRate)
	if !finiteLedger(result.Breakdown) {
		WriteError(w, http.StatusBadRequest, "inputs are out of range")
		return
	}
	WriteJSON(w, http.StatusOK, result)
}

// checkInputs applies the same bounds as a stored watchlist entry. It returns an empty
// string when the inputs are usable.
func checkInputs(price, eps, growthRate float64) string {
	if !finite(price, eps, growthRate) {
		return "price, eps and growth_rate must be finite numbers"
	}
	if growthRate <= -1 || growthRate > 1 {
		return "growth_rate must be greater than -1 and at most 1"
	}
	return ""
}

func finite(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func finiteLedger(breakdown []valuation.PaybackYear) bool {
	for _, step := range breakdown {
		if !finite(step.EPS, step.Accumulated) {
			return false
		}
	}
	return true
}
