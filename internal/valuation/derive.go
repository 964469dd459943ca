package valuation

// ValuationInputs are the assumptions for a single valuation. Nil pointers mean the
// caller did not supply the value.
type ValuationInputs struct {
	CurrentPrice     float64  `json:"current_price"`
	EPS              float64  `json:"eps"`
	GrowthRate       float64  `json:"growth_rate"`
	HistoricalHighPE *float64 `json:"historical_high_pe,omitempty"`
	MOSPercentage    *float64 `json:"mos_percentage,omitempty"`
}

// ValuationResult is derived fresh from ValuationInputs on every call.
type ValuationResult struct {
	StickerPrice float64       `json:"sticker_price"`
	FuturePE     float64       `json:"future_pe"`
	MOSPrice     float64       `json:"mos_price"`
	PaybackYears int           `json:"payback_years"`
	Breakdown    []PaybackYear `json:"breakdown"`
	OnSale       bool          `json:"on_sale"`
}

// DeriveValuation runs the full calculator chain for one set of inputs.
func DeriveValuation(in ValuationInputs) ValuationResult {
	futurePE := EstimateFuturePE(in.GrowthRate, in.HistoricalHighPE)
	sticker := CalculateStickerPrice(in.EPS, in.GrowthRate, futurePE)
	mos := CalculateMOSPrice(sticker, in.MOSPercentage)
	payback := CalculatePaybackTime(in.CurrentPrice, in.EPS, in.GrowthRate)

	return ValuationResult{
		StickerPrice: sticker,
		FuturePE:     futurePE,
		MOSPrice:     mos,
		PaybackYears: payback.Years,
		Breakdown:    payback.Breakdown,
		OnSale:       IsOnSale(in.CurrentPrice, mos),
	}
}

// IsOnSale reports whether a positive price trades at or below the MOS price.
func IsOnSale(currentPrice, mosPrice float64) bool {
	return currentPrice > 0 && mosPrice > 0 && currentPrice <= mosPrice
}
