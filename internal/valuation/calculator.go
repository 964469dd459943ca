// Package valuation implements the Rule #1 sticker price, margin of safety and payback
// time calculations. All functions are pure and safe for concurrent use.
package valuation

import "math"

const (
	// ProjectionYears is the fixed horizon earnings are projected over.
	ProjectionYears = 10
	// TargetReturnDivisor approximates 1.15^10 and discounts the future value back at a
	// 15% annual return.
	TargetReturnDivisor = 4.0
	// PaybackLimit caps the payback loop.
	PaybackLimit = 20
	// PaybackNotReached is reported when earnings never cover the price within the limit.
	PaybackNotReached = PaybackLimit + 1
	// DefaultMOSPercentage is the canonical 50% margin of safety.
	DefaultMOSPercentage = 50.0
)

// PaybackYear is one step of the payback ledger.
type PaybackYear struct {
	Year        int     `json:"year"`
	EPS         float64 `json:"eps"`
	Accumulated float64 `json:"accumulated"`
}

// PaybackResult holds the payback years and the per-year ledger.
type PaybackResult struct {
	Years     int           `json:"years"`
	PaidBack  bool          `json:"paid_back"`
	Breakdown []PaybackYear `json:"breakdown"`
}

// EstimateFuturePE returns twice the growth percentage, capped by historicalHighPE when
// one is supplied. A supplied zero is a value, not an absence.
func EstimateFuturePE(growthRate float64, historicalHighPE *float64) float64 {
	base := growthRate * 100 * 2
	if historicalHighPE == nil {
		return base
	}
	return math.Min(base, *historicalHighPE)
}

// CalculateStickerPrice projects eps over ProjectionYears at growthRate, prices it at
// futurePE and discounts the result by TargetReturnDivisor.
func CalculateStickerPrice(eps, growthRate, futurePE float64) float64 {
	futureEPS := eps * math.Pow(1+growthRate, ProjectionYears)
	return (futureEPS * futurePE) / TargetReturnDivisor
}

// CalculateMOSPrice applies a margin of safety expressed as 0-100. A nil percentage
// means DefaultMOSPercentage.
func CalculateMOSPrice(stickerPrice float64, mosPercentage *float64) float64 {
	pct := DefaultMOSPercentage
	if mosPercentage != nil {
		pct = *mosPercentage
	}
	return stickerPrice * (pct / 100)
}

// CalculatePaybackTime compounds eps by growthRate each year and accumulates it until
// the running total reaches currentPrice. Every iteration is recorded in the
// breakdown. When the total never reaches the price within PaybackLimit years, Years is
// PaybackNotReached.
//
// A non-positive or non-finite price and non-finite eps or growth return
// PaybackNotReached with an empty ledger. A non-positive eps runs to the limit. A growth
// rate at or below -100% also runs to the limit and never pays back, since earnings are
// wiped out or flip sign every year.
func CalculatePaybackTime(currentPrice, eps, growthRate float64) PaybackResult {
	if !finite(currentPrice) || !finite(eps) || !finite(growthRate) || currentPrice <= 0 {
		return PaybackResult{Years: PaybackNotReached, Breakdown: []PaybackYear{}}
	}
	canPayBack := growthRate > -1

	breakdown := make([]PaybackYear, 0, PaybackLimit)
	accumulated := 0.0
	current := eps
	for year := 1; year <= PaybackLimit; year++ {
		current *= 1 + growthRate
		accumulated += current
		breakdown = append(breakdown, PaybackYear{Year: year, EPS: current, Accumulated: accumulated})
		if canPayBack && accumulated >= currentPrice {
			return PaybackResult{Years: year, PaidBack: true, Breakdown: breakdown}
		}
	}
	return PaybackResult{Years: PaybackNotReached, Breakdown: breakdown}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
