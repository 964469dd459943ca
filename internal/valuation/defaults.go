package valuation

import (
	"math"
	"sort"

	"github.com/ternarybob/sticker/internal/financials"
)

const (
	// DefaultHighPE is used when no usable historical high P/E exists.
	DefaultHighPE = 15.0
	// MaxSaneHighPE is the ceiling above which a yearly high P/E is treated as an outlier.
	MaxSaneHighPE = 100.0
	// DefaultGrowthRate is used when fewer than two positive EPS years exist.
	DefaultGrowthRate = 0.15
	MinGrowthRate     = 0.05
	MaxGrowthRate     = 0.30
	// SeedHighPEFloor is the lowest high P/E SeedHighPE will propose.
	SeedHighPEFloor = 10.0
)

// Defaults are the assumptions derived from a ticker's history.
type Defaults struct {
	HistoricalHighPE    float64 `json:"historical_high_pe"`
	EstimatedGrowthRate float64 `json:"estimated_growth_rate"`
}

// DeriveDefaults computes both defaulting policies from a yearly history.
func DeriveDefaults(history []financials.YearlyFinancialRecord) Defaults {
	return Defaults{
		HistoricalHighPE:    AverageHighPE(financials.HighPEs(history)),
		EstimatedGrowthRate: EstimateGrowthRate(history),
	}
}

// AverageHighPE averages the values in (0, MaxSaneHighPE], falling back to
// DefaultHighPE when none qualify.
func AverageHighPE(highPEs []float64) float64 {
	sum := 0.0
	n := 0
	for _, pe := range highPEs {
		if math.IsNaN(pe) || pe <= 0 || pe > MaxSaneHighPE {
			continue
		}
		sum += pe
		n++
	}
	if n == 0 {
		return DefaultHighPE
	}
	return sum / float64(n)
}

// EstimateGrowthRate returns the compound annual EPS growth between the earliest and
// latest positive EPS years, clamped to [MinGrowthRate, MaxGrowthRate].
func EstimateGrowthRate(history []financials.YearlyFinancialRecord) float64 {
	type point struct {
		year int
		eps  float64
	}
	var positive []point
	for _, rec := range history {
		if rec.EPS == nil || *rec.EPS <= 0 || math.IsInf(*rec.EPS, 0) {
			continue
		}
		positive = append(positive, point{rec.Year, *rec.EPS})
	}
	if len(positive) < 2 {
		return DefaultGrowthRate
	}
	sort.SliceStable(positive, func(i, j int) bool { return positive[i].year < positive[j].year })

	first, last := positive[0], positive[len(positive)-1]
	years := last.year - first.year
	if years <= 0 {
		return DefaultGrowthRate
	}

	cagr := math.Pow(last.eps/first.eps, 1/float64(years)) - 1
	if math.IsNaN(cagr) {
		return DefaultGrowthRate
	}
	return clamp(cagr, MinGrowthRate, MaxGrowthRate)
}

// SeedHighPE proposes a high P/E for a new watchlist entry from its growth rate:
// twice the growth percentage, floored at SeedHighPEFloor and capped at DefaultHighPE.
func SeedHighPE(growthRate float64) float64 {
	return math.Min(DefaultHighPE, math.Max(SeedHighPEFloor, growthRate*200))
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
