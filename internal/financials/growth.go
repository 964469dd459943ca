package financials

import (
	"math"
	"sort"
)

// Trend classifies a year-over-year change.
type Trend string

const (
	TrendGrowing   Trend = "growing"
	TrendSteady    Trend = "steady"
	TrendDeclining Trend = "declining"
	TrendUnknown   Trend = "unknown"
)

// GrowingThreshold is the growth percentage above which a year counts as growing.
const GrowingThreshold = 10.0

// GrowthPoint is one cell of a per-metric growth grid.
type GrowthPoint struct {
	Year      int      `json:"year"`
	Value     *float64 `json:"value,omitempty"`
	GrowthPct *float64 `json:"growth_pct,omitempty"`
	Trend     Trend    `json:"trend"`
}

// YearOverYearGrowth builds a growth grid for one metric across every year present in
// records. Growth is measured against the previous year in the grid and divides by the
// absolute previous value, so a recovery from a loss reads as positive growth. A year
// with no value, or whose predecessor has no value or a zero value, has no growth.
func YearOverYearGrowth(records []YearlyFinancialRecord, metric Metric) []GrowthPoint {
	sorted := make([]YearlyFinancialRecord, len(records))
	copy(sorted, records)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Year < sorted[j].Year })

	out := make([]GrowthPoint, 0, len(sorted))
	for i, rec := range sorted {
		point := GrowthPoint{Year: rec.Year, Trend: TrendUnknown}
		v, ok := rec.Value(metric)
		if ok {
			point.Value = Float(v)
		}

		if ok && i > 0 {
			if prev, prevOK := sorted[i-1].Value(metric); prevOK && prev != 0 {
				g := (v - prev) / math.Abs(prev) * 100
				point.GrowthPct = Float(g)
				point.Trend = classify(g)
			}
		}
		out = append(out, point)
	}
	return out
}

func classify(growthPct float64) Trend {
	switch {
	case growthPct > GrowingThreshold:
		return TrendGrowing
	case growthPct < 0:
		return TrendDeclining
	default:
		return TrendSteady
	}
}
