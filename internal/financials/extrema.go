package financials

import (
	"fmt"
	"math"
	"sort"
)

// YearlyExtrema maps a calendar year to its price extrema.
type YearlyExtrema map[int]YearlyPriceExtrema

// Lookup implements ExtremaLookup.
func (e YearlyExtrema) Lookup(year int) (YearlyPriceExtrema, bool) {
	x, ok := e[year]
	return x, ok
}

// Years returns the years present, ascending.
func (e YearlyExtrema) Years() []int {
	years := make([]int, 0, len(e))
	for y := range e {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}

// AggregatePriceExtrema folds price bars into one high/low pair per calendar year.
// A bar missing either its high or its low, or carrying a non-finite value, is skipped
// entirely so a valid low is never paired with a missing high.
func AggregatePriceExtrema(bars []PriceBar, opts ...NormalizeOption) (YearlyExtrema, []SkippedPoint) {
	o := buildNormalizeOptions(opts)
	out := make(YearlyExtrema)
	var skipped []SkippedPoint

	for i, bar := range bars {
		if !finite(bar.High) || !finite(bar.Low) {
			skipped = append(skipped, SkippedPoint{
				Index:  i,
				Date:   bar.Date,
				Reason: SkipMissingPrice,
			})
			continue
		}

		year, err := o.yearOf(bar.Date)
		if err != nil {
			skipped = append(skipped, SkippedPoint{
				Index:  i,
				Date:   bar.Date,
				Reason: SkipMalformedDate,
				Err:    err.Error(),
			})
			continue
		}

		high, low := *bar.High, *bar.Low
		cur, ok := out[year]
		if !ok {
			out[year] = YearlyPriceExtrema{Year: year, High: high, Low: low}
			continue
		}
		cur.High = math.Max(cur.High, high)
		cur.Low = math.Min(cur.Low, low)
		out[year] = cur
	}

	return out, skipped
}

func finite(p *float64) bool {
	return p != nil && !math.IsNaN(*p) && !math.IsInf(*p, 0)
}

// String renders the extrema for logs.
func (x YearlyPriceExtrema) String() string {
	return fmt.Sprintf("%d[%.2f-%.2f]", x.Year, x.Low, x.High)
}
