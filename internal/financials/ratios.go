package financials

import (
	"math"

	"github.com/shopspring/decimal"
)

// RatioPrecision is the number of decimal places P/E ratios are rounded to.
const RatioPrecision = 2

// DeriveRatios joins yearly EPS with yearly price extrema and returns fresh records
// carrying highPE and lowPE. The ratios are set only when EPS is reported and strictly
// positive and extrema exist for the same year; otherwise both stay absent. Input
// records are not modified.
func DeriveRatios(records []YearlyFinancialRecord, extrema ExtremaLookup) []YearlyFinancialRecord {
	out := make([]YearlyFinancialRecord, len(records))
	for i, rec := range records {
		r := rec.clone()
		r.HighPE = nil
		r.LowPE = nil

		if extrema != nil && r.EPS != nil && *r.EPS > 0 && !math.IsNaN(*r.EPS) && !math.IsInf(*r.EPS, 0) {
			if x, ok := extrema.Lookup(r.Year); ok {
				eps := *r.EPS
				r.HighPE = Float(RoundRatio(x.High / eps))
				r.LowPE = Float(RoundRatio(x.Low / eps))
			}
		}
		out[i] = r
	}
	return out
}

// RoundRatio rounds half away from zero to RatioPrecision decimal places.
func RoundRatio(v float64) float64 {
	return decimal.NewFromFloat(v).Round(RatioPrecision).InexactFloat64()
}

// HighPEs collects the highPE values present in records, in record order.
func HighPEs(records []YearlyFinancialRecord) []float64 {
	var out []float64
	for _, r := range records {
		if r.HighPE != nil {
			out = append(out, *r.HighPE)
		}
	}
	return out
}
