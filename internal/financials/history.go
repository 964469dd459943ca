package financials

// HistoryInput carries already-fetched provider data for one ticker.
type HistoryInput struct {
	Ticker string
	Series map[Metric][]RawPoint
	Bars   []PriceBar
}

// History is the aggregated yearly view of a ticker.
type History struct {
	Ticker  string                  `json:"ticker"`
	Records []YearlyFinancialRecord `json:"records"`
	Extrema YearlyExtrema           `json:"-"`
	Skipped []SkippedPoint          `json:"skipped,omitempty"`
}

// BuildHistory runs normalization and price aggregation over the same input and joins
// them into records carrying P/E extremes. Records are ascending unless an order option
// says otherwise.
func BuildHistory(in HistoryInput, opts ...NormalizeOption) History {
	records, skipped := NormalizeYearlySeries(in.Series, opts...)
	extrema, barSkipped := AggregatePriceExtrema(in.Bars, opts...)

	return History{
		Ticker:  in.Ticker,
		Records: DeriveRatios(records, extrema),
		Extrema: extrema,
		Skipped: append(skipped, barSkipped...),
	}
}
