// Package financials merges per-metric provider series into a year-indexed history.
// Everything in this package is a pure transformation over in-memory values; fetching
// and persistence live in the service layer.
package financials

// Metric names a raw provider series.
type Metric string

const (
	MetricEPS     Metric = "eps"
	MetricRevenue Metric = "revenue"
	MetricEquity  Metric = "equity"
)

// Order selects the year ordering of normalized output.
type Order int

const (
	// Ascending is the default contract of the normalizer.
	Ascending Order = iota
	Descending
)

// RawPoint is a single provider observation. Date may be a string, a time.Time or an
// epoch number; Value may be any numeric type or a numeric string.
type RawPoint struct {
	Date  interface{} `json:"date"`
	Value interface{} `json:"value"`
}

// PriceBar is a daily or monthly price bar. High and Low are nil for gaps.
type PriceBar struct {
	Date interface{} `json:"date"`
	High *float64    `json:"high"`
	Low  *float64    `json:"low"`
}

// YearlyFinancialRecord is one calendar year's consolidated view of a ticker.
// A nil field means the metric was not reported for that year.
type YearlyFinancialRecord struct {
	Year    int      `json:"year"`
	EPS     *float64 `json:"eps,omitempty"`
	Revenue *float64 `json:"revenue,omitempty"`
	Equity  *float64 `json:"equity,omitempty"`
	HighPE  *float64 `json:"high_pe,omitempty"`
	LowPE   *float64 `json:"low_pe,omitempty"`
}

// Value returns the record's value for a metric.
func (r YearlyFinancialRecord) Value(m Metric) (float64, bool) {
	var p *float64
	switch m {
	case MetricEPS:
		p = r.EPS
	case MetricRevenue:
		p = r.Revenue
	case MetricEquity:
		p = r.Equity
	}
	if p == nil {
		return 0, false
	}
	return *p, true
}

// HasData reports whether any metric reported a value for the year.
func (r YearlyFinancialRecord) HasData() bool {
	return r.EPS != nil || r.Revenue != nil || r.Equity != nil
}

// clone returns a copy that shares no pointers with r.
func (r YearlyFinancialRecord) clone() YearlyFinancialRecord {
	out := YearlyFinancialRecord{Year: r.Year}
	out.EPS = copyFloat(r.EPS)
	out.Revenue = copyFloat(r.Revenue)
	out.Equity = copyFloat(r.Equity)
	out.HighPE = copyFloat(r.HighPE)
	out.LowPE = copyFloat(r.LowPE)
	return out
}

// YearlyPriceExtrema holds the highest high and lowest low seen in a calendar year.
type YearlyPriceExtrema struct {
	Year int     `json:"year"`
	High float64 `json:"high"`
	Low  float64 `json:"low"`
}

// ExtremaLookup resolves the price extrema for a calendar year.
type ExtremaLookup interface {
	Lookup(year int) (YearlyPriceExtrema, bool)
}

// SkipReason classifies why a raw item did not reach the output.
type SkipReason string

const (
	SkipMalformedDate  SkipReason = "malformed_date"
	SkipMalformedValue SkipReason = "malformed_value"
	SkipUnknownMetric  SkipReason = "unknown_metric"
	SkipMissingPrice   SkipReason = "missing_price"
)

// SkippedPoint describes an input item that was dropped.
type SkippedPoint struct {
	Metric Metric      `json:"metric,omitempty"`
	Index  int         `json:"index"`
	Date   interface{} `json:"date,omitempty"`
	Reason SkipReason  `json:"reason"`
	Err    string      `json:"error,omitempty"`
}

// Float returns a pointer to v.
func Float(v float64) *float64 {
	return &v
}

func copyFloat(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
