package financials

import (
	"sort"

	"github.com/ternarybob/arbor"
)

// normalizeOptions holds the injected behaviour of a normalization pass.
type normalizeOptions struct {
	yearOf YearFunc
	order  Order
}

// NormalizeOption configures NormalizeYearlySeries.
type NormalizeOption func(*normalizeOptions)

// WithYearFunc replaces the default date to year extraction.
func WithYearFunc(fn YearFunc) NormalizeOption {
	return func(o *normalizeOptions) {
		if fn != nil {
			o.yearOf = fn
		}
	}
}

// WithOrder selects ascending (default) or descending year order.
func WithOrder(order Order) NormalizeOption {
	return func(o *normalizeOptions) {
		o.order = order
	}
}

func buildNormalizeOptions(opts []NormalizeOption) normalizeOptions {
	o := normalizeOptions{yearOf: YearOf, order: Ascending}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// NormalizeYearlySeries merges independently keyed metric series into one record per
// calendar year observed in any series.
//
// Duplicate reports for the same (year, metric) are resolved last-write-wins in input
// order. A nil value never overwrites an earlier reported value. Items with an
// unparseable date or a non-numeric value are skipped and returned in the second result;
// they never abort the batch.
func NormalizeYearlySeries(series map[Metric][]RawPoint, opts ...NormalizeOption) ([]YearlyFinancialRecord, []SkippedPoint) {
	o := buildNormalizeOptions(opts)

	// Metric keys are processed in sorted order so skipped diagnostics are stable
	metrics := make([]Metric, 0, len(series))
	for m := range series {
		metrics = append(metrics, m)
	}
	sort.Slice(metrics, func(i, j int) bool { return metrics[i] < metrics[j] })

	byYear := make(map[int]*YearlyFinancialRecord)
	var skipped []SkippedPoint

	for _, metric := range metrics {
		points := series[metric]
		if !isKnownMetric(metric) {
			skipped = append(skipped, SkippedPoint{
				Metric: metric,
				Index:  -1,
				Reason: SkipUnknownMetric,
			})
			continue
		}

		for i, point := range points {
			year, err := o.yearOf(point.Date)
			if err != nil {
				skipped = append(skipped, SkippedPoint{
					Metric: metric,
					Index:  i,
					Date:   point.Date,
					Reason: SkipMalformedDate,
					Err:    err.Error(),
				})
				continue
			}

			value, present, err := ParseNumber(point.Value)
			if err != nil {
				skipped = append(skipped, SkippedPoint{
					Metric: metric,
					Index:  i,
					Date:   point.Date,
					Reason: SkipMalformedValue,
					Err:    err.Error(),
				})
				continue
			}
			if !present {
				continue
			}

			rec, ok := byYear[year]
			if !ok {
				rec = &YearlyFinancialRecord{Year: year}
				byYear[year] = rec
			}
			setMetric(rec, metric, value)
		}
	}

	records := make([]YearlyFinancialRecord, 0, len(byYear))
	for _, rec := range byYear {
		if rec.HasData() {
			records = append(records, *rec)
		}
	}
	SortRecords(records, o.order)

	return records, skipped
}

// SortRecords orders records by year in place.
func SortRecords(records []YearlyFinancialRecord, order Order) {
	sort.Slice(records, func(i, j int) bool {
		if order == Descending {
			return records[i].Year > records[j].Year
		}
		return records[i].Year < records[j].Year
	})
}

func isKnownMetric(m Metric) bool {
	switch m {
	case MetricEPS, MetricRevenue, MetricEquity:
		return true
	}
	return false
}

func setMetric(rec *YearlyFinancialRecord, metric Metric, value float64) {
	v := value
	switch metric {
	case MetricEPS:
		rec.EPS = &v
	case MetricRevenue:
		rec.Revenue = &v
	case MetricEquity:
		rec.Equity = &v
	}
}

// Normalizer wraps NormalizeYearlySeries and logs the items it had to skip.
type Normalizer struct {
	logger arbor.ILogger
	opts   []NormalizeOption
}

// NewNormalizer creates a Normalizer. Options apply to every Normalize call.
func NewNormalizer(logger arbor.ILogger, opts ...NormalizeOption) *Normalizer {
	return &Normalizer{
		logger: logger,
		opts:   opts,
	}
}

// Normalize merges the series for a ticker and logs skipped items at warn level. The
// skipped items are returned as well.
func (n *Normalizer) Normalize(ticker string, series map[Metric][]RawPoint, opts ...NormalizeOption) ([]YearlyFinancialRecord, []SkippedPoint) {
	all := append(append([]NormalizeOption{}, n.opts...), opts...)
	records, skipped := NormalizeYearlySeries(series, all...)

	if n.logger != nil {
		for _, s := range skipped {
			n.logger.Warn().
				Str("ticker", ticker).
				Str("metric", string(s.Metric)).
				Int("index", s.Index).
				Str("reason", string(s.Reason)).
				Str("error", s.Err).
				Msg("Skipped provider data point")
		}
		n.logger.Debug().
			Str("ticker", ticker).
			Int("years", len(records)).
			Int("skipped", len(skipped)).
			Msg("Normalized metric series")
	}

	return records, skipped
}
