// Package history assembles a ticker's yearly financial history from the market data
// provider and derives the default valuation assumptions from it.
package history

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"golang.org/x/sync/errgroup"

	"github.com/ternarybob/sticker/internal/common"
	"github.com/ternarybob/sticker/internal/financials"
	"github.com/ternarybob/sticker/internal/interfaces"
	"github.com/ternarybob/sticker/internal/valuation"
)

// DefaultHistoryYears bounds the price history used for P/E ranges.
const DefaultHistoryYears = 10

// ErrInvalidTicker is returned for tickers that cannot be sent to the provider.
var ErrInvalidTicker = errors.New("invalid ticker")

// growthMetrics are the series shown as year-over-year grids.
var growthMetrics = []financials.Metric{
	financials.MetricEPS,
	financials.MetricRevenue,
	financials.MetricEquity,
}

// Result is the history view of a ticker.
type Result struct {
	Ticker        string                                         `json:"ticker"`
	Symbol        string                                         `json:"symbol"`
	DataAvailable bool                                           `json:"data_available"`
	Records       []financials.YearlyFinancialRecord             `json:"records"`
	Growth        map[financials.Metric][]financials.GrowthPoint `json:"growth"`
	Defaults      valuation.Defaults                             `json:"defaults"`
	SkippedCount  int                                            `json:"skipped_count"`
	SkippedPoints int                                            `json:"skipped_points"`
	SkippedBars   int                                            `json:"skipped_bars"`
	Warning       string                                         `json:"warning,omitempty"`
}

// Service builds ticker histories.
type Service struct {
	provider     interfaces.MarketDataProvider
	normalizer   *financials.Normalizer
	logger       arbor.ILogger
	historyYears int
	now          func() time.Time
}

// NewService creates a new history service. historyYears <= 0 uses DefaultHistoryYears.
func NewService(provider interfaces.MarketDataProvider, historyYears int, logger arbor.ILogger) *Service {
	if historyYears <= 0 {
		historyYears = DefaultHistoryYears
	}
	return &Service{
		provider:     provider,
		normalizer:   financials.NewNormalizer(logger),
		logger:       logger,
		historyYears: historyYears,
		now:          time.Now,
	}
}

// GetHistory fetches fundamentals and price bars concurrently and aggregates them.
// Provider failures yield an empty history carrying a warning, never an error; the
// only error is an unusable ticker.
func (s *Service) GetHistory(ctx context.Context, rawTicker string) (*Result, error) {
	ticker := common.ParseTicker(rawTicker)
	if !ticker.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTicker, rawTicker)
	}
	symbol := ticker.Symbol()

	var (
		series  map[financials.Metric][]financials.RawPoint
		bars    []financials.PriceBar
		barsErr error
	)

	from := time.Date(s.now().Year()-s.historyYears, 1, 1, 0, 0, 0, 0, time.UTC)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		series, err = s.provider.GetMetricSeries(gctx, symbol)
		return err
	})
	g.Go(func() error {
		// Missing bars only cost the P/E columns.
		bars, barsErr = s.provider.GetPriceBars(gctx, symbol, from)
		return nil
	})

	if err := g.Wait(); err != nil {
		s.logger.Warn().
			Err(err).
			Str("ticker", ticker.String()).
			Msg("History unavailable from provider")
		return s.emptyResult(ticker, "no data available"), nil
	}

	if barsErr != nil {
		s.logger.Warn().
			Err(barsErr).
			Str("ticker", ticker.String()).
			Msg("Price history unavailable, P/E ranges omitted")
		bars = nil
	}

	records, skippedPoints := s.normalizer.Normalize(ticker.String(), series)
	extrema, skippedBars := financials.AggregatePriceExtrema(bars)
	records = financials.DeriveRatios(records, extrema)

	result := &Result{
		Ticker:        ticker.String(),
		Symbol:        symbol,
		DataAvailable: len(records) > 0,
		Records:       records,
		Growth:        growthGrids(records),
		Defaults:      valuation.DeriveDefaults(records),
		SkippedCount:  len(skippedPoints) + len(skippedBars),
		SkippedPoints: len(skippedPoints),
		SkippedBars:   len(skippedBars),
	}
	if !result.DataAvailable {
		result.Warning = "no data available"
	} else if barsErr != nil {
		result.Warning = "price history unavailable"
	}

	s.logger.Debug().
		Str("ticker", result.Ticker).
		Int("years", len(records)).
		Int("price_years", len(extrema)).
		Int("skipped_points", len(skippedPoints)).
		Int("skipped_bars", len(skippedBars)).
		Float64("default_high_pe", result.Defaults.HistoricalHighPE).
		Float64("default_growth", result.Defaults.EstimatedGrowthRate).
		Msg("History built")

	return result, nil
}

func (s *Service) emptyResult(ticker common.Ticker, warning string) *Result {
	return &Result{
		Ticker:   ticker.String(),
		Symbol:   ticker.Symbol(),
		Records:  []financials.YearlyFinancialRecord{},
		Growth:   growthGrids(nil),
		Defaults: valuation.DeriveDefaults(nil),
		Warning:  warning,
	}
}

func growthGrids(records []financials.YearlyFinancialRecord) map[financials.Metric][]financials.GrowthPoint {
	grids := make(map[financials.Metric][]financials.GrowthPoint, len(growthMetrics))
	for _, m := range growthMetrics {
		grids[m] = financials.YearOverYearGrowth(records, m)
	}
	return grids
}
