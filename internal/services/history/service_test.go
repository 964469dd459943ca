package history

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/sticker/internal/financials"
	"github.com/ternarybob/sticker/internal/models"
	"github.com/ternarybob/sticker/internal/valuation"
)

type fakeProvider struct {
	mu        sync.Mutex
	series    map[financials.Metric][]financials.RawPoint
	bars      []financials.PriceBar
	seriesErr error
	barsErr   error
	symbols   []string
	from      time.Time
}

func (f *fakeProvider) GetQuote(ctx context.Context, symbol string) (*models.StockQuote, error) {
	return nil, errors.New("not used")
}

func (f *fakeProvider) GetMetricSeries(ctx context.Context, symbol string) (map[financials.Metric][]financials.RawPoint, error) {
	f.mu.Lock()
	f.symbols = append(f.symbols, symbol)
	f.mu.Unlock()
	return f.series, f.seriesErr
}

func (f *fakeProvider) GetPriceBars(ctx context.Context, symbol string, from time.Time) ([]financials.PriceBar, error) {
	f.mu.Lock()
	f.from = from
	f.mu.Unlock()
	return f.bars, f.barsErr
}

func sampleProvider() *fakeProvider {
	return &fakeProvider{
		series: map[financials.Metric][]financials.RawPoint{
			financials.MetricEPS: {
				{Date: "2021-12-31", Value: 2.0},
				{Date: "2022-12-31", Value: 2.5},
				{Date: "2023-12-31", Value: "NA"},
			},
			financials.MetricRevenue: {
				{Date: "2021-12-31", Value: 100.0},
				{Date: "2022-12-31", Value: 90.0},
			},
		},
		bars: []financials.PriceBar{
			{Date: "2021-03-31", High: financials.Float(40), Low: financials.Float(30)},
			{Date: "2021-09-30", High: financials.Float(50), Low: financials.Float(35)},
			{Date: "2022-06-30", High: financials.Float(45), Low: financials.Float(25)},
			{Date: "2022-07-31", High: nil, Low: financials.Float(20)},
		},
	}
}

func newTestService(p *fakeProvider) *Service {
	s := NewService(p, 5, arbor.NewLogger())
	s.now = func() time.Time { return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC) }
	return s
}

func TestGetHistory(t *testing.T) {
	p := sampleProvider()
	s := newTestService(p)

	res, err := s.GetHistory(context.Background(), "acme")
	require.NoError(t, err)

	assert.Equal(t, []string{"ACME.US"}, p.symbols)
	assert.Equal(t, time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC), p.from)

	assert.True(t, res.DataAvailable)
	assert.Equal(t, "ACME", res.Ticker)
	assert.Empty(t, res.Warning)
	assert.Equal(t, 2, res.SkippedCount)
	assert.Equal(t, 1, res.SkippedPoints, "the NA eps value")
	assert.Equal(t, 1, res.SkippedBars, "the bar without a high")

	require.Len(t, res.Records, 2)
	r2021 := res.Records[0]
	assert.Equal(t, 2021, r2021.Year)
	require.NotNil(t, r2021.HighPE)
	assert.Equal(t, 25.0, *r2021.HighPE)
	assert.Equal(t, 15.0, *r2021.LowPE)

	r2022 := res.Records[1]
	assert.Equal(t, 18.0, *r2022.HighPE)
	assert.Equal(t, 10.0, *r2022.LowPE)

	eps := res.Growth[financials.MetricEPS]
	require.Len(t, eps, 2)
	assert.Equal(t, financials.TrendGrowing, eps[1].Trend)
	rev := res.Growth[financials.MetricRevenue]
	assert.Equal(t, financials.TrendDeclining, rev[1].Trend)
	assert.Len(t, res.Growth[financials.MetricEquity], 2)

	assert.InDelta(t, 21.5, res.Defaults.HistoricalHighPE, 1e-9)
	assert.InDelta(t, 0.25, res.Defaults.EstimatedGrowthRate, 1e-9)
}

func TestGetHistory_ProviderFailure(t *testing.T) {
	p := sampleProvider()
	p.seriesErr = errors.New("upstream down")
	s := newTestService(p)

	res, err := s.GetHistory(context.Background(), "ACME")
	require.NoError(t, err)
	assert.False(t, res.DataAvailable)
	assert.Empty(t, res.Records)
	assert.Equal(t, "no data available", res.Warning)
	assert.Equal(t, valuation.DefaultHighPE, res.Defaults.HistoricalHighPE)
	assert.Equal(t, valuation.DefaultGrowthRate, res.Defaults.EstimatedGrowthRate)
}

func TestGetHistory_BarsFailure(t *testing.T) {
	p := sampleProvider()
	p.barsErr = errors.New("eod timeout")
	s := newTestService(p)

	res, err := s.GetHistory(context.Background(), "ACME")
	require.NoError(t, err)
	assert.True(t, res.DataAvailable)
	assert.Equal(t, "price history unavailable", res.Warning)
	for _, r := range res.Records {
		assert.Nil(t, r.HighPE)
		assert.Nil(t, r.LowPE)
	}
	assert.Equal(t, valuation.DefaultHighPE, res.Defaults.HistoricalHighPE)
}

func TestGetHistory_InvalidTicker(t *testing.T) {
	s := newTestService(sampleProvider())

	_, err := s.GetHistory(context.Background(), "../etc")
	assert.ErrorIs(t, err, ErrInvalidTicker)
}
