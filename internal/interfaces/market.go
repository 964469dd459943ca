package interfaces

import (
	"context"
	"time"

	"github.com/ternarybob/sticker/internal/financials"
	"github.com/ternarybob/sticker/internal/models"
)

// MarketDataProvider fetches raw market data for a provider symbol (e.g. AAPL.US).
type MarketDataProvider interface {
	GetQuote(ctx context.Context, symbol string) (*models.StockQuote, error)
	GetMetricSeries(ctx context.Context, symbol string) (map[financials.Metric][]financials.RawPoint, error)
	GetPriceBars(ctx context.Context, symbol string, from time.Time) ([]financials.PriceBar, error)
}

// BusinessAnalyzer produces a qualitative assessment of a business.
type BusinessAnalyzer interface {
	Name() string
	Analyze(ctx context.Context, ticker, companyName string) (*models.BusinessAnalysis, error)
}
