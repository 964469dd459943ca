// Package market adapts the EODHD client to the MarketDataProvider interface.
package market

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"golang.org/x/sync/errgroup"

	"github.com/ternarybob/sticker/internal/common"
	"github.com/ternarybob/sticker/internal/eodhd"
	"github.com/ternarybob/sticker/internal/financials"
	"github.com/ternarybob/sticker/internal/models"
)

// Provider fetches quotes, fundamentals and price bars from EODHD.
type Provider struct {
	client *eodhd.Client
	logger arbor.ILogger
	now    func() time.Time
}

// NewProvider creates a new EODHD-backed market data provider.
func NewProvider(client *eodhd.Client, logger arbor.ILogger) *Provider {
	return &Provider{
		client: client,
		logger: logger,
		now:    time.Now,
	}
}

// GetQuote combines the real-time price with the company details and trailing EPS
// from fundamentals. A fundamentals failure degrades the quote rather than failing it.
func (p *Provider) GetQuote(ctx context.Context, symbol string) (*models.StockQuote, error) {
	var (
		rt   *eodhd.RealTimeQuote
		fund *eodhd.FundamentalsResponse
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		q, err := p.client.GetRealTimeQuote(gctx, symbol)
		if err != nil {
			return fmt.Errorf("real-time quote for %s: %w", symbol, err)
		}
		rt = q
		return nil
	})
	g.Go(func() error {
		f, err := p.client.GetFundamentals(gctx, symbol)
		if err != nil {
			p.logger.Warn().Err(err).Str("symbol", symbol).Msg("Fundamentals unavailable for quote")
			return nil
		}
		fund = f
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	price, ok := rt.Price()
	if !ok {
		return nil, fmt.Errorf("no price available for %s", symbol)
	}

	ticker := common.ParseTicker(symbol)
	quote := &models.StockQuote{
		Ticker:   ticker.String(),
		Symbol:   ticker.Symbol(),
		Name:     ticker.Code,
		Exchange: ticker.Exchange,
		Price:    price,
		AsOf:     p.now().UTC(),
	}
	if rt.Timestamp > 0 {
		quote.AsOf = time.Unix(rt.Timestamp, 0).UTC()
	}

	if fund != nil {
		if info := fund.General; info != nil {
			if info.Name != "" {
				quote.Name = info.Name
			}
			if info.Exchange != "" {
				quote.Exchange = info.Exchange
			}
			quote.Currency = strings.ToUpper(info.CurrencyCode)
			quote.Sector = info.Sector
			quote.Industry = info.Industry
		}
		quote.EPS = fund.Highlights.TrailingEPS()
	}

	return quote, nil
}

// GetMetricSeries returns the raw yearly EPS, revenue and equity series.
func (p *Provider) GetMetricSeries(ctx context.Context, symbol string) (map[financials.Metric][]financials.RawPoint, error) {
	fund, err := p.client.GetFundamentals(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("fundamentals for %s: %w", symbol, err)
	}
	return fund.MetricSeries(), nil
}

// GetPriceBars returns monthly bars from the given date to today.
func (p *Provider) GetPriceBars(ctx context.Context, symbol string, from time.Time) ([]financials.PriceBar, error) {
	bars, err := p.client.GetEOD(ctx, symbol,
		eodhd.WithPeriod("m"),
		eodhd.WithDateRange(from, time.Time{}),
	)
	if err != nil {
		return nil, fmt.Errorf("price bars for %s: %w", symbol, err)
	}
	return bars.PriceBars(), nil
}
