package watchlist

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/sticker/internal/common"
	"github.com/ternarybob/sticker/internal/financials"
	"github.com/ternarybob/sticker/internal/interfaces"
	"github.com/ternarybob/sticker/internal/models"
)

// memStorage is an in-memory StorageManager for service tests.
type memStorage struct {
	mu       sync.Mutex
	entries  map[string]*models.WatchlistEntry
	settings *models.Settings
}

func newMemStorage() *memStorage {
	return &memStorage{entries: map[string]*models.WatchlistEntry{}}
}

func (m *memStorage) WatchlistStorage() interfaces.WatchlistStorage { return m }
func (m *memStorage) SettingsStorage() interfaces.SettingsStorage   { return m }
func (m *memStorage) AnalysisStorage() interfaces.AnalysisStorage   { return nil }
func (m *memStorage) Close() error                                  { return nil }

func (m *memStorage) SaveEntry(ctx context.Context, entry *models.WatchlistEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *entry
	m.entries[entry.ID] = &cp
	return nil
}

func (m *memStorage) GetEntry(ctx context.Context, id string) (*models.WatchlistEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[id]
	if !ok {
		return nil, interfaces.ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (m *memStorage) GetEntryByTicker(ctx context.Context, ticker string) (*models.WatchlistEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.entries {
		if e.Ticker == ticker {
			cp := *e
			return &cp, nil
		}
	}
	return nil, interfaces.ErrNotFound
}

func (m *memStorage) ListEntries(ctx context.Context) ([]*models.WatchlistEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*models.WatchlistEntry, 0, len(m.entries))
	for _, e := range m.entries {
		cp := *e
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memStorage) DeleteEntry(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.entries[id]; !ok {
		return interfaces.ErrNotFound
	}
	delete(m.entries, id)
	return nil
}

func (m *memStorage) CountEntries(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries), nil
}

func (m *memStorage) GetSettings(ctx context.Context) (*models.Settings, error) {
	if m.settings == nil {
		return nil, interfaces.ErrNotFound
	}
	cp := *m.settings
	return &cp, nil
}

func (m *memStorage) SaveSettings(ctx context.Context, settings *models.Settings) error {
	cp := *settings
	m.settings = &cp
	return nil
}

type quoteProvider struct {
	prices map[string]float64
}

func (q *quoteProvider) GetQuote(ctx context.Context, symbol string) (*models.StockQuote, error) {
	price, ok := q.prices[symbol]
	if !ok {
		return nil, errors.New("unknown symbol")
	}
	return &models.StockQuote{Symbol: symbol, Name: strings.TrimSuffix(symbol, ".US") + " Corp", Price: price}, nil
}

func (q *quoteProvider) GetMetricSeries(ctx context.Context, symbol string) (map[financials.Metric][]financials.RawPoint, error) {
	return nil, errors.New("not used")
}

func (q *quoteProvider) GetPriceBars(ctx context.Context, symbol string, from time.Time) ([]financials.PriceBar, error) {
	return nil, errors.New("not used")
}

func newTestService(provider interfaces.MarketDataProvider) (*Service, *memStorage) {
	store := newMemStorage()
	s := NewService(store, provider, common.ValuationConfig{DefaultCurrency: "usd", DefaultTargetMOS: 50}, arbor.NewLogger())
	var mu sync.Mutex
	clock := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		clock = clock.Add(time.Minute)
		return clock
	}
	return s, store
}

func f(v float64) *float64 { return &v }

func TestCreate(t *testing.T) {
	s, store := newTestService(nil)
	ctx := context.Background()

	entry, err := s.Create(ctx, EntryInput{Ticker: " aapl ", CurrentPrice: 190, EPS: 6.1})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(entry.ID, "wl_"))
	assert.Equal(t, "AAPL", entry.Ticker)
	assert.Equal(t, "AAPL", entry.Name)
	assert.Equal(t, 0.15, entry.GrowthRate)
	assert.Nil(t, entry.HistoricalHighPE)
	assert.False(t, entry.CreatedAt.IsZero())

	n, _ := store.CountEntries(ctx)
	assert.Equal(t, 1, n)
}

func TestCreate_Invalid(t *testing.T) {
	s, _ := newTestService(nil)
	ctx := context.Background()

	tests := []struct {
		name string
		in   EntryInput
	}{
		{"bad ticker", EntryInput{Ticker: "DROP TABLE", CurrentPrice: 10}},
		{"empty ticker", EntryInput{Ticker: "", CurrentPrice: 10}},
		{"zero price", EntryInput{Ticker: "KO", CurrentPrice: 0}},
		{"growth below -100%", EntryInput{Ticker: "KO", CurrentPrice: 10, GrowthRate: f(-1)}},
		{"negative high pe", EntryInput{Ticker: "KO", CurrentPrice: 10, HistoricalHighPE: f(-3)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Create(ctx, tt.in)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestAddFromPayback_SeedsHighPE(t *testing.T) {
	s, _ := newTestService(nil)
	ctx := context.Background()

	e, err := s.AddFromPayback(ctx, PaybackSave{Ticker: "KO", Price: 60, EPS: 2.5, GrowthRate: 0.15})
	require.NoError(t, err)
	require.NotNil(t, e.HistoricalHighPE)
	assert.Equal(t, 15.0, *e.HistoricalHighPE)

	e, err = s.AddFromPayback(ctx, PaybackSave{Ticker: "T", Price: 17, EPS: 1.2, GrowthRate: 0.03})
	require.NoError(t, err)
	assert.Equal(t, 10.0, *e.HistoricalHighPE)
}

func TestUpdateAndDelete(t *testing.T) {
	s, _ := newTestService(nil)
	ctx := context.Background()

	e, err := s.Create(ctx, EntryInput{Ticker: "MSFT", CurrentPrice: 400, EPS: 11, HistoricalHighPE: f(35)})
	require.NoError(t, err)

	updated, err := s.Update(ctx, e.ID, EntryInput{Ticker: "MSFT", Name: "Microsoft", CurrentPrice: 410, EPS: 11.8, GrowthRate: f(0.12)})
	require.NoError(t, err)
	assert.Equal(t, "Microsoft", updated.Name)
	assert.Equal(t, 410.0, updated.CurrentPrice)
	assert.Nil(t, updated.HistoricalHighPE)
	assert.Equal(t, e.CreatedAt, updated.CreatedAt)
	assert.True(t, updated.UpdatedAt.After(e.UpdatedAt))

	_, err = s.Update(ctx, "wl_missing", EntryInput{Ticker: "MSFT", CurrentPrice: 1})
	assert.ErrorIs(t, err, interfaces.ErrNotFound)

	require.NoError(t, s.Delete(ctx, e.ID))
	assert.ErrorIs(t, s.Delete(ctx, e.ID), interfaces.ErrNotFound)
}

func TestListAndDashboard(t *testing.T) {
	s, _ := newTestService(nil)
	ctx := context.Background()

	cheap, err := s.Create(ctx, EntryInput{Ticker: "ACME", CurrentPrice: 45, EPS: 5, GrowthRate: f(0.15), HistoricalHighPE: f(20)})
	require.NoError(t, err)
	_, err = s.Create(ctx, EntryInput{Ticker: "PRCY", CurrentPrice: 200, EPS: 5, GrowthRate: f(0.15), HistoricalHighPE: f(20)})
	require.NoError(t, err)

	rows, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "PRCY", rows[0].Ticker, "newest first")

	row, err := s.Get(ctx, cheap.ID)
	require.NoError(t, err)
	assert.InDelta(t, 101.14, row.Valuation.StickerPrice, 0.01)
	assert.InDelta(t, 50.57, row.Valuation.MOSPrice, 0.01)
	assert.True(t, row.Valuation.OnSale)
	assert.Equal(t, "USD", row.Display.Currency)
	assert.Equal(t, "$45.00", row.Display.CurrentPrice)
	assert.Equal(t, "$50.57", row.Display.MOSPrice)

	d, err := s.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, d.WatchlistCount)
	assert.Equal(t, 1, d.OnSaleCount)
	assert.Equal(t, 50.0, d.TargetMOS)

	_, err = s.SaveSettings(ctx, &models.Settings{Currency: "usd", TargetMOS: 75})
	require.NoError(t, err)
	d, err = s.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, d.OnSaleCount)
	assert.Equal(t, 75.0, d.TargetMOS)
}

func TestSettings(t *testing.T) {
	s, store := newTestService(nil)
	ctx := context.Background()

	def, err := s.Settings(ctx)
	require.NoError(t, err)
	assert.Equal(t, "USD", def.Currency)
	assert.Equal(t, 50.0, def.TargetMOS)
	assert.Nil(t, store.settings, "defaults are not persisted")

	saved, err := s.SaveSettings(ctx, &models.Settings{Currency: " eur", TargetMOS: 30})
	require.NoError(t, err)
	assert.Equal(t, "EUR", saved.Currency)
	assert.False(t, saved.UpdatedAt.IsZero())

	got, err := s.Settings(ctx)
	require.NoError(t, err)
	assert.Equal(t, "EUR", got.Currency)
	assert.Equal(t, 30.0, got.TargetMOS)

	_, err = s.SaveSettings(ctx, &models.Settings{Currency: "EUR", TargetMOS: 90})
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = s.SaveSettings(ctx, &models.Settings{Currency: "AUD", TargetMOS: 50})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestRefresh(t *testing.T) {
	provider := &quoteProvider{prices: map[string]float64{"AAPL.US": 201.5}}
	s, store := newTestService(provider)
	ctx := context.Background()

	a, err := s.Create(ctx, EntryInput{Ticker: "AAPL", CurrentPrice: 190, EPS: 6.1})
	require.NoError(t, err)
	_, err = s.Create(ctx, EntryInput{Ticker: "GONE", CurrentPrice: 5, EPS: 0.1})
	require.NoError(t, err)

	report, err := s.Refresh(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Updated)
	assert.Equal(t, []string{"GONE"}, report.Failed)

	got, err := store.GetEntry(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 201.5, got.CurrentPrice)
	assert.Equal(t, "AAPL Corp", got.Name)
	require.NotNil(t, got.PriceUpdatedAt)
}

func TestRefresh_NoProvider(t *testing.T) {
	s, _ := newTestService(nil)
	_, err := s.Refresh(context.Background())
	assert.Error(t, err)
}
