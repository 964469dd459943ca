// Package watchlist manages saved tickers, their valuation rows and the user settings
// those rows are computed with.
package watchlist

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ternarybob/arbor"
	"golang.org/x/sync/errgroup"

	"github.com/ternarybob/sticker/internal/common"
	"github.com/ternarybob/sticker/internal/interfaces"
	"github.com/ternarybob/sticker/internal/models"
	"github.com/ternarybob/sticker/internal/valuation"
)

// refreshConcurrency caps parallel quote requests during a refresh.
const refreshConcurrency = 4

// ErrInvalidInput marks errors caused by the caller's data.
var ErrInvalidInput = errors.New("invalid input")

// EntryInput is the editable part of a watchlist entry.
type EntryInput struct {
	Ticker           string   `json:"ticker"`
	Name             string   `json:"name"`
	CurrentPrice     float64  `json:"current_price"`
	EPS              float64  `json:"eps"`
	GrowthRate       *float64 `json:"growth_rate,omitempty"` // nil uses the default growth rate
	HistoricalHighPE *float64 `json:"historical_high_pe,omitempty"`
}

// PaybackSave is a payback calculation saved to the watchlist.
type PaybackSave struct {
	Ticker     string  `json:"ticker"`
	Name       string  `json:"name"`
	Price      float64 `json:"price"`
	EPS        float64 `json:"eps"`
	GrowthRate float64 `json:"growth_rate"`
}

// Display holds prices formatted in the settings currency.
type Display struct {
	Currency     string `json:"currency"`
	CurrentPrice string `json:"current_price"`
	StickerPrice string `json:"sticker_price"`
	MOSPrice     string `json:"mos_price"`
}

// Row is a watchlist entry with its valuation at the current target MOS.
type Row struct {
	*models.WatchlistEntry
	Valuation valuation.ValuationResult `json:"valuation"`
	Display   Display                   `json:"display"`
}

// Dashboard summarises the watchlist.
type Dashboard struct {
	WatchlistCount int     `json:"watchlist_count"`
	OnSaleCount    int     `json:"on_sale_count"`
	TargetMOS      float64 `json:"target_mos"`
}

// RefreshReport lists the outcome of a quote refresh.
type RefreshReport struct {
	Updated int      `json:"updated"`
	Failed  []string `json:"failed"`
}

// Service implements watchlist and settings operations.
type Service struct {
	storage  interfaces.WatchlistStorage
	settings interfaces.SettingsStorage
	provider interfaces.MarketDataProvider
	defaults common.ValuationConfig
	logger   arbor.ILogger
	now      func() time.Time
}

// NewService creates a new watchlist service. provider may be nil, in which case
// Refresh is unavailable.
func NewService(storage interfaces.StorageManager, provider interfaces.MarketDataProvider, defaults common.ValuationConfig, logger arbor.ILogger) *Service {
	return &Service{
		storage:  storage.WatchlistStorage(),
		settings: storage.SettingsStorage(),
		provider: provider,
		defaults: defaults,
		logger:   logger,
		now:      time.Now,
	}
}

// Create validates and stores a new entry.
func (s *Service) Create(ctx context.Context, in EntryInput) (*models.WatchlistEntry, error) {
	now := s.now().UTC()
	entry := &models.WatchlistEntry{
		ID:        common.NewWatchlistID(),
		CreatedAt: now,
	}
	if err := s.apply(entry, in); err != nil {
		return nil, err
	}
	entry.UpdatedAt = now

	if err := s.storage.SaveEntry(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to save watchlist entry: %w", err)
	}

	s.logger.Info().
		Str("id", entry.ID).
		Str("ticker", entry.Ticker).
		Msg("Watchlist entry created")

	return entry, nil
}

// AddFromPayback stores a payback calculation. Without fetched history the high P/E is
// seeded from the growth rate.
func (s *Service) AddFromPayback(ctx context.Context, in PaybackSave) (*models.WatchlistEntry, error) {
	growth := in.GrowthRate
	highPE := valuation.SeedHighPE(growth)
	return s.Create(ctx, EntryInput{
		Ticker:           in.Ticker,
		Name:             in.Name,
		CurrentPrice:     in.Price,
		EPS:              in.EPS,
		GrowthRate:       &growth,
		HistoricalHighPE: &highPE,
	})
}

// Update replaces the editable fields of an entry.
func (s *Service) Update(ctx context.Context, id string, in EntryInput) (*models.WatchlistEntry, error) {
	entry, err := s.storage.GetEntry(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.apply(entry, in); err != nil {
		return nil, err
	}
	entry.UpdatedAt = s.now().UTC()

	if err := s.storage.SaveEntry(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to save watchlist entry: %w", err)
	}
	return entry, nil
}

// Delete removes an entry.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.storage.DeleteEntry(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("id", id).Msg("Watchlist entry deleted")
	return nil
}

// Get returns one entry with its valuation.
func (s *Service) Get(ctx context.Context, id string) (*Row, error) {
	entry, err := s.storage.GetEntry(ctx, id)
	if err != nil {
		return nil, err
	}
	settings, err := s.Settings(ctx)
	if err != nil {
		return nil, err
	}
	row := buildRow(entry, settings)
	return &row, nil
}

// List returns every entry with its valuation, newest first.
func (s *Service) List(ctx context.Context) ([]Row, error) {
	rows, _, err := s.rows(ctx)
	return rows, err
}

// Dashboard counts the watchlist and the entries trading at or below their MOS price.
func (s *Service) Dashboard(ctx context.Context) (*Dashboard, error) {
	rows, settings, err := s.rows(ctx)
	if err != nil {
		return nil, err
	}

	d := &Dashboard{
		WatchlistCount: len(rows),
		TargetMOS:      settings.TargetMOS,
	}
	for _, r := range rows {
		if r.Valuation.OnSale {
			d.OnSaleCount++
		}
	}
	return d, nil
}

func (s *Service) rows(ctx context.Context) ([]Row, *models.Settings, error) {
	entries, err := s.storage.ListEntries(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list watchlist: %w", err)
	}
	settings, err := s.Settings(ctx)
	if err != nil {
		return nil, nil, err
	}

	rows := make([]Row, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, buildRow(e, settings))
	}
	return rows, settings, nil
}

// Refresh updates the current price of every entry from the market data provider.
// Failures are reported per ticker and do not stop the refresh.
func (s *Service) Refresh(ctx context.Context) (*RefreshReport, error) {
	if s.provider == nil {
		return nil, errors.New("market data provider not configured")
	}

	entries, err := s.storage.ListEntries(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list watchlist: %w", err)
	}

	var (
		mu     sync.Mutex
		report = &RefreshReport{Failed: []string{}}
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(refreshConcurrency)
	for _, entry := range entries {
		g.Go(func() error {
			err := s.refreshEntry(gctx, entry)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				s.logger.Warn().
					Err(err).
					Str("ticker", entry.Ticker).
					Msg("Failed to refresh watchlist quote")
				report.Failed = append(report.Failed, entry.Ticker)
				return nil
			}
			report.Updated++
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	sort.Strings(report.Failed)

	s.logger.Info().
		Int("updated", report.Updated).
		Int("failed", len(report.Failed)).
		Msg("Watchlist quotes refreshed")

	return report, nil
}

func (s *Service) refreshEntry(ctx context.Context, entry *models.WatchlistEntry) error {
	quote, err := s.provider.GetQuote(ctx, common.ParseTicker(entry.Ticker).Symbol())
	if err != nil {
		return err
	}
	if quote.Price <= 0 {
		return fmt.Errorf("non-positive price %v", quote.Price)
	}

	now := s.now().UTC()
	entry.CurrentPrice = quote.Price
	entry.PriceUpdatedAt = &now
	entry.UpdatedAt = now
	if entry.Name == "" || entry.Name == entry.Ticker {
		if quote.Name != "" {
			entry.Name = quote.Name
		}
	}
	return s.storage.SaveEntry(ctx, entry)
}

// Settings returns the saved settings, or the configured defaults before the first save.
func (s *Service) Settings(ctx context.Context) (*models.Settings, error) {
	settings, err := s.settings.GetSettings(ctx)
	if err == nil {
		return settings, nil
	}
	if !errors.Is(err, interfaces.ErrNotFound) {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	currency := strings.ToUpper(s.defaults.DefaultCurrency)
	if currency == "" {
		currency = "USD"
	}
	target := s.defaults.DefaultTargetMOS
	if target == 0 {
		target = valuation.DefaultMOSPercentage
	}
	return &models.Settings{Currency: currency, TargetMOS: target}, nil
}

// SaveSettings validates and stores the settings.
func (s *Service) SaveSettings(ctx context.Context, settings *models.Settings) (*models.Settings, error) {
	settings.Currency = strings.ToUpper(strings.TrimSpace(settings.Currency))
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	settings.UpdatedAt = s.now().UTC()

	if err := s.settings.SaveSettings(ctx, settings); err != nil {
		return nil, fmt.Errorf("failed to save settings: %w", err)
	}

	s.logger.Info().
		Str("currency", settings.Currency).
		Float64("target_mos", settings.TargetMOS).
		Msg("Settings saved")

	return settings, nil
}

// apply copies in onto entry and validates the result.
func (s *Service) apply(entry *models.WatchlistEntry, in EntryInput) error {
	ticker := common.ParseTicker(in.Ticker)
	if !ticker.Valid() {
		return fmt.Errorf("%w: ticker %q", ErrInvalidInput, in.Ticker)
	}

	entry.Ticker = ticker.String()
	entry.Name = strings.TrimSpace(in.Name)
	if entry.Name == "" {
		entry.Name = entry.Ticker
	}
	entry.CurrentPrice = in.CurrentPrice
	entry.EPS = in.EPS
	entry.GrowthRate = valuation.DefaultGrowthRate
	if in.GrowthRate != nil {
		entry.GrowthRate = *in.GrowthRate
	}
	entry.HistoricalHighPE = nil
	if in.HistoricalHighPE != nil {
		v := *in.HistoricalHighPE
		entry.HistoricalHighPE = &v
	}

	if err := entry.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return nil
}

func buildRow(entry *models.WatchlistEntry, settings *models.Settings) Row {
	result := valuation.DeriveValuation(entry.ValuationInputs(settings.TargetMOS))
	return Row{
		WatchlistEntry: entry,
		Valuation:      result,
		Display: Display{
			Currency:     settings.Currency,
			CurrentPrice: common.FormatMoney(entry.CurrentPrice, settings.Currency),
			StickerPrice: common.FormatMoney(result.StickerPrice, settings.Currency),
			MOSPrice:     common.FormatMoney(result.MOSPrice, settings.Currency),
		},
	}
}
