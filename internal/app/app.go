package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/sticker/internal/common"
	"github.com/ternarybob/sticker/internal/eodhd"
	"github.com/ternarybob/sticker/internal/handlers"
	"github.com/ternarybob/sticker/internal/interfaces"
	"github.com/ternarybob/sticker/internal/services/analysis"
	"github.com/ternarybob/sticker/internal/services/history"
	"github.com/ternarybob/sticker/internal/services/market"
	"github.com/ternarybob/sticker/internal/services/scheduler"
	"github.com/ternarybob/sticker/internal/services/watchlist"
	"github.com/ternarybob/sticker/internal/storage/badger"
)

// WatchlistRefreshJob is the scheduler job name for the background quote refresh.
const WatchlistRefreshJob = "watchlist_refresh"

// App holds all application components and dependencies
type App struct {
	Config         *common.Config
	Logger         arbor.ILogger
	ctx            context.Context
	cancelCtx      context.CancelFunc
	StorageManager interfaces.StorageManager

	// Market data
	EODHDClient    *eodhd.Client
	MarketProvider interfaces.MarketDataProvider

	// Domain services
	HistoryService   *history.Service
	WatchlistService *watchlist.Service
	AnalysisService  *analysis.Service
	SchedulerService *scheduler.Service

	// HTTP handlers
	APIHandler       *handlers.APIHandler
	StockHandler     *handlers.StockHandler
	ValuationHandler *handlers.ValuationHandler
	WatchlistHandler *handlers.WatchlistHandler
	AnalysisHandler  *handlers.AnalysisHandler
	SchedulerHandler *handlers.SchedulerHandler
}

// New initializes the application with all dependencies
func New(cfg *common.Config, logger arbor.ILogger) (*App, error) {
	app := &App{
		Config: cfg,
		Logger: logger,
	}
	app.ctx, app.cancelCtx = context.WithCancel(context.Background())

	common.SetDefaultExchange(cfg.Markets.DefaultExchange)

	if err := app.initDatabase(); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := app.initServices(); err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	app.initHandlers()

	logger.Info().
		Str("default_exchange", common.DefaultExchange).
		Str("analyzer", app.AnalysisService.Provider()).
		Msg("Application initialized")

	return app, nil
}

// initDatabase opens the Badger store
func (a *App) initDatabase() error {
	storageManager, err := badger.NewManager(a.Logger, &a.Config.Storage.Badger)
	if err != nil {
		return fmt.Errorf("failed to create storage manager: %w", err)
	}

	a.StorageManager = storageManager
	a.Logger.Debug().
		Str("storage", "badger").
		Str("path", a.Config.Storage.Badger.Path).
		Msg("Storage layer initialized")

	return nil
}

// initServices builds the market data client and the domain services
func (a *App) initServices() error {
	cfg := a.Config

	if cfg.EODHD.APIKey == "" {
		a.Logger.Warn().Msg("EODHD API key not configured, quote and history requests will fail")
	}

	maxTries := cfg.EODHD.MaxRetries
	if maxTries < 1 {
		maxTries = 1
	}
	a.EODHDClient = eodhd.NewClient(cfg.EODHD.APIKey,
		eodhd.WithBaseURL(cfg.EODHD.BaseURL),
		eodhd.WithLogger(a.Logger),
		eodhd.WithRateLimit(cfg.EODHD.RateLimit),
		eodhd.WithRetry(uint(maxTries), eodhd.DefaultRetryInterval),
		eodhd.WithHTTPClient(&http.Client{
			Timeout: common.Duration(cfg.EODHD.Timeout, eodhd.DefaultTimeout),
		}),
	)
	a.MarketProvider = market.NewProvider(a.EODHDClient, a.Logger)

	a.HistoryService = history.NewService(a.MarketProvider, cfg.EODHD.HistoryYears, a.Logger)
	a.WatchlistService = watchlist.NewService(a.StorageManager, a.MarketProvider, cfg.Valuation, a.Logger)

	analyzer := analysis.NewAnalyzer(a.ctx, cfg, a.Logger)
	a.AnalysisService = analysis.NewService(analyzer, a.StorageManager.AnalysisStorage(), a.Logger)

	a.SchedulerService = scheduler.NewService(a.Logger)
	if cfg.Scheduler.Enabled {
		if err := a.SchedulerService.RegisterJob(WatchlistRefreshJob, cfg.Scheduler.WatchlistRefresh, a.refreshWatchlist); err != nil {
			return fmt.Errorf("failed to register %s job: %w", WatchlistRefreshJob, err)
		}
	}

	return nil
}

// refreshWatchlist is the scheduled job body
func (a *App) refreshWatchlist(ctx context.Context) error {
	report, err := a.WatchlistService.Refresh(ctx)
	if err != nil {
		return err
	}
	if len(report.Failed) > 0 {
		return fmt.Errorf("%d of %d quotes failed to refresh", len(report.Failed), len(report.Failed)+report.Updated)
	}
	return nil
}

// initHandlers creates the HTTP handlers
func (a *App) initHandlers() {
	a.APIHandler = handlers.NewAPIHandler(a.Logger)
	a.StockHandler = handlers.NewStockHandler(a.MarketProvider, a.HistoryService, a.Logger)
	a.ValuationHandler = handlers.NewValuationHandler(a.Logger)
	a.WatchlistHandler = handlers.NewWatchlistHandler(a.WatchlistService, a.Logger)
	a.AnalysisHandler = handlers.NewAnalysisHandler(a.AnalysisService, a.Logger)
	a.SchedulerHandler = handlers.NewSchedulerHandler(a.SchedulerService)
}

// StartBackground starts the scheduler when it has jobs to run
func (a *App) StartBackground() error {
	if !a.Config.Scheduler.Enabled {
		a.Logger.Debug().Msg("Scheduler disabled")
		return nil
	}
	return a.SchedulerService.Start()
}

// Close stops background work and closes storage
func (a *App) Close() error {
	if a.cancelCtx != nil {
		a.cancelCtx()
	}

	if a.SchedulerService != nil {
		if err := a.SchedulerService.Stop(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to stop scheduler service")
		}
	}

	if a.StorageManager != nil {
		if err := a.StorageManager.Close(); err != nil {
			return fmt.Errorf("failed to close storage: %w", err)
		}
		a.StorageManager = nil
		a.Logger.Info().Msg("Storage closed")
	}

	return nil
}
