package handlers

import (
	"context"

	"github.com/ternarybob/sticker/internal/models"
	"github.com/ternarybob/sticker/internal/services/history"
	"github.com/ternarybob/sticker/internal/services/scheduler"
	"github.com/ternarybob/sticker/internal/services/watchlist"
)

// HistoryService builds yearly histories.
type HistoryService interface {
	GetHistory(ctx context.Context, ticker string) (*history.Result, error)
}

// WatchlistService defines the methods needed from the watchlist service.
type WatchlistService interface {
	Create(ctx context.Context, in watchlist.EntryInput) (*models.WatchlistEntry, error)
	AddFromPayback(ctx context.Context, in watchlist.PaybackSave) (*models.WatchlistEntry, error)
	Update(ctx context.Context, id string, in watchlist.EntryInput) (*models.WatchlistEntry, error)
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (*watchlist.Row, error)
	List(ctx context.Context) ([]watchlist.Row, error)
	Dashboard(ctx context.Context) (*watchlist.Dashboard, error)
	Refresh(ctx context.Context) (*watchlist.RefreshReport, error)
	Settings(ctx context.Context) (*models.Settings, error)
	SaveSettings(ctx context.Context, settings *models.Settings) (*models.Settings, error)
}

// AnalysisService returns business analyses.
type AnalysisService interface {
	Analyze(ctx context.Context, ticker, companyName string, refresh bool) (*models.BusinessAnalysis, error)
}

// SchedulerService exposes job status and manual triggers.
type SchedulerService interface {
	Status() []scheduler.JobStatus
	TriggerJob(name string) error
	IsRunning() bool
}
