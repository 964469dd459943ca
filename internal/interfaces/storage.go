package interfaces

import (
	"context"
	"errors"

	"github.com/ternarybob/sticker/internal/models"
)

// ErrNotFound is returned when a stored record does not exist
var ErrNotFound = errors.New("not found")

// WatchlistStorage - interface for watchlist persistence
type WatchlistStorage interface {
	SaveEntry(ctx context.Context, entry *models.WatchlistEntry) error
	GetEntry(ctx context.Context, id string) (*models.WatchlistEntry, error)
	// GetEntryByTicker returns ErrNotFound when no entry holds the ticker
	GetEntryByTicker(ctx context.Context, ticker string) (*models.WatchlistEntry, error)
	// ListEntries returns entries ordered by CreatedAt, newest first
	ListEntries(ctx context.Context) ([]*models.WatchlistEntry, error)
	DeleteEntry(ctx context.Context, id string) error
	CountEntries(ctx context.Context) (int, error)
}

// SettingsStorage - interface for the single user settings record
type SettingsStorage interface {
	// GetSettings returns ErrNotFound until settings are first saved
	GetSettings(ctx context.Context) (*models.Settings, error)
	SaveSettings(ctx context.Context, settings *models.Settings) error
}

// AnalysisStorage - cache of generated business analyses keyed by ticker
type AnalysisStorage interface {
	GetAnalysis(ctx context.Context, ticker string) (*models.BusinessAnalysis, error)
	SaveAnalysis(ctx context.Context, analysis *models.BusinessAnalysis) error
}

// StorageManager - composite interface for all storage operations
type StorageManager interface {
	WatchlistStorage() WatchlistStorage
	SettingsStorage() SettingsStorage
	AnalysisStorage() AnalysisStorage
	Close() error
}
