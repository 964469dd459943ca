package badger

import (
	"context"
	"errors"
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/sticker/internal/interfaces"
	"github.com/ternarybob/sticker/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

// WatchlistStorage implements the WatchlistStorage interface for Badger
type WatchlistStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewWatchlistStorage creates a new WatchlistStorage instance
func NewWatchlistStorage(db *BadgerDB, logger arbor.ILogger) interfaces.WatchlistStorage {
	return &WatchlistStorage{
		db:     db,
		logger: logger,
	}
}

func (s *WatchlistStorage) SaveEntry(ctx context.Context, entry *models.WatchlistEntry) error {
	if entry.ID == "" {
		return fmt.Errorf("watchlist entry ID is required")
	}
	if err := s.db.Store().Upsert(entry.ID, entry); err != nil {
		return fmt.Errorf("failed to save watchlist entry: %w", err)
	}
	return nil
}

func (s *WatchlistStorage) GetEntry(ctx context.Context, id string) (*models.WatchlistEntry, error) {
	var entry models.WatchlistEntry
	if err := s.db.Store().Get(id, &entry); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, fmt.Errorf("watchlist entry %s: %w", id, interfaces.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get watchlist entry: %w", err)
	}
	return &entry, nil
}

func (s *WatchlistStorage) GetEntryByTicker(ctx context.Context, ticker string) (*models.WatchlistEntry, error) {
	var entries []models.WatchlistEntry
	if err := s.db.Store().Find(&entries, badgerhold.Where("Ticker").Eq(ticker).Limit(1)); err != nil {
		return nil, fmt.Errorf("failed to find watchlist entry: %w", err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("watchlist ticker %s: %w", ticker, interfaces.ErrNotFound)
	}
	return &entries[0], nil
}

func (s *WatchlistStorage) ListEntries(ctx context.Context) ([]*models.WatchlistEntry, error) {
	var entries []models.WatchlistEntry
	if err := s.db.Store().Find(&entries, badgerhold.Where("ID").Ne("").SortBy("CreatedAt").Reverse()); err != nil {
		return nil, fmt.Errorf("failed to list watchlist entries: %w", err)
	}

	result := make([]*models.WatchlistEntry, len(entries))
	for i := range entries {
		result[i] = &entries[i]
	}
	return result, nil
}

func (s *WatchlistStorage) DeleteEntry(ctx context.Context, id string) error {
	if err := s.db.Store().Delete(id, &models.WatchlistEntry{}); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return fmt.Errorf("watchlist entry %s: %w", id, interfaces.ErrNotFound)
		}
		return fmt.Errorf("failed to delete watchlist entry: %w", err)
	}
	return nil
}

func (s *WatchlistStorage) CountEntries(ctx context.Context) (int, error) {
	count, err := s.db.Store().Count(&models.WatchlistEntry{}, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to count watchlist entries: %w", err)
	}
	return int(count), nil
}
