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

// SettingsStorage implements the SettingsStorage interface for Badger
type SettingsStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewSettingsStorage creates a new SettingsStorage instance
func NewSettingsStorage(db *BadgerDB, logger arbor.ILogger) interfaces.SettingsStorage {
	return &SettingsStorage{
		db:     db,
		logger: logger,
	}
}

func (s *SettingsStorage) GetSettings(ctx context.Context) (*models.Settings, error) {
	var settings models.Settings
	if err := s.db.Store().Get(models.SettingsID, &settings); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, fmt.Errorf("settings: %w", interfaces.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}
	return &settings, nil
}

func (s *SettingsStorage) SaveSettings(ctx context.Context, settings *models.Settings) error {
	if err := s.db.Store().Upsert(models.SettingsID, settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}
