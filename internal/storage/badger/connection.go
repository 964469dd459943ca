package badger

import (
	"fmt"
	"os"
	"sync"

	"github.com/ternarybob/arbor"
	"github.com/timshannon/badgerhold/v4"

	"github.com/ternarybob/sticker/internal/common"
)

// BadgerDB owns the badgerhold store shared by the storage implementations.
type BadgerDB struct {
	store     *badgerhold.Store
	logger    arbor.ILogger
	path      string
	closeOnce sync.Once
	closeErr  error
}

// NewBadgerDB opens (creating if needed) the store at config.Path. With
// ResetOnStartup the directory is wiped first.
func NewBadgerDB(logger arbor.ILogger, config *common.BadgerConfig) (*BadgerDB, error) {
	if config.Path == "" {
		return nil, fmt.Errorf("badger path is empty")
	}
	if config.ResetOnStartup {
		if err := os.RemoveAll(config.Path); err != nil {
			return nil, fmt.Errorf("failed to reset database directory: %w", err)
		}
		logger.Warn().Str("path", config.Path).Msg("Database reset on startup")
	}
	if err := os.MkdirAll(config.Path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	options := badgerhold.DefaultOptions
	options.Dir = config.Path
	options.ValueDir = config.Path
	options.Logger = nil // badger's own logger is noisy; errors surface through arbor

	store, err := badgerhold.Open(options)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger database at %s: %w", config.Path, err)
	}

	logger.Debug().Str("path", config.Path).Msg("Badger database opened")

	return &BadgerDB{
		store:  store,
		logger: logger,
		path:   config.Path,
	}, nil
}

// Store returns the underlying badgerhold store
func (b *BadgerDB) Store() *badgerhold.Store {
	return b.store
}

// Close closes the store. Later calls return the first result.
func (b *BadgerDB) Close() error {
	b.closeOnce.Do(func() {
		b.closeErr = b.store.Close()
		b.logger.Debug().Str("path", b.path).Msg("Badger database closed")
	})
	return b.closeErr
}
