package badger

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/sticker/internal/interfaces"
	"github.com/ternarybob/sticker/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

// AnalysisStorage implements the AnalysisStorage interface for Badger
type AnalysisStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewAnalysisStorage creates a new AnalysisStorage instance
func NewAnalysisStorage(db *BadgerDB, logger arbor.ILogger) interfaces.AnalysisStorage {
	return &AnalysisStorage{
		db:     db,
		logger: logger,
	}
}

func analysisKey(ticker string) string {
	return "analysis:" + strings.ToUpper(ticker)
}

func (s *AnalysisStorage) GetAnalysis(ctx context.Context, ticker string) (*models.BusinessAnalysis, error) {
	var analysis models.BusinessAnalysis
	if err := s.db.Store().Get(analysisKey(ticker), &analysis); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, fmt.Errorf("analysis %s: %w", ticker, interfaces.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get analysis: %w", err)
	}
	return &analysis, nil
}

func (s *AnalysisStorage) SaveAnalysis(ctx context.Context, analysis *models.BusinessAnalysis) error {
	if analysis.Ticker == "" {
		return fmt.Errorf("analysis ticker is required")
	}
	if err := s.db.Store().Upsert(analysisKey(analysis.Ticker), analysis); err != nil {
		return fmt.Errorf("failed to save analysis: %w", err)
	}
	return nil
}
