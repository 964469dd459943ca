package analysis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/sticker/internal/common"
	"github.com/ternarybob/sticker/internal/interfaces"
	"github.com/ternarybob/sticker/internal/models"
)

// DefaultCacheTTL is how long a stored analysis is served before it is regenerated.
const DefaultCacheTTL = 7 * 24 * time.Hour

// ErrInvalidTicker is returned for tickers that fail validation.
var ErrInvalidTicker = errors.New("invalid ticker")

// Service returns cached analyses and generates missing or stale ones.
type Service struct {
	analyzer interfaces.BusinessAnalyzer
	storage  interfaces.AnalysisStorage
	logger   arbor.ILogger
	cacheTTL time.Duration
	now      func() time.Time
}

// NewService creates a new analysis service.
func NewService(analyzer interfaces.BusinessAnalyzer, storage interfaces.AnalysisStorage, logger arbor.ILogger) *Service {
	return &Service{
		analyzer: analyzer,
		storage:  storage,
		logger:   logger,
		cacheTTL: DefaultCacheTTL,
		now:      time.Now,
	}
}

// WithCacheTTL sets a custom cache TTL.
func (s *Service) WithCacheTTL(ttl time.Duration) *Service {
	s.cacheTTL = ttl
	return s
}

// Provider names the analyzer in use.
func (s *Service) Provider() string {
	return s.analyzer.Name()
}

// Analyze returns the analysis for a ticker. A fresh cached analysis is returned unless
// refresh is set. Mock analyses are never cached.
func (s *Service) Analyze(ctx context.Context, rawTicker, companyName string, refresh bool) (*models.BusinessAnalysis, error) {
	ticker := common.ParseTicker(rawTicker)
	if !ticker.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTicker, rawTicker)
	}
	key := ticker.String()

	if !refresh {
		cached, err := s.storage.GetAnalysis(ctx, key)
		switch {
		case err == nil && s.now().Sub(cached.GeneratedAt) < s.cacheTTL:
			s.logger.Debug().
				Str("ticker", key).
				Str("generated_at", cached.GeneratedAt.Format(time.RFC3339)).
				Msg("Using cached analysis")
			return cached, nil
		case err != nil && !errors.Is(err, interfaces.ErrNotFound):
			s.logger.Warn().Err(err).Str("ticker", key).Msg("Failed to read cached analysis")
		}
	}

	analysis, err := s.analyzer.Analyze(ctx, key, companyName)
	if err != nil {
		return nil, err
	}
	analysis.Ticker = key
	analysis.GeneratedAt = s.now().UTC()
	if analysis.Provider == "" {
		analysis.Provider = s.analyzer.Name()
	}
	if err := analysis.Validate(); err != nil {
		return nil, fmt.Errorf("model returned an unusable analysis: %w", err)
	}

	if analysis.Provider != MockProvider {
		if err := s.storage.SaveAnalysis(ctx, analysis); err != nil {
			s.logger.Warn().Err(err).Str("ticker", key).Msg("Failed to cache analysis")
		}
	}

	s.logger.Info().
		Str("ticker", key).
		Str("provider", analysis.Provider).
		Bool("wonderful", analysis.IsWonderful).
		Int("risk_score", analysis.RiskScore).
		Msg("Business analysis generated")

	return analysis, nil
}
