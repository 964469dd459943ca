package analysis

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/sticker/internal/common"
	"github.com/ternarybob/sticker/internal/interfaces"
	"github.com/ternarybob/sticker/internal/models"
)

type memAnalysisStorage struct {
	mu    sync.Mutex
	items map[string]models.BusinessAnalysis
}

func (m *memAnalysisStorage) GetAnalysis(ctx context.Context, ticker string) (*models.BusinessAnalysis, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.items[ticker]
	if !ok {
		return nil, interfaces.ErrNotFound
	}
	return &a, nil
}

func (m *memAnalysisStorage) SaveAnalysis(ctx context.Context, analysis *models.BusinessAnalysis) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[analysis.Ticker] = *analysis
	return nil
}

type countingAnalyzer struct {
	calls int
	reply models.BusinessAnalysis
	err   error
}

func (c *countingAnalyzer) Name() string { return "fake" }

func (c *countingAnalyzer) Analyze(ctx context.Context, ticker, companyName string) (*models.BusinessAnalysis, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	out := c.reply
	out.Ticker = ticker
	return &out, nil
}

func newTestService(analyzer interfaces.BusinessAnalyzer) (*Service, *memAnalysisStorage, *time.Time) {
	store := &memAnalysisStorage{items: map[string]models.BusinessAnalysis{}}
	s := NewService(analyzer, store, arbor.NewLogger())
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }
	return s, store, &now
}

func TestAnalyze_CachesResults(t *testing.T) {
	fake := &countingAnalyzer{reply: models.BusinessAnalysis{RiskScore: 4, Summary: "Fine business"}}
	s, store, now := newTestService(fake)
	ctx := context.Background()

	a, err := s.Analyze(ctx, "ko", "Coca-Cola", false)
	require.NoError(t, err)
	assert.Equal(t, "KO", a.Ticker)
	assert.Equal(t, "fake", a.Provider)
	assert.Equal(t, *now, a.GeneratedAt)
	assert.Contains(t, store.items, "KO")

	_, err = s.Analyze(ctx, "KO", "", false)
	require.NoError(t, err)
	assert.Equal(t, 1, fake.calls, "fresh cache entry is reused")

	_, err = s.Analyze(ctx, "KO", "", true)
	require.NoError(t, err)
	assert.Equal(t, 2, fake.calls, "refresh bypasses the cache")

	*now = now.Add(DefaultCacheTTL + time.Hour)
	_, err = s.Analyze(ctx, "KO", "", false)
	require.NoError(t, err)
	assert.Equal(t, 3, fake.calls, "stale entry is regenerated")
}

func TestAnalyze_RejectsInvalidReplies(t *testing.T) {
	fake := &countingAnalyzer{reply: models.BusinessAnalysis{RiskScore: 0, Summary: "x"}}
	s, store, _ := newTestService(fake)

	_, err := s.Analyze(context.Background(), "KO", "", false)
	assert.Error(t, err)
	assert.Empty(t, store.items)
}

func TestAnalyze_Errors(t *testing.T) {
	fake := &countingAnalyzer{err: errors.New("boom")}
	s, _, _ := newTestService(fake)

	_, err := s.Analyze(context.Background(), "KO", "", false)
	assert.EqualError(t, err, "boom")

	_, err = s.Analyze(context.Background(), "not a ticker!", "", false)
	assert.ErrorIs(t, err, ErrInvalidTicker)
	assert.Equal(t, 1, fake.calls)
}

func TestAnalyze_MockIsNotCached(t *testing.T) {
	s, store, _ := newTestService(MockAnalyzer{})

	a, err := s.Analyze(context.Background(), "AAPL", "", false)
	require.NoError(t, err)
	assert.Equal(t, MockProvider, a.Provider)
	assert.True(t, a.IsWonderful)
	assert.Empty(t, store.items)
}

func TestNewAnalyzer_Selection(t *testing.T) {
	logger := arbor.NewLogger()
	ctx := context.Background()

	cfg := common.NewDefaultConfig()
	assert.Equal(t, MockProvider, NewAnalyzer(ctx, cfg, logger).Name())

	cfg.Claude.APIKey = "sk-test"
	assert.Equal(t, "claude", NewAnalyzer(ctx, cfg, logger).Name(), "falls through to the provider with a key")

	cfg.LLM.DefaultProvider = common.LLMProviderClaude
	cfg.Gemini.APIKey = "g-test"
	assert.Equal(t, "claude", NewAnalyzer(ctx, cfg, logger).Name())
}
