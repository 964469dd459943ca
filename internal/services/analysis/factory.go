package analysis

import (
	"context"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/sticker/internal/common"
	"github.com/ternarybob/sticker/internal/interfaces"
)

// NewAnalyzer selects the analyzer for the configured default provider. When that
// provider has no API key the other provider is tried, then the mock analyzer.
func NewAnalyzer(ctx context.Context, cfg *common.Config, logger arbor.ILogger) interfaces.BusinessAnalyzer {
	order := []common.LLMProvider{common.LLMProviderGemini, common.LLMProviderClaude}
	if cfg.LLM.DefaultProvider == common.LLMProviderClaude {
		order = []common.LLMProvider{common.LLMProviderClaude, common.LLMProviderGemini}
	}

	for _, provider := range order {
		var (
			analyzer interfaces.BusinessAnalyzer
			err      error
		)
		switch provider {
		case common.LLMProviderGemini:
			if cfg.Gemini.APIKey == "" {
				continue
			}
			analyzer, err = NewGeminiAnalyzer(ctx, cfg.Gemini, logger)
		case common.LLMProviderClaude:
			if cfg.Claude.APIKey == "" {
				continue
			}
			analyzer, err = NewClaudeAnalyzer(cfg.Claude, logger)
		}
		if err != nil {
			logger.Warn().Err(err).Str("provider", string(provider)).Msg("Failed to initialize analyzer")
			continue
		}
		logger.Info().Str("provider", analyzer.Name()).Msg("Business analyzer ready")
		return analyzer
	}

	logger.Warn().Msg("No LLM API key configured, business analysis uses canned responses")
	return MockAnalyzer{}
}
