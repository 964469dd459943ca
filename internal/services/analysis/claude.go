package analysis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/sticker/internal/common"
	"github.com/ternarybob/sticker/internal/models"
)

const systemPrompt = "You are a value investing analyst. Answer with a single JSON object and nothing else."

// ClaudeAnalyzer runs business analyses on Anthropic Claude.
type ClaudeAnalyzer struct {
	client        anthropic.Client
	model         string
	maxTokens     int
	temperature   float32
	timeout       time.Duration
	retryInterval time.Duration
	logger        arbor.ILogger
}

// NewClaudeAnalyzer creates a Claude analyzer from configuration. Extra request
// options are applied after the API key.
func NewClaudeAnalyzer(cfg common.ClaudeConfig, logger arbor.ILogger, opts ...option.RequestOption) (*ClaudeAnalyzer, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("anthropic API key is required (set ANTHROPIC_API_KEY or claude.api_key)")
	}

	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 1024
	}

	// Retries are handled by generateWithRetry
	clientOpts := append([]option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}, opts...)

	a := &ClaudeAnalyzer{
		client:        anthropic.NewClient(clientOpts...),
		model:         cfg.Model,
		maxTokens:     maxTokens,
		temperature:   cfg.Temperature,
		timeout:       common.Duration(cfg.Timeout, 60*time.Second),
		retryInterval: defaultRetryInterval,
		logger:        logger,
	}

	logger.Debug().
		Str("model", a.model).
		Int("max_tokens", maxTokens).
		Dur("timeout", a.timeout).
		Msg("Claude analyzer initialized")

	return a, nil
}

// Name returns the provider name.
func (a *ClaudeAnalyzer) Name() string {
	return string(common.LLMProviderClaude)
}

// Analyze asks Claude for a JSON assessment of the business.
func (a *ClaudeAnalyzer) Analyze(ctx context.Context, ticker, companyName string) (*models.BusinessAnalysis, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(a.model),
		MaxTokens: int64(a.maxTokens),
		System:    []anthropic.TextBlockParam{{Text: systemPrompt}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(buildPrompt(ticker, companyName))),
		},
	}
	if a.temperature > 0 {
		params.Temperature = anthropic.Float(float64(a.temperature))
	}

	start := time.Now()
	text, err := generateWithRetry(ctx, a.logger, a.Name(), a.retryInterval, func(ctx context.Context) (string, error) {
		resp, err := a.client.Messages.New(ctx, params)
		if err != nil {
			return "", err
		}
		var sb strings.Builder
		for _, block := range resp.Content {
			if block.Type == "text" {
				sb.WriteString(block.Text)
			}
		}
		if sb.Len() == 0 {
			return "", errors.New("empty response from Claude")
		}
		return sb.String(), nil
	})
	if err != nil {
		return nil, fmt.Errorf("claude analysis failed: %w", err)
	}

	a.logger.Debug().
		Str("ticker", ticker).
		Int("response_length", len(text)).
		Dur("duration", time.Since(start)).
		Msg("Claude analysis completed")

	analysis, err := ParseAnalysis(ticker, text)
	if err != nil {
		return nil, err
	}
	analysis.Provider = a.Name()
	return analysis, nil
}
