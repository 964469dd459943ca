package analysis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"google.golang.org/genai"

	"github.com/ternarybob/sticker/internal/common"
	"github.com/ternarybob/sticker/internal/models"
)

// GeminiAnalyzer runs business analyses on Google Gemini.
type GeminiAnalyzer struct {
	client        *genai.Client
	model         string
	temperature   float32
	timeout       time.Duration
	retryInterval time.Duration
	logger        arbor.ILogger
}

// NewGeminiAnalyzer creates a Gemini analyzer from configuration.
func NewGeminiAnalyzer(ctx context.Context, cfg common.GeminiConfig, logger arbor.ILogger) (*GeminiAnalyzer, error) {
	return newGeminiAnalyzer(ctx, cfg, genai.HTTPOptions{}, logger)
}

func newGeminiAnalyzer(ctx context.Context, cfg common.GeminiConfig, httpOptions genai.HTTPOptions, logger arbor.ILogger) (*GeminiAnalyzer, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("gemini API key is required (set GEMINI_API_KEY or gemini.api_key)")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      cfg.APIKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: httpOptions,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	a := &GeminiAnalyzer{
		client:        client,
		model:         cfg.Model,
		temperature:   cfg.Temperature,
		timeout:       common.Duration(cfg.Timeout, 60*time.Second),
		retryInterval: defaultRetryInterval,
		logger:        logger,
	}

	logger.Debug().
		Str("model", a.model).
		Dur("timeout", a.timeout).
		Msg("Gemini analyzer initialized")

	return a, nil
}

// Name returns the provider name.
func (a *GeminiAnalyzer) Name() string {
	return string(common.LLMProviderGemini)
}

// Analyze asks Gemini for a JSON assessment of the business.
func (a *GeminiAnalyzer) Analyze(ctx context.Context, ticker, companyName string) (*models.BusinessAnalysis, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	config := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr(a.temperature),
		ResponseMIMEType: "application/json",
	}
	contents := []*genai.Content{
		genai.NewContentFromText(buildPrompt(ticker, companyName), genai.RoleUser),
	}

	start := time.Now()
	text, err := generateWithRetry(ctx, a.logger, a.Name(), a.retryInterval, func(ctx context.Context) (string, error) {
		resp, err := a.client.Models.GenerateContent(ctx, a.model, contents, config)
		if err != nil {
			return "", err
		}
		text := resp.Text()
		if text == "" {
			return "", errors.New("empty response from Gemini")
		}
		return text, nil
	})
	if err != nil {
		return nil, fmt.Errorf("gemini analysis failed: %w", err)
	}

	a.logger.Debug().
		Str("ticker", ticker).
		Int("response_length", len(text)).
		Dur("duration", time.Since(start)).
		Msg("Gemini analysis completed")

	analysis, err := ParseAnalysis(ticker, text)
	if err != nil {
		return nil, err
	}
	analysis.Provider = a.Name()
	return analysis, nil
}
