package analysis

import (
	"context"

	"github.com/ternarybob/sticker/internal/models"
)

// MockProvider is the provider name of the offline analyzer.
const MockProvider = "mock"

// MockAnalyzer returns a fixed assessment. Used when no LLM key is configured.
type MockAnalyzer struct{}

// Name returns the provider name.
func (MockAnalyzer) Name() string {
	return MockProvider
}

// Analyze returns the canned assessment for ticker.
func (MockAnalyzer) Analyze(ctx context.Context, ticker, companyName string) (*models.BusinessAnalysis, error) {
	return &models.BusinessAnalysis{
		Ticker:      ticker,
		Meaning:     "This company provides essential digital services and hardware that are deeply integrated into consumer lives.",
		Moat:        "Strong brand loyalty, ecosystem lock-in, and proprietary technology (Secret).",
		Management:  "Experienced leadership with a track record of capital allocation and innovation.",
		IsWonderful: true,
		RiskScore:   2,
		Summary:     "A high-quality business with a sustainable competitive advantage and strong financials.",
		Provider:    MockProvider,
	}, nil
}
