package models

import "time"

// BusinessAnalysis is a qualitative Rule #1 assessment of a business: meaning, moat
// and management.
type BusinessAnalysis struct {
	Ticker      string    `json:"ticker" validate:"required"`
	Meaning     string    `json:"meaning"`
	Moat        string    `json:"moat"`
	Management  string    `json:"management"`
	IsWonderful bool      `json:"is_wonderful"`
	RiskScore   int       `json:"risk_score" validate:"min=1,max=10"`
	Summary     string    `json:"summary" validate:"required"`
	Provider    string    `json:"provider"` // gemini, claude or mock
	GeneratedAt time.Time `json:"generated_at"`
}

// Validate validates the analysis using go-playground/validator.
func (a *BusinessAnalysis) Validate() error {
	return validate.Struct(a)
}
