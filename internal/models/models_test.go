package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validEntry() *WatchlistEntry {
	return &WatchlistEntry{
		ID:           "wl_1",
		Ticker:       "AAPL",
		Name:         "Apple Inc",
		CurrentPrice: 189.5,
		EPS:          6.13,
		GrowthRate:   0.12,
		CreatedAt:    time.Now(),
	}
}

func TestWatchlistEntry_Validate(t *testing.T) {
	require.NoError(t, validEntry().Validate())

	tests := []struct {
		name   string
		mutate func(e *WatchlistEntry)
	}{
		{"missing id", func(e *WatchlistEntry) { e.ID = "" }},
		{"missing ticker", func(e *WatchlistEntry) { e.Ticker = "" }},
		{"zero price", func(e *WatchlistEntry) { e.CurrentPrice = 0 }},
		{"total loss growth", func(e *WatchlistEntry) { e.GrowthRate = -1 }},
		{"percent instead of fraction", func(e *WatchlistEntry) { e.GrowthRate = 15 }},
		{"negative high pe", func(e *WatchlistEntry) { v := -3.0; e.HistoricalHighPE = &v }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := validEntry()
			tt.mutate(e)
			assert.Error(t, e.Validate())
		})
	}

	e := validEntry()
	e.EPS = -2
	assert.NoError(t, e.Validate(), "a loss-making business is still a valid entry")
}

func TestWatchlistEntry_ValuationInputs(t *testing.T) {
	e := validEntry()
	pe := 22.0
	e.HistoricalHighPE = &pe

	in := e.ValuationInputs(40)
	assert.Equal(t, 189.5, in.CurrentPrice)
	require.NotNil(t, in.MOSPercentage)
	assert.Equal(t, 40.0, *in.MOSPercentage)
	require.NotNil(t, in.HistoricalHighPE)

	*in.HistoricalHighPE = 1
	assert.Equal(t, 22.0, *e.HistoricalHighPE, "inputs do not alias the entry")
}

func TestSettings_Validate(t *testing.T) {
	assert.NoError(t, (&Settings{Currency: "EUR", TargetMOS: 50}).Validate())
	assert.NoError(t, (&Settings{Currency: "JPY", TargetMOS: 10}).Validate())
	assert.NoError(t, (&Settings{Currency: "CAD", TargetMOS: 75}).Validate())
	assert.Error(t, (&Settings{Currency: "AUD", TargetMOS: 50}).Validate())
	assert.Error(t, (&Settings{Currency: "USD", TargetMOS: 5}).Validate())
	assert.Error(t, (&Settings{Currency: "USD", TargetMOS: 80}).Validate())
	assert.Error(t, (&Settings{TargetMOS: 50}).Validate())
}

func TestBusinessAnalysis_Validate(t *testing.T) {
	a := &BusinessAnalysis{Ticker: "AAPL", RiskScore: 3, Summary: "Durable consumer franchise."}
	assert.NoError(t, a.Validate())

	a.RiskScore = 11
	assert.Error(t, a.Validate())
	a.RiskScore = 0
	assert.Error(t, a.Validate())
}
