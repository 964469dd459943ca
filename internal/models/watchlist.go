package models

import (
	"time"

	"github.com/ternarybob/sticker/internal/valuation"
)

// WatchlistEntry is a persisted ticker with the assumptions used to value it.
type WatchlistEntry struct {
	ID               string     `json:"id" validate:"required"` // wl_{uuid}
	Ticker           string     `json:"ticker" validate:"required,max=20"`
	Name             string     `json:"name" validate:"max=200"`
	CurrentPrice     float64    `json:"current_price" validate:"gt=0"`
	EPS              float64    `json:"eps"`
	GrowthRate       float64    `json:"growth_rate" validate:"gt=-1,lte=1"` // fraction, 0.15 = 15%
	HistoricalHighPE *float64   `json:"historical_high_pe,omitempty" validate:"omitempty,gt=0,lte=1000"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
	PriceUpdatedAt   *time.Time `json:"price_updated_at,omitempty"`
}

// Validate validates the entry using go-playground/validator.
func (e *WatchlistEntry) Validate() error {
	return validate.Struct(e)
}

// ValuationInputs builds calculator inputs for the entry at the given margin of safety.
func (e *WatchlistEntry) ValuationInputs(mosPercentage float64) valuation.ValuationInputs {
	var highPE *float64
	if e.HistoricalHighPE != nil {
		v := *e.HistoricalHighPE
		highPE = &v
	}
	return valuation.ValuationInputs{
		CurrentPrice:     e.CurrentPrice,
		EPS:              e.EPS,
		GrowthRate:       e.GrowthRate,
		HistoricalHighPE: highPE,
		MOSPercentage:    &mosPercentage,
	}
}
