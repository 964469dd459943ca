package models

import "time"

// StockQuote is the current market snapshot for a ticker.
type StockQuote struct {
	Ticker   string    `json:"ticker"`
	Symbol   string    `json:"symbol"` // provider symbol, e.g. AAPL.US
	Name     string    `json:"name"`
	Exchange string    `json:"exchange"`
	Currency string    `json:"currency"`
	Sector   string    `json:"sector,omitempty"`
	Industry string    `json:"industry,omitempty"`
	Price    float64   `json:"price"`
	EPS      *float64  `json:"eps,omitempty"` // trailing twelve months
	AsOf     time.Time `json:"as_of"`
}
