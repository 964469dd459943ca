package eodhd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Number is a price field that EODHD may send as a number, a numeric string, null or
// "NA". Unusable values decode to an invalid Number rather than failing the response.
type Number struct {
	Value float64
	Valid bool
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *Number) UnmarshalJSON(data []byte) error {
	*n = Number{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	s := string(data)
	if data[0] == '"' {
		unquoted, err := strconv.Unquote(s)
		if err != nil {
			return fmt.Errorf("invalid quoted number %s: %w", s, err)
		}
		s = strings.TrimSpace(unquoted)
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	n.Value = v
	n.Valid = true
	return nil
}

// MarshalJSON implements json.Marshaler.
func (n Number) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}

// Ptr returns the value or nil when invalid.
func (n Number) Ptr() *float64 {
	if !n.Valid {
		return nil
	}
	v := n.Value
	return &v
}

// EODData represents a single bar of end-of-day price data.
type EODData struct {
	Date          time.Time `json:"-"`
	DateStr       string    `json:"date"`
	Open          Number    `json:"open"`
	High          Number    `json:"high"`
	Low           Number    `json:"low"`
	Close         Number    `json:"close"`
	AdjustedClose Number    `json:"adjusted_close"`
	Volume        int64     `json:"volume"`
}

// EODResponse is a slice of EODData.
type EODResponse []EODData

// RealTimeQuote is the /real-time response. Timestamp is unix seconds.
type RealTimeQuote struct {
	Code          string `json:"code"`
	Timestamp     int64  `json:"timestamp"`
	Open          Number `json:"open"`
	High          Number `json:"high"`
	Low           Number `json:"low"`
	Close         Number `json:"close"`
	PreviousClose Number `json:"previousClose"`
	Change        Number `json:"change"`
	ChangePercent Number `json:"change_p"`
	Volume        Number `json:"volume"`
}

// Price returns the last traded price, falling back to the previous close.
func (q *RealTimeQuote) Price() (float64, bool) {
	if q.Close.Valid && q.Close.Value > 0 {
		return q.Close.Value, true
	}
	if q.PreviousClose.Valid && q.PreviousClose.Value > 0 {
		return q.PreviousClose.Value, true
	}
	return 0, false
}

// FundamentalsResponse holds the sections of /fundamentals used for valuation.
type FundamentalsResponse struct {
	General    *GeneralInfo `json:"General"`
	Highlights *Highlights  `json:"Highlights"`
	Earnings   *Earnings    `json:"Earnings"`
	Financials *Financials  `json:"Financials"`
}

// GeneralInfo contains general company information.
type GeneralInfo struct {
	Code           string `json:"Code"`
	Type           string `json:"Type"`
	Name           string `json:"Name"`
	Exchange       string `json:"Exchange"`
	CurrencyCode   string `json:"CurrencyCode"`
	CurrencySymbol string `json:"CurrencySymbol"`
	CountryName    string `json:"CountryName"`
	FiscalYearEnd  string `json:"FiscalYearEnd"`
	Sector         string `json:"Sector"`
	Industry       string `json:"Industry"`
	Description    string `json:"Description"`
	WebURL         string `json:"WebURL"`
}

// Highlights contains key financial highlights.
type Highlights struct {
	MarketCapitalization Number `json:"MarketCapitalization"`
	PERatio              Number `json:"PERatio"`
	BookValue            Number `json:"BookValue"`
	EarningsShare        Number `json:"EarningsShare"`
	DilutedEpsTTM        Number `json:"DilutedEpsTTM"`
	ProfitMargin         Number `json:"ProfitMargin"`
	ReturnOnEquityTTM    Number `json:"ReturnOnEquityTTM"`
	RevenueTTM           Number `json:"RevenueTTM"`
}

// TrailingEPS returns the trailing twelve month EPS.
func (h *Highlights) TrailingEPS() *float64 {
	if h == nil {
		return nil
	}
	if h.DilutedEpsTTM.Valid {
		return h.DilutedEpsTTM.Ptr()
	}
	return h.EarningsShare.Ptr()
}

// Earnings contains earnings data.
type Earnings struct {
	Annual map[string]EarningsAnnualEntry `json:"Annual"`
}

// EarningsAnnualEntry represents annual earnings. EPSActual is left raw so the
// normalizer can classify nulls and strings.
type EarningsAnnualEntry struct {
	Date      string      `json:"date"`
	EPSActual interface{} `json:"epsActual"`
}

// Financials contains financial statements.
type Financials struct {
	BalanceSheet    *FinancialStatement `json:"Balance_Sheet"`
	IncomeStatement *FinancialStatement `json:"Income_Statement"`
}

// FinancialStatement represents a financial statement with quarterly and yearly data.
// Values arrive as strings or null.
type FinancialStatement struct {
	Currency  string                            `json:"currency_symbol"`
	Quarterly map[string]map[string]interface{} `json:"quarterly"`
	Yearly    map[string]map[string]interface{} `json:"yearly"`
}
