// Package common provides shared utilities across the application.
package common

import (
	"strings"
)

// Ticker is a parsed, exchange-qualified ticker. Exchange holds the EODHD exchange
// suffix (e.g. "US", "AU", "LSE").
type Ticker struct {
	Code     string
	Exchange string
	// Raw is the original ticker string
	Raw string
}

// ExchangeToSuffix maps venue names to EODHD exchange suffixes.
var ExchangeToSuffix = map[string]string{
	"NYSE":   "US",
	"NASDAQ": "US",
	"AMEX":   "US",
	"ASX":    "AU",
	"LSE":    "LSE",
	"TSX":    "TO",
	"XETRA":  "XETRA",
}

// knownSuffixes are the EODHD suffixes accepted after a dot.
var knownSuffixes = map[string]bool{
	"US": true, "AU": true, "LSE": true, "TO": true, "XETRA": true,
	"PA": true, "HK": true, "SG": true, "TYO": true, "INDX": true,
}

// DefaultExchange is used for tickers given without an exchange.
var DefaultExchange = "US"

// SetDefaultExchange sets the default exchange suffix. Venue names are mapped to
// their suffix.
func SetDefaultExchange(exchange string) {
	exchange = strings.ToUpper(strings.TrimSpace(exchange))
	if exchange == "" {
		return
	}
	if suffix, ok := ExchangeToSuffix[exchange]; ok {
		exchange = suffix
	}
	DefaultExchange = exchange
}

// ParseTicker parses a ticker string.
// Supports formats:
//   - "NASDAQ:AAPL" -> Exchange="US", Code="AAPL" (venue prefix)
//   - "AAPL.US"     -> Exchange="US", Code="AAPL" (EODHD suffix)
//   - "BRK.B"       -> Exchange=DefaultExchange, Code="BRK.B" (unknown suffix is part of the code)
//   - "aapl"        -> Exchange=DefaultExchange, Code="AAPL"
func ParseTicker(ticker string) Ticker {
	raw := ticker
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if ticker == "" {
		return Ticker{}
	}

	if idx := strings.Index(ticker, ":"); idx > 0 && idx < len(ticker)-1 {
		venue := ticker[:idx]
		exchange, ok := ExchangeToSuffix[venue]
		if !ok {
			exchange = venue
		}
		return Ticker{Code: ticker[idx+1:], Exchange: exchange, Raw: raw}
	}

	if idx := strings.LastIndex(ticker, "."); idx > 0 && idx < len(ticker)-1 {
		if suffix := ticker[idx+1:]; knownSuffixes[suffix] {
			return Ticker{Code: ticker[:idx], Exchange: suffix, Raw: raw}
		}
	}

	return Ticker{Code: ticker, Exchange: DefaultExchange, Raw: raw}
}

// Valid reports whether the ticker has a usable code.
func (t Ticker) Valid() bool {
	if t.Code == "" || len(t.Code) > 20 {
		return false
	}
	for _, r := range t.Code {
		switch {
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-':
		default:
			return false
		}
	}
	return true
}

// Symbol returns the EODHD API symbol, e.g. "AAPL.US".
func (t Ticker) Symbol() string {
	if t.Code == "" {
		return ""
	}
	if t.Exchange == "" {
		return t.Code + "." + DefaultExchange
	}
	return t.Code + "." + t.Exchange
}

// String returns the display form: the bare code for the default exchange, the
// EODHD symbol otherwise.
func (t Ticker) String() string {
	if t.Exchange == "" || t.Exchange == DefaultExchange {
		return t.Code
	}
	return t.Symbol()
}
