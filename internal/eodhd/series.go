package eodhd

import (
	"sort"

	"github.com/ternarybob/sticker/internal/financials"
)

// Statement field names used for the yearly series.
const (
	fieldTotalRevenue = "totalRevenue"
	fieldTotalEquity  = "totalStockholderEquity"
)

// MetricSeries extracts the yearly EPS, revenue and equity series. Entries are ordered
// by their provider date key so duplicate years resolve deterministically.
func (f *FundamentalsResponse) MetricSeries() map[financials.Metric][]financials.RawPoint {
	series := map[financials.Metric][]financials.RawPoint{}
	if f == nil {
		return series
	}

	if f.Earnings != nil && len(f.Earnings.Annual) > 0 {
		keys := sortedKeys(f.Earnings.Annual)
		points := make([]financials.RawPoint, 0, len(keys))
		for _, k := range keys {
			entry := f.Earnings.Annual[k]
			date := entry.Date
			if date == "" {
				date = k
			}
			points = append(points, financials.RawPoint{Date: date, Value: entry.EPSActual})
		}
		series[financials.MetricEPS] = points
	}

	if f.Financials != nil {
		if pts := statementSeries(f.Financials.IncomeStatement, fieldTotalRevenue); len(pts) > 0 {
			series[financials.MetricRevenue] = pts
		}
		if pts := statementSeries(f.Financials.BalanceSheet, fieldTotalEquity); len(pts) > 0 {
			series[financials.MetricEquity] = pts
		}
	}

	return series
}

func statementSeries(stmt *FinancialStatement, field string) []financials.RawPoint {
	if stmt == nil || len(stmt.Yearly) == 0 {
		return nil
	}
	keys := sortedKeys(stmt.Yearly)
	points := make([]financials.RawPoint, 0, len(keys))
	for _, k := range keys {
		row := stmt.Yearly[k]
		date, _ := row["date"].(string)
		if date == "" {
			date = k
		}
		points = append(points, financials.RawPoint{Date: date, Value: row[field]})
	}
	return points
}

// PriceBars converts EOD data to price bars, keeping gaps as nil highs and lows.
func (r EODResponse) PriceBars() []financials.PriceBar {
	bars := make([]financials.PriceBar, 0, len(r))
	for _, d := range r {
		var date interface{} = d.DateStr
		if !d.Date.IsZero() {
			date = d.Date
		}
		bars = append(bars, financials.PriceBar{
			Date: date,
			High: d.High.Ptr(),
			Low:  d.Low.Ptr(),
		})
	}
	return bars
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
