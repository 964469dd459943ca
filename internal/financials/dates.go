package financials

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// YearFunc maps a provider date representation to a calendar year.
type YearFunc func(date interface{}) (int, error)

// dateLayouts are tried in order for string dates.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006-01",
	"2006",
	"Jan 2006",
}

// epochMillisThreshold separates epoch seconds from epoch milliseconds.
// 1e11 seconds is year 5138; 1e11 milliseconds is March 1973.
const epochMillisThreshold = 1e11

// YearOf is the default YearFunc. It accepts time.Time, *time.Time, date strings in the
// layouts above, bare four digit years, and epoch seconds or milliseconds.
func YearOf(date interface{}) (int, error) {
	switch d := date.(type) {
	case nil:
		return 0, fmt.Errorf("date is missing")
	case time.Time:
		if d.IsZero() {
			return 0, fmt.Errorf("date is zero")
		}
		return d.Year(), nil
	case *time.Time:
		if d == nil || d.IsZero() {
			return 0, fmt.Errorf("date is missing")
		}
		return d.Year(), nil
	case string:
		return yearFromString(d)
	case json.Number:
		f, err := d.Float64()
		if err != nil {
			return 0, fmt.Errorf("invalid numeric date %q: %w", d.String(), err)
		}
		return yearFromNumber(f)
	case int:
		return yearFromNumber(float64(d))
	case int32:
		return yearFromNumber(float64(d))
	case int64:
		return yearFromNumber(float64(d))
	case float64:
		return yearFromNumber(d)
	case float32:
		return yearFromNumber(float64(d))
	default:
		return 0, fmt.Errorf("unsupported date type %T", date)
	}
}

func yearFromString(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("date is empty")
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Year(), nil
		}
	}

	// Epoch values sometimes arrive as strings
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return yearFromNumber(f)
	}

	return 0, fmt.Errorf("unparseable date %q", s)
}

func yearFromNumber(f float64) (int, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("date is not finite")
	}
	if f >= 1000 && f <= 9999 && f == math.Trunc(f) {
		return int(f), nil
	}
	if f <= 0 {
		return 0, fmt.Errorf("epoch date %v is not positive", f)
	}
	if f >= epochMillisThreshold {
		return time.UnixMilli(int64(f)).UTC().Year(), nil
	}
	return time.Unix(int64(f), 0).UTC().Year(), nil
}

// ParseNumber coerces a provider value into a finite float64. The second return is false
// when the value is absent (nil or empty string); an error means the value is present but
// not numeric.
func ParseNumber(v interface{}) (float64, bool, error) {
	var f float64
	switch n := v.(type) {
	case nil:
		return 0, false, nil
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case *float64:
		if n == nil {
			return 0, false, nil
		}
		f = *n
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, true, fmt.Errorf("invalid number %q: %w", n.String(), err)
		}
		f = parsed
	case string:
		s := strings.TrimSpace(n)
		if s == "" || strings.EqualFold(s, "null") || strings.EqualFold(s, "none") {
			return 0, false, nil
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, true, fmt.Errorf("invalid number %q: %w", s, err)
		}
		f = parsed
	default:
		return 0, true, fmt.Errorf("unsupported value type %T", v)
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, true, fmt.Errorf("value is not finite")
	}
	return f, true, nil
}
