package financials

import (
	"encoding/json"
	"testing"
	"time"
)

func TestYearOf(t *testing.T) {
	tm := time.Date(2019, 12, 31, 23, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		input   interface{}
		want    int
		wantErr bool
	}{
		{"iso date", "2021-09-30", 2021, false},
		{"rfc3339", "2020-12-31T00:00:00Z", 2020, false},
		{"year month", "2018-06", 2018, false},
		{"bare year string", "2017", 2017, false},
		{"bare year int", 2016, 2016, false},
		{"time value", tm, 2019, false},
		{"time pointer", &tm, 2019, false},
		{"epoch seconds", int64(1609459200), 2021, false},
		{"epoch millis", float64(1609459200000), 2021, false},
		{"epoch string", "1609459200", 2021, false},
		{"json number", json.Number("1577836800"), 2020, false},
		{"padded", "  2015-01-01  ", 2015, false},
		{"empty", "", 0, true},
		{"garbage", "yesterday", 0, true},
		{"nil", nil, 0, true},
		{"zero time", time.Time{}, 0, true},
		{"negative epoch", -5, 0, true},
		{"bool", true, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := YearOf(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("YearOf(%v) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("YearOf(%v) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		name        string
		input       interface{}
		want        float64
		wantPresent bool
		wantErr     bool
	}{
		{"float", 1.25, 1.25, true, false},
		{"int", 3, 3, true, false},
		{"string", "394328000000.00", 394328000000, true, false},
		{"negative string", "-0.45", -0.45, true, false},
		{"json number", json.Number("7.5"), 7.5, true, false},
		{"nil", nil, 0, false, false},
		{"empty string", " ", 0, false, false},
		{"null string", "null", 0, false, false},
		{"text", "n/a", 0, true, true},
		{"slice", []int{1}, 0, true, true},
		{"nan string", "NaN", 0, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, present, err := ParseNumber(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseNumber(%v) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if present != tt.wantPresent {
				t.Errorf("ParseNumber(%v) present = %v, want %v", tt.input, present, tt.wantPresent)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseNumber(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
