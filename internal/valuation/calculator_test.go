package valuation

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v float64) *float64 { return &v }

func TestEstimateFuturePE(t *testing.T) {
	tests := []struct {
		name   string
		growth float64
		highPE *float64
		want   float64
	}{
		{"no history", 0.15, nil, 30},
		{"history caps", 0.15, ptr(20), 20},
		{"history above base", 0.10, ptr(40), 20},
		{"zero history is a value", 0.15, ptr(0), 0},
		{"zero growth", 0, nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, EstimateFuturePE(tt.growth, tt.highPE), 1e-9)
		})
	}
}

func TestCalculateStickerPrice(t *testing.T) {
	// 5 * 1.15^10 * 30 / 4
	want := 5 * math.Pow(1.15, 10) * 30 / 4
	assert.InDelta(t, want, CalculateStickerPrice(5, 0.15, 30), 1e-9)
	assert.InDelta(t, 151.71, CalculateStickerPrice(5, 0.15, 30), 0.01)

	for _, eps := range []float64{0, 0.01, 1, 12.5} {
		for _, g := range []float64{0, 0.05, 0.15, 0.5} {
			for _, pe := range []float64{0.5, 10, 30} {
				assert.GreaterOrEqual(t, CalculateStickerPrice(eps, g, pe), 0.0)
			}
		}
	}
}

func TestCalculateMOSPrice(t *testing.T) {
	for _, x := range []float64{0, 1, 151.7, 1e6, -4} {
		assert.Equal(t, x*0.5, CalculateMOSPrice(x, ptr(50)))
		assert.Equal(t, x*0.5, CalculateMOSPrice(x, nil))
	}

	sticker := 200.0
	prev := math.Inf(1)
	for p := 100.0; p >= 0; p -= 5 {
		got := CalculateMOSPrice(sticker, ptr(p))
		assert.LessOrEqual(t, got, prev)
		prev = got
	}
	assert.Equal(t, 0.0, CalculateMOSPrice(sticker, ptr(0)))
}

func TestCalculatePaybackTime_Reference(t *testing.T) {
	res := CalculatePaybackTime(150, 5, 0.15)
	require.NotEmpty(t, res.Breakdown)
	assert.Equal(t, PaybackYear{Year: 1, EPS: 5.75, Accumulated: 5.75}, res.Breakdown[0])

	eps, acc := 5.0, 0.0
	for i, step := range res.Breakdown {
		eps = eps * 1.15
		acc += eps
		assert.Equal(t, i+1, step.Year)
		assert.Equal(t, eps, step.EPS)
		assert.Equal(t, acc, step.Accumulated)
	}

	assert.True(t, res.PaidBack)
	assert.Equal(t, len(res.Breakdown), res.Years)
	assert.LessOrEqual(t, res.Years, PaybackLimit)
	assert.GreaterOrEqual(t, res.Breakdown[res.Years-1].Accumulated, 150.0)
	assert.Less(t, res.Breakdown[res.Years-2].Accumulated, 150.0)
	assert.Equal(t, 12, res.Years)
}

func TestCalculatePaybackTime_Monotonic(t *testing.T) {
	for _, g := range []float64{-0.5, -0.1, 0, 0.1, 0.3} {
		res := CalculatePaybackTime(1e9, 2, g)
		require.Len(t, res.Breakdown, PaybackLimit)
		for i := 1; i < len(res.Breakdown); i++ {
			assert.Greater(t, res.Breakdown[i].Accumulated, res.Breakdown[i-1].Accumulated,
				"growth %v year %d", g, i+1)
		}
	}
}

func TestCalculatePaybackTime_Degenerate(t *testing.T) {
	tests := []struct {
		name      string
		price     float64
		eps       float64
		growth    float64
		wantSteps int
	}{
		{"zero price", 0, 5, 0.1, 0},
		{"negative price", -10, 5, 0.1, 0},
		{"total loss growth", 100, 5, -1, PaybackLimit},
		{"below total loss", 100, 5, -2.5, PaybackLimit},
		{"nan eps", 100, math.NaN(), 0.1, 0},
		{"infinite growth", 100, 5, math.Inf(1), 0},
		{"zero eps", 100, 0, 0.1, PaybackLimit},
		{"negative eps", 100, -3, 0.1, PaybackLimit},
		{"shrinking eps", 1000, 5, -0.2, PaybackLimit},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := CalculatePaybackTime(tt.price, tt.eps, tt.growth)
			assert.Equal(t, PaybackNotReached, res.Years)
			assert.False(t, res.PaidBack)
			assert.Len(t, res.Breakdown, tt.wantSteps)
		})
	}
}

func TestCalculatePaybackTime_TotalLossKeepsLedger(t *testing.T) {
	res := CalculatePaybackTime(150, 5, -1)
	assert.Equal(t, PaybackNotReached, res.Years)
	require.Len(t, res.Breakdown, PaybackLimit)
	for i, step := range res.Breakdown {
		assert.Equal(t, i+1, step.Year)
		assert.Zero(t, step.EPS)
		assert.Zero(t, step.Accumulated)
	}

	// Sign-flipping earnings can overshoot the price without counting as payback.
	res = CalculatePaybackTime(100, 5, -2.5)
	assert.False(t, res.PaidBack)
	assert.Greater(t, res.Breakdown[PaybackLimit-1].Accumulated, 100.0)
}

func TestCalculatePaybackTime_FirstYear(t *testing.T) {
	res := CalculatePaybackTime(1, 10, 0)
	assert.Equal(t, 1, res.Years)
	assert.True(t, res.PaidBack)
	assert.Len(t, res.Breakdown, 1)
}
