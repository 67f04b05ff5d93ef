package feature

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSMA(t *testing.T) {

	type test struct {
		values []float64
		period int
		sma    float64
	}

	tests := map[string]test{
		"tail": {
			values: []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10},
			period: 5,
			sma:    8,
		},
		"exact": {
			values: []float64{2, 4, 6},
			period: 3,
			sma:    4,
		},
		"too-short": {
			values: []float64{1, 2},
			period: 5,
			sma:    0,
		},
		"zero-period": {
			values: []float64{1, 2, 3},
			period: 0,
			sma:    0,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.InDelta(t, tt.sma, SMA(tt.values, tt.period), 1e-9)
		})
	}
}

func TestEMA(t *testing.T) {
	constant := []float64{5, 5, 5, 5, 5, 5, 5, 5}
	assert.InDelta(t, 5, EMA(constant, 3), 1e-9)

	// seeded with the simple average, then smoothed with k = 2/(p+1)
	values := []float64{1, 2, 3, 4}
	series := EMASeries(values, 3)
	assert.Equal(t, 2, len(series))
	assert.InDelta(t, 2, series[0], 1e-9)
	assert.InDelta(t, 4*0.5+2*0.5, series[1], 1e-9)

	assert.Nil(t, EMASeries([]float64{1, 2}, 3))
	assert.Equal(t, 0.0, EMA([]float64{1, 2}, 3))
}

func TestRSI(t *testing.T) {

	increasing := make([]float64, 20)
	decreasing := make([]float64, 20)
	for i := range increasing {
		increasing[i] = float64(i + 1)
		decreasing[i] = float64(len(decreasing) - i)
	}

	type test struct {
		values []float64
		period int
		rsi    float64
	}

	tests := map[string]test{
		"all-gains": {
			values: increasing,
			period: 14,
			rsi:    100,
		},
		"all-losses": {
			values: decreasing,
			period: 14,
			rsi:    0,
		},
		"too-short": {
			values: []float64{1, 2, 3},
			period: 14,
			rsi:    50,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.InDelta(t, tt.rsi, RSI(tt.values, tt.period), 1e-9)
		})
	}
}

func TestRSI_Bounded(t *testing.T) {
	values := []float64{10, 12, 11, 13, 12, 14, 13, 15, 14, 16, 15, 17, 16, 18, 17, 19}
	rsi := RSI(values, 14)
	assert.Greater(t, rsi, 0.0)
	assert.Less(t, rsi, 100.0)
}

func TestMACD(t *testing.T) {
	constant := make([]float64, 40)
	for i := range constant {
		constant[i] = 100
	}
	line, signal, histogram := MACD(constant, 12, 26, 9)
	assert.InDelta(t, 0, line, 1e-9)
	assert.InDelta(t, 0, signal, 1e-9)
	assert.InDelta(t, 0, histogram, 1e-9)

	line, signal, histogram = MACD([]float64{1, 2, 3}, 12, 26, 9)
	assert.Equal(t, 0.0, line)
	assert.Equal(t, 0.0, signal)
	assert.Equal(t, 0.0, histogram)
}

func TestBollinger(t *testing.T) {
	// classic population stdev of 2 around a mean of 5
	values := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	upper, middle, lower := Bollinger(values, 8, 2)
	assert.InDelta(t, 9, upper, 1e-9)
	assert.InDelta(t, 5, middle, 1e-9)
	assert.InDelta(t, 1, lower, 1e-9)

	constant := []float64{5, 5, 5, 5, 5}
	upper, middle, lower = Bollinger(constant, 5, 2)
	assert.Equal(t, middle, upper)
	assert.Equal(t, middle, lower)
}

func TestVolatility(t *testing.T) {
	constant := []float64{100, 100, 100, 100, 100, 100}
	assert.Equal(t, 0.0, Volatility(constant, 5))

	moving := []float64{100, 101, 100, 102, 99, 103}
	assert.Greater(t, Volatility(moving, 5), 0.0)

	assert.Equal(t, 0.0, Volatility([]float64{1, 2}, 5))
}
