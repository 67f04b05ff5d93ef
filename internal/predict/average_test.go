package predict

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmrkh/zaraba/internal/model"
)

func constantSamples(value float64, n int) []Sample {
	samples := make([]Sample, n)
	for i := range samples {
		samples[i] = Sample{Features: []float64{float64(i)}, Target: value}
	}
	return samples
}

func TestMovingAverage_Constant(t *testing.T) {
	ma := NewMovingAverage()

	metrics, err := ma.Train(constantSamples(100, 30))
	require.NoError(t, err)
	assert.InDelta(t, 0, metrics.MAE, 1e-9)

	result, err := ma.Predict(nil)
	require.NoError(t, err)
	assert.InDelta(t, 100, result.Value, 1e-9)
	// zero volatility clamps to the upper confidence bound
	assert.InDelta(t, 0.9, result.Confidence, 1e-9)
}

func TestMovingAverage_ShortHistory(t *testing.T) {
	samples := []Sample{
		{Target: 100}, {Target: 102}, {Target: 104}, {Target: 106},
	}
	ma := NewMovingAverage()

	_, err := ma.Train(samples)
	require.NoError(t, err)

	result, err := ma.Predict(nil)
	require.NoError(t, err)
	// every window covers the whole history, no trend term below 20 points
	assert.InDelta(t, 103, result.Value, 1e-9)
	assert.Equal(t, 0.5, result.Confidence)
}

func TestMovingAverage_TrendTerm(t *testing.T) {
	samples := make([]Sample, 40)
	for i := range samples {
		samples[i] = Sample{Target: 100 + float64(i)}
	}
	ma := NewMovingAverage()

	_, err := ma.Train(samples)
	require.NoError(t, err)

	result, err := ma.Predict(nil)
	require.NoError(t, err)
	// rising series, the trend adjustment pulls the blend above the long average
	prices := targets(samples)
	assert.Greater(t, result.Value, avgTail(prices, 20))
}

func TestMovingAverage_Errors(t *testing.T) {
	ma := NewMovingAverage()

	_, err := ma.Predict(nil)
	assert.ErrorIs(t, err, model.ErrNotTrained)

	_, err = ma.Train(nil)
	var insufficient model.InsufficientDataError
	assert.True(t, errors.As(err, &insufficient))
}

func TestAvgTail(t *testing.T) {

	type test struct {
		values []float64
		n      int
		avg    float64
	}

	tests := map[string]test{
		"tail":  {values: []float64{1, 2, 3, 4}, n: 2, avg: 3.5},
		"all":   {values: []float64{1, 2, 3}, n: 10, avg: 2},
		"empty": {values: nil, n: 5, avg: 0},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.InDelta(t, tt.avg, avgTail(tt.values, tt.n), 1e-9)
		})
	}
}
