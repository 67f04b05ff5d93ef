package predict

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmrkh/zaraba/internal/model"
)

func TestSequence_Predict(t *testing.T) {
	// targets 0..9, window 5
	samples := make([]Sample, 10)
	for i := range samples {
		samples[i] = Sample{Target: float64(i)}
	}
	seq := NewSequence(5)

	_, err := seq.Train(samples)
	require.NoError(t, err)

	result, err := seq.Predict(nil)
	require.NoError(t, err)
	// recency weighted window average plus the last momentum, denormalized
	assert.InDelta(t, 8.6667, result.Value, 1e-3)
	assert.GreaterOrEqual(t, result.Confidence, 0.1)
	assert.LessOrEqual(t, result.Confidence, 0.95)
}

func TestSequence_Forecast(t *testing.T) {
	samples := make([]Sample, 30)
	for i := range samples {
		samples[i] = Sample{Target: 100 + float64(i)}
	}
	seq := NewSequence(10)

	_, err := seq.Train(samples)
	require.NoError(t, err)

	forecast, err := seq.Forecast(5)
	require.NoError(t, err)
	assert.Equal(t, 5, len(forecast))
	for _, v := range forecast {
		// normalized steps are clamped, forecasts stay within the seen bounds
		assert.GreaterOrEqual(t, v, 100.0)
		assert.LessOrEqual(t, v, 129.0)
	}

	_, err = seq.Forecast(0)
	assert.Error(t, err)
}

func TestSequence_Trend(t *testing.T) {
	seq := NewSequence(5)
	_, err := seq.Train(constantSamples(100, 20))
	require.NoError(t, err)

	trend, err := seq.Trend()
	require.NoError(t, err)
	assert.Equal(t, model.Neutral, trend)

	// on a falling series the window average reverts the estimate
	// back above the last price
	samples := make([]Sample, 30)
	for i := range samples {
		samples[i] = Sample{Target: 200 - 2*float64(i)}
	}
	seq = NewSequence(10)
	_, err = seq.Train(samples)
	require.NoError(t, err)

	trend, err = seq.Trend()
	require.NoError(t, err)
	assert.Equal(t, model.Up, trend)
}

func TestSequence_Errors(t *testing.T) {
	seq := NewSequence(5)

	_, err := seq.Predict(nil)
	assert.ErrorIs(t, err, model.ErrNotTrained)

	_, err = seq.Forecast(3)
	assert.ErrorIs(t, err, model.ErrNotTrained)

	samples := make([]Sample, 5)
	_, err = seq.Train(samples)
	var insufficient model.InsufficientDataError
	assert.True(t, errors.As(err, &insufficient))
}

func TestSequence_FlatSeries(t *testing.T) {
	seq := NewSequence(5)

	_, err := seq.Train(constantSamples(100, 20))
	require.NoError(t, err)

	result, err := seq.Predict(nil)
	require.NoError(t, err)
	// min == max, the window degenerates to the constant
	assert.InDelta(t, 100, result.Value, 1e-9)
}
