package predict

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmrkh/zaraba/internal/model"
)

func TestTrendClassifier_Vote(t *testing.T) {
	// alternating 100/104, the move from 100 is always up, from 104 always down
	samples := make([]Sample, 40)
	for i := range samples {
		price := 100.0
		if i%2 == 1 {
			price = 104.0
		}
		samples[i] = Sample{Features: []float64{price}, Target: price}
	}
	classifier := NewTrendClassifier(50)

	require.NoError(t, classifier.Train(samples))

	up, err := classifier.Vote([]float64{100})
	require.NoError(t, err)
	assert.Equal(t, model.Up, up)

	down, err := classifier.Vote([]float64{104})
	require.NoError(t, err)
	assert.Equal(t, model.Down, down)
}

func TestTrendClassifier_Errors(t *testing.T) {
	classifier := NewTrendClassifier(10)

	_, err := classifier.Vote([]float64{1})
	assert.ErrorIs(t, err, model.ErrNotTrained)

	err = classifier.Train(make([]Sample, 5))
	var insufficient model.InsufficientDataError
	assert.True(t, errors.As(err, &insufficient))
}
