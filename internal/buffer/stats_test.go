package buffer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStats_Push(t *testing.T) {

	type test struct {
		values   []float64
		avg      float64
		min      float64
		max      float64
		diff     float64
		variance float64
	}

	tests := map[string]test{
		"constant": {
			values:   []float64{5, 5, 5, 5},
			avg:      5,
			min:      5,
			max:      5,
			diff:     0,
			variance: 0,
		},
		"increasing": {
			values:   []float64{1, 2, 3, 4, 5},
			avg:      3,
			min:      1,
			max:      5,
			diff:     4,
			variance: 2,
		},
		"negative": {
			values:   []float64{-2, 0, 2},
			avg:      0,
			min:      -2,
			max:      2,
			diff:     4,
			variance: 8.0 / 3.0,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			stats := NewStats()
			for _, v := range tt.values {
				stats.Push(v)
			}
			assert.InDelta(t, tt.avg, stats.Avg(), 1e-9)
			assert.Equal(t, tt.min, stats.Min())
			assert.Equal(t, tt.max, stats.Max())
			assert.Equal(t, tt.diff, stats.Diff())
			assert.InDelta(t, tt.variance, stats.Variance(), 1e-9)
			assert.Equal(t, len(tt.values), stats.Count())
		})
	}
}

func TestStats_Empty(t *testing.T) {
	stats := NewStats()
	assert.Equal(t, 0.0, stats.Variance())
	assert.Equal(t, 0.0, stats.SampleVariance())
}
