package predict

import (
	"sync"

	"github.com/tmrkh/zaraba/internal/buffer"
	"github.com/tmrkh/zaraba/internal/model"
)

// blend weights for the 5/10/20 period averages and the trend adjustment
const (
	blendShort  = 0.5
	blendMedium = 0.3
	blendLong   = 0.2
	trendWeight = 0.1
)

// MovingAverage is the heuristic fallback model for small datasets.
// It blends short, medium and long simple moving averages of the target
// series with a recent-trend adjustment term.
type MovingAverage struct {
	mu    sync.RWMutex
	state *maState
}

type maState struct {
	value      float64
	confidence float64
}

// NewMovingAverage creates a new moving average heuristic model.
func NewMovingAverage() *MovingAverage {
	return &MovingAverage{}
}

func (m *MovingAverage) Name() string {
	return "moving-average"
}

// Train computes the blended prediction over the sample targets.
// It tolerates short histories, fewer than 10 points yield a zero
// trend and volatility term instead of failing.
func (m *MovingAverage) Train(samples []Sample) (Metrics, error) {
	if len(samples) == 0 {
		return Metrics{}, model.InsufficientDataError{Need: 1, Got: 0}
	}
	prices := targets(samples)

	// walk forward on the fit for the error metrics
	errors := make([]float64, 0, len(prices))
	for i := 2; i < len(prices); i++ {
		errors = append(errors, blend(prices[:i])-prices[i])
	}
	metrics := metricsOf(errors)

	m.mu.Lock()
	m.state = &maState{
		value:      blend(prices),
		confidence: maConfidence(prices),
	}
	m.mu.Unlock()
	return metrics, nil
}

// Predict returns the blended estimate. The heuristic works on the price
// history captured at training time, the feature vector is not consulted.
func (m *MovingAverage) Predict(_ []float64) (Result, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.state == nil {
		return Result{}, model.ErrNotTrained
	}
	return Result{
		Value:      m.state.value,
		Confidence: m.state.confidence,
	}, nil
}

func blend(prices []float64) float64 {
	value := blendShort*avgTail(prices, 5) +
		blendMedium*avgTail(prices, 10) +
		blendLong*avgTail(prices, 20)
	if len(prices) >= 20 {
		recent := avgTail(prices, 10)
		prior := avgTail(prices[:len(prices)-10], 10)
		value += trendWeight * (recent - prior)
	}
	return value
}

func maConfidence(prices []float64) float64 {
	last := prices[len(prices)-1]
	if len(prices) < 10 || last == 0 {
		return 0.5
	}
	stats := buffer.NewStats()
	for _, p := range prices[len(prices)-10:] {
		stats.Push(p)
	}
	return clamp(1-stats.StDev()/last, 0.1, 0.9)
}

// avgTail averages the last n values, or all of them when fewer are available.
func avgTail(values []float64, n int) float64 {
	if len(values) == 0 {
		return 0
	}
	if len(values) < n {
		n = len(values)
	}
	sum := 0.0
	for _, v := range values[len(values)-n:] {
		sum += v
	}
	return sum / float64(n)
}
