package predict

import (
	"fmt"
	"math"
	"sync"

	"github.com/drakos74/go-ex-machina/xmath"
	"github.com/tmrkh/zaraba/internal/buffer"
	"github.com/tmrkh/zaraba/internal/model"
)

const (
	// DefaultSequenceLength is the rolling window size of the sequence model.
	DefaultSequenceLength = 60
	// sequence trend classification threshold e.g. 1%
	trendThreshold = 0.01
)

// Sequence is a one step ahead sequence model over a min-max normalized
// rolling window of the target series. It supports auto-regressive
// multi-step forecasting by feeding its own predictions back in.
type Sequence struct {
	mu     sync.RWMutex
	length int
	state  *seqState
}

type seqState struct {
	window *buffer.Ring // normalized
	kernel xmath.Vector
	min    float64
	max    float64
	vol    float64 // recent volatility of returns
	last   float64 // last actual price
}

// NewSequence creates a sequence model with the given window length.
func NewSequence(length int) *Sequence {
	if length <= 0 {
		length = DefaultSequenceLength
	}
	return &Sequence{length: length}
}

func (s *Sequence) Name() string {
	return fmt.Sprintf("sequence-%d", s.length)
}

// Train captures the normalized rolling window from the sample targets.
// It fails with model.InsufficientDataError for fewer than length+1 samples.
func (s *Sequence) Train(samples []Sample) (Metrics, error) {
	if len(samples) < s.length+1 {
		return Metrics{}, model.InsufficientDataError{Need: s.length + 1, Got: len(samples)}
	}
	prices := targets(samples)

	min, max := bounds(prices)
	window := buffer.NewRing(s.length)
	for _, p := range prices[len(prices)-s.length:] {
		window.Push(norm(p, min, max))
	}

	state := &seqState{
		window: window,
		kernel: recencyKernel(s.length),
		min:    min,
		max:    max,
		last:   prices[len(prices)-1],
	}

	volStats := buffer.NewStats()
	volWindow := prices
	if len(volWindow) > 20 {
		volWindow = volWindow[len(volWindow)-20:]
	}
	for i := 1; i < len(volWindow); i++ {
		if volWindow[i-1] != 0 {
			volStats.Push((volWindow[i] - volWindow[i-1]) / volWindow[i-1])
		}
	}
	state.vol = volStats.StDev()

	// walk forward over the training series for the fit metrics
	errors := make([]float64, 0, len(prices)-s.length)
	for i := s.length; i < len(prices); i++ {
		w := buffer.NewRing(s.length)
		for _, p := range prices[i-s.length : i] {
			w.Push(norm(p, min, max))
		}
		predicted := denorm(step(w.Get(), state.kernel), min, max)
		errors = append(errors, predicted-prices[i])
	}

	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
	return metricsOf(errors), nil
}

// Predict returns the one step ahead estimate from the captured window.
// Confidence decreases as recent volatility or the predicted change grows.
func (s *Sequence) Predict(_ []float64) (Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state == nil {
		return Result{}, model.ErrNotTrained
	}
	value := denorm(step(s.state.window.Get(), s.state.kernel), s.state.min, s.state.max)
	return Result{
		Value:      value,
		Confidence: s.confidence(value),
	}, nil
}

// Forecast feeds predictions back into the window for multi-step estimates.
func (s *Sequence) Forecast(steps int) ([]float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state == nil {
		return nil, model.ErrNotTrained
	}
	if steps <= 0 {
		return nil, fmt.Errorf("invalid forecast steps: %d", steps)
	}

	window := buffer.NewRing(s.length)
	for _, v := range s.state.window.Get() {
		window.Push(v)
	}
	out := make([]float64, steps)
	for i := 0; i < steps; i++ {
		next := step(window.Get(), s.state.kernel)
		out[i] = denorm(next, s.state.min, s.state.max)
		window.Push(next)
	}
	return out, nil
}

// Trend classifies the one step ahead move at the threshold of 1%.
func (s *Sequence) Trend() (model.Trend, error) {
	result, err := s.Predict(nil)
	if err != nil {
		return model.Neutral, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return model.TrendOf(result.Value, s.state.last, trendThreshold), nil
}

func (s *Sequence) confidence(value float64) float64 {
	change := 0.0
	if s.state.last != 0 {
		change = math.Abs(value-s.state.last) / s.state.last
	}
	return clamp(1/(1+8*s.state.vol+4*change), 0.1, 0.95)
}

// step predicts the next normalized value as the recency weighted window
// average adjusted by the latest momentum.
func step(window []float64, kernel xmath.Vector) float64 {
	v := xmath.Vec(len(window)).With(window...)
	next := v.Dot(kernel)
	if len(window) >= 2 {
		next += window[len(window)-1] - window[len(window)-2]
	}
	return clamp(next, 0, 1)
}

// recencyKernel weights the window linearly towards the most recent values.
func recencyKernel(length int) xmath.Vector {
	kernel := xmath.Vec(length)
	sum := 0.0
	for i := 0; i < length; i++ {
		kernel[i] = float64(i + 1)
		sum += kernel[i]
	}
	return kernel.Mult(1 / sum)
}

func bounds(values []float64) (min, max float64) {
	stats := buffer.NewStats()
	for _, v := range values {
		stats.Push(v)
	}
	return stats.Min(), stats.Max()
}

func norm(v, min, max float64) float64 {
	if max == min {
		return 0.5
	}
	return (v - min) / (max - min)
}

func denorm(v, min, max float64) float64 {
	return min + v*(max-min)
}
