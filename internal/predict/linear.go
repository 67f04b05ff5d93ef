package predict

import (
	"fmt"
	"math"
	"sync"

	"github.com/tmrkh/zaraba/internal/model"
	"gonum.org/v1/gonum/mat"
)

// LinearRegression solves the normal equation (X^T X)^-1 X^T y
// with an added bias column.
type LinearRegression struct {
	mu    sync.RWMutex
	state *linState
}

type linState struct {
	weights    []float64 // bias first
	confidence float64
}

// NewLinearRegression creates a new untrained regression model.
func NewLinearRegression() *LinearRegression {
	return &LinearRegression{}
}

func (l *LinearRegression) Name() string {
	return "linear-regression"
}

// Train fits the coefficients on the given samples.
// It fails with model.SingularMatrixError when X^T X is not invertible,
// callers recover by falling back to a heuristic model.
func (l *LinearRegression) Train(samples []Sample) (Metrics, error) {
	n := len(samples)
	if n < 2 {
		return Metrics{}, model.InsufficientDataError{Need: 2, Got: n}
	}
	d := len(samples[0].Features)

	x := mat.NewDense(n, d+1, nil)
	y := mat.NewVecDense(n, nil)
	for i, s := range samples {
		if len(s.Features) != d {
			return Metrics{}, fmt.Errorf("inconsistent feature size at %d: %d vs %d", i, len(s.Features), d)
		}
		x.Set(i, 0, 1)
		for j, f := range s.Features {
			x.Set(i, j+1, f)
		}
		y.SetVec(i, s.Target)
	}

	var xtx mat.Dense
	xtx.Mul(x.T(), x)
	var xty mat.VecDense
	xty.MulVec(x.T(), y)

	w := mat.NewVecDense(d+1, nil)
	if err := w.SolveVec(&xtx, &xty); err != nil {
		return Metrics{}, model.SingularMatrixError{Reason: err.Error()}
	}

	weights := make([]float64, d+1)
	for i := range weights {
		weights[i] = w.AtVec(i)
	}

	errors := make([]float64, n)
	scale := 0.0
	for i, s := range samples {
		errors[i] = dot(weights, s.Features) - s.Target
		scale += math.Abs(s.Target)
	}
	metrics := metricsOf(errors)
	scale /= float64(n)

	// confidence from the normalized in-sample error
	confidence := 0.5
	if scale > 0 {
		confidence = clamp(1/(1+metrics.RMSE/scale*10), 0.1, 0.95)
	}

	l.mu.Lock()
	l.state = &linState{weights: weights, confidence: confidence}
	l.mu.Unlock()
	return metrics, nil
}

// Predict evaluates the fitted hyperplane at the given features.
func (l *LinearRegression) Predict(features []float64) (Result, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.state == nil {
		return Result{}, model.ErrNotTrained
	}
	if len(features) != len(l.state.weights)-1 {
		return Result{}, fmt.Errorf("feature size mismatch: %d vs %d", len(features), len(l.state.weights)-1)
	}
	return Result{
		Value:      dot(l.state.weights, features),
		Confidence: l.state.confidence,
	}, nil
}

func dot(weights, features []float64) float64 {
	v := weights[0]
	for i, f := range features {
		v += weights[i+1] * f
	}
	return v
}
