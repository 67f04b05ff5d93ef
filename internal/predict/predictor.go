package predict

import "math"

// Sample is a single training observation, a feature vector and the next price.
type Sample struct {
	Features []float64
	Target   float64
}

// Result is a single model prediction.
type Result struct {
	Value      float64
	Confidence float64
}

// Metrics reports the fit quality of a training round.
type Metrics struct {
	MAE  float64
	RMSE float64
}

// Predictor is the common contract of the base models.
// Train fits the model on the given samples, Predict fails with
// model.ErrNotTrained when called before a successful Train.
type Predictor interface {
	Name() string
	Train(samples []Sample) (Metrics, error)
	Predict(features []float64) (Result, error)
}

// Forecaster is implemented by models supporting auto-regressive
// multi-step forecasting.
type Forecaster interface {
	Forecast(steps int) ([]float64, error)
}

func targets(samples []Sample) []float64 {
	tt := make([]float64, len(samples))
	for i, s := range samples {
		tt[i] = s.Target
	}
	return tt
}

func metricsOf(errors []float64) Metrics {
	if len(errors) == 0 {
		return Metrics{}
	}
	var abs, sq float64
	for _, e := range errors {
		abs += math.Abs(e)
		sq += e * e
	}
	n := float64(len(errors))
	return Metrics{
		MAE:  abs / n,
		RMSE: math.Sqrt(sq / n),
	}
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
