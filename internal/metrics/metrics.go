package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Observer is the process wide metrics collector.
var Observer = &Metrics{
	mutex:      new(sync.RWMutex),
	prometheus: NewPrometheusMetrics(),
}

func init() {
	prometheus.MustRegister(
		Observer.prometheus.Orders,
		Observer.prometheus.Training,
		Observer.prometheus.Predictions,
	)
}

// Metrics wraps the prometheus collectors of the engine.
type Metrics struct {
	mutex      *sync.RWMutex
	prometheus Prometheus
}

// Prometheus holds the raw collectors.
type Prometheus struct {
	Orders      *prometheus.CounterVec
	Training    *prometheus.CounterVec
	Predictions *prometheus.CounterVec
}

// NewPrometheusMetrics creates the collector set.
func NewPrometheusMetrics() Prometheus {
	return Prometheus{
		Orders: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "zaraba",
				Name:      "orders",
			}, []string{"symbol", "side", "status"}),
		Training: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "zaraba",
				Name:      "training_rounds",
			}, []string{"model", "outcome"}),
		Predictions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "zaraba",
				Name:      "predictions",
			}, []string{"trend"}),
	}
}

// Order counts an order event.
func (m *Metrics) Order(symbol, side, status string) {
	m.prometheus.Orders.WithLabelValues(symbol, side, status).Inc()
}

// TrainingRound counts a model training attempt.
func (m *Metrics) TrainingRound(model, outcome string) {
	m.prometheus.Training.WithLabelValues(model, outcome).Inc()
}

// Prediction counts a combined prediction.
func (m *Metrics) Prediction(trend string) {
	m.prometheus.Predictions.WithLabelValues(trend).Inc()
}
