package ensemble

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/tmrkh/zaraba/internal/buffer"
	"github.com/tmrkh/zaraba/internal/metrics"
	"github.com/tmrkh/zaraba/internal/model"
	"github.com/tmrkh/zaraba/internal/predict"
)

const (
	// epsilon avoids division by zero for a perfect fit model
	epsilon = 0.001
	// erroredWeight is the pre-normalization weight of a model that failed
	// to train. Low, but not zero, so that it can recover in a later round.
	erroredWeight = 0.1
	// shortHorizonShare is the share of the most recent samples
	// the short horizon model trains on.
	shortHorizonShare = 0.7
	// classifierDampening is applied to the combined confidence
	// when the direction classifier contradicts the regression trend.
	classifierDampening = 0.8
)

// Horizon marks the slice of history a member specializes on.
type Horizon string

const (
	Short  Horizon = "short"
	Medium Horizon = "medium"
	Long   Horizon = "long"
)

// Member declares a named model owned by the ensemble with its initial weight.
type Member struct {
	Name      string
	Horizon   Horizon
	Predictor predict.Predictor
	Weight    float64
}

type member struct {
	name      string
	horizon   Horizon
	predictor predict.Predictor
}

// Report describes the outcome of a training round.
type Report struct {
	Losses  map[string]float64
	Errors  map[string]error
	Weights map[string]float64
}

// Ensemble owns a set of base predictors and a weight per model.
// It is untrained until the first successful Train call, weights are
// re-estimated after every round and published atomically, a Predict
// racing a Train observes the previous weight set, never a mixed one.
type Ensemble struct {
	mu         sync.RWMutex
	members    []*member
	weights    map[string]float64
	trained    bool
	lastPrice  float64
	classifier *predict.TrendClassifier
}

// New creates an untrained ensemble with the given members.
// Initial weights must be non-negative and are normalized to sum to 1.
func New(members ...Member) (*Ensemble, error) {
	if len(members) == 0 {
		return nil, errors.New("ensemble requires at least one member")
	}
	weights := make(map[string]float64, len(members))
	mm := make([]*member, len(members))
	sum := 0.0
	for i, m := range members {
		if m.Weight < 0 {
			return nil, fmt.Errorf("negative weight for %s: %f", m.Name, m.Weight)
		}
		if _, ok := weights[m.Name]; ok {
			return nil, fmt.Errorf("duplicate member: %s", m.Name)
		}
		weights[m.Name] = m.Weight
		sum += m.Weight
		mm[i] = &member{name: m.Name, horizon: m.Horizon, predictor: m.Predictor}
	}
	if sum == 0 {
		return nil, errors.New("all initial weights are zero")
	}
	for name := range weights {
		weights[name] /= sum
	}
	return &Ensemble{
		members: mm,
		weights: weights,
	}, nil
}

// NewDefault builds the standard three member ensemble, a sequence model on
// the short horizon, bagged trees on the medium and a linear regression on
// the long one, with the 0.4/0.4/0.2 initial weight distribution.
func NewDefault(seed int64) *Ensemble {
	e, err := New(
		Member{Name: "short", Horizon: Short, Predictor: predict.NewSequence(predict.DefaultSequenceLength), Weight: 0.4},
		Member{Name: "medium", Horizon: Medium, Predictor: predict.NewBaggedTrees(0, seed), Weight: 0.4},
		Member{Name: "long", Horizon: Long, Predictor: predict.NewLinearRegression(), Weight: 0.2},
	)
	if err != nil {
		panic(fmt.Sprintf("invalid default ensemble: %v", err))
	}
	return e.WithClassifier(predict.NewTrendClassifier(0))
}

// WithClassifier attaches a direction classifier cross-checking the trend.
func (e *Ensemble) WithClassifier(c *predict.TrendClassifier) *Ensemble {
	e.classifier = c
	return e
}

// Trained returns true after the first successful training round.
func (e *Ensemble) Trained() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.trained
}

// Weights returns a copy of the published weight table.
func (e *Ensemble) Weights() map[string]float64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	ww := make(map[string]float64, len(e.weights))
	for k, v := range e.weights {
		ww[k] = v
	}
	return ww
}

// Train fits every member on its horizon slice of the samples and
// re-estimates the weights from the achieved losses. Per member failures
// are tolerated, the failed model is marked and weighted down, a degenerate
// regression fit is replaced by the moving average heuristic. The new weight
// table is built aside and published on completion.
func (e *Ensemble) Train(samples []predict.Sample) (Report, error) {
	if len(samples) < 2 {
		return Report{}, model.InsufficientDataError{Need: 2, Got: len(samples)}
	}

	report := Report{
		Losses:  make(map[string]float64, len(e.members)),
		Errors:  make(map[string]error, len(e.members)),
		Weights: make(map[string]float64, len(e.members)),
	}

	replacements := make(map[string]predict.Predictor)
	for _, m := range e.members {
		slice := samples
		if m.horizon == Short {
			slice = samples[int(float64(len(samples))*(1-shortHorizonShare)):]
		}
		fit, err := m.predictor.Train(slice)
		if err != nil && recoverable(err) {
			// fall back to the heuristic model for this round
			fallback := predict.NewMovingAverage()
			if fit, err = fallback.Train(slice); err == nil {
				log.Warn().Str("member", m.name).Msg("replaced by heuristic fallback")
				replacements[m.name] = fallback
			}
		}
		if err != nil {
			log.Warn().Err(err).Str("member", m.name).Msg("member failed to train")
			report.Errors[m.name] = err
			metrics.Observer.TrainingRound(m.name, "error")
			continue
		}
		report.Losses[m.name] = fit.MAE
		metrics.Observer.TrainingRound(m.name, "ok")
	}

	weights := reweigh(e.members, report)
	report.Weights = weights

	if e.classifier != nil {
		if err := e.classifier.Train(samples); err != nil {
			log.Debug().Err(err).Msg("classifier not trained")
		}
	}

	e.mu.Lock()
	for _, m := range e.members {
		if p, ok := replacements[m.name]; ok {
			m.predictor = p
		}
	}
	e.weights = weights
	e.trained = true
	e.lastPrice = samples[len(samples)-1].Target
	e.mu.Unlock()

	log.Info().
		Int("samples", len(samples)).
		Str("weights", fmt.Sprintf("%+v", weights)).
		Int("errored", len(report.Errors)).
		Msg("training round complete")
	return report, nil
}

// reweigh computes weight[m] = (1/(loss[m]+eps)) / sum over all members,
// models that errored enter with the small constant weight instead.
func reweigh(members []*member, report Report) map[string]float64 {
	raw := make(map[string]float64, len(members))
	sum := 0.0
	for _, m := range members {
		w := erroredWeight
		if loss, ok := report.Losses[m.name]; ok {
			w = 1 / (loss + epsilon)
		}
		raw[m.name] = w
		sum += w
	}
	for name := range raw {
		raw[name] /= sum
	}
	return raw
}

func recoverable(err error) bool {
	var singular model.SingularMatrixError
	var insufficient model.InsufficientDataError
	return errors.As(err, &singular) || errors.As(err, &insufficient)
}

// Predict queries every member and combines the answers via the published
// weights. It fails with model.ErrNotTrained before training and with
// model.ErrNoValidPrediction when no member returns a valid answer.
func (e *Ensemble) Predict(features []float64) (model.Prediction, error) {
	e.mu.RLock()
	trained := e.trained
	reference := e.lastPrice
	weights := make(map[string]float64, len(e.weights))
	for k, v := range e.weights {
		weights[k] = v
	}
	predictors := make(map[string]predict.Predictor, len(e.members))
	for _, m := range e.members {
		predictors[m.name] = m.predictor
	}
	e.mu.RUnlock()

	if !trained {
		return model.Prediction{}, model.ErrNotTrained
	}

	type answer struct {
		name   string
		weight float64
		result predict.Result
	}
	answers := make([]answer, 0, len(e.members))
	sum := 0.0
	for _, m := range e.members {
		result, err := predictors[m.name].Predict(features)
		if err != nil {
			log.Debug().Err(err).Str("member", m.name).Msg("member failed to predict")
			continue
		}
		if math.IsNaN(result.Value) || math.IsInf(result.Value, 0) {
			continue
		}
		answers = append(answers, answer{name: m.name, weight: weights[m.name], result: result})
		sum += weights[m.name]
	}
	if len(answers) == 0 || sum == 0 {
		return model.Prediction{}, model.ErrNoValidPrediction
	}

	var value, confidence float64
	for _, a := range answers {
		w := a.weight / sum
		value += w * a.result.Value
		confidence += w * a.result.Confidence
	}
	confidence = math.Min(math.Max(confidence, 0), 1)

	// model disagreement widens the interval, so does low confidence
	deviations := buffer.NewStats()
	for _, a := range answers {
		w := a.weight / sum
		deviations.Push(math.Sqrt(w) * (a.result.Value - value))
	}
	half := deviations.StDev() * (1 - confidence)

	trend := model.TrendOf(value, reference, 0)
	if e.classifier != nil {
		if vote, err := e.classifier.Vote(features); err == nil {
			if vote != model.Neutral && trend != model.Neutral && vote != trend {
				confidence *= classifierDampening
			}
		}
	}

	metrics.Observer.Prediction(trend.String())
	return model.Prediction{
		Value:      value,
		Confidence: confidence,
		Trend:      trend,
		Interval: model.Interval{
			Lower: value - half,
			Upper: value + half,
		},
		Weights: weights,
	}, nil
}

// Forecast delegates auto-regressive multi-step forecasting to the first
// member supporting it. Predictors are captured under the read lock, a
// concurrent Train swapping in a fallback is never observed half way.
func (e *Ensemble) Forecast(steps int) ([]float64, error) {
	e.mu.RLock()
	trained := e.trained
	predictors := make([]predict.Predictor, len(e.members))
	for i, m := range e.members {
		predictors[i] = m.predictor
	}
	e.mu.RUnlock()

	if !trained {
		return nil, model.ErrNotTrained
	}
	for _, p := range predictors {
		if f, ok := p.(predict.Forecaster); ok {
			return f.Forecast(steps)
		}
	}
	return nil, errors.New("no member supports forecasting")
}
