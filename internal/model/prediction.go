package model

// Trend classifies the expected price direction.
type Trend byte

const (
	// Neutral means no clear direction.
	Neutral Trend = iota
	// Up means the price is expected to rise.
	Up
	// Down means the price is expected to fall.
	Down
)

func (t Trend) String() string {
	switch t {
	case Up:
		return "up"
	case Down:
		return "down"
	}
	return "neutral"
}

// TrendOf classifies the move from reference to predicted
// at the given fractional threshold e.g. 0.01 for 1%.
func TrendOf(predicted, reference, threshold float64) Trend {
	if reference == 0 {
		return Neutral
	}
	change := (predicted - reference) / reference
	if change > threshold {
		return Up
	}
	if change < -threshold {
		return Down
	}
	return Neutral
}

// Interval is the confidence interval around a point prediction.
type Interval struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

// Prediction is the combined output of the ensemble.
// It is derived state, persistence is a caller concern.
type Prediction struct {
	Value      float64            `json:"value"`
	Confidence float64            `json:"confidence"`
	Trend      Trend              `json:"trend"`
	Interval   Interval           `json:"interval"`
	Weights    map[string]float64 `json:"weights"`
}
