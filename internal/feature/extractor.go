package feature

import (
	"github.com/tmrkh/zaraba/internal/mathx"
	"github.com/tmrkh/zaraba/internal/model"
)

// Config defines the indicator periods for the extractor.
type Config struct {
	SMAPeriods       []int `yaml:"sma_periods"`
	EMAFast          int   `yaml:"ema_fast"`
	EMASlow          int   `yaml:"ema_slow"`
	RSIPeriod        int   `yaml:"rsi_period"`
	MACDSignal       int   `yaml:"macd_signal"`
	BollingerPeriod  int   `yaml:"bollinger_period"`
	BollingerK       float64
	VolumePeriod     int `yaml:"volume_period"`
	VolatilityWindow int `yaml:"volatility_window"`
	CycleWindow      int `yaml:"cycle_window"`
}

// DefaultConfig returns the default indicator configuration.
func DefaultConfig() Config {
	return Config{
		SMAPeriods:       []int{5, 10, 20, 50},
		EMAFast:          12,
		EMASlow:          26,
		RSIPeriod:        14,
		MACDSignal:       9,
		BollingerPeriod:  20,
		BollingerK:       2.0,
		VolumePeriod:     20,
		VolatilityWindow: 20,
		CycleWindow:      32,
	}
}

// Vector is the fixed order numeric feature vector derived from a bar window.
// Extraction is deterministic, the same input window always yields the same vector.
type Vector struct {
	SMA5, SMA10, SMA20, SMA50        float64
	EMAFast, EMASlow                 float64
	RSI                              float64
	MACD, MACDSignal, MACDHist       float64
	BollUpper, BollMiddle, BollLower float64
	VolumeSMA                        float64
	Delta, DeltaPct                  float64
	Volatility                       float64
	Cycle                            float64
}

// Slice returns the vector values in their fixed order.
func (v Vector) Slice() []float64 {
	return []float64{
		v.SMA5, v.SMA10, v.SMA20, v.SMA50,
		v.EMAFast, v.EMASlow,
		v.RSI,
		v.MACD, v.MACDSignal, v.MACDHist,
		v.BollUpper, v.BollMiddle, v.BollLower,
		v.VolumeSMA,
		v.Delta, v.DeltaPct,
		v.Volatility,
		v.Cycle,
	}
}

// Extractor converts raw bar history into feature vectors.
type Extractor struct {
	cfg Config
}

// NewExtractor creates an extractor for the given configuration.
// The vector carries four fixed average slots, a config with fewer
// periods falls back to the defaults.
func NewExtractor(cfg Config) *Extractor {
	if len(cfg.SMAPeriods) < 4 {
		cfg = DefaultConfig()
	}
	return &Extractor{cfg: cfg}
}

// MaxPeriod returns the number of prior bars required for extraction.
func (e *Extractor) MaxPeriod() int {
	max := e.cfg.EMASlow + e.cfg.MACDSignal
	for _, p := range e.cfg.SMAPeriods {
		if p > max {
			max = p
		}
	}
	for _, p := range []int{
		e.cfg.RSIPeriod + 1,
		e.cfg.BollingerPeriod,
		e.cfg.VolumePeriod,
		e.cfg.VolatilityWindow + 1,
		e.cfg.CycleWindow,
	} {
		if p > max {
			max = p
		}
	}
	return max
}

// Extract computes the feature vector for the bar at asOf.
// It fails with model.InsufficientDataError when asOf has fewer
// than MaxPeriod prior bars. All outputs are finite.
func (e *Extractor) Extract(bars model.Series, asOf int) (Vector, error) {
	need := e.MaxPeriod()
	if asOf < need || asOf >= len(bars) {
		return Vector{}, model.InsufficientDataError{Need: need, Got: asOf}
	}

	window := bars[:asOf+1]
	closes := window.Closes()
	volumes := window.Volumes()

	v := Vector{
		SMA5:      SMA(closes, e.cfg.SMAPeriods[0]),
		SMA10:     SMA(closes, e.cfg.SMAPeriods[1]),
		SMA20:     SMA(closes, e.cfg.SMAPeriods[2]),
		SMA50:     SMA(closes, e.cfg.SMAPeriods[3]),
		EMAFast:   EMA(closes, e.cfg.EMAFast),
		EMASlow:   EMA(closes, e.cfg.EMASlow),
		RSI:       RSI(closes, e.cfg.RSIPeriod),
		VolumeSMA: SMA(volumes, e.cfg.VolumePeriod),
	}
	v.MACD, v.MACDSignal, v.MACDHist = MACD(closes, e.cfg.EMAFast, e.cfg.EMASlow, e.cfg.MACDSignal)
	v.BollUpper, v.BollMiddle, v.BollLower = Bollinger(closes, e.cfg.BollingerPeriod, e.cfg.BollingerK)

	last := closes[len(closes)-1]
	prev := closes[len(closes)-2]
	v.Delta = last - prev
	if prev != 0 {
		v.DeltaPct = v.Delta / prev * 100
	}
	v.Volatility = Volatility(closes, e.cfg.VolatilityWindow)
	v.Cycle = mathx.NewSpectrum(returns(closes[len(closes)-e.cfg.CycleWindow:])).Dominance()

	return v, nil
}

func returns(values []float64) []float64 {
	rr := make([]float64, 0, len(values)-1)
	for i := 1; i < len(values); i++ {
		if values[i-1] == 0 {
			rr = append(rr, 0)
			continue
		}
		rr = append(rr, (values[i]-values[i-1])/values[i-1])
	}
	return rr
}
