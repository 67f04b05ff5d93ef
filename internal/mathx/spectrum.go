package mathx

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// Spectrum holds the single sided amplitude spectrum of a real valued series.
type Spectrum struct {
	Amplitudes []float64
	Total      float64
}

// NewSpectrum computes the spectrum of the given series.
// The zero frequency term is skipped, only the first half of the bins is kept.
func NewSpectrum(xx []float64) Spectrum {
	cc := fft.FFTReal(xx)

	ss := Spectrum{
		Amplitudes: make([]float64, 0, len(cc)/2),
	}
	for i, n := range cc {
		if i == 0 || i > len(cc)/2 {
			continue
		}
		r := cmplx.Abs(n)
		ss.Amplitudes = append(ss.Amplitudes, r)
		ss.Total += r
	}
	return ss
}

// Dominance returns the share of the strongest cycle in the total spectral power.
// It is 0 for an empty or flat series.
func (s Spectrum) Dominance() float64 {
	if s.Total == 0 {
		return 0
	}
	max := 0.0
	for _, a := range s.Amplitudes {
		if a > max {
			max = a
		}
	}
	return max / s.Total
}
