package model

import "time"

// Symbol identifies a tradeable instrument.
type Symbol string

// Bar is a single OHLCV price bar.
// Bars are immutable once recorded and ordered by time ascending.
type Bar struct {
	Time   time.Time `json:"time"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// Series is a time-ordered sequence of bars.
type Series []Bar

// Closes returns the close prices of the series in order.
func (s Series) Closes() []float64 {
	cc := make([]float64, len(s))
	for i, b := range s {
		cc[i] = b.Close
	}
	return cc
}

// Volumes returns the volumes of the series in order.
func (s Series) Volumes() []float64 {
	vv := make([]float64, len(s))
	for i, b := range s {
		vv[i] = b.Volume
	}
	return vv
}

// Last returns the most recent bar of the series.
func (s Series) Last() Bar {
	if len(s) == 0 {
		return Bar{}
	}
	return s[len(s)-1]
}
