package model

import "time"

// Snapshot is a point in time view of the simulated account.
type Snapshot struct {
	Time           time.Time  `json:"time"`
	Cash           float64    `json:"cash"`
	Equity         float64    `json:"equity"`
	RealizedPnL    float64    `json:"realized_pnl"`
	UnrealizedPnL  float64    `json:"unrealized_pnl"`
	CommissionPaid float64    `json:"commission_paid"`
	Positions      []Position `json:"positions"`
}
