package model

import (
	"errors"
	"fmt"
)

// ErrNotTrained signals a predict call before any successful train call.
// This is a programming error and is surfaced, not retried.
var ErrNotTrained = errors.New("model is not trained")

// ErrNoValidPrediction signals that every base model failed to produce a prediction.
var ErrNoValidPrediction = errors.New("no valid prediction")

// InsufficientDataError signals too few bars or samples for the requested operation.
// Callers may recover by falling back to a simpler model or waiting for more data.
type InsufficientDataError struct {
	Need int
	Got  int
}

func (e InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data: need %d, got %d", e.Need, e.Got)
}

// SingularMatrixError signals a degenerate regression fit.
// Callers recover by falling back to another model.
type SingularMatrixError struct {
	Reason string
}

func (e SingularMatrixError) Error() string {
	return fmt.Sprintf("singular matrix: %s", e.Reason)
}

// InsufficientFundsError rejects a buy order exceeding the cash balance.
type InsufficientFundsError struct {
	Required  float64
	Available float64
}

func (e InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds: required %.2f, available %.2f", e.Required, e.Available)
}

// InsufficientPositionError rejects a sell order exceeding the held quantity.
type InsufficientPositionError struct {
	Symbol    Symbol
	Requested float64
	Held      float64
}

func (e InsufficientPositionError) Error() string {
	return fmt.Sprintf("insufficient position for %s: requested %.0f, held %.0f", e.Symbol, e.Requested, e.Held)
}

// RiskLimitError rejects an order that trips the pre-trade risk gate.
type RiskLimitError struct {
	Reason string
}

func (e RiskLimitError) Error() string {
	return fmt.Sprintf("risk limit exceeded: %s", e.Reason)
}
