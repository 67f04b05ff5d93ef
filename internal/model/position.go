package model

import (
	"time"

	"github.com/google/uuid"
)

// Position defines an open long position.
// Quantity never goes negative, short selling is not modelled.
// AveragePrice is the cost basis, recomputed as a weighted average on every buy.
type Position struct {
	ID           string    `json:"id"`
	Symbol       Symbol    `json:"symbol"`
	Quantity     float64   `json:"quantity"`
	AveragePrice float64   `json:"average_price"`
	CurrentPrice float64   `json:"current_price"`
	OpenTime     time.Time `json:"open_time"`
}

// OpenPosition creates a position from a filled buy order.
func OpenPosition(order Order) Position {
	return Position{
		ID:           uuid.New().String(),
		Symbol:       order.Symbol,
		Quantity:     order.Quantity,
		AveragePrice: order.FilledPrice,
		CurrentPrice: order.FilledPrice,
		OpenTime:     order.Time,
	}
}

// Add extends the position with a new fill, recomputing the weighted average cost.
func (p *Position) Add(quantity, price float64) {
	total := p.Quantity + quantity
	p.AveragePrice = (p.AveragePrice*p.Quantity + price*quantity) / total
	p.Quantity = total
	p.CurrentPrice = price
}

// Reduce shrinks the position by the given quantity and
// returns the realized profit against the average cost.
func (p *Position) Reduce(quantity, price float64) float64 {
	p.Quantity -= quantity
	p.CurrentPrice = price
	return (price - p.AveragePrice) * quantity
}

// Value returns the market value of the position at the current price.
func (p Position) Value() float64 {
	return p.CurrentPrice * p.Quantity
}

// PnL returns the unrealized profit of the position.
// It is recomputed on demand, never stored stale across a price update.
func (p Position) PnL() float64 {
	return (p.CurrentPrice - p.AveragePrice) * p.Quantity
}
