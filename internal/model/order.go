package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Side defines the direction of an order.
type Side byte

const (
	// NoSide means the order side is missing.
	NoSide Side = iota
	// Buy defines a buy order.
	Buy
	// Sell defines a sell order.
	Sell
)

func (s Side) String() string {
	switch s {
	case Buy:
		return "buy"
	case Sell:
		return "sell"
	}
	return "none"
}

// Inv inverts the side.
func (s Side) Inv() Side {
	switch s {
	case Buy:
		return Sell
	case Sell:
		return Buy
	}
	return NoSide
}

// Status defines the order lifecycle state.
// An order is created Pending and transitions exactly once
// to Filled, Cancelled or Rejected. It is immutable thereafter.
type Status byte

const (
	// Pending is the initial order state.
	Pending Status = iota
	// Filled means the order was executed.
	Filled
	// Cancelled means the order was withdrawn before execution.
	Cancelled
	// Rejected means the order failed a pre-trade check.
	Rejected
)

func (s Status) String() string {
	switch s {
	case Pending:
		return "pending"
	case Filled:
		return "filled"
	case Cancelled:
		return "cancelled"
	case Rejected:
		return "rejected"
	}
	return "unknown"
}

// Order defines a simulated order.
type Order struct {
	ID             string    `json:"id"`
	Symbol         Symbol    `json:"symbol"`
	Side           Side      `json:"side"`
	Quantity       float64   `json:"quantity"`
	RequestedPrice float64   `json:"requested_price"`
	Status         Status    `json:"status"`
	FilledPrice    float64   `json:"filled_price"`
	Commission     float64   `json:"commission"`
	Slippage       float64   `json:"slippage"`
	Reason         string    `json:"reason,omitempty"`
	Time           time.Time `json:"time"`
}

// NewOrder creates a new pending order for the given symbol.
func NewOrder(symbol Symbol) *Order {
	return &Order{
		ID:     uuid.New().String(),
		Symbol: symbol,
		Status: Pending,
		Time:   time.Now(),
	}
}

// WithSide defines the side of the order.
func (o *Order) WithSide(s Side) *Order {
	o.mustBeEmpty(int(o.Side))
	o.Side = s
	return o
}

// Buy defines an order of side buy.
func (o *Order) Buy() *Order {
	return o.WithSide(Buy)
}

// Sell defines an order of side sell.
func (o *Order) Sell() *Order {
	return o.WithSide(Sell)
}

// WithQuantity defines the quantity for this order.
func (o *Order) WithQuantity(q float64) *Order {
	o.mustBeZero(o.Quantity)
	o.Quantity = q
	return o
}

// WithPrice defines the requested price for this order.
func (o *Order) WithPrice(p float64) *Order {
	o.mustBeZero(o.RequestedPrice)
	o.RequestedPrice = p
	return o
}

// At defines the order creation time.
func (o *Order) At(t time.Time) *Order {
	o.Time = t
	return o
}

// Create finalises the order and sanity checks the given details.
func (o *Order) Create() Order {
	o.mustNotBeZero(o.Quantity)
	o.mustNotBeZero(o.RequestedPrice)
	if o.Side == NoSide {
		panic(fmt.Sprintf("cannot create order without side: %+v", o))
	}
	return *o
}

// Fill transitions the order to Filled at the given execution details.
func (o *Order) Fill(price, commission, slippage float64) error {
	if err := o.transition(); err != nil {
		return err
	}
	o.Status = Filled
	o.FilledPrice = price
	o.Commission = commission
	o.Slippage = slippage
	return nil
}

// Cancel transitions the order to Cancelled.
func (o *Order) Cancel() error {
	if err := o.transition(); err != nil {
		return err
	}
	o.Status = Cancelled
	return nil
}

// Reject transitions the order to Rejected with a human readable reason.
func (o *Order) Reject(reason string) error {
	if err := o.transition(); err != nil {
		return err
	}
	o.Status = Rejected
	o.Reason = reason
	return nil
}

func (o *Order) transition() error {
	if o.Status != Pending {
		return fmt.Errorf("order %s already terminal: %s", o.ID, o.Status)
	}
	return nil
}

func (o *Order) mustBeEmpty(t int) {
	if t != 0 {
		panic(fmt.Sprintf("value must be empty: %d", t))
	}
}

func (o *Order) mustBeZero(t float64) {
	if t != 0.0 {
		panic(fmt.Sprintf("value must be zero: %f", t))
	}
}

func (o *Order) mustNotBeZero(t float64) {
	if t <= 0 {
		panic(fmt.Sprintf("value must be larger than '0': %f", t))
	}
}
