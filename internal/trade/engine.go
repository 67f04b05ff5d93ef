package trade

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/tmrkh/zaraba/internal/metrics"
	"github.com/tmrkh/zaraba/internal/model"
	"github.com/tmrkh/zaraba/internal/risk"
)

// defaultSlippageRate is the fixed fractional slippage applied to fills.
const defaultSlippageRate = 0.001

// Engine is a stateful demo execution engine for a single account.
// It keeps a cash ledger, a position map and an append only order log.
// Concurrent PlaceOrder calls are serialized by a per account mutex.
type Engine struct {
	mu           sync.Mutex
	cash         float64
	commission   float64
	realized     float64
	slippageRate float64
	fees         FeeSchedule
	risk         *risk.Manager
	positions    map[model.Symbol]*model.Position
	orders       []model.Order
}

// NewEngine creates an engine with the given starting cash.
func NewEngine(cash float64) *Engine {
	return &Engine{
		cash:         cash,
		slippageRate: defaultSlippageRate,
		fees:         SBISchedule{},
		positions:    make(map[model.Symbol]*model.Position),
		orders:       make([]model.Order, 0),
	}
}

// WithFees overrides the commission schedule.
func (e *Engine) WithFees(fees FeeSchedule) *Engine {
	e.fees = fees
	return e
}

// WithSlippage overrides the fractional slippage rate.
func (e *Engine) WithSlippage(rate float64) *Engine {
	e.slippageRate = rate
	return e
}

// WithRisk attaches a pre-trade risk gate.
func (e *Engine) WithRisk(manager *risk.Manager) *Engine {
	e.risk = manager
	return e
}

// PlaceOrder simulates a market order fill with slippage and commission.
// A rejected order is recorded in the log with its reason and returned
// together with the error, the ledger and positions stay untouched.
func (e *Engine) PlaceOrder(symbol model.Symbol, side model.Side, quantity, price float64) (model.Order, error) {
	if quantity <= 0 || price <= 0 || side == model.NoSide {
		return model.Order{}, fmt.Errorf("invalid order: side %s quantity %f price %f", side.String(), quantity, price)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	order := model.NewOrder(symbol).WithSide(side).WithQuantity(quantity).WithPrice(price).Create()

	// slippage works against the order
	netPrice := price * (1 + e.slippageRate)
	if side == model.Sell {
		netPrice = price * (1 - e.slippageRate)
	}
	notional := quantity * netPrice
	commission := e.fees.Commission(notional)

	if err := e.check(symbol, side, quantity, notional, commission); err != nil {
		_ = order.Reject(err.Error())
		e.orders = append(e.orders, order)
		metrics.Observer.Order(string(symbol), side.String(), order.Status.String())
		log.Debug().Err(err).Str("symbol", string(symbol)).Str("side", side.String()).Msg("order rejected")
		return order, err
	}

	if err := order.Fill(netPrice, commission, netPrice-price); err != nil {
		return order, err
	}
	e.settle(order)
	e.orders = append(e.orders, order)
	metrics.Observer.Order(string(symbol), side.String(), order.Status.String())
	log.Debug().
		Str("symbol", string(symbol)).
		Str("side", side.String()).
		Float64("quantity", quantity).
		Float64("price", netPrice).
		Float64("commission", commission).
		Msg("order filled")
	return order, nil
}

// check runs the pre-trade gates. It never mutates state.
func (e *Engine) check(symbol model.Symbol, side model.Side, quantity, notional, commission float64) error {
	switch side {
	case model.Buy:
		required := notional + commission
		if required > e.cash {
			return model.InsufficientFundsError{Required: required, Available: e.cash}
		}
		if e.risk != nil {
			if notional > e.risk.Parameters().MaxPositionSize {
				return model.RiskLimitError{
					Reason: fmt.Sprintf("order notional %.0f exceeds max position size %.0f",
						notional, e.risk.Parameters().MaxPositionSize),
				}
			}
			portfolio := e.risk.PortfolioRisk(e.snapshotPositions(), e.cash)
			if portfolio.Action == risk.Stop {
				return model.RiskLimitError{
					Reason: fmt.Sprintf("portfolio risk %.2f%% demands %s", portfolio.RiskPercent, portfolio.Action),
				}
			}
		}
	case model.Sell:
		position, ok := e.positions[symbol]
		if !ok || position.Quantity < quantity {
			held := 0.0
			if ok {
				held = position.Quantity
			}
			return model.InsufficientPositionError{Symbol: symbol, Requested: quantity, Held: held}
		}
	default:
		return errors.New("order side missing")
	}
	return nil
}

// settle applies a filled order to the ledger and positions.
func (e *Engine) settle(order model.Order) {
	notional := order.Quantity * order.FilledPrice
	e.commission += order.Commission

	switch order.Side {
	case model.Buy:
		e.cash -= notional + order.Commission
		if position, ok := e.positions[order.Symbol]; ok {
			position.Add(order.Quantity, order.FilledPrice)
		} else {
			position := model.OpenPosition(order)
			e.positions[order.Symbol] = &position
		}
	case model.Sell:
		e.cash += notional - order.Commission
		position := e.positions[order.Symbol]
		e.realized += position.Reduce(order.Quantity, order.FilledPrice)
		if position.Quantity == 0 {
			delete(e.positions, order.Symbol)
		}
	}
}

// MarkPrice updates the current price of the symbol for valuation.
func (e *Engine) MarkPrice(symbol model.Symbol, price float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if position, ok := e.positions[symbol]; ok {
		position.CurrentPrice = price
	}
}

// Position returns the open position for the symbol, if any.
func (e *Engine) Position(symbol model.Symbol) (model.Position, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	position, ok := e.positions[symbol]
	if !ok {
		return model.Position{}, false
	}
	return *position, true
}

// Orders returns a copy of the append only order log.
func (e *Engine) Orders() []model.Order {
	e.mu.Lock()
	defer e.mu.Unlock()
	orders := make([]model.Order, len(e.orders))
	copy(orders, e.orders)
	return orders
}

// Snapshot returns the current account state.
func (e *Engine) Snapshot() model.Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	positions := e.snapshotPositions()
	var value, unrealized float64
	for _, p := range positions {
		value += p.Value()
		unrealized += p.PnL()
	}
	return model.Snapshot{
		Time:           time.Now(),
		Cash:           e.cash,
		Equity:         e.cash + value,
		RealizedPnL:    e.realized,
		UnrealizedPnL:  unrealized,
		CommissionPaid: e.commission,
		Positions:      positions,
	}
}

func (e *Engine) snapshotPositions() []model.Position {
	positions := make([]model.Position, 0, len(e.positions))
	for _, p := range e.positions {
		positions = append(positions, *p)
	}
	return positions
}
