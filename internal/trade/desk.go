package trade

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/tmrkh/zaraba/internal/model"
	"github.com/tmrkh/zaraba/internal/risk"
)

// default account risk share per trade, in percent
const defaultRiskPercent = 2

// Desk sizes and routes orders derived from predictions through the engine.
type Desk struct {
	engine *Engine
	risk   *risk.Manager
}

// NewDesk creates a desk over the given engine and risk manager.
func NewDesk(engine *Engine, manager *risk.Manager) *Desk {
	return &Desk{
		engine: engine,
		risk:   manager,
	}
}

// Act turns a prediction into a risk sized order.
// An up trend opens or extends a position, a down trend closes any
// held quantity, a neutral trend does nothing.
func (d *Desk) Act(symbol model.Symbol, prediction model.Prediction, price float64) (*model.Order, error) {
	switch prediction.Trend {
	case model.Up:
		assessment := d.risk.PositionRisk(0, price, price)
		quantity := d.risk.PositionSize(d.engine.Snapshot().Cash, price, assessment.StopLossPrice, defaultRiskPercent)
		if quantity <= 0 {
			return nil, fmt.Errorf("no affordable quantity for %s at %.2f", symbol, price)
		}
		order, err := d.engine.PlaceOrder(symbol, model.Buy, quantity, price)
		if err != nil {
			return &order, err
		}
		log.Info().
			Str("symbol", string(symbol)).
			Float64("quantity", quantity).
			Float64("confidence", prediction.Confidence).
			Msg("opened position on signal")
		return &order, nil
	case model.Down:
		position, ok := d.engine.Position(symbol)
		if !ok {
			return nil, nil
		}
		order, err := d.engine.PlaceOrder(symbol, model.Sell, position.Quantity, price)
		if err != nil {
			return &order, err
		}
		log.Info().
			Str("symbol", string(symbol)).
			Float64("quantity", position.Quantity).
			Msg("closed position on signal")
		return &order, nil
	}
	return nil, nil
}
