package backtest

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/tmrkh/zaraba/internal/model"
	"github.com/tmrkh/zaraba/internal/risk"
	"github.com/tmrkh/zaraba/internal/trade"
)

// Signal is the decision of a strategy for a single bar.
type Signal byte

const (
	// Hold keeps the current exposure.
	Hold Signal = iota
	// Buy opens or extends a position.
	Buy
	// Sell closes the open position.
	Sell
)

// Strategy emits a signal for the bar at index i given the history up to it.
type Strategy func(i int, history model.Series) Signal

// Point is one equity curve sample.
type Point struct {
	Index  int
	Equity float64
}

// Trade is a completed round trip with its realized profit.
type Trade struct {
	Index int
	PnL   float64
}

// Config drives a backtest run.
type Config struct {
	Symbol       model.Symbol
	InitialCash  float64
	SlippageRate float64
	RiskPercent  float64
	Fees         trade.FeeSchedule
}

// Runner replays a price series through the demo execution engine.
type Runner struct {
	cfg      Config
	risk     *risk.Manager
	strategy Strategy
}

// NewRunner creates a backtest runner for the given strategy.
func NewRunner(cfg Config, manager *risk.Manager, strategy Strategy) (*Runner, error) {
	if strategy == nil {
		return nil, errors.New("strategy is required")
	}
	if manager == nil {
		return nil, errors.New("risk manager is required")
	}
	if cfg.InitialCash <= 0 {
		return nil, fmt.Errorf("invalid initial cash: %f", cfg.InitialCash)
	}
	if cfg.RiskPercent == 0 {
		cfg.RiskPercent = 2
	}
	if cfg.Fees == nil {
		cfg.Fees = trade.SBISchedule{}
	}
	return &Runner{
		cfg:      cfg,
		risk:     manager,
		strategy: strategy,
	}, nil
}

// Run iterates the time ordered series, applies the strategy signal per bar
// through the same fill, commission and slippage logic as live demo trading
// and accumulates the equity curve.
func (r *Runner) Run(series model.Series) (Summary, error) {
	if len(series) < 2 {
		return Summary{}, model.InsufficientDataError{Need: 2, Got: len(series)}
	}

	engine := trade.NewEngine(r.cfg.InitialCash).
		WithFees(r.cfg.Fees).
		WithSlippage(r.cfg.SlippageRate).
		WithRisk(r.risk)

	equity := make([]Point, 0, len(series))
	trades := make([]Trade, 0)

	for i, bar := range series {
		engine.MarkPrice(r.cfg.Symbol, bar.Close)

		switch r.strategy(i, series[:i+1]) {
		case Buy:
			stop := bar.Close * (1 - r.risk.Parameters().StopLossPercent/100)
			quantity := r.risk.PositionSize(engine.Snapshot().Cash, bar.Close, stop, r.cfg.RiskPercent)
			if quantity > 0 {
				if _, err := engine.PlaceOrder(r.cfg.Symbol, model.Buy, quantity, bar.Close); err != nil {
					log.Debug().Err(err).Int("bar", i).Msg("buy skipped")
				}
			}
		case Sell:
			if position, ok := engine.Position(r.cfg.Symbol); ok {
				before := engine.Snapshot().RealizedPnL
				if _, err := engine.PlaceOrder(r.cfg.Symbol, model.Sell, position.Quantity, bar.Close); err != nil {
					log.Debug().Err(err).Int("bar", i).Msg("sell skipped")
				} else {
					trades = append(trades, Trade{
						Index: i,
						PnL:   engine.Snapshot().RealizedPnL - before,
					})
				}
			}
		}

		equity = append(equity, Point{Index: i, Equity: engine.Snapshot().Equity})
	}

	summary := summarize(equity, trades, r.cfg.InitialCash)
	log.Info().
		Int("bars", len(series)).
		Int("trades", summary.Trades).
		Float64("return", summary.TotalReturn).
		Float64("max-drawdown", summary.MaxDrawdown).
		Msg("backtest complete")
	return summary, nil
}
