package risk

import (
	"math"

	"github.com/tmrkh/zaraba/internal/model"
)

// Action is the portfolio level recommendation.
type Action string

const (
	// Hold means the portfolio risk is within the configured limit.
	Hold Action = "HOLD"
	// Reduce means the portfolio risk exceeds the limit.
	Reduce Action = "REDUCE"
	// Stop means the portfolio risk exceeds 1.5 times the limit.
	Stop Action = "STOP"
)

// Parameters configures the risk manager.
type Parameters struct {
	MaxPositionSize         float64 `yaml:"max_position_size" default:"1000000" validate:"gt=0"`
	MaxPortfolioRiskPercent float64 `yaml:"max_portfolio_risk_percent" default:"5" validate:"gt=0"`
	StopLossPercent         float64 `yaml:"stop_loss_percent" default:"3" validate:"gt=0"`
	TakeProfitPercent       float64 `yaml:"take_profit_percent" default:"6" validate:"gt=0"`
	MaxDailyLoss            float64 `yaml:"max_daily_loss" default:"50000" validate:"gt=0"`
	MaxDrawdownPercent      float64 `yaml:"max_drawdown_percent" default:"20" validate:"gt=0"`
}

// Assessment describes the risk profile of a single position.
type Assessment struct {
	RiskAmount      float64
	StopLossPrice   float64
	TakeProfitPrice float64
	RiskRewardRatio float64
	WithinLimit     bool
}

// Portfolio describes the aggregated risk over all open positions.
type Portfolio struct {
	TotalValue  float64
	TotalRisk   float64
	RiskPercent float64
	WithinLimit bool
	Action      Action
}

// Manager is a pure function library over a fixed parameter set.
type Manager struct {
	params Parameters
}

// NewManager creates a manager for the given parameters.
func NewManager(params Parameters) *Manager {
	return &Manager{params: params}
}

// Parameters returns the configured parameter set.
func (m *Manager) Parameters() Parameters {
	return m.params
}

// PositionSize derives the order quantity from the account risk budget and
// the stop distance, capped so that the notional never exceeds the maximum
// position size. An entry price equal to the stop price yields 0.
func (m *Manager) PositionSize(accountBalance, entryPrice, stopPrice, riskPercent float64) float64 {
	distance := math.Abs(entryPrice - stopPrice)
	if distance == 0 || entryPrice <= 0 {
		return 0
	}
	quantity := math.Floor(accountBalance * riskPercent / 100 / distance)
	most := math.Floor(m.params.MaxPositionSize / entryPrice)
	return math.Min(quantity, most)
}

// PositionRisk derives the stop and take profit levels for an entry and
// checks the position value against the maximum position size.
func (m *Manager) PositionRisk(size, entry, current float64) Assessment {
	stop := entry * (1 - m.params.StopLossPercent/100)
	take := entry * (1 + m.params.TakeProfitPercent/100)
	ratio := 0.0
	if entry != stop {
		ratio = (take - entry) / (entry - stop)
	}
	return Assessment{
		RiskAmount:      size * (entry - stop),
		StopLossPrice:   stop,
		TakeProfitPrice: take,
		RiskRewardRatio: ratio,
		WithinLimit:     size*current <= m.params.MaxPositionSize,
	}
}

// PortfolioRisk aggregates the position risks against the account balance.
// The action escalates from HOLD to REDUCE above the limit and to STOP
// above 1.5 times the limit.
func (m *Manager) PortfolioRisk(positions []model.Position, accountBalance float64) Portfolio {
	var value, totalRisk float64
	for _, p := range positions {
		value += p.Value()
		totalRisk += p.Value() * m.params.StopLossPercent / 100
	}
	riskPercent := 0.0
	if accountBalance > 0 {
		riskPercent = totalRisk / accountBalance * 100
	}

	limit := m.params.MaxPortfolioRiskPercent
	action := Hold
	switch {
	case riskPercent > 1.5*limit:
		action = Stop
	case riskPercent > limit:
		action = Reduce
	}
	return Portfolio{
		TotalValue:  value,
		TotalRisk:   totalRisk,
		RiskPercent: riskPercent,
		WithinLimit: riskPercent <= limit,
		Action:      action,
	}
}

// DailyLossOk checks the daily P&L against the configured maximum loss.
func (m *Manager) DailyLossOk(dailyPnL float64) bool {
	return dailyPnL >= -m.params.MaxDailyLoss
}

// DrawdownOk checks the peak to trough decline against the drawdown limit.
func (m *Manager) DrawdownOk(current, peak float64) bool {
	if peak <= 0 {
		return true
	}
	return (peak-current)/peak*100 <= m.params.MaxDrawdownPercent
}
