package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tmrkh/zaraba/internal/model"
)

func testParameters() Parameters {
	return Parameters{
		MaxPositionSize:         1_000_000,
		MaxPortfolioRiskPercent: 5,
		StopLossPercent:         3,
		TakeProfitPercent:       6,
		MaxDailyLoss:            50_000,
		MaxDrawdownPercent:      20,
	}
}

func TestManager_PositionSize(t *testing.T) {

	type test struct {
		params      Parameters
		balance     float64
		entry       float64
		stop        float64
		riskPercent float64
		quantity    float64
	}

	tests := map[string]test{
		"risk-budget": {
			// 2% of 1M is 20000, stop distance 75 -> 266 shares
			params:      testParameters(),
			balance:     1_000_000,
			entry:       2500,
			stop:        2425,
			riskPercent: 2,
			quantity:    266,
		},
		"notional-capped": {
			params: Parameters{
				MaxPositionSize:         500_000,
				MaxPortfolioRiskPercent: 5,
				StopLossPercent:         3,
				TakeProfitPercent:       6,
				MaxDailyLoss:            50_000,
				MaxDrawdownPercent:      20,
			},
			balance:     10_000_000,
			entry:       2500,
			stop:        2425,
			riskPercent: 2,
			quantity:    200,
		},
		"zero-distance": {
			params:      testParameters(),
			balance:     1_000_000,
			entry:       2500,
			stop:        2500,
			riskPercent: 2,
			quantity:    0,
		},
		"zero-entry": {
			params:      testParameters(),
			balance:     1_000_000,
			entry:       0,
			stop:        100,
			riskPercent: 2,
			quantity:    0,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			manager := NewManager(tt.params)
			assert.Equal(t, tt.quantity, manager.PositionSize(tt.balance, tt.entry, tt.stop, tt.riskPercent))
		})
	}
}

func TestManager_PositionRisk(t *testing.T) {
	manager := NewManager(testParameters())

	assessment := manager.PositionRisk(100, 2500, 2500)
	assert.InDelta(t, 2425, assessment.StopLossPrice, 1e-9)
	assert.InDelta(t, 2650, assessment.TakeProfitPrice, 1e-9)
	assert.InDelta(t, 2, assessment.RiskRewardRatio, 1e-9)
	assert.InDelta(t, 7500, assessment.RiskAmount, 1e-9)
	assert.True(t, assessment.WithinLimit)

	oversized := manager.PositionRisk(1000, 2500, 2500)
	assert.False(t, oversized.WithinLimit)
}

func TestManager_PortfolioRisk(t *testing.T) {

	position := func(quantity, price float64) model.Position {
		return model.Position{Quantity: quantity, AveragePrice: price, CurrentPrice: price}
	}

	type test struct {
		positions []model.Position
		balance   float64
		action    Action
		within    bool
	}

	tests := map[string]test{
		"empty": {
			positions: nil,
			balance:   1_000_000,
			action:    Hold,
			within:    true,
		},
		"hold": {
			// 1M exposed at a 3% stop -> 3% of the balance at risk
			positions: []model.Position{position(500, 2000)},
			balance:   1_000_000,
			action:    Hold,
			within:    true,
		},
		"reduce": {
			// 6% at risk, 1.2 times the 5% limit
			positions: []model.Position{position(1000, 2000)},
			balance:   1_000_000,
			action:    Reduce,
			within:    false,
		},
		"stop": {
			// 8% at risk, beyond 1.5 times the limit
			positions: []model.Position{position(1000, 2000), position(800, 833.4)},
			balance:   1_000_000,
			action:    Stop,
			within:    false,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			manager := NewManager(testParameters())
			portfolio := manager.PortfolioRisk(tt.positions, tt.balance)
			assert.Equal(t, tt.action, portfolio.Action)
			assert.Equal(t, tt.within, portfolio.WithinLimit)
		})
	}
}

func TestManager_DailyLossOk(t *testing.T) {
	manager := NewManager(testParameters())

	assert.True(t, manager.DailyLossOk(10_000))
	assert.True(t, manager.DailyLossOk(-49_999))
	assert.True(t, manager.DailyLossOk(-50_000))
	assert.False(t, manager.DailyLossOk(-50_001))
}

func TestManager_DrawdownOk(t *testing.T) {
	manager := NewManager(testParameters())

	assert.True(t, manager.DrawdownOk(100, 100))
	assert.True(t, manager.DrawdownOk(81, 100))
	assert.False(t, manager.DrawdownOk(79, 100))
	assert.True(t, manager.DrawdownOk(50, 0))
}
