package backtest

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmrkh/zaraba/internal/model"
	"github.com/tmrkh/zaraba/internal/risk"
	"github.com/tmrkh/zaraba/internal/trade"
)

func testManager() *risk.Manager {
	return risk.NewManager(risk.Parameters{
		MaxPositionSize:         1_000_000_000,
		MaxPortfolioRiskPercent: 100,
		StopLossPercent:         3,
		TakeProfitPercent:       6,
		MaxDailyLoss:            1_000_000,
		MaxDrawdownPercent:      100,
	})
}

func barsOf(closes ...float64) model.Series {
	series := make(model.Series, len(closes))
	start := time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC)
	for i, c := range closes {
		series[i] = model.Bar{
			Time:   start.Add(time.Duration(i) * time.Minute),
			Open:   c,
			High:   c,
			Low:    c,
			Close:  c,
			Volume: 1000,
		}
	}
	return series
}

// signalAt buys and sells at the given bar indices.
func signalAt(buy, sell int) Strategy {
	return func(i int, _ model.Series) Signal {
		switch i {
		case buy:
			return Buy
		case sell:
			return Sell
		}
		return Hold
	}
}

func TestRunner_Validation(t *testing.T) {
	_, err := NewRunner(Config{InitialCash: 10_000}, testManager(), nil)
	assert.Error(t, err)

	_, err = NewRunner(Config{InitialCash: 10_000}, nil, signalAt(1, 2))
	assert.Error(t, err)

	_, err = NewRunner(Config{InitialCash: 0}, testManager(), signalAt(1, 2))
	assert.Error(t, err)
}

func TestRunner_InsufficientData(t *testing.T) {
	runner, err := NewRunner(Config{
		Symbol:      "7203.T",
		InitialCash: 10_000,
		Fees:        trade.FlatSchedule{},
	}, testManager(), signalAt(1, 2))
	require.NoError(t, err)

	_, err = runner.Run(barsOf(100))
	var insufficient model.InsufficientDataError
	assert.True(t, errors.As(err, &insufficient))
}

func TestRunner_WinningRun(t *testing.T) {
	runner, err := NewRunner(Config{
		Symbol:       "7203.T",
		InitialCash:  10_000,
		SlippageRate: 0,
		Fees:         trade.FlatSchedule{},
	}, testManager(), signalAt(1, 3))
	require.NoError(t, err)

	summary, err := runner.Run(barsOf(100, 100, 110, 120, 120))
	require.NoError(t, err)

	// 2% of 10000 over the 3 point stop distance buys 66 shares at 100,
	// sold at 120 for a 1320 realized gain
	assert.Equal(t, 1, summary.Trades)
	assert.Equal(t, 1.0, summary.WinRate)
	assert.InDelta(t, 13.2, summary.TotalReturn, 1e-9)
	assert.InDelta(t, 0, summary.MaxDrawdown, 1e-9)
	assert.Greater(t, summary.Slope, 0.0)

	require.Equal(t, 5, len(summary.Equity))
	assert.InDelta(t, 10_000, summary.Equity[0].Equity, 1e-9)
	assert.InDelta(t, 10_000, summary.Equity[1].Equity, 1e-9)
	assert.InDelta(t, 10_660, summary.Equity[2].Equity, 1e-9)
	assert.InDelta(t, 11_320, summary.Equity[3].Equity, 1e-9)
	assert.InDelta(t, 11_320, summary.Equity[4].Equity, 1e-9)
}

func TestRunner_LosingRun(t *testing.T) {
	runner, err := NewRunner(Config{
		Symbol:       "7203.T",
		InitialCash:  10_000,
		SlippageRate: 0,
		Fees:         trade.FlatSchedule{},
	}, testManager(), signalAt(1, 3))
	require.NoError(t, err)

	summary, err := runner.Run(barsOf(100, 100, 95, 90, 90))
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Trades)
	assert.Equal(t, 0.0, summary.WinRate)
	assert.Less(t, summary.TotalReturn, 0.0)
	assert.Greater(t, summary.MaxDrawdown, 0.0)
	assert.Equal(t, 0.0, summary.ProfitFactor)
}

func TestRunner_NoSignals(t *testing.T) {
	hold := func(_ int, _ model.Series) Signal { return Hold }
	runner, err := NewRunner(Config{
		Symbol:      "7203.T",
		InitialCash: 10_000,
		Fees:        trade.FlatSchedule{},
	}, testManager(), hold)
	require.NoError(t, err)

	summary, err := runner.Run(barsOf(100, 105, 110))
	require.NoError(t, err)

	assert.Equal(t, 0, summary.Trades)
	assert.Equal(t, 0.0, summary.TotalReturn)
	assert.Equal(t, 0.0, summary.WinRate)
}

func TestSummarize_ProfitFactor(t *testing.T) {
	trades := []Trade{
		{Index: 1, PnL: 300},
		{Index: 2, PnL: -100},
		{Index: 3, PnL: 100},
	}
	equity := []Point{{0, 10_000}, {1, 10_300}, {2, 10_200}, {3, 10_300}}

	summary := summarize(equity, trades, 10_000)
	assert.InDelta(t, 4, summary.ProfitFactor, 1e-9)
	assert.InDelta(t, 2.0/3.0, summary.WinRate, 1e-9)
	assert.InDelta(t, 3, summary.TotalReturn, 1e-9)
	assert.InDelta(t, (10_300.0-10_200.0)/10_300.0*100, summary.MaxDrawdown, 1e-9)
}
