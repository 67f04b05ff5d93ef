package backtest

import "github.com/tmrkh/zaraba/internal/mathx"

// Summary holds the performance metrics of a backtest run.
type Summary struct {
	TotalReturn  float64 // percent on initial cash
	WinRate      float64 // share of profitable round trips
	MaxDrawdown  float64 // peak relative decline, percent, reported positive
	ProfitFactor float64 // gross gains over gross losses
	Slope        float64 // linear trend of the equity curve
	Trades       int
	Equity       []Point
}

// summarize computes the run metrics from the equity curve and trade log.
func summarize(equity []Point, trades []Trade, initialCash float64) Summary {
	s := Summary{
		Trades: len(trades),
		Equity: equity,
	}
	if len(equity) == 0 {
		return s
	}

	last := equity[len(equity)-1].Equity
	s.TotalReturn = (last - initialCash) / initialCash * 100

	// peak relative drawdown over the curve
	peak := equity[0].Equity
	for _, p := range equity {
		if p.Equity > peak {
			peak = p.Equity
		}
		if peak > 0 {
			if dd := (peak - p.Equity) / peak * 100; dd > s.MaxDrawdown {
				s.MaxDrawdown = dd
			}
		}
	}

	var wins int
	var gains, losses float64
	for _, t := range trades {
		if t.PnL > 0 {
			wins++
			gains += t.PnL
		} else {
			losses += -t.PnL
		}
	}
	if len(trades) > 0 {
		s.WinRate = float64(wins) / float64(len(trades))
	}
	if losses > 0 {
		s.ProfitFactor = gains / losses
	}

	if len(equity) > 1 {
		xx := make([]float64, len(equity))
		yy := make([]float64, len(equity))
		for i, p := range equity {
			xx[i] = float64(i)
			yy[i] = p.Equity
		}
		if cc, err := mathx.Fit(xx, yy, 1); err == nil {
			s.Slope = cc[1]
		}
	}
	return s
}
