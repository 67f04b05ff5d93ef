package feature

import (
	"github.com/tmrkh/zaraba/internal/buffer"
)

// SMA returns the simple moving average of the last period values.
func SMA(values []float64, period int) float64 {
	if period <= 0 || len(values) < period {
		return 0
	}
	sum := 0.0
	for _, v := range values[len(values)-period:] {
		sum += v
	}
	return sum / float64(period)
}

// EMA returns the exponential moving average of the values for the given period,
// seeded with the simple average of the first period values.
func EMA(values []float64, period int) float64 {
	series := EMASeries(values, period)
	if len(series) == 0 {
		return 0
	}
	return series[len(series)-1]
}

// EMASeries returns the exponential moving average series starting at index period-1.
func EMASeries(values []float64, period int) []float64 {
	if period <= 0 || len(values) < period {
		return nil
	}
	k := 2.0 / (float64(period) + 1.0)
	series := make([]float64, 0, len(values)-period+1)
	ema := SMA(values[:period], period)
	series = append(series, ema)
	for _, v := range values[period:] {
		ema = v*k + ema*(1-k)
		series = append(series, ema)
	}
	return series
}

// RSI returns the relative strength index over the given period with Wilder smoothing.
// A window without losses resolves to 100, without gains to 0, never to NaN.
func RSI(values []float64, period int) float64 {
	if period <= 0 || len(values) < period+1 {
		return 50
	}
	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		change := values[i] - values[i-1]
		if change > 0 {
			avgGain += change
		} else {
			avgLoss -= change
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)

	// Wilder smoothing over the remainder of the window
	p := float64(period)
	for i := period + 1; i < len(values); i++ {
		change := values[i] - values[i-1]
		gain, loss := 0.0, 0.0
		if change > 0 {
			gain = change
		} else {
			loss = -change
		}
		avgGain = (avgGain*(p-1) + gain) / p
		avgLoss = (avgLoss*(p-1) + loss) / p
	}

	if avgLoss == 0 {
		return 100
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs)
}

// MACD returns the MACD line, signal line and histogram for the given periods.
func MACD(values []float64, fast, slow, signal int) (line, signalLine, histogram float64) {
	if len(values) < slow {
		return 0, 0, 0
	}
	fastSeries := EMASeries(values, fast)
	slowSeries := EMASeries(values, slow)
	// align the two series on their tail
	n := len(slowSeries)
	macd := make([]float64, n)
	for i := 0; i < n; i++ {
		macd[i] = fastSeries[len(fastSeries)-n+i] - slowSeries[i]
	}
	line = macd[n-1]
	if len(macd) >= signal {
		signalLine = EMA(macd, signal)
	} else {
		signalLine = SMA(macd, len(macd))
	}
	return line, signalLine, line - signalLine
}

// Bollinger returns the upper, middle and lower bollinger bands
// over the given period and standard deviation multiple.
func Bollinger(values []float64, period int, k float64) (upper, middle, lower float64) {
	if period <= 0 || len(values) < period {
		return 0, 0, 0
	}
	stats := buffer.NewStats()
	for _, v := range values[len(values)-period:] {
		stats.Push(v)
	}
	middle = stats.Avg()
	band := k * stats.StDev()
	return middle + band, middle, middle - band
}

// Volatility returns the standard deviation of simple returns over the trailing window.
// Windows with fewer than two returns resolve to 0.
func Volatility(values []float64, window int) float64 {
	if window < 2 || len(values) < window+1 {
		return 0
	}
	stats := buffer.NewStats()
	for i := len(values) - window; i < len(values); i++ {
		prev := values[i-1]
		if prev == 0 {
			stats.Push(0)
			continue
		}
		stats.Push((values[i] - prev) / prev)
	}
	return stats.StDev()
}
