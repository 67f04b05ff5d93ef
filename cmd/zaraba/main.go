package main

import (
	"flag"
	"fmt"
	"math/rand"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/tmrkh/zaraba/infra/config"
	"github.com/tmrkh/zaraba/internal/backtest"
	"github.com/tmrkh/zaraba/internal/feature"
	"github.com/tmrkh/zaraba/internal/model"
	"github.com/tmrkh/zaraba/internal/predict"
	"github.com/tmrkh/zaraba/internal/predict/ensemble"
	"github.com/tmrkh/zaraba/internal/risk"
)

func main() {
	configPath := flag.String("config", "", "path to the yaml config")
	symbol := flag.String("symbol", "7203.T", "symbol to simulate")
	bars := flag.Int("bars", 500, "number of bars to generate")
	flag.Parse()

	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg := config.MustLoad(*configPath)
	manager := risk.NewManager(cfg.Risk)

	series := randomWalk(*bars, 2500, cfg.Ensemble.Seed)
	extractor := feature.NewExtractor(feature.DefaultConfig())

	samples := make([]predict.Sample, 0, len(series))
	for i := extractor.MaxPeriod(); i < len(series)-1; i++ {
		vector, err := extractor.Extract(series, i)
		if err != nil {
			log.Warn().Err(err).Int("bar", i).Msg("skipping bar")
			continue
		}
		samples = append(samples, predict.Sample{
			Features: vector.Slice(),
			Target:   series[i+1].Close,
		})
	}

	ens := ensemble.NewDefault(cfg.Ensemble.Seed)
	report, err := ens.Train(samples)
	if err != nil {
		log.Fatal().Err(err).Msg("could not train ensemble")
	}
	log.Info().Str("weights", fmt.Sprintf("%+v", report.Weights)).Msg("ensemble trained")

	last, err := extractor.Extract(series, len(series)-1)
	if err != nil {
		log.Fatal().Err(err).Msg("could not extract features")
	}
	prediction, err := ens.Predict(last.Slice())
	if err != nil {
		log.Fatal().Err(err).Msg("could not predict")
	}
	log.Info().
		Float64("value", prediction.Value).
		Float64("confidence", prediction.Confidence).
		Str("trend", prediction.Trend.String()).
		Float64("lower", prediction.Interval.Lower).
		Float64("upper", prediction.Interval.Upper).
		Msg("prediction")

	if forecast, err := ens.Forecast(5); err == nil {
		log.Info().Floats64("forecast", forecast).Msg("multi-step forecast")
	}

	runner, err := backtest.NewRunner(backtest.Config{
		Symbol:       model.Symbol(*symbol),
		InitialCash:  cfg.Trade.InitialCash,
		SlippageRate: cfg.Trade.SlippageRate,
	}, manager, smaCross(10, 30))
	if err != nil {
		log.Fatal().Err(err).Msg("could not create backtest")
	}
	summary, err := runner.Run(series)
	if err != nil {
		log.Fatal().Err(err).Msg("backtest failed")
	}
	log.Info().
		Float64("total-return", summary.TotalReturn).
		Float64("win-rate", summary.WinRate).
		Float64("max-drawdown", summary.MaxDrawdown).
		Float64("profit-factor", summary.ProfitFactor).
		Msg("backtest summary")
}

// smaCross buys when the fast average crosses over the slow one and sells on the cross under.
func smaCross(fast, slow int) backtest.Strategy {
	return func(i int, history model.Series) backtest.Signal {
		if i < slow+1 {
			return backtest.Hold
		}
		closes := history.Closes()
		prevFast := feature.SMA(closes[:len(closes)-1], fast)
		prevSlow := feature.SMA(closes[:len(closes)-1], slow)
		curFast := feature.SMA(closes, fast)
		curSlow := feature.SMA(closes, slow)
		if prevFast <= prevSlow && curFast > curSlow {
			return backtest.Buy
		}
		if prevFast >= prevSlow && curFast < curSlow {
			return backtest.Sell
		}
		return backtest.Hold
	}
}

// randomWalk generates a deterministic demo price series.
func randomWalk(n int, start float64, seed int64) model.Series {
	rnd := rand.New(rand.NewSource(seed))
	series := make(model.Series, n)
	price := start
	t := time.Now().Add(-time.Duration(n) * time.Minute)
	for i := 0; i < n; i++ {
		change := price * 0.01 * (rnd.Float64()*2 - 1)
		open := price
		price += change
		high := open
		if price > high {
			high = price
		}
		low := open
		if price < low {
			low = price
		}
		series[i] = model.Bar{
			Time:   t.Add(time.Duration(i) * time.Minute),
			Open:   open,
			High:   high,
			Low:    low,
			Close:  price,
			Volume: 1000 + rnd.Float64()*1000,
		}
	}
	return series
}
