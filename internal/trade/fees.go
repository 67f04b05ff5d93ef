package trade

// FeeSchedule computes the commission for a fill of the given notional value.
type FeeSchedule interface {
	Commission(notional float64) float64
}

// FlatSchedule charges a fixed rate of the notional.
type FlatSchedule struct {
	Rate float64
}

func (s FlatSchedule) Commission(notional float64) float64 {
	return notional * s.Rate
}

type band struct {
	upTo float64
	fee  float64
}

// SBISchedule is the banded per-order commission of the SBI standard plan, in JPY.
type SBISchedule struct{}

var sbiBands = []band{
	{upTo: 50_000, fee: 55},
	{upTo: 100_000, fee: 99},
	{upTo: 200_000, fee: 115},
	{upTo: 500_000, fee: 275},
	{upTo: 1_000_000, fee: 535},
	{upTo: 1_500_000, fee: 640},
	{upTo: 30_000_000, fee: 1013},
}

// top band fee for notionals above the last threshold
const sbiTopFee = 1070

func (s SBISchedule) Commission(notional float64) float64 {
	for _, b := range sbiBands {
		if notional <= b.upTo {
			return b.fee
		}
	}
	return sbiTopFee
}
