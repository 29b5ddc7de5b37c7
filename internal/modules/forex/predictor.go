package forex

import (
	"github.com/markcheno/go-talib"
	"gonum.org/v1/gonum/stat"
)

// Trend labels shown to the user
const (
	TrendUp     = "Uptrend likely"
	TrendDown   = "Downtrend likely"
	TrendStable = "Stable trend"
)

// smaPeriod is the window of the smoothed series returned alongside a forecast
const smaPeriod = 3

// Predict labels the trend of a rate series by comparing the mean of the
// last three points against the mean of the whole series. A series of three
// points or fewer compares equal means and reads as stable.
func Predict(rates []float64) string {
	if len(rates) == 0 {
		return TrendStable
	}

	recent := rates
	if len(rates) > 3 {
		recent = rates[len(rates)-3:]
	}

	last := stat.Mean(recent, nil)
	avg := stat.Mean(rates, nil)

	switch {
	case last > avg:
		return TrendUp
	case last < avg:
		return TrendDown
	default:
		return TrendStable
	}
}

// Smooth returns the simple moving average of the series, for charting. Too
// few points for the window returns nil.
func Smooth(rates []float64) []float64 {
	if len(rates) < smaPeriod {
		return nil
	}
	return talib.Sma(rates, smaPeriod)
}
