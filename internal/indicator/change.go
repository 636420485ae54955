package indicator

import (
	"fmt"
	"time"

	"github.com/newthinker/realize/internal/core"
)

// Unavailable is shown when a metric cannot be computed from the data.
const Unavailable = "Unavailable"

// PercentChange calculates the bar-to-bar fractional change of prices.
// Returns slice of length: len(prices) - 1. A zero previous price yields 0
// where a pandas-style pct_change would yield +Inf, so a zero close never
// leaks Inf or NaN into the overview.
func PercentChange(prices []float64) []float64 {
	if len(prices) < 2 {
		return []float64{}
	}

	result := make([]float64, 0, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		prev := prices[i-1]
		if prev == 0 {
			result = append(result, 0)
			continue
		}
		result = append(result, (prices[i]-prev)/prev)
	}
	return result
}

// Closes extracts closing prices in bar order.
func Closes(bars []core.OHLCV) []float64 {
	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}
	return closes
}

// Overview holds the headline metrics of a price history.
type Overview struct {
	CurrentPrice float64   `json:"current_price"`
	DailyChange  string    `json:"daily_change"`
	Volume       int64     `json:"volume"`
	AsOf         time.Time `json:"as_of"`
}

// Summarize computes the overview from the most recent bars. DailyChange is
// Unavailable when there are fewer than two bars.
func Summarize(bars []core.OHLCV) Overview {
	if len(bars) == 0 {
		return Overview{DailyChange: Unavailable}
	}

	last := bars[len(bars)-1]
	ov := Overview{
		CurrentPrice: last.Close,
		DailyChange:  Unavailable,
		Volume:       last.Volume,
		AsOf:         last.Date(),
	}

	if changes := PercentChange(Closes(bars)); len(changes) > 0 {
		ov.DailyChange = fmt.Sprintf("%.2f%%", changes[len(changes)-1]*100)
	}
	return ov
}
