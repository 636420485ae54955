package indicator

import "github.com/newthinker/realize/internal/core"

// ChartPoint is one bar of the closing-price chart.
type ChartPoint struct {
	Label string  `json:"label"`
	Close float64 `json:"close"`
	// Height is the bar height as a percentage of the tallest close.
	Height float64 `json:"height"`
}

// MinChartBars is the fewest bars worth drawing.
const MinChartBars = 2

// ChartSeries converts bars into chart points. It returns nil when there are
// fewer than MinChartBars bars.
func ChartSeries(bars []core.OHLCV) []ChartPoint {
	if len(bars) < MinChartBars {
		return nil
	}

	var maxClose float64
	for _, b := range bars {
		if b.Close > maxClose {
			maxClose = b.Close
		}
	}

	points := make([]ChartPoint, 0, len(bars))
	for _, b := range bars {
		var height float64
		if maxClose > 0 {
			height = b.Close / maxClose * 100
		}
		points = append(points, ChartPoint{
			Label:  b.Date().Format("2006-01-02"),
			Close:  b.Close,
			Height: height,
		})
	}
	return points
}

// Head returns at most n leading bars.
func Head(bars []core.OHLCV, n int) []core.OHLCV {
	if len(bars) <= n {
		return bars
	}
	return bars[:n]
}
