package realization

import (
	"github.com/newthinker/realize/internal/core"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Evaluate decides whether a single bar reached the stop-loss or the target
// and computes the close's percent change from the entry price.
func Evaluate(bar core.OHLCV, t Thresholds, p Policy) Record {
	high := decimal.NewFromFloat(bar.High)
	low := decimal.NewFromFloat(bar.Low)
	closePrice := decimal.NewFromFloat(bar.Close)

	return Record{
		Date:          bar.Date().AddDate(0, 0, 1),
		Outcome:       outcome(high, low, t, p),
		EntryPrice:    t.EntryPrice,
		CurrentPrice:  closePrice,
		PercentChange: PercentChange(closePrice, t.EntryPrice),
	}
}

// PercentChange returns (current - entry) / entry * 100, or zero when the
// entry price is zero.
func PercentChange(current, entry decimal.Decimal) decimal.Decimal {
	if entry.IsZero() {
		return decimal.Zero
	}
	return current.Sub(entry).Div(entry).Mul(hundred)
}

func outcome(high, low decimal.Decimal, t Thresholds, p Policy) Outcome {
	stopHit := low.LessThan(t.StopLoss)
	targetHit := high.GreaterThanOrEqual(t.TargetPrice)

	if p.SkipUnset {
		stopHit = stopHit && !t.StopLoss.IsZero()
		targetHit = targetHit && !t.TargetPrice.IsZero()
	}

	switch {
	case stopHit && targetHit:
		if p.TieBreak == StopLossTakesPrecedence {
			return Outcome{Kind: StopLossHit, Price: low}
		}
		return Outcome{Kind: TargetHit, Price: high}
	case targetHit:
		return Outcome{Kind: TargetHit, Price: high}
	case stopHit:
		return Outcome{Kind: StopLossHit, Price: low}
	default:
		return Outcome{Kind: NotReached}
	}
}
