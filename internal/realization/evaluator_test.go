package realization

import (
	"testing"
	"time"

	"github.com/newthinker/realize/internal/core"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func thresholds(entry, stop, target float64) Thresholds {
	return Thresholds{
		EntryPrice:  decimal.NewFromFloat(entry),
		StopLoss:    decimal.NewFromFloat(stop),
		TargetPrice: decimal.NewFromFloat(target),
	}
}

func bar(date time.Time, high, low, closePrice float64) core.OHLCV {
	return core.OHLCV{Symbol: "AAPL", Interval: "1d", High: high, Low: low, Close: closePrice, Time: date}
}

var jan1 = time.Date(2024, 1, 1, 14, 30, 0, 0, time.UTC)

func TestEvaluate_NotReached(t *testing.T) {
	rec := Evaluate(bar(jan1, 110, 95, 100), thresholds(100, 90, 120), DefaultPolicy())

	assert.Equal(t, NotReached, rec.Outcome.Kind)
	assert.True(t, rec.Outcome.Price.IsZero())
	assert.Equal(t, "0.00%", rec.FormattedChange())
	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), rec.Date)
	assert.True(t, rec.CurrentPrice.Equal(decimal.NewFromInt(100)))
	assert.True(t, rec.EntryPrice.Equal(decimal.NewFromInt(100)))
}

func TestEvaluate_TargetHit(t *testing.T) {
	rec := Evaluate(bar(jan1, 125, 98, 120), thresholds(100, 95, 120), DefaultPolicy())

	assert.Equal(t, TargetHit, rec.Outcome.Kind)
	assert.True(t, rec.Outcome.Price.Equal(decimal.NewFromInt(125)), "price = %s", rec.Outcome.Price)
	assert.Equal(t, "20.00%", rec.FormattedChange())
	assert.Equal(t, "Target reached at price 125", rec.Outcome.Description())
}

func TestEvaluate_StopLossHit(t *testing.T) {
	rec := Evaluate(bar(jan1, 105, 80, 90), thresholds(100, 85, 120), DefaultPolicy())

	assert.Equal(t, StopLossHit, rec.Outcome.Kind)
	assert.True(t, rec.Outcome.Price.Equal(decimal.NewFromInt(80)), "price = %s", rec.Outcome.Price)
	assert.Equal(t, "-10.00%", rec.FormattedChange())
	assert.Equal(t, "Stop-loss reached at price 80", rec.Outcome.Description())
}

func TestEvaluate_BothConditions(t *testing.T) {
	b := bar(jan1, 130, 70, 100)
	th := thresholds(100, 80, 120)

	tests := []struct {
		name      string
		policy    Policy
		wantKind  OutcomeKind
		wantPrice float64
	}{
		{"default favours target", DefaultPolicy(), TargetHit, 130},
		{"explicit target rule", Policy{TieBreak: TargetTakesPrecedence}, TargetHit, 130},
		{"stop-loss rule", Policy{TieBreak: StopLossTakesPrecedence}, StopLossHit, 70},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := Evaluate(b, th, tt.policy)
			assert.Equal(t, tt.wantKind, rec.Outcome.Kind)
			assert.True(t, rec.Outcome.Price.Equal(decimal.NewFromFloat(tt.wantPrice)))
		})
	}
}

func TestEvaluate_ZeroEntryHasZeroChange(t *testing.T) {
	for _, closePrice := range []float64{0, 1, 99.5, 1234.56} {
		rec := Evaluate(bar(jan1, 2000, 0.5, closePrice), thresholds(0, 0, 5000), DefaultPolicy())
		assert.True(t, rec.PercentChange.IsZero(), "close %v: got %s", closePrice, rec.PercentChange)
		assert.Equal(t, "0.00%", rec.FormattedChange())
	}
}

func TestEvaluate_BoundaryComparisons(t *testing.T) {
	th := thresholds(100, 90, 120)

	// low equal to stop-loss is not a hit
	rec := Evaluate(bar(jan1, 110, 90, 100), th, DefaultPolicy())
	assert.Equal(t, NotReached, rec.Outcome.Kind)

	// high equal to target is a hit
	rec = Evaluate(bar(jan1, 120, 95, 100), th, DefaultPolicy())
	assert.Equal(t, TargetHit, rec.Outcome.Kind)
}

func TestEvaluate_UnsetThresholds(t *testing.T) {
	b := bar(jan1, 110, 95, 100)
	th := thresholds(100, 0, 0)

	// Literal comparison: every high is >= a zero target.
	rec := Evaluate(b, th, DefaultPolicy())
	assert.Equal(t, TargetHit, rec.Outcome.Kind)

	rec = Evaluate(b, th, Policy{TieBreak: TargetTakesPrecedence, SkipUnset: true})
	assert.Equal(t, NotReached, rec.Outcome.Kind)
}

func TestEvaluate_MonthBoundaryDateShift(t *testing.T) {
	rec := Evaluate(bar(time.Date(2024, 2, 29, 20, 0, 0, 0, time.UTC), 1, 1, 1), thresholds(1, 0, 2), DefaultPolicy())
	require.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), rec.Date)
}

func TestPercentChange(t *testing.T) {
	tests := []struct {
		current, entry float64
		want           string
	}{
		{120, 100, "20.00"},
		{90, 100, "-10.00"},
		{100, 100, "0.00"},
		{1, 3, "-66.67"},
		{50, 0, "0.00"},
	}
	for _, tt := range tests {
		got := PercentChange(decimal.NewFromFloat(tt.current), decimal.NewFromFloat(tt.entry))
		assert.Equal(t, tt.want, got.StringFixed(2), "PercentChange(%v, %v)", tt.current, tt.entry)
	}
}

func TestOutcome_Description(t *testing.T) {
	assert.Equal(t, "Target or stop-loss not reached yet", Outcome{Kind: NotReached}.Description())
	assert.Equal(t, "Stop-loss reached at price 85.5",
		Outcome{Kind: StopLossHit, Price: decimal.RequireFromString("85.5")}.Description())
}

func TestTieBreak_IsValid(t *testing.T) {
	assert.True(t, TargetTakesPrecedence.IsValid())
	assert.True(t, StopLossTakesPrecedence.IsValid())
	assert.False(t, TieBreak("first").IsValid())
	assert.False(t, TieBreak("").IsValid())
}
