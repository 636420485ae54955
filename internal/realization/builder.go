package realization

import "github.com/newthinker/realize/internal/core"

// Build evaluates every bar independently and returns one record per bar in
// input order. An empty input yields an empty table.
func Build(bars []core.OHLCV, t Thresholds, p Policy) []Record {
	records := make([]Record, 0, len(bars))
	for _, bar := range bars {
		records = append(records, Evaluate(bar, t, p))
	}
	return records
}

// Tally counts records per outcome kind.
func Tally(records []Record) map[OutcomeKind]int {
	counts := map[OutcomeKind]int{
		NotReached:  0,
		StopLossHit: 0,
		TargetHit:   0,
	}
	for _, r := range records {
		counts[r.Outcome.Kind]++
	}
	return counts
}
