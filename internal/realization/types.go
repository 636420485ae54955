package realization

import (
	"fmt"
	"time"

	"github.com/newthinker/realize/internal/core"
	"github.com/shopspring/decimal"
)

// Thresholds are the user-supplied prices a run is evaluated against.
// A zero value means the threshold is unset.
type Thresholds struct {
	EntryPrice  decimal.Decimal `json:"entry_price"`
	StopLoss    decimal.Decimal `json:"stop_loss"`
	TargetPrice decimal.Decimal `json:"target_price"`
}

// RunRequest captures every user input of one run.
type RunRequest struct {
	Symbol     string      `json:"symbol"`
	Period     core.Period `json:"period"`
	Thresholds Thresholds  `json:"thresholds"`
}

// OutcomeKind classifies a bar against the thresholds
type OutcomeKind string

const (
	NotReached  OutcomeKind = "not_reached"
	StopLossHit OutcomeKind = "stop_loss_hit"
	TargetHit   OutcomeKind = "target_hit"
)

// Outcome is the result of evaluating one bar. Price is the bar extreme
// that triggered the hit and is zero for NotReached.
type Outcome struct {
	Kind  OutcomeKind     `json:"kind"`
	Price decimal.Decimal `json:"price"`
}

// Description renders the outcome the way it appears in the table and CSV.
func (o Outcome) Description() string {
	switch o.Kind {
	case StopLossHit:
		return fmt.Sprintf("Stop-loss reached at price %s", o.Price.String())
	case TargetHit:
		return fmt.Sprintf("Target reached at price %s", o.Price.String())
	default:
		return "Target or stop-loss not reached yet"
	}
}

// TieBreak decides the outcome of a bar whose range satisfies both the
// stop-loss and the target condition.
type TieBreak string

const (
	// TargetTakesPrecedence reports TargetHit when both conditions hold.
	TargetTakesPrecedence TieBreak = "target"
	// StopLossTakesPrecedence reports StopLossHit when both conditions hold.
	StopLossTakesPrecedence TieBreak = "stop_loss"
)

// IsValid reports whether t is a known rule.
func (t TieBreak) IsValid() bool {
	return t == TargetTakesPrecedence || t == StopLossTakesPrecedence
}

// Policy holds the evaluation rules that are fixed for a deployment.
type Policy struct {
	TieBreak TieBreak
	// SkipUnset disables the stop-loss or target check when that
	// threshold is zero. Off by default, so a zero target matches every bar.
	SkipUnset bool
}

// DefaultPolicy matches the dashboard's historical behaviour.
func DefaultPolicy() Policy {
	return Policy{TieBreak: TargetTakesPrecedence}
}

// Record is one row of the realization table.
type Record struct {
	// Date is the source bar's date plus one calendar day. The table labels
	// each result with the day after the historical bar.
	Date          time.Time       `json:"date"`
	Outcome       Outcome         `json:"outcome"`
	EntryPrice    decimal.Decimal `json:"entry_price"`
	CurrentPrice  decimal.Decimal `json:"current_price"`
	PercentChange decimal.Decimal `json:"percent_change"`
}

// FormattedChange returns the percent change with two decimals and a % sign.
func (r Record) FormattedChange() string {
	return r.PercentChange.StringFixed(2) + "%"
}
