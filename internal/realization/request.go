package realization

import (
	"fmt"
	"strings"

	"github.com/newthinker/realize/internal/core"
	"github.com/shopspring/decimal"
)

// ParseRunRequest validates raw user input and converts it into a RunRequest.
// Empty numeric fields mean zero and an empty period means the default window.
func ParseRunRequest(symbol, period, entry, stopLoss, target string) (RunRequest, error) {
	req := RunRequest{
		Symbol: core.NormalizeSymbol(symbol),
		Period: core.Period(strings.TrimSpace(period)),
	}

	if err := core.ValidateSymbol(req.Symbol); err != nil {
		return RunRequest{}, core.WrapError(core.ErrInvalidInput, err)
	}

	if req.Period == "" {
		req.Period = core.DefaultPeriod
	}
	if !req.Period.IsValid() {
		return RunRequest{}, core.WrapError(core.ErrInvalidInput, fmt.Errorf("unsupported period: %s", req.Period))
	}

	var err error
	if req.Thresholds.EntryPrice, err = parsePrice("entry price", entry); err != nil {
		return RunRequest{}, err
	}
	if req.Thresholds.StopLoss, err = parsePrice("stop-loss", stopLoss); err != nil {
		return RunRequest{}, err
	}
	if req.Thresholds.TargetPrice, err = parsePrice("target price", target); err != nil {
		return RunRequest{}, err
	}

	return req, nil
}

func parsePrice(field, raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, nil
	}

	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, core.WrapError(core.ErrInvalidInput, fmt.Errorf("%s is not a number: %q", field, raw))
	}
	if d.IsNegative() {
		return decimal.Zero, core.WrapError(core.ErrInvalidInput, fmt.Errorf("%s cannot be negative, got %s", field, d))
	}
	return d, nil
}
