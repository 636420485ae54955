package core

import (
	"fmt"
	"regexp"
	"strings"
)

// validSymbol matches tickers like AAPL, BBCA.JK, 0700.HK, 600519.SH, ^GSPC, BTC-USD
var validSymbol = regexp.MustCompile(`^\^?[A-Za-z0-9]{1,10}([.-][A-Za-z]{1,4})?$`)

// ValidateSymbol checks if a symbol has valid format
func ValidateSymbol(symbol string) error {
	if symbol == "" {
		return fmt.Errorf("symbol cannot be empty")
	}
	if len(symbol) > 20 {
		return fmt.Errorf("symbol too long: %s", symbol)
	}
	if !validSymbol.MatchString(symbol) {
		return fmt.Errorf("invalid symbol format: %s", symbol)
	}
	return nil
}

// NormalizeSymbol trims and upper-cases a user-entered symbol.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// DetectMarket guesses the listing market from the symbol suffix
func DetectMarket(symbol string) Market {
	upper := strings.ToUpper(symbol)
	switch {
	case strings.HasSuffix(upper, ".HK"):
		return MarketHK
	case strings.HasSuffix(upper, ".JK"):
		return MarketID
	case strings.HasSuffix(upper, ".SH") || strings.HasSuffix(upper, ".SS") || strings.HasSuffix(upper, ".SZ"):
		return MarketCN
	default:
		return MarketUS
	}
}
