package collector

import (
	"context"
	"time"

	"github.com/newthinker/realize/internal/core"
)

// Config holds market-data provider configuration
type Config struct {
	ChartURL  string
	QuoteURL  string
	Timeout   time.Duration
	UserAgent string
	Proxy     string
}

// MarketData defines the interface for market-data providers
type MarketData interface {
	Name() string

	// FetchHistory returns daily bars for the lookback window in
	// chronological order. A symbol without data yields an empty slice.
	FetchHistory(ctx context.Context, symbol string, period core.Period) ([]core.OHLCV, error)

	// FetchInfo returns descriptive data for the symbol. Fields the
	// provider does not report are left empty.
	FetchInfo(ctx context.Context, symbol string) (*core.TickerInfo, error)
}
