package core

import "time"

// Market represents a trading market
type Market string

const (
	MarketUS Market = "US"
	MarketHK Market = "HK"
	MarketID Market = "ID"
	MarketCN Market = "CN_A"
)

// Period is a lookback window understood by the market-data provider
type Period string

const (
	Period5D Period = "5d"
	Period1M Period = "1mo"
	Period3M Period = "3mo"
	Period6M Period = "6mo"
	Period1Y Period = "1y"
)

// DefaultPeriod is used when the caller does not pick a window.
const DefaultPeriod = Period5D

// Periods returns the supported lookback windows, shortest first.
func Periods() []Period {
	return []Period{Period5D, Period1M, Period3M, Period6M, Period1Y}
}

// IsValid reports whether p is one of the supported windows.
func (p Period) IsValid() bool {
	for _, known := range Periods() {
		if p == known {
			return true
		}
	}
	return false
}

// OHLCV represents one daily price bar
type OHLCV struct {
	Symbol   string    `json:"symbol"`
	Interval string    `json:"interval"`
	Open     float64   `json:"open"`
	High     float64   `json:"high"`
	Low      float64   `json:"low"`
	Close    float64   `json:"close"`
	Volume   int64     `json:"volume"`
	Time     time.Time `json:"time"`
}

// Date returns the calendar date of the bar in the bar's own location.
func (b OHLCV) Date() time.Time {
	y, m, d := b.Time.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// TickerInfo holds descriptive data about a symbol.
// Zero values mean the provider did not report the field.
type TickerInfo struct {
	Symbol       string  `json:"symbol"`
	LongName     string  `json:"long_name,omitempty"`
	Sector       string  `json:"sector,omitempty"`
	Currency     string  `json:"currency,omitempty"`
	CurrentPrice float64 `json:"current_price,omitempty"`
	MarketCap    int64   `json:"market_cap,omitempty"`
	Market       Market  `json:"market"`
}

// IsValid checks if the info has the fields needed for display
func (t TickerInfo) IsValid() bool {
	return t.Symbol != ""
}
