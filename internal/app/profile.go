package app

import (
	"github.com/newthinker/realize/internal/core"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Unknown is shown for profile fields the provider did not return.
const Unknown = "Unknown"

// Profile is a ticker's info formatted for display.
type Profile struct {
	Symbol    string           `json:"symbol"`
	Name      string           `json:"name"`
	Sector    string           `json:"sector"`
	Price     string           `json:"price"`
	MarketCap string           `json:"market_cap"`
	Info      *core.TickerInfo `json:"info"`
}

var printer = message.NewPrinter(language.English)

// NewProfile formats info, substituting Unknown for missing fields.
func NewProfile(info *core.TickerInfo) *Profile {
	p := &Profile{
		Name:      Unknown,
		Sector:    Unknown,
		Price:     Unknown,
		MarketCap: Unknown,
		Info:      info,
	}
	if info == nil {
		return p
	}

	p.Symbol = info.Symbol
	if info.LongName != "" {
		p.Name = info.LongName
	}
	if info.Sector != "" {
		p.Sector = info.Sector
	}
	if info.CurrentPrice > 0 {
		p.Price = printer.Sprintf("%.2f", info.CurrentPrice)
		if info.Currency != "" {
			p.Price += " " + info.Currency
		}
	}
	if info.MarketCap > 0 {
		p.MarketCap = printer.Sprintf("%d", info.MarketCap)
	}
	return p
}
