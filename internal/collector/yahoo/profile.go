package yahoo

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// scrapeSector reads the sector from the quote profile page.
func (y *Yahoo) scrapeSector(ctx context.Context, symbol string) (string, error) {
	doc, err := y.document(ctx, fmt.Sprintf("%s/%s/profile/", y.quoteURL, url.PathEscape(y.toYahooSymbol(symbol))))
	if err != nil {
		return "", err
	}

	sector := labeledValue(doc, "Sector")
	if sector == "" {
		return "", fmt.Errorf("sector not present on profile page")
	}
	return sector, nil
}

// scrapeMarketCap reads the market capitalisation from the quote page.
func (y *Yahoo) scrapeMarketCap(ctx context.Context, symbol string) (int64, error) {
	doc, err := y.document(ctx, fmt.Sprintf("%s/%s/", y.quoteURL, url.PathEscape(y.toYahooSymbol(symbol))))
	if err != nil {
		return 0, err
	}

	// Streaming quote fields carry the raw number
	if raw, ok := doc.Find(`fin-streamer[data-field="marketCap"]`).First().Attr("data-value"); ok {
		if v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64); err == nil {
			return int64(v), nil
		}
	}

	text := labeledValue(doc, "Market Cap")
	if text == "" {
		return 0, fmt.Errorf("market cap not present on quote page")
	}
	return parseAbbreviated(text)
}

func (y *Yahoo) document(ctx context.Context, u string) (*goquery.Document, error) {
	resp, err := y.get(ctx, u)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing html: %w", err)
	}
	return doc, nil
}

// labeledValue finds an element whose own text is the label (optionally
// followed by a colon, with or without an intraday suffix like "(intraday)")
// and returns the text of the element that follows it.
func labeledValue(doc *goquery.Document, label string) string {
	var value string
	doc.Find("dt, span, td, th, label").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s.Text()), ":"))
		if !strings.EqualFold(text, label) && !strings.HasPrefix(strings.ToLower(text), strings.ToLower(label)+" (") {
			return true
		}
		next := s.Next()
		if next.Length() == 0 {
			return true
		}
		value = strings.TrimSpace(next.Text())
		return value == ""
	})
	return value
}

// parseAbbreviated converts values like "2.85T", "512.3B" or "1,234,567"
func parseAbbreviated(text string) (int64, error) {
	s := strings.ReplaceAll(strings.TrimSpace(text), ",", "")
	if s == "" || s == "--" || strings.EqualFold(s, "N/A") {
		return 0, fmt.Errorf("no value")
	}

	multiplier := 1.0
	switch suffix := strings.ToUpper(s[len(s)-1:]); suffix {
	case "T":
		multiplier = 1e12
	case "B":
		multiplier = 1e9
	case "M":
		multiplier = 1e6
	case "K":
		multiplier = 1e3
	}
	if multiplier != 1 {
		s = s[:len(s)-1]
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing %q: %w", text, err)
	}
	return int64(math.Round(v * multiplier)), nil
}
