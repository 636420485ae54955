package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/newthinker/realize/internal/collector"
	"github.com/newthinker/realize/internal/core"
	"go.uber.org/zap"
)

const (
	defaultChartURL = "https://query1.finance.yahoo.com/v8/finance/chart"
	defaultQuoteURL = "https://finance.yahoo.com/quote"
)

// Yahoo implements the Yahoo Finance market-data provider
type Yahoo struct {
	client    *http.Client
	chartURL  string
	quoteURL  string
	userAgent string
	logger    *zap.Logger
}

// New creates a new Yahoo provider
func New(cfg collector.Config, logger *zap.Logger) *Yahoo {
	if logger == nil {
		logger = zap.NewNop()
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if cfg.Proxy != "" {
		if u, err := url.Parse(cfg.Proxy); err == nil {
			transport.Proxy = http.ProxyURL(u)
		} else {
			logger.Warn("ignoring invalid proxy url", zap.String("proxy", cfg.Proxy), zap.Error(err))
		}
	}

	y := &Yahoo{
		client: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		chartURL:  strings.TrimSuffix(cfg.ChartURL, "/"),
		quoteURL:  strings.TrimSuffix(cfg.QuoteURL, "/"),
		userAgent: cfg.UserAgent,
		logger:    logger,
	}
	if y.chartURL == "" {
		y.chartURL = defaultChartURL
	}
	if y.quoteURL == "" {
		y.quoteURL = defaultQuoteURL
	}
	return y
}

func (y *Yahoo) Name() string {
	return "yahoo"
}

// toYahooSymbol converts internal symbol format to Yahoo format
func (y *Yahoo) toYahooSymbol(symbol string) string {
	// Shanghai stocks: 600519.SH -> 600519.SS
	if strings.HasSuffix(symbol, ".SH") {
		return strings.TrimSuffix(symbol, ".SH") + ".SS"
	}
	return symbol
}

// FetchHistory fetches daily OHLCV bars for the lookback window
func (y *Yahoo) FetchHistory(ctx context.Context, symbol string, period core.Period) ([]core.OHLCV, error) {
	if err := core.ValidateSymbol(symbol); err != nil {
		return nil, core.WrapError(core.ErrInvalidInput, err)
	}
	if !period.IsValid() {
		return nil, core.WrapError(core.ErrInvalidInput, fmt.Errorf("unsupported period: %s", period))
	}

	r, err := y.fetchChart(ctx, symbol, period)
	if err != nil {
		return nil, fmt.Errorf("fetching history: %w", err)
	}
	if r == nil || len(r.Timestamp) == 0 || len(r.Indicators.Quote) == 0 {
		return []core.OHLCV{}, nil
	}

	loc := r.Meta.location()
	quotes := r.Indicators.Quote[0]

	data := make([]core.OHLCV, 0, len(r.Timestamp))
	for i, ts := range r.Timestamp {
		open, high, low, closePrice := at(quotes.Open, i), at(quotes.High, i), at(quotes.Low, i), at(quotes.Close, i)
		if open == nil || high == nil || low == nil || closePrice == nil {
			continue // Skip missing data
		}
		var volume int64
		if i < len(quotes.Volume) && quotes.Volume[i] != nil {
			volume = *quotes.Volume[i]
		}
		data = append(data, core.OHLCV{
			Symbol:   symbol,
			Interval: "1d",
			Open:     *open,
			High:     *high,
			Low:      *low,
			Close:    *closePrice,
			Volume:   volume,
			Time:     time.Unix(ts, 0).In(loc),
		})
	}

	return data, nil
}

// FetchInfo fetches the ticker's name and price from the chart metadata and
// enriches it with sector and market cap scraped from the quote pages.
func (y *Yahoo) FetchInfo(ctx context.Context, symbol string) (*core.TickerInfo, error) {
	if err := core.ValidateSymbol(symbol); err != nil {
		return nil, core.WrapError(core.ErrInvalidInput, err)
	}

	r, err := y.fetchChart(ctx, symbol, core.Period5D)
	if err != nil {
		return nil, fmt.Errorf("fetching info: %w", err)
	}
	if r == nil {
		return nil, core.WrapError(core.ErrSymbolNotFound, fmt.Errorf("no metadata for %s", symbol))
	}

	info := &core.TickerInfo{
		Symbol:       symbol,
		LongName:     r.Meta.LongName,
		Currency:     r.Meta.Currency,
		CurrentPrice: r.Meta.RegularMarketPrice,
		Market:       core.DetectMarket(symbol),
	}
	if info.LongName == "" {
		info.LongName = r.Meta.ShortName
	}

	if sector, err := y.scrapeSector(ctx, symbol); err != nil {
		y.logger.Debug("sector lookup failed", zap.String("symbol", symbol), zap.Error(err))
	} else {
		info.Sector = sector
	}
	if marketCap, err := y.scrapeMarketCap(ctx, symbol); err != nil {
		y.logger.Debug("market cap lookup failed", zap.String("symbol", symbol), zap.Error(err))
	} else {
		info.MarketCap = marketCap
	}

	return info, nil
}

func (y *Yahoo) fetchChart(ctx context.Context, symbol string, period core.Period) (*chartResult, error) {
	u := fmt.Sprintf("%s/%s?interval=1d&range=%s",
		y.chartURL, url.PathEscape(y.toYahooSymbol(symbol)), url.QueryEscape(string(period)))

	resp, err := y.get(ctx, u)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var result chartResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		// Yahoo answers unknown symbols with 404 and a JSON error body
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
		}
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	if result.Chart.Error != nil {
		if result.Chart.Error.Code == "Not Found" {
			return nil, core.WrapError(core.ErrSymbolNotFound,
				fmt.Errorf("yahoo: %s", result.Chart.Error.Description))
		}
		return nil, fmt.Errorf("yahoo error: %s", result.Chart.Error.Description)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	if len(result.Chart.Result) == 0 {
		return nil, nil
	}
	return &result.Chart.Result[0], nil
}

func (y *Yahoo) get(ctx context.Context, u string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if y.userAgent != "" {
		req.Header.Set("User-Agent", y.userAgent)
	}

	resp, err := y.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("requesting %s: %w", req.URL.Path, err)
	}
	return resp, nil
}

func at[T any](values []*T, i int) *T {
	if i >= len(values) {
		return nil
	}
	return values[i]
}

// Yahoo API response types
type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

type chartResult struct {
	Meta       chartMeta  `json:"meta"`
	Timestamp  []int64    `json:"timestamp"`
	Indicators indicators `json:"indicators"`
}

type chartMeta struct {
	Symbol               string  `json:"symbol"`
	Currency             string  `json:"currency"`
	LongName             string  `json:"longName"`
	ShortName            string  `json:"shortName"`
	ExchangeTimezoneName string  `json:"exchangeTimezoneName"`
	GMTOffset            int     `json:"gmtoffset"`
	RegularMarketPrice   float64 `json:"regularMarketPrice"`
}

// location returns the exchange time zone so bar dates match the trading day
func (m chartMeta) location() *time.Location {
	if m.ExchangeTimezoneName != "" {
		if loc, err := time.LoadLocation(m.ExchangeTimezoneName); err == nil {
			return loc
		}
	}
	return time.FixedZone("exchange", m.GMTOffset)
}

type indicators struct {
	Quote []quoteIndicator `json:"quote"`
}

type quoteIndicator struct {
	Open   []*float64 `json:"open"`
	High   []*float64 `json:"high"`
	Low    []*float64 `json:"low"`
	Close  []*float64 `json:"close"`
	Volume []*int64   `json:"volume"`
}
