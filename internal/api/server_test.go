// internal/api/server_test.go
package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/newthinker/realize/internal/app"
	"github.com/newthinker/realize/internal/collector"
	"github.com/newthinker/realize/internal/config"
	"github.com/newthinker/realize/internal/core"
	"github.com/newthinker/realize/internal/export"
	"github.com/newthinker/realize/internal/metrics"
	"github.com/newthinker/realize/internal/storage/archive"
	"go.uber.org/zap"
)

type stubMarket struct{}

func (stubMarket) Name() string { return "stub" }

func (stubMarket) FetchHistory(ctx context.Context, symbol string, period core.Period) ([]core.OHLCV, error) {
	if symbol == "EMPTY" {
		return nil, nil
	}
	return []core.OHLCV{
		{Symbol: symbol, Open: 100, High: 110, Low: 95, Close: 100, Volume: 1000, Time: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{Symbol: symbol, Open: 100, High: 125, Low: 98, Close: 120, Volume: 1200, Time: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)},
	}, nil
}

func (stubMarket) FetchInfo(ctx context.Context, symbol string) (*core.TickerInfo, error) {
	return &core.TickerInfo{Symbol: symbol, LongName: "Apple Inc."}, nil
}

// countingMarket counts FetchInfo calls
type countingMarket struct {
	stubMarket
	infoCalls atomic.Int32
}

func (m *countingMarket) FetchInfo(ctx context.Context, symbol string) (*core.TickerInfo, error) {
	m.infoCalls.Add(1)
	return m.stubMarket.FetchInfo(ctx, symbol)
}

func newTestServer(t *testing.T) (*Server, *metrics.Registry) {
	t.Helper()
	return newTestServerWithMarket(t, stubMarket{})
}

func newTestServerWithMarket(t *testing.T, market collector.MarketData) (*Server, *metrics.Registry) {
	t.Helper()
	fs, err := archive.NewLocalFS(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalFS: %v", err)
	}
	reg := metrics.NewRegistry()
	a := app.New(config.Defaults(), market, export.NewExporter(fs, export.Options{}, nil), zap.NewNop())
	a.SetMetrics(reg)

	srv, err := NewServer(Config{
		Host:        "localhost",
		Port:        0,
		MetricsPath: "/metrics",
	}, Dependencies{App: a, Metrics: reg}, zap.NewNop())
	if err != nil {
		t.Fatalf("failed to create server: %v", err)
	}
	return srv, reg
}

func serve(srv *Server, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest("GET", target, nil))
	return w
}

func TestServer_Health(t *testing.T) {
	srv, _ := newTestServer(t)

	w := serve(srv, "/api/health")
	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("expected request id header from logging middleware")
	}
}

func TestServer_RequiresApp(t *testing.T) {
	if _, err := NewServer(Config{}, Dependencies{}, nil); err == nil {
		t.Error("expected error without app")
	}
}

func TestServer_RunThenDownload(t *testing.T) {
	srv, _ := newTestServer(t)

	w := serve(srv, "/export/realization.csv")
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 before any run, got %d", w.Code)
	}

	w = serve(srv, "/api/v1/realization?symbol=AAPL&entry=100&stop=95&target=120")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "Target reached at price 125") {
		t.Errorf("expected target hit in body: %s", w.Body.String())
	}

	w = serve(srv, "/export/realization.csv")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	if len(lines) != 3 {
		t.Errorf("expected header and 2 rows, got %d lines", len(lines))
	}
}

func TestServer_NoData(t *testing.T) {
	srv, _ := newTestServer(t)

	w := serve(srv, "/api/v1/realization?symbol=EMPTY")
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestServer_Dashboard(t *testing.T) {
	srv, _ := newTestServer(t)

	w := serve(srv, "/?submit=1&symbol=AAPL&entry=100&stop=95&target=120")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Realization Results") {
		t.Error("expected realization tab")
	}
}

func TestServer_DashboardSubmitFetchesInfoOnce(t *testing.T) {
	market := &countingMarket{}
	srv, _ := newTestServerWithMarket(t, market)

	w := serve(srv, "/?submit=1&symbol=AAPL&entry=100&stop=95&target=120")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if got := market.infoCalls.Load(); got != 1 {
		t.Errorf("expected 1 info lookup per submit, got %d", got)
	}
	if !strings.Contains(w.Body.String(), "Apple Inc.") {
		t.Error("expected profile in page")
	}
}

func TestServer_Info(t *testing.T) {
	srv, _ := newTestServer(t)

	w := serve(srv, "/api/v1/symbols/AAPL/info")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Apple Inc.") {
		t.Errorf("expected company name, got %s", w.Body.String())
	}
}

func TestServer_Metrics(t *testing.T) {
	srv, _ := newTestServer(t)

	serve(srv, "/api/v1/realization?symbol=AAPL")
	w := serve(srv, "/metrics")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	for _, name := range []string{"realize_runs_total", "http_requests_total"} {
		if !strings.Contains(w.Body.String(), name) {
			t.Errorf("expected %s in metrics output", name)
		}
	}
}

func TestServer_Stats(t *testing.T) {
	srv, _ := newTestServer(t)

	w := serve(srv, "/api/v1/stats")
	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}
