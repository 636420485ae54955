// internal/api/handler/api/realization_test.go
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/newthinker/realize/internal/api/response"
	"github.com/newthinker/realize/internal/app"
	"github.com/newthinker/realize/internal/core"
	"github.com/newthinker/realize/internal/realization"
	"github.com/shopspring/decimal"
)

type mockRunner struct {
	got    realization.RunRequest
	report *app.Report
	err    error
}

func (m *mockRunner) Run(ctx context.Context, req realization.RunRequest) (*app.Report, error) {
	m.got = req
	return m.report, m.err
}

func sampleReport(req realization.RunRequest) *app.Report {
	records := []realization.Record{{
		Date:          time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		Outcome:       realization.Outcome{Kind: realization.TargetHit, Price: decimal.NewFromInt(125)},
		EntryPrice:    decimal.NewFromInt(100),
		CurrentPrice:  decimal.NewFromInt(120),
		PercentChange: decimal.NewFromInt(20),
	}}
	return &app.Report{
		Request: req,
		Records: records,
		Tally:   realization.Tally(records),
	}
}

func TestRealizationHandler_Get(t *testing.T) {
	runner := &mockRunner{}
	runner.report = sampleReport(realization.RunRequest{Symbol: "AAPL", Period: core.Period1M})
	handler := NewRealizationHandler(runner)

	req := httptest.NewRequest("GET", "/api/v1/realization?symbol=aapl&period=1mo&entry=100&stop=95&target=120", nil)
	w := httptest.NewRecorder()

	handler.Get(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if runner.got.Symbol != "AAPL" || runner.got.Period != core.Period1M {
		t.Errorf("unexpected request passed to app: %+v", runner.got)
	}
	if !runner.got.Thresholds.StopLoss.Equal(decimal.NewFromInt(95)) {
		t.Errorf("expected stop 95, got %s", runner.got.Thresholds.StopLoss)
	}

	var resp struct {
		Data RealizationResponse `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(resp.Data.Records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(resp.Data.Records))
	}
	rec := resp.Data.Records[0]
	if rec.Date != "2024-01-02" || rec.Result != "Target reached at price 125" || rec.PercentChange != "20.00%" {
		t.Errorf("unexpected record: %+v", rec)
	}
	if resp.Data.Tally[realization.TargetHit] != 1 {
		t.Errorf("expected one target hit in tally, got %v", resp.Data.Tally)
	}
}

func TestRealizationHandler_Get_InvalidInput(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{"missing symbol", "?period=5d"},
		{"bad period", "?symbol=AAPL&period=2y"},
		{"non numeric entry", "?symbol=AAPL&entry=abc"},
		{"negative stop", "?symbol=AAPL&stop=-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &mockRunner{}
			handler := NewRealizationHandler(runner)

			req := httptest.NewRequest("GET", "/api/v1/realization"+tt.query, nil)
			w := httptest.NewRecorder()
			handler.Get(w, req)

			if w.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", w.Code)
			}
			var resp response.ErrorResponse
			json.Unmarshal(w.Body.Bytes(), &resp)
			if resp.Error.Code != "INVALID_INPUT" {
				t.Errorf("expected INVALID_INPUT, got %s", resp.Error.Code)
			}
		})
	}
}

func TestRealizationHandler_Get_RunErrors(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{core.ErrNoData, http.StatusNotFound},
		{core.WrapError(core.ErrCollectorFailed, errors.New("timeout")), http.StatusBadGateway},
	}

	for _, tt := range tests {
		handler := NewRealizationHandler(&mockRunner{err: tt.err})

		req := httptest.NewRequest("GET", "/api/v1/realization?symbol=AAPL", nil)
		w := httptest.NewRecorder()
		handler.Get(w, req)

		if w.Code != tt.want {
			t.Errorf("error %v: expected %d, got %d", tt.err, tt.want, w.Code)
		}
	}
}
