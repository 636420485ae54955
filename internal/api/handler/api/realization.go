// internal/api/handler/api/realization.go
package api

import (
	"context"
	"net/http"

	"github.com/newthinker/realize/internal/api/response"
	"github.com/newthinker/realize/internal/app"
	"github.com/newthinker/realize/internal/export"
	"github.com/newthinker/realize/internal/indicator"
	"github.com/newthinker/realize/internal/realization"
)

// RealizationApp defines the interface needed from app.App.
type RealizationApp interface {
	Run(ctx context.Context, req realization.RunRequest) (*app.Report, error)
}

// RecordView is one realization row as rendered in JSON.
type RecordView struct {
	Date          string `json:"date"`
	Outcome       string `json:"outcome"`
	Result        string `json:"result"`
	EntryPrice    string `json:"entry_price"`
	CurrentPrice  string `json:"current_price"`
	PercentChange string `json:"percent_change"`
}

// RealizationResponse is the body of a successful run.
type RealizationResponse struct {
	Symbol         string                          `json:"symbol"`
	Period         string                          `json:"period"`
	EntryPrice     string                          `json:"entry_price"`
	StopLoss       string                          `json:"stop_loss"`
	TargetPrice    string                          `json:"target_price"`
	Profile        *app.Profile                    `json:"profile,omitempty"`
	Overview       indicator.Overview              `json:"overview"`
	Records        []RecordView                    `json:"records"`
	Tally          map[realization.OutcomeKind]int `json:"tally"`
	ExportLocation string                          `json:"export_location,omitempty"`
	ExportError    string                          `json:"export_error,omitempty"`
}

// RealizationHandler handles realization API requests.
type RealizationHandler struct {
	app RealizationApp
}

// NewRealizationHandler creates a new realization handler.
func NewRealizationHandler(app RealizationApp) *RealizationHandler {
	return &RealizationHandler{app: app}
}

// Get handles GET /api/v1/realization?symbol=&period=&entry=&stop=&target=
func (h *RealizationHandler) Get(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req, err := realization.ParseRunRequest(q.Get("symbol"), q.Get("period"), q.Get("entry"), q.Get("stop"), q.Get("target"))
	if err != nil {
		response.Fail(w, err)
		return
	}

	report, err := h.app.Run(r.Context(), req)
	if err != nil {
		response.Fail(w, err)
		return
	}

	response.JSON(w, http.StatusOK, NewRealizationResponse(report))
}

// NewRealizationResponse converts a report into its JSON shape.
func NewRealizationResponse(report *app.Report) RealizationResponse {
	records := make([]RecordView, 0, len(report.Records))
	for _, rec := range report.Records {
		records = append(records, RecordView{
			Date:          rec.Date.Format(export.DateLayout),
			Outcome:       string(rec.Outcome.Kind),
			Result:        rec.Outcome.Description(),
			EntryPrice:    rec.EntryPrice.String(),
			CurrentPrice:  rec.CurrentPrice.String(),
			PercentChange: rec.FormattedChange(),
		})
	}

	t := report.Request.Thresholds
	return RealizationResponse{
		Symbol:         report.Request.Symbol,
		Period:         string(report.Request.Period),
		EntryPrice:     t.EntryPrice.String(),
		StopLoss:       t.StopLoss.String(),
		TargetPrice:    t.TargetPrice.String(),
		Profile:        report.Profile,
		Overview:       report.Overview,
		Records:        records,
		Tally:          report.Tally,
		ExportLocation: report.ExportLocation,
		ExportError:    report.ExportError,
	}
}
