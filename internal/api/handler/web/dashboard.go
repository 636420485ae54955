// internal/api/handler/web/dashboard.go
package web

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/newthinker/realize/internal/app"
	"github.com/newthinker/realize/internal/core"
	"github.com/newthinker/realize/internal/realization"
	"go.uber.org/zap"
)

// DownloadPath serves the last exported realization table.
const DownloadPath = "/export/realization.csv"

// DashboardForm holds the sidebar inputs as submitted.
type DashboardForm struct {
	Symbol string
	Entry  string
	Stop   string
	Target string
	Period string
}

// DashboardData holds data for the dashboard template
type DashboardData struct {
	Title     string
	Symbols   []string
	Periods   []core.Period
	Form      DashboardForm
	Profile   *app.Profile
	InfoError string

	Submitted bool
	RunError  string
	Report    *app.Report

	DownloadURL string
}

// Dashboard renders the dashboard page. The run executes only when the form
// is submitted with submit=1.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	symbols := h.app.Symbols()
	q := r.URL.Query()
	form := DashboardForm{
		Symbol: q.Get("symbol"),
		Entry:  valueOr(q.Get("entry"), "0.0"),
		Stop:   valueOr(q.Get("stop"), "0.0"),
		Target: valueOr(q.Get("target"), "0.0"),
		Period: valueOr(q.Get("period"), string(h.app.DefaultPeriod())),
	}
	if form.Symbol == "" && len(symbols) > 0 {
		form.Symbol = symbols[0]
	}

	data := DashboardData{
		Title:       h.app.Title(),
		Symbols:     symbols,
		Periods:     core.Periods(),
		Form:        form,
		DownloadURL: DownloadPath,
	}

	if form.Symbol != "" {
		profile, err := h.app.Info(r.Context(), form.Symbol)
		if err != nil {
			data.InfoError = "Could not load information for " + form.Symbol + ": " + err.Error()
		} else {
			data.Profile = profile
		}
	}

	if q.Get("submit") == "1" {
		data.Submitted = true
		data.Report, data.RunError = h.run(r, form, data.Profile)
	}

	h.render(w, "dashboard.html", data)
}

// run reuses the profile the page already loaded so a submit costs one info lookup.
func (h *Handler) run(r *http.Request, form DashboardForm, profile *app.Profile) (*app.Report, string) {
	req, err := realization.ParseRunRequest(form.Symbol, form.Period, form.Entry, form.Stop, form.Target)
	if err != nil {
		return nil, err.Error()
	}

	report, err := h.app.RunWithProfile(r.Context(), req, profile)
	switch {
	case err == nil:
		return report, ""
	case errors.Is(err, core.ErrNoData):
		return nil, "No data found. Check the ticker symbol you entered."
	default:
		h.logger.Warn("dashboard run failed", zap.String("symbol", req.Symbol), zap.Error(err))
		return nil, err.Error()
	}
}

// Download serves the last exported CSV as an attachment.
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	data, err := h.app.LatestExport(r.Context())
	if errors.Is(err, core.ErrNoData) {
		http.Error(w, "no realization table exported yet", http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.Error("reading export", zap.Error(err))
		http.Error(w, "reading export failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+h.app.ExportFilename()+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Cache-Control", "no-store")
	w.Write(data)
}

func valueOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
