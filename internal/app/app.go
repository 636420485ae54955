package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/newthinker/realize/internal/collector"
	"github.com/newthinker/realize/internal/config"
	"github.com/newthinker/realize/internal/core"
	"github.com/newthinker/realize/internal/export"
	"github.com/newthinker/realize/internal/indicator"
	"github.com/newthinker/realize/internal/metrics"
	"github.com/newthinker/realize/internal/realization"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// PreviewRows is the number of leading bars shown as a data preview.
const PreviewRows = 5

// Report is everything one run produces for display.
type Report struct {
	Request  realization.RunRequest          `json:"request"`
	Profile  *Profile                        `json:"profile,omitempty"`
	Overview indicator.Overview              `json:"overview"`
	Preview  []core.OHLCV                    `json:"preview"`
	Chart    []indicator.ChartPoint          `json:"chart,omitempty"`
	Records  []realization.Record            `json:"records"`
	Tally    map[realization.OutcomeKind]int `json:"tally"`

	ExportLocation string        `json:"export_location,omitempty"`
	ExportError    string        `json:"export_error,omitempty"`
	Elapsed        time.Duration `json:"-"`
}

// HasChart reports whether there is enough data to draw the chart.
func (r *Report) HasChart() bool {
	return len(r.Chart) > 0
}

// TargetHits returns the number of bars that reached the target.
func (r *Report) TargetHits() int {
	return r.Tally[realization.TargetHit]
}

// StopLossHits returns the number of bars that reached the stop-loss.
func (r *Report) StopLossHits() int {
	return r.Tally[realization.StopLossHit]
}

// Pending returns the number of bars that reached neither threshold.
func (r *Report) Pending() int {
	return r.Tally[realization.NotReached]
}

// App orchestrates realization runs
type App struct {
	cfg      *config.Config
	logger   *zap.Logger
	market   collector.MarketData
	exporter *export.Exporter
	metrics  *metrics.Registry
	policy   realization.Policy

	mu      sync.RWMutex
	runs    int
	failed  int
	lastRun time.Time
}

// New creates a new App instance
func New(cfg *config.Config, market collector.MarketData, exporter *export.Exporter, logger *zap.Logger) *App {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg == nil {
		cfg = config.Defaults()
	}

	return &App{
		cfg:      cfg,
		logger:   logger,
		market:   market,
		exporter: exporter,
		policy:   cfg.Policy(),
	}
}

// SetMetrics attaches a metrics registry. Runs are not measured without one.
func (a *App) SetMetrics(reg *metrics.Registry) {
	a.metrics = reg
}

// Run fetches the price history for req, evaluates every bar and exports
// the realization table. An export failure does not fail the run; it is
// reported in Report.ExportError.
func (a *App) Run(ctx context.Context, req realization.RunRequest) (*Report, error) {
	return a.run(ctx, req, true, nil)
}

// RunWithProfile is Run for callers that already loaded the ticker profile.
// It never calls FetchInfo; a nil profile leaves the report undecorated.
func (a *App) RunWithProfile(ctx context.Context, req realization.RunRequest, profile *Profile) (*Report, error) {
	return a.run(ctx, req, false, profile)
}

func (a *App) run(ctx context.Context, req realization.RunRequest, fetchProfile bool, profile *Profile) (*Report, error) {
	start := time.Now()
	log := a.logger.With(
		zap.String("symbol", req.Symbol),
		zap.String("period", string(req.Period)),
	)

	var bars []core.OHLCV

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		fetchStart := time.Now()
		var err error
		bars, err = a.market.FetchHistory(gctx, req.Symbol, req.Period)
		a.recordFetch("history", fetchStart)
		if err != nil {
			if errors.Is(err, core.ErrInvalidInput) || errors.Is(err, core.ErrSymbolNotFound) {
				return err
			}
			return core.WrapError(core.ErrCollectorFailed, err)
		}
		return nil
	})
	if fetchProfile {
		g.Go(func() error {
			// Profile is decoration; the run proceeds without it
			if p, err := a.Info(gctx, req.Symbol); err == nil {
				profile = p
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		a.finish(start, "fetch_failed")
		log.Warn("run aborted", zap.Error(err))
		if errors.Is(err, core.ErrSymbolNotFound) {
			return nil, core.WrapError(core.ErrNoData, err)
		}
		return nil, err
	}
	if len(bars) == 0 {
		a.finish(start, "no_data")
		log.Info("run returned no data")
		return nil, core.ErrNoData
	}

	records := realization.Build(bars, req.Thresholds, a.policy)
	report := &Report{
		Request:  req,
		Profile:  profile,
		Overview: indicator.Summarize(bars),
		Preview:  indicator.Head(bars, PreviewRows),
		Chart:    indicator.ChartSeries(bars),
		Records:  records,
		Tally:    realization.Tally(records),
	}

	if a.exporter != nil {
		artifact, err := a.exporter.Export(ctx, records)
		if err != nil {
			log.Error("export failed", zap.Error(err))
			report.ExportError = err.Error()
			a.recordExport("error")
		} else {
			report.ExportLocation = artifact.Location
			a.recordExport("ok")
		}
	}

	a.recordOutcomes(report.Tally)
	report.Elapsed = a.finish(start, "ok")

	log.Info("run completed",
		zap.Int("bars", len(bars)),
		zap.Int("target_hits", report.Tally[realization.TargetHit]),
		zap.Int("stop_loss_hits", report.Tally[realization.StopLossHit]),
		zap.Duration("elapsed", report.Elapsed),
	)
	return report, nil
}

// Info fetches the ticker profile shown next to the form.
func (a *App) Info(ctx context.Context, symbol string) (*Profile, error) {
	symbol = core.NormalizeSymbol(symbol)
	if err := core.ValidateSymbol(symbol); err != nil {
		return nil, core.WrapError(core.ErrInvalidInput, err)
	}

	start := time.Now()
	info, err := a.market.FetchInfo(ctx, symbol)
	a.recordFetch("info", start)
	if err != nil {
		a.logger.Debug("info lookup failed", zap.String("symbol", symbol), zap.Error(err))
		if errors.Is(err, core.ErrSymbolNotFound) {
			return nil, err
		}
		return nil, core.WrapError(core.ErrCollectorFailed, fmt.Errorf("fetching info for %s: %w", symbol, err))
	}
	return NewProfile(info), nil
}

// LatestExport returns the bytes of the last exported artifact.
func (a *App) LatestExport(ctx context.Context) ([]byte, error) {
	if a.exporter == nil {
		return nil, core.ErrNoData
	}
	return a.exporter.Latest(ctx)
}

// ExportFilename returns the artifact name offered for download.
func (a *App) ExportFilename() string {
	if a.exporter == nil {
		return export.DefaultFilename
	}
	return a.exporter.Filename()
}

// Title returns the dashboard title.
func (a *App) Title() string {
	return a.cfg.Dashboard.Title
}

// Symbols returns the ticker presets offered by the form.
func (a *App) Symbols() []string {
	result := make([]string, len(a.cfg.Dashboard.Symbols))
	copy(result, a.cfg.Dashboard.Symbols)
	return result
}

// DefaultPeriod returns the preselected lookback window.
func (a *App) DefaultPeriod() core.Period {
	if p := core.Period(a.cfg.Dashboard.DefaultPeriod); p.IsValid() {
		return p
	}
	return core.DefaultPeriod
}

// GetStats returns application statistics
func (a *App) GetStats() map[string]any {
	a.mu.RLock()
	defer a.mu.RUnlock()

	stats := map[string]any{
		"runs":      a.runs,
		"failed":    a.failed,
		"provider":  a.market.Name(),
		"tie_break": string(a.policy.TieBreak),
	}
	if !a.lastRun.IsZero() {
		stats["last_run"] = a.lastRun
	}
	return stats
}

func (a *App) finish(start time.Time, status string) time.Duration {
	elapsed := time.Since(start)

	a.mu.Lock()
	a.runs++
	if status != "ok" {
		a.failed++
	}
	a.lastRun = time.Now()
	a.mu.Unlock()

	if a.metrics != nil {
		a.metrics.RecordRun(status)
	}
	return elapsed
}

func (a *App) recordFetch(kind string, start time.Time) {
	if a.metrics != nil {
		a.metrics.RecordFetch(kind, time.Since(start).Seconds())
	}
}

func (a *App) recordExport(status string) {
	if a.metrics != nil {
		a.metrics.RecordExport(status)
	}
}

func (a *App) recordOutcomes(tally map[realization.OutcomeKind]int) {
	if a.metrics == nil {
		return
	}
	counts := make(map[string]int, len(tally))
	for k, n := range tally {
		counts[string(k)] = n
	}
	a.metrics.RecordOutcomes(counts)
}
