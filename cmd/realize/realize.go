package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	apihandler "github.com/newthinker/realize/internal/api/handler/api"
	"github.com/newthinker/realize/internal/app"
	"github.com/newthinker/realize/internal/export"
	"github.com/newthinker/realize/internal/realization"
	"github.com/spf13/cobra"
	"github.com/tidwall/pretty"
)

var (
	runSymbol string
	runPeriod string
	runEntry  string
	runStop   string
	runTarget string
	runJSON   bool
	runOut    string
)

var realizeCmd = &cobra.Command{
	Use:   "realize",
	Short: "Run one realization and print the table",
	Example: `  realize realize --symbol BBCA.JK --period 1mo --entry 9000 --stop 8800 --target 9500
  realize realize -s AAPL --entry 180 --stop 170 --target 200 --json`,
	RunE: runRealize,
}

func init() {
	realizeCmd.Flags().StringVarP(&runSymbol, "symbol", "s", "", "ticker symbol (required)")
	realizeCmd.Flags().StringVarP(&runPeriod, "period", "p", "", "lookback period: 5d, 1mo, 3mo, 6mo, 1y")
	realizeCmd.Flags().StringVar(&runEntry, "entry", "0", "entry price")
	realizeCmd.Flags().StringVar(&runStop, "stop", "0", "stop-loss price")
	realizeCmd.Flags().StringVar(&runTarget, "target", "0", "target price")
	realizeCmd.Flags().BoolVar(&runJSON, "json", false, "print the report as JSON")
	realizeCmd.Flags().StringVarP(&runOut, "out", "o", "", "also write the CSV to this path")
	realizeCmd.MarkFlagRequired("symbol")
	rootCmd.AddCommand(realizeCmd)
}

func runRealize(cmd *cobra.Command, args []string) error {
	log := newLogger()
	defer log.Sync()

	cfg, err := loadConfig(log)
	if err != nil {
		return err
	}
	if runPeriod == "" {
		runPeriod = cfg.Dashboard.DefaultPeriod
	}

	req, err := realization.ParseRunRequest(runSymbol, runPeriod, runEntry, runStop, runTarget)
	if err != nil {
		return err
	}

	a, err := buildApp(cfg, log)
	if err != nil {
		return err
	}

	report, err := a.Run(cmd.Context(), req)
	if err != nil {
		return err
	}

	if runOut != "" {
		data, err := export.EncodeCSV(report.Records, cfg.Export.BOM)
		if err != nil {
			return err
		}
		if err := os.WriteFile(runOut, data, 0644); err != nil {
			return fmt.Errorf("writing %s: %w", runOut, err)
		}
	}

	out := cmd.OutOrStdout()
	if runJSON {
		return printJSON(out, apihandler.NewRealizationResponse(report))
	}
	printReport(out, report)
	return nil
}

func printJSON(w io.Writer, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	_, err = w.Write(pretty.Pretty(data))
	return err
}

func printReport(w io.Writer, report *app.Report) {
	ov := report.Overview
	fmt.Fprintf(w, "%s (%s)\n", report.Request.Symbol, report.Request.Period)
	fmt.Fprintf(w, "Current price: %.2f  Daily change: %s  Volume: %d\n\n", ov.CurrentPrice, ov.DailyChange, ov.Volume)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tRESULT\tENTRY\tCURRENT\tCHANGE")
	for _, r := range report.Records {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			r.Date.Format(export.DateLayout),
			r.Outcome.Description(),
			r.EntryPrice.String(),
			r.CurrentPrice.String(),
			r.FormattedChange(),
		)
	}
	tw.Flush()

	fmt.Fprintf(w, "\nTarget reached: %d  Stop-loss reached: %d  Not reached: %d\n",
		report.TargetHits(), report.StopLossHits(), report.Pending())
	switch {
	case report.ExportError != "":
		fmt.Fprintf(w, "CSV export failed: %s\n", report.ExportError)
	case report.ExportLocation != "":
		fmt.Fprintf(w, "Results saved to %s\n", report.ExportLocation)
	}
}
