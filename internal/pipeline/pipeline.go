// Package pipeline runs the sales analysis steps in order and reports each one.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/salescope/internal/analysis"
	"github.com/KaramelBytes/salescope/internal/charts"
	"github.com/KaramelBytes/salescope/internal/dataset"
	"github.com/KaramelBytes/salescope/internal/export"
	"github.com/google/uuid"
)

// SuccessLine is printed after every step completed.
const SuccessLine = "Analysis Completed Successfully (No Errors)"

// Options configures one run.
type Options struct {
	Input      string
	Sheet      string
	Delimiter  rune // 0 sniffs from the extension
	Charts     charts.Options
	NoCharts   bool
	ReportPath string // .md or .json; empty skips the report
	XLSXPath   string // empty skips the workbook
}

// Section is one titled block of the text report.
type Section struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Result holds everything a run produced.
type Result struct {
	RunID       string               `json:"run_id"`
	Input       string               `json:"input"`
	TotalColumn string               `json:"total_column"`
	Description *dataset.Description `json:"description"`
	Summary     *analysis.Summary    `json:"summary"`
	Answers     *analysis.Answers    `json:"answers"`
	Charts      []string             `json:"charts,omitempty"`
	Sections    []Section            `json:"-"`
}

// Run executes load, normalize, describe, aggregate, charts, answers and export.
// Report sections go to stdout as they are produced; the first error stops the run.
func Run(ctx context.Context, opt Options, stdout io.Writer, logger *slog.Logger) (*Result, error) {
	if opt.Input == "" {
		opt.Input = dataset.DefaultInput
	}
	res := &Result{RunID: uuid.NewString(), Input: opt.Input}
	log := logger.With(slog.String("run_id", res.RunID))
	emit := func(title, body string) {
		res.Sections = append(res.Sections, Section{Title: title, Body: body})
		fmt.Fprintln(stdout, strings.TrimRight(body, "\n"))
		fmt.Fprintln(stdout)
	}

	log.Info("loading dataset", slog.String("input", opt.Input))
	tbl, err := dataset.Load(opt.Input, dataset.LoadOptions{Delimiter: opt.Delimiter, Sheet: opt.Sheet})
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ds, err := dataset.Normalize(tbl)
	if err != nil {
		return nil, err
	}
	res.TotalColumn = ds.Total.Name
	log.Info("normalized dataset", slog.String("total_column", ds.Total.Name), slog.Int("rows", len(ds.Transactions)))
	emit("Total Column", fmt.Sprintf("Using '%s' as total sales column", ds.Total.Name))

	res.Description = dataset.Describe(tbl)
	emit("Dataset Overview", res.Description.Text())
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sum, err := analysis.Summarize(ds)
	if err != nil {
		return nil, fmt.Errorf("aggregate: %w", err)
	}
	res.Summary = sum
	emit("Branch Statistics", sum.BranchStatsText())
	emit("Correlation Matrix", sum.CorrelationText())
	log.Info("aggregated", slog.Int("branches", len(sum.Branches)), slog.Int("days", len(sum.Daily)))
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if opt.NoCharts {
		log.Info("chart rendering skipped")
	} else {
		paths, err := charts.Render(sum, opt.Charts)
		if err != nil {
			return nil, fmt.Errorf("render charts: %w", err)
		}
		res.Charts = paths
		for _, p := range paths {
			log.Debug("chart written", slog.String("path", p))
		}
		log.Info("charts rendered", slog.String("dir", opt.Charts.Dir), slog.Int("count", len(paths)))
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ans, err := analysis.Answer(sum)
	if err != nil {
		return nil, err
	}
	res.Answers = ans
	if len(ans.OtherCustomerTypes) > 0 {
		log.Warn("customer types ignored for member comparison",
			slog.Int("count", len(ans.OtherCustomerTypes)),
			slog.Any("values", ans.OtherCustomerTypes))
	}
	emit("Answers", ans.Text())

	if opt.ReportPath != "" {
		if err := WriteReport(opt.ReportPath, res); err != nil {
			return nil, err
		}
		log.Info("report written", slog.String("path", opt.ReportPath))
	}
	if opt.XLSXPath != "" {
		if err := export.WriteWorkbook(opt.XLSXPath, sum, ans); err != nil {
			return nil, fmt.Errorf("write workbook: %w", err)
		}
		log.Info("workbook written", slog.String("path", opt.XLSXPath))
	}

	fmt.Fprintln(stdout, SuccessLine)
	return res, nil
}

// ReportFormat returns "json" for .json paths and "md" otherwise.
func ReportFormat(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return "json"
	}
	return "md"
}
