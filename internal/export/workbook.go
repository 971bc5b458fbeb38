// Package export writes analysis results to an Excel workbook.
package export

import (
	"fmt"
	"math"
	"path/filepath"

	"github.com/KaramelBytes/salescope/internal/analysis"
	"github.com/KaramelBytes/salescope/internal/utils"
	"github.com/xuri/excelize/v2"
)

// Sheet names written by WriteWorkbook.
const (
	SheetBranchStats = "Branch Stats"
	SheetDailySales  = "Daily Sales"
	SheetCorrelation = "Correlation"
	SheetAnswers     = "Answers"
)

// WriteWorkbook saves the aggregates and answers to an .xlsx file at path.
// The daily sales sheet carries a native line chart.
func WriteWorkbook(path string, s *analysis.Summary, a *analysis.Answers) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetBranchStats); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	for _, name := range []string{SheetDailySales, SheetCorrelation, SheetAnswers} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("new sheet %s: %w", name, err)
		}
	}

	rows := [][]any{{"Branch", "mean", "median", "min", "max", "count"}}
	for _, b := range s.Branches {
		rows = append(rows, []any{b.Branch, b.Mean, b.Median, b.Min, b.Max, b.Count})
	}
	if err := writeRows(f, SheetBranchStats, rows); err != nil {
		return err
	}

	rows = [][]any{{"Date", s.TotalColumn}}
	for _, d := range s.Daily {
		rows = append(rows, []any{d.Date.Format("2006-01-02"), d.Total.InexactFloat64()})
	}
	if err := writeRows(f, SheetDailySales, rows); err != nil {
		return err
	}
	if len(s.Daily) > 0 {
		last := len(s.Daily) + 1
		series := fmt.Sprintf("'%s'!$B$2:$B$%d", SheetDailySales, last)
		cats := fmt.Sprintf("'%s'!$A$2:$A$%d", SheetDailySales, last)
		if err := f.AddChart(SheetDailySales, "D2", &excelize.Chart{
			Type:   excelize.Line,
			Series: []excelize.ChartSeries{{Name: fmt.Sprintf("'%s'!$B$1", SheetDailySales), Categories: cats, Values: series}},
			Title:  []excelize.RichTextRun{{Text: "Daily Sales Trend"}},
		}); err != nil {
			return fmt.Errorf("add chart: %w", err)
		}
	}

	header := []any{""}
	for _, c := range s.Corr.Columns {
		header = append(header, c)
	}
	rows = [][]any{header}
	for i, c := range s.Corr.Columns {
		row := []any{c}
		for _, v := range s.Corr.Values[i] {
			if math.IsNaN(v) {
				row = append(row, nil)
				continue
			}
			row = append(row, v)
		}
		rows = append(rows, row)
	}
	if err := writeRows(f, SheetCorrelation, rows); err != nil {
		return err
	}

	if a != nil {
		rows = [][]any{
			{"Question", "Answer"},
			{"Highest revenue branch", a.TopBranch},
			{"Members spend more?", a.MembersSpendMore},
			{"Most used payment method", a.TopPayment},
			{"Highest rated product line", a.TopProductLine},
			{"Correlation between unit price and quantity", math.Round(a.PriceQuantityCorr*1000) / 1000},
		}
		if err := writeRows(f, SheetAnswers, rows); err != nil {
			return err
		}
	}

	if err := utils.EnsureDir(filepath.Dir(path)); err != nil {
		return fmt.Errorf("ensure dir: %w", err)
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		row := r
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
