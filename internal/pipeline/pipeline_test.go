package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/KaramelBytes/salescope/internal/analysis"
	"github.com/KaramelBytes/salescope/internal/charts"
	"github.com/KaramelBytes/salescope/internal/dataset"
	"github.com/KaramelBytes/salescope/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const header = "Invoice ID,Branch,City,Customer type,Gender,Product line,Unit price,Quantity,Tax 5%,Total,Date,Time,Payment,cogs,gross margin percentage,gross income,Rating"

var rows = []string{
	"750-67-8428,A,Yangon,Member,Female,Health and beauty,74.69,7,26.1415,548.9715,1/5/2019,13:08,Ewallet,522.83,4.761904762,26.1415,9.1",
	"226-31-3081,C,Naypyitaw,Normal,Female,Electronic accessories,15.28,5,3.82,80.22,3/8/2019,10:29,Cash,76.4,4.761904762,3.82,9.6",
	"631-41-3108,A,Yangon,Normal,Male,Home and lifestyle,46.33,7,16.2155,340.5255,3/3/2019,13:23,Credit card,324.31,4.761904762,16.2155,7.4",
	"123-19-1176,A,Yangon,Member,Male,Health and beauty,58.22,8,23.288,489.048,1/27/2019,20:33,Ewallet,465.76,4.761904762,23.288,8.4",
	"373-73-7910,A,Yangon,Normal,Male,Sports and travel,86.31,7,30.2085,634.3785,2/8/2019,10:37,Ewallet,604.17,4.761904762,30.2085,5.3",
	"699-14-3026,C,Naypyitaw,Normal,Male,Electronic accessories,85.39,7,29.8865,627.6165,3/25/2019,18:30,Ewallet,597.73,4.761904762,29.8865,4.1",
}

func writeInput(t *testing.T, head string, body ...string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), dataset.DefaultInput)
	lines := append([]string{head}, body...)
	require.NoError(t, os.WriteFile(p, []byte(strings.Join(lines, "\n")+"\n"), 0o644))
	return p
}

func TestRun_FullReport(t *testing.T) {
	dir := t.TempDir()
	copt := charts.DefaultOptions()
	copt.Dir = filepath.Join(dir, "charts")
	opt := Options{
		Input:      writeInput(t, header, rows...),
		Charts:     copt,
		ReportPath: filepath.Join(dir, "out", "report.md"),
		XLSXPath:   filepath.Join(dir, "out", "summary.xlsx"),
	}
	var out, logs bytes.Buffer
	res, err := Run(context.Background(), opt, &out, logging.New("debug", "json", &logs))
	require.NoError(t, err)

	s := out.String()
	assert.Contains(t, s, "Using 'Total' as total sales column")
	assert.Contains(t, s, "Shape: 6 rows x 17 columns")
	assert.Contains(t, s, "Branch Statistics:")
	assert.Contains(t, s, "Top pairs by |r|:")
	assert.Contains(t, s, "- Total ~ gross income: r=1.000")
	assert.Contains(t, s, "Q1: Highest revenue branch: A")
	assert.Contains(t, s, "Q2: Members spend more? Yes")
	assert.Contains(t, s, "Q3: Most used payment method: Ewallet")
	assert.Contains(t, s, "Q4: Highest rated product line: Health and beauty")
	assert.True(t, strings.HasSuffix(s, SuccessLine+"\n"))
	assert.Less(t, strings.Index(s, "[DATASET SUMMARY]"), strings.Index(s, "Branch Statistics:"))
	assert.Less(t, strings.Index(s, "Correlation Matrix:"), strings.Index(s, "Advanced Analysis Answers:"))

	require.Len(t, res.Charts, 6)
	for _, p := range res.Charts {
		_, err := os.Stat(p)
		require.NoError(t, err)
	}
	assert.NotEmpty(t, res.RunID)
	assert.Contains(t, logs.String(), res.RunID)

	md, err := os.ReadFile(opt.ReportPath)
	require.NoError(t, err)
	assert.Contains(t, string(md), "# Sales Analysis Report")
	assert.Contains(t, string(md), "## Answers")

	f, err := excelize.OpenFile(opt.XLSXPath)
	require.NoError(t, err)
	defer f.Close()
	assert.Contains(t, f.GetSheetList(), "Answers")
}

func TestRun_JSONReportWithoutCharts(t *testing.T) {
	dir := t.TempDir()
	opt := Options{
		Input:      writeInput(t, header, rows...),
		NoCharts:   true,
		Charts:     charts.Options{Dir: filepath.Join(dir, "charts")},
		ReportPath: filepath.Join(dir, "report.json"),
	}
	res, err := Run(context.Background(), opt, &bytes.Buffer{}, logging.Discard())
	require.NoError(t, err)
	assert.Empty(t, res.Charts)
	_, err = os.Stat(opt.Charts.Dir)
	assert.True(t, os.IsNotExist(err))

	b, err := os.ReadFile(opt.ReportPath)
	require.NoError(t, err)
	var got map[string]any
	require.NoError(t, json.Unmarshal(b, &got))
	assert.Equal(t, "Total", got["total_column"])
	answers, ok := got["answers"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "A", answers["top_branch"])
}

func TestRun_MissingFileStopsBeforePreview(t *testing.T) {
	var out bytes.Buffer
	_, err := Run(context.Background(), Options{Input: filepath.Join(t.TempDir(), "nope.csv"), NoCharts: true}, &out, logging.Discard())
	var mf *dataset.MissingFileError
	require.ErrorAs(t, err, &mf)
	assert.Contains(t, err.Error(), "CSV file not found. Please upload the file first.")
	assert.Empty(t, out.String())
}

func TestRun_MissingTotalColumnStopsBeforeAggregation(t *testing.T) {
	head := strings.Replace(header, ",Total,", ",Amount,", 1)
	var out bytes.Buffer
	_, err := Run(context.Background(), Options{Input: writeInput(t, head, rows...), NoCharts: true}, &out, logging.Discard())
	var mc *dataset.MissingColumnError
	require.ErrorAs(t, err, &mc)
	assert.NotContains(t, out.String(), "Branch Statistics:")
	assert.NotContains(t, out.String(), SuccessLine)
}

func TestRun_SalesColumnFallback(t *testing.T) {
	head := strings.Replace(header, ",Total,", ",Sales,", 1)
	var out bytes.Buffer
	res, err := Run(context.Background(), Options{Input: writeInput(t, head, rows...), NoCharts: true}, &out, logging.Discard())
	require.NoError(t, err)
	assert.Equal(t, "Sales", res.TotalColumn)
	assert.Contains(t, out.String(), "Using 'Sales' as total sales column")
}

func TestRun_UndefinedMemberComparison(t *testing.T) {
	members := make([]string, len(rows))
	for i, r := range rows {
		members[i] = strings.Replace(r, ",Normal,", ",Member,", 1)
	}
	var out bytes.Buffer
	_, err := Run(context.Background(), Options{Input: writeInput(t, header, members...), NoCharts: true}, &out, logging.Discard())
	var ue *analysis.UndefinedError
	require.ErrorAs(t, err, &ue)
	assert.Contains(t, out.String(), "Branch Statistics:")
	assert.NotContains(t, out.String(), SuccessLine)
}

func TestRun_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var out bytes.Buffer
	_, err := Run(ctx, Options{Input: writeInput(t, header, rows...), NoCharts: true}, &out, logging.Discard())
	require.True(t, errors.Is(err, context.Canceled))
	assert.NotContains(t, out.String(), "Branch Statistics:")
}

func TestReportFormat(t *testing.T) {
	assert.Equal(t, "json", ReportFormat("a/b/report.JSON"))
	assert.Equal(t, "md", ReportFormat("report.md"))
	assert.Equal(t, "md", ReportFormat("report"))
}
