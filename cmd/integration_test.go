package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	cfgpkg "github.com/KaramelBytes/salescope/internal/config"
	"github.com/KaramelBytes/salescope/internal/dataset"
	"github.com/KaramelBytes/salescope/internal/pipeline"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const salesCSV = `Invoice ID,Branch,City,Customer type,Gender,Product line,Unit price,Quantity,Tax 5%,Total,Date,Time,Payment,cogs,gross margin percentage,gross income,Rating
750-67-8428,A,Yangon,Member,Female,Health and beauty,74.69,7,26.1415,548.9715,1/5/2019,13:08,Ewallet,522.83,4.761904762,26.1415,9.1
226-31-3081,C,Naypyitaw,Normal,Female,Electronic accessories,15.28,5,3.82,80.22,3/8/2019,10:29,Cash,76.4,4.761904762,3.82,9.6
631-41-3108,A,Yangon,Normal,Male,Home and lifestyle,46.33,7,16.2155,340.5255,3/3/2019,13:23,Credit card,324.31,4.761904762,16.2155,7.4
123-19-1176,A,Yangon,Member,Male,Health and beauty,58.22,8,23.288,489.048,1/27/2019,20:33,Ewallet,465.76,4.761904762,23.288,8.4
373-73-7910,A,Yangon,Normal,Male,Sports and travel,86.31,7,30.2085,634.3785,2/8/2019,10:37,Ewallet,604.17,4.761904762,30.2085,5.3
699-14-3026,C,Naypyitaw,Normal,Male,Electronic accessories,85.39,7,29.8865,627.6165,3/25/2019,18:30,Ewallet,597.73,4.761904762,29.8865,4.1
`

// isolate points HOME at a temp dir so no user config leaks into the run.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	return home
}

func writeSales(t *testing.T, dir string) string {
	t.Helper()
	p := filepath.Join(dir, dataset.DefaultInput)
	require.NoError(t, os.WriteFile(p, []byte(salesCSV), 0o644))
	return p
}

// resetFlags clears values and Changed state that persist across invocations.
func resetFlags(c *cobra.Command) {
	reset := func(fl *pflag.Flag) {
		_ = fl.Value.Set(fl.DefValue)
		fl.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// execute runs the root command with args and returns stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

// runCmd is a helper to execute the root command with args.
func runCmd(t *testing.T, args ...string) string {
	t.Helper()
	out, err := execute(t, args...)
	if err != nil {
		t.Fatalf("command %v failed: %v", args, err)
	}
	return out
}

func TestCLI_AnalyzeWritesReportAndCharts(t *testing.T) {
	home := isolate(t)
	input := writeSales(t, home)
	chartsDir := filepath.Join(home, "charts")
	report := filepath.Join(home, "out", "report.json")

	out := runCmd(t, "analyze", input, "--charts-dir", chartsDir, "--chart-format", "svg", "--bins", "10", "-o", report)
	assert.Contains(t, out, "Using 'Total' as total sales column")
	assert.Contains(t, out, "Q1: Highest revenue branch: A")
	assert.Contains(t, out, pipeline.SuccessLine)
	assert.Contains(t, out, "✓ Wrote json report to "+report)

	entries, err := os.ReadDir(chartsDir)
	require.NoError(t, err)
	assert.Len(t, entries, 6)
	for _, e := range entries {
		assert.True(t, strings.HasSuffix(e.Name(), ".svg"), e.Name())
	}
	_, err = os.Stat(report)
	require.NoError(t, err)
}

func TestCLI_RootUsesConfiguredInput(t *testing.T) {
	home := isolate(t)
	t.Setenv("SALESCOPE_INPUT", writeSales(t, home))
	t.Setenv("SALESCOPE_CHARTS_DIR", filepath.Join(home, "charts"))

	out := runCmd(t)
	assert.Contains(t, out, "Branch Statistics:")
	assert.True(t, strings.HasSuffix(out, pipeline.SuccessLine+"\n"))
	entries, err := os.ReadDir(filepath.Join(home, "charts"))
	require.NoError(t, err)
	assert.Len(t, entries, 6)
}

func TestCLI_AnalyzeXLSXNoCharts(t *testing.T) {
	home := isolate(t)
	input := writeSales(t, home)
	book := filepath.Join(home, "summary.xlsx")
	t.Setenv("SALESCOPE_CHARTS_DIR", filepath.Join(home, "charts"))

	out := runCmd(t, "analyze", input, "--no-charts", "--xlsx", book)
	assert.Contains(t, out, "✓ Wrote workbook to "+book)
	assert.NotContains(t, out, "charts to")
	_, err := os.Stat(book)
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(home, "charts"))
	assert.True(t, os.IsNotExist(err))
}

func TestCLI_AnalyzeSemicolonDelimiter(t *testing.T) {
	home := isolate(t)
	p := filepath.Join(home, "semi.csv")
	require.NoError(t, os.WriteFile(p, []byte(strings.ReplaceAll(salesCSV, ",", ";")), 0o644))

	out := runCmd(t, "analyze", p, "--no-charts", "--delimiter", ";")
	assert.Contains(t, out, "Q3: Most used payment method: Ewallet")

	_, err := execute(t, "analyze", p, "--no-charts", "--delimiter", "::")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--delimiter")
}

func TestRunAnalysis_UsesGivenConfig(t *testing.T) {
	home := isolate(t)
	oldCfg, oldErr := cfg, cfgErr
	t.Cleanup(func() { cfg, cfgErr = oldCfg, oldErr })
	cfg, cfgErr = nil, errors.New("not loaded")

	c := &cfgpkg.Global{Input: writeSales(t, home), LogLevel: "info", LogFormat: "json"}
	opt, err := pipelineOptions(c)
	require.NoError(t, err)
	opt.NoCharts = true

	var out, errOut bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetContext(context.Background())
	res, err := runAnalysis(cmd, c, opt)
	require.NoError(t, err)
	assert.Equal(t, "Total", res.TotalColumn)
	assert.Contains(t, out.String(), pipeline.SuccessLine)
	assert.True(t, strings.HasPrefix(errOut.String(), "{"), "logs follow the given config's format")
}

func TestCLI_MissingFile(t *testing.T) {
	home := isolate(t)
	out, err := execute(t, "analyze", filepath.Join(home, "missing.csv"), "--no-charts")
	require.Error(t, err)
	var mf *dataset.MissingFileError
	require.ErrorAs(t, err, &mf)
	assert.Empty(t, out)
}

func TestCLI_RejectsBadFlagsAndArgs(t *testing.T) {
	home := isolate(t)
	input := writeSales(t, home)

	_, err := execute(t, "analyze", input, "--chart-format", "gif")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported --chart-format")

	_, err = execute(t, "analyze", input, "--bins", "0")
	require.Error(t, err)

	_, err = execute(t, "unexpected-arg")
	require.Error(t, err)
}

func TestCLI_ConfigSetShow(t *testing.T) {
	home := isolate(t)

	runCmd(t, "config", "set", "chart_bins", "12")
	runCmd(t, "config", "set", "log_format", "json")
	_, err := os.Stat(filepath.Join(home, ".salescope", "config.yaml"))
	require.NoError(t, err)

	out := runCmd(t, "config", "show")
	assert.Contains(t, out, "chart_bins: 12")
	assert.Contains(t, out, "log_format: json")
	assert.Contains(t, out, "input: "+dataset.DefaultInput)

	_, err = execute(t, "config", "set", "chart_format", "gif")
	require.Error(t, err)
	_, err = execute(t, "config", "set", "nope", "1")
	require.Error(t, err)
}
