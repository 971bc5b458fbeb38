package cmd

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/salescope/internal/charts"
	cfgpkg "github.com/KaramelBytes/salescope/internal/config"
	"github.com/KaramelBytes/salescope/internal/dataset"
	"github.com/KaramelBytes/salescope/internal/pipeline"
	"github.com/spf13/cobra"
	"gonum.org/v1/plot/vg"
)

var (
	anaOutputPath  string
	anaXLSXPath    string
	anaChartsDir   string
	anaChartFormat string
	anaBins        int
	anaNoCharts    bool
	anaSheetName   string
	anaDelimiter   string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file]",
	Short: "Analyze a sales CSV/TSV/XLSX, render charts and answer the sales questions",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireConfig()
		if err != nil {
			return err
		}
		opt, err := pipelineOptions(c)
		if err != nil {
			return err
		}
		if len(args) == 1 {
			opt.Input = args[0]
		}
		if anaSheetName != "" {
			opt.Sheet = anaSheetName
		}
		if anaDelimiter != "" {
			d, err := dataset.ParseDelimiter(anaDelimiter)
			if err != nil {
				return fmt.Errorf("--delimiter: %w", err)
			}
			opt.Delimiter = d
		}
		if anaChartsDir != "" {
			opt.Charts.Dir = anaChartsDir
		}
		if anaChartFormat != "" {
			switch f := strings.ToLower(strings.TrimSpace(anaChartFormat)); f {
			case "png", "svg", "pdf":
				opt.Charts.Format = f
			default:
				return fmt.Errorf("unsupported --chart-format: %s (use png|svg|pdf)", anaChartFormat)
			}
		}
		if cmd.Flags().Changed("bins") {
			if anaBins <= 0 {
				return fmt.Errorf("--bins must be positive")
			}
			opt.Charts.Bins = anaBins
		}
		opt.NoCharts = anaNoCharts
		opt.ReportPath = anaOutputPath
		opt.XLSXPath = anaXLSXPath

		res, err := runAnalysis(cmd, c, opt)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if anaOutputPath != "" {
			fmt.Fprintf(out, "✓ Wrote %s report to %s\n", pipeline.ReportFormat(anaOutputPath), anaOutputPath)
		}
		if anaXLSXPath != "" {
			fmt.Fprintf(out, "✓ Wrote workbook to %s\n", anaXLSXPath)
		}
		if len(res.Charts) > 0 {
			fmt.Fprintf(out, "✓ Wrote %d charts to %s\n", len(res.Charts), opt.Charts.Dir)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringVarP(&anaOutputPath, "output", "o", "", "write the report to a file (.md or .json)")
	analyzeCmd.Flags().StringVar(&anaXLSXPath, "xlsx", "", "write aggregates and answers to an Excel workbook")
	analyzeCmd.Flags().StringVar(&anaChartsDir, "charts-dir", "", "directory for chart images (overrides config)")
	analyzeCmd.Flags().StringVar(&anaChartFormat, "chart-format", "", "chart image format: png|svg|pdf (overrides config)")
	analyzeCmd.Flags().IntVar(&anaBins, "bins", 0, "histogram bins for the total distribution (overrides config)")
	analyzeCmd.Flags().BoolVar(&anaNoCharts, "no-charts", false, "skip chart rendering")
	analyzeCmd.Flags().StringVar(&anaSheetName, "sheet", "", "sheet name for .xlsx input (default: first sheet)")
	analyzeCmd.Flags().StringVar(&anaDelimiter, "delimiter", "", "CSV delimiter: ',', 'tab', ';' or '|' (default: by extension)")
}

func pipelineOptions(c *cfgpkg.Global) (pipeline.Options, error) {
	delim, err := dataset.ParseDelimiter(c.Delimiter)
	if err != nil {
		return pipeline.Options{}, err
	}
	return pipeline.Options{
		Input:     c.Input,
		Sheet:     c.Sheet,
		Delimiter: delim,
		Charts: charts.Options{
			Dir:    c.ChartsDir,
			Format: strings.ToLower(c.ChartFormat),
			Bins:   c.ChartBins,
			Width:  vg.Length(c.ChartWidthCm) * vg.Centimeter,
			Height: vg.Length(c.ChartHeightCm) * vg.Centimeter,
		},
	}, nil
}

// runAnalysis expects c to be validated already by requireConfig.
func runAnalysis(cmd *cobra.Command, c *cfgpkg.Global, opt pipeline.Options) (*pipeline.Result, error) {
	return pipeline.Run(cmd.Context(), opt, cmd.OutOrStdout(), newLogger(cmd, c))
}
