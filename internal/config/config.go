package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/salescope/internal/dataset"
	"github.com/KaramelBytes/salescope/internal/utils"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	Input         string  `mapstructure:"input" yaml:"input"`
	Sheet         string  `mapstructure:"sheet" yaml:"sheet"`
	Delimiter     string  `mapstructure:"delimiter" yaml:"delimiter"`
	ChartsDir     string  `mapstructure:"charts_dir" yaml:"charts_dir"`
	ChartFormat   string  `mapstructure:"chart_format" yaml:"chart_format"`
	ChartBins     int     `mapstructure:"chart_bins" yaml:"chart_bins"`
	ChartWidthCm  float64 `mapstructure:"chart_width_cm" yaml:"chart_width_cm"`
	ChartHeightCm float64 `mapstructure:"chart_height_cm" yaml:"chart_height_cm"`
	LogLevel      string  `mapstructure:"log_level" yaml:"log_level"`
	LogFormat     string  `mapstructure:"log_format" yaml:"log_format"`
}

// Keys lists the settable configuration keys in display order.
var Keys = []string{
	"input", "sheet", "delimiter", "charts_dir", "chart_format", "chart_bins",
	"chart_width_cm", "chart_height_cm", "log_level", "log_format",
}

// Dir returns ~/.salescope.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".salescope"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.salescope/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		dir, err := Dir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: env > config file > defaults. Flags are applied by the caller.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("SALESCOPE")
	v.AutomaticEnv()

	v.SetDefault("input", "SuperMarket Analysis.csv")
	v.SetDefault("sheet", "")
	v.SetDefault("delimiter", "")
	v.SetDefault("charts_dir", "charts")
	v.SetDefault("chart_format", "png")
	v.SetDefault("chart_bins", 30)
	v.SetDefault("chart_width_cm", 16.0)
	v.SetDefault("chart_height_cm", 12.0)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", cfgFile, err)
		}
	} else {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		// optional file; a present but unreadable one is an error
		if path := filepath.Join(dir, "config.yaml"); utils.FileExists(path) {
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
		}
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks enumerated and numeric settings.
func (c *Global) Validate() error {
	switch strings.ToLower(c.ChartFormat) {
	case "png", "svg", "pdf":
	default:
		return fmt.Errorf("invalid chart_format: %s (use png, svg or pdf)", c.ChartFormat)
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log_format: %s (use text or json)", c.LogFormat)
	}
	if _, err := dataset.ParseDelimiter(c.Delimiter); err != nil {
		return err
	}
	if c.ChartBins <= 0 {
		return fmt.Errorf("invalid chart_bins: %d (must be positive)", c.ChartBins)
	}
	if c.ChartWidthCm <= 0 || c.ChartHeightCm <= 0 {
		return fmt.Errorf("invalid chart size: %gx%g cm", c.ChartWidthCm, c.ChartHeightCm)
	}
	return nil
}
