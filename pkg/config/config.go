package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/pyhub-apps/pdffont-golang/pkg/chart"
	"github.com/pyhub-apps/pdffont-golang/pkg/fonts"
	"github.com/pyhub-apps/pdffont-golang/pkg/report"
)

// Config holds the full pdffont configuration.
type Config struct {
	Listen      string         `yaml:"listen"`
	MaxUploadMB int            `yaml:"max_upload_mb"`
	LogLevel    string         `yaml:"log_level"` // debug | info | warn | error
	OutputName  string         `yaml:"output_name"`
	Fonts       fonts.Config   `yaml:"fonts"`
	Report      report.Options `yaml:"report"`
	Chart       ChartConfig    `yaml:"chart"`
}

// ChartConfig configures the distribution chart.
type ChartConfig struct {
	Title    string `yaml:"title"`
	Width    int    `yaml:"width"`
	Height   int    `yaml:"height"`
	BarColor string `yaml:"bar_color"`
}

// DefaultConfig returns sane defaults.
func DefaultConfig() *Config {
	chartDefaults := chart.DefaultOptions()
	return &Config{
		Listen:      ":8080",
		MaxUploadMB: 50,
		LogLevel:    "info",
		OutputName:  "Hasil_Cek_Font.pdf",
		Fonts:       fonts.DefaultConfig(),
		Report:      report.DefaultOptions(),
		Chart: ChartConfig{
			Title:    chartDefaults.Title,
			Width:    chartDefaults.Width,
			Height:   chartDefaults.Height,
			BarColor: chartDefaults.BarColor,
		},
	}
}

// LoadConfig reads and parses a YAML config file. Returns DefaultConfig merged with the file.
// A fonts.alias_groups list in the file replaces the default groups.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Validate checks that required fields are present and values are sane.
func (c *Config) Validate() error {
	if c.Listen == "" {
		return fmt.Errorf("listen is required")
	}
	if c.MaxUploadMB <= 0 {
		return fmt.Errorf("max_upload_mb must be > 0")
	}
	switch strings.ToLower(c.LogLevel) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unsupported log_level %q (use debug, info, warn or error)", c.LogLevel)
	}
	if !strings.HasSuffix(strings.ToLower(c.OutputName), ".pdf") {
		return fmt.Errorf("output_name must end in .pdf, got %q", c.OutputName)
	}
	if c.Chart.Width < 0 || c.Chart.Height < 0 {
		return fmt.Errorf("chart width and height must be >= 0")
	}
	if _, err := fonts.NewNormalizer(c.Fonts); err != nil {
		return fmt.Errorf("fonts: %w", err)
	}
	return nil
}

// MaxUploadBytes returns the upload limit in bytes.
func (c *Config) MaxUploadBytes() int64 { return int64(c.MaxUploadMB) * 1024 * 1024 }

// SlogLevel maps log_level onto a slog level, info when unset.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ChartOptions returns the chart settings as render options.
func (c *Config) ChartOptions() chart.Options {
	return chart.Options{
		Title:    c.Chart.Title,
		Width:    c.Chart.Width,
		Height:   c.Chart.Height,
		BarColor: strings.TrimPrefix(c.Chart.BarColor, "#"),
	}
}

// Normalizer builds the font normalizer described by the fonts section.
func (c *Config) Normalizer() (*fonts.Normalizer, error) {
	return fonts.NewNormalizer(c.Fonts)
}
