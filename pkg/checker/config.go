package checker

import (
	"log/slog"

	"github.com/pyhub-apps/pdffont-golang/pkg/annotate"
	"github.com/pyhub-apps/pdffont-golang/pkg/chart"
	"github.com/pyhub-apps/pdffont-golang/pkg/fonts"
	"github.com/pyhub-apps/pdffont-golang/pkg/pdf"
	"github.com/pyhub-apps/pdffont-golang/pkg/report"
)

// Config configures a Checker.
type Config struct {
	// Normalizer folds raw font names; the Times New Roman default when nil.
	Normalizer *fonts.Normalizer

	Report report.Options
	Chart  chart.Options
	Style  annotate.Style

	// SpanOptions tune how glyphs are grouped into spans.
	SpanOptions []pdf.SpanExtractionOption

	Logger *slog.Logger
}

func (c *Config) defaults() error {
	if c.Normalizer == nil {
		n, err := fonts.NewNormalizer(fonts.DefaultConfig())
		if err != nil {
			return err
		}
		c.Normalizer = n
	}
	if c.Style == (annotate.Style{}) {
		c.Style = annotate.DefaultStyle()
	}
	if c.Chart.Title == "" {
		c.Chart.Title = chart.DefaultOptions().Title
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	return nil
}
