// Package checker runs the font check pipeline on an uploaded document:
// one extraction walk, the distribution summary and chart, and optionally
// the annotated report.
//
// Usage:
//
//	c, err := checker.New(checker.Config{})
//	res, err := c.Check(ctx, data)
//	os.WriteFile("Hasil_Cek_Font.pdf", res.Output, 0o644)
package checker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/pyhub-apps/pdffont-golang/pkg/analysis"
	"github.com/pyhub-apps/pdffont-golang/pkg/annotate"
	"github.com/pyhub-apps/pdffont-golang/pkg/chart"
	"github.com/pyhub-apps/pdffont-golang/pkg/pdf"
	"github.com/pyhub-apps/pdffont-golang/pkg/report"
)

// ErrEmptyInput is returned when the uploaded document has no bytes.
var ErrEmptyInput = errors.New("checker: empty input")

// Checker is safe for concurrent use; every call works on its own copy of
// the document.
type Checker struct {
	cfg    Config
	logger *slog.Logger
}

// Result carries everything a front-end needs to present a check.
type Result struct {
	Summary analysis.Summary
	Marks   []analysis.Mark
	Chart   []byte // PNG; nil when the document has no text
	Output  []byte // cover, summary and annotated pages; Check only
	Pages   int
	Backend string
}

// New creates a Checker with the given configuration.
func New(cfg Config) (*Checker, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("checker config: %w", err)
	}
	return &Checker{cfg: cfg, logger: cfg.Logger}, nil
}

// Target returns the canonical name of the expected font.
func (c *Checker) Target() string {
	return c.cfg.Normalizer.Target()
}

// Analyze scans the document and renders the distribution chart.
// No output document is produced.
func (c *Checker) Analyze(ctx context.Context, data []byte) (*Result, error) {
	start := time.Now()
	res, err := c.analyze(ctx, data)
	if err != nil {
		return nil, err
	}
	c.log(ctx, "font analysis", res, start)
	return res, nil
}

// Check analyzes the document, then builds the output: cover and summary
// pages followed by the original pages with every mark annotated.
func (c *Checker) Check(ctx context.Context, data []byte) (*Result, error) {
	start := time.Now()

	res, err := c.analyze(ctx, data)
	if err != nil {
		return nil, err
	}

	// Annotation needs pdfcpu to accept the file as well.
	info, err := pdf.Inspect(data)
	if err != nil {
		return nil, err
	}
	c.logger.DebugContext(ctx, "checker: inspected", "version", info.Version, "pages", info.Pages, "encrypted", info.Encrypted)

	front, err := report.Build(res.Summary, res.Chart, c.cfg.Report)
	if err != nil {
		return nil, fmt.Errorf("failed to build report pages: %w", err)
	}

	annotated, err := annotate.Apply(data, res.Marks, c.cfg.Style, nil)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res.Output, err = annotate.Merge([][]byte{front, annotated}, nil)
	if err != nil {
		return nil, err
	}

	c.log(ctx, "font check", res, start)
	return res, nil
}

func (c *Checker) analyze(ctx context.Context, data []byte) (*Result, error) {
	if len(data) == 0 {
		return nil, ErrEmptyInput
	}

	doc, err := pdf.OpenBytes(data)
	if err != nil {
		return nil, err
	}
	defer doc.Close()

	scan, err := analysis.Scan(ctx, doc, c.cfg.Normalizer, c.cfg.SpanOptions...)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Summary: scan.Summary(),
		Marks:   scan.Marks,
		Pages:   scan.Pages,
		Backend: doc.Backend(),
	}

	res.Chart, err = chart.Render(res.Summary, c.cfg.Chart)
	switch {
	case errors.Is(err, chart.ErrNoData):
		res.Chart = nil
	case err != nil:
		return nil, fmt.Errorf("failed to render chart: %w", err)
	}

	return res, nil
}

func (c *Checker) log(ctx context.Context, msg string, res *Result, start time.Time) {
	c.logger.InfoContext(ctx, msg,
		"pages", res.Pages,
		"spans", res.Summary.Total,
		"fonts", len(res.Summary.Entries),
		"marks", len(res.Marks),
		"conforming", res.Summary.Conforming,
		"backend", res.Backend,
		"duration", time.Since(start),
	)
}
