package chart

import (
	"bytes"
	"errors"
	"image/png"
	"testing"

	"github.com/pyhub-apps/pdffont-golang/pkg/analysis"
)

func TestRender(t *testing.T) {
	summary := analysis.Summary{
		Target: "Times New Roman",
		Total:  4,
		Entries: []analysis.Entry{
			{Font: "Times New Roman", Count: 3, Percent: 75},
			{Font: "Arial", Count: 1, Percent: 25},
		},
	}

	data, err := Render(summary, DefaultOptions())
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Expected a PNG image: %v", err)
	}
	if cfg.Width != 600 || cfg.Height != 400 {
		t.Errorf("Expected 600x400, got %dx%d", cfg.Width, cfg.Height)
	}
}

func TestRenderSingleFont(t *testing.T) {
	summary := analysis.Summary{
		Total:      2,
		Entries:    []analysis.Entry{{Font: "Times New Roman", Count: 2, Percent: 100}},
		Conforming: true,
	}

	data, err := Render(summary, Options{Width: 300, Height: 200})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Expected a PNG image: %v", err)
	}
	if cfg.Width != 300 || cfg.Height != 200 {
		t.Errorf("Expected 300x200, got %dx%d", cfg.Width, cfg.Height)
	}
}

func TestRenderEmpty(t *testing.T) {
	if _, err := Render(analysis.Summary{}, DefaultOptions()); !errors.Is(err, ErrNoData) {
		t.Errorf("Expected ErrNoData, got %v", err)
	}
}

func TestLabel(t *testing.T) {
	got := Label(analysis.Entry{Font: "Arial", Percent: 33.333})
	if got != "Arial 33.33%" {
		t.Errorf("Expected %q, got %q", "Arial 33.33%", got)
	}
}
