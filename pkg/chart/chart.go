// Package chart draws the font distribution of a document as a bar chart.
package chart

import (
	"bytes"
	"errors"
	"fmt"
	"sync"

	"github.com/golang/freetype/truetype"
	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/pyhub-apps/pdffont-golang/pkg/analysis"
)

// ErrNoData is returned for a summary without fonts; there is nothing to draw
var ErrNoData = errors.New("chart: summary has no fonts")

// Options controls the chart appearance
type Options struct {
	Title    string
	Width    int    // pixels
	Height   int    // pixels
	BarColor string // hex, without the leading #
	Font     *truetype.Font
}

// DefaultOptions returns a 600x400 sky blue chart
func DefaultOptions() Options {
	return Options{
		Title:    "Distribusi Font dalam Dokumen (%)",
		Width:    600,
		Height:   400,
		BarColor: "87CEEB",
	}
}

var loadFont = sync.OnceValues(func() (*truetype.Font, error) {
	return truetype.Parse(goregular.TTF)
})

// Render draws one bar per font, bar height being its percentage, and
// returns the PNG bytes. Labels carry the percentage with two decimals.
func Render(summary analysis.Summary, opts Options) ([]byte, error) {
	if len(summary.Entries) == 0 {
		return nil, ErrNoData
	}

	defaults := DefaultOptions()
	if opts.Width <= 0 {
		opts.Width = defaults.Width
	}
	if opts.Height <= 0 {
		opts.Height = defaults.Height
	}
	if opts.BarColor == "" {
		opts.BarColor = defaults.BarColor
	}
	if opts.Font == nil {
		font, err := loadFont()
		if err != nil {
			return nil, fmt.Errorf("failed to parse chart font: %w", err)
		}
		opts.Font = font
	}

	barStyle := gochart.Style{
		FillColor:   drawing.ColorFromHex(opts.BarColor),
		StrokeColor: drawing.ColorFromHex(opts.BarColor),
		StrokeWidth: 1,
	}

	bars := make([]gochart.Value, 0, len(summary.Entries))
	for _, e := range summary.Entries {
		bars = append(bars, gochart.Value{
			Label: Label(e),
			Value: e.Percent,
			Style: barStyle,
		})
	}

	graph := gochart.BarChart{
		Title:  opts.Title,
		Width:  opts.Width,
		Height: opts.Height,
		Font:   opts.Font,
		Background: gochart.Style{
			Padding: gochart.Box{Top: 40, Bottom: 20, Left: 10, Right: 10},
		},
		XAxis: gochart.Style{
			TextRotationDegrees: 45,
			FontSize:            8,
		},
		YAxis: gochart.YAxis{
			Range: &gochart.ContinuousRange{Min: 0, Max: 100},
		},
		BarWidth: barWidth(opts.Width, len(bars)),
		Bars:     bars,
	}

	var buf bytes.Buffer
	if err := graph.Render(gochart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("failed to render chart: %w", err)
	}
	return buf.Bytes(), nil
}

// Label is the x axis label of a font bar
func Label(e analysis.Entry) string {
	return fmt.Sprintf("%s %.2f%%", e.Font, e.Percent)
}

func barWidth(width, bars int) int {
	w := (width - 100) / (bars * 2)
	if w > 60 {
		return 60
	}
	if w < 8 {
		return 8
	}
	return w
}
