// Package pdftest generates small PDF documents for tests.
//
// Documents are written with gofpdf core fonts, so the BaseFont names seen by
// the extractors are Times-Roman, Times-Bold, Helvetica, Courier and so on.
package pdftest

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/jung-kurt/gofpdf"
)

const (
	margin      = 72.0
	lineSpacing = 1.6
)

// Run is one piece of text drawn with a single font
type Run struct {
	Family string // Times, Helvetica, Arial or Courier
	Style  string // "", "B", "I" or "BI"
	Size   float64
	Text   string
	X, Y   float64 // baseline position, top-left origin; zero means next line
}

// Page lists the runs drawn on one page
type Page []Run

// Build renders the pages into an A4 PDF. A call without pages still
// produces a single blank page.
func Build(pages ...Page) ([]byte, error) {
	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetTitle("pdftest fixture", false)
	pdf.SetAutoPageBreak(false, 0)

	for _, page := range pages {
		pdf.AddPage()
		y := margin
		for _, run := range page {
			size := run.Size
			if size == 0 {
				size = 12
			}
			pdf.SetFont(run.Family, run.Style, size)

			x := run.X
			if x == 0 {
				x = margin
			}
			if run.Y != 0 {
				y = run.Y
			}
			pdf.Text(x, y, run.Text)
			y += size * lineSpacing
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render fixture: %w", err)
	}
	return buf.Bytes(), nil
}

// MustBuild is Build for tests
func MustBuild(tb testing.TB, pages ...Page) []byte {
	tb.Helper()
	data, err := Build(pages...)
	if err != nil {
		tb.Fatal(err)
	}
	return data
}

// Line is shorthand for a run on the next line
func Line(family, style string, size float64, text string) Run {
	return Run{Family: family, Style: style, Size: size, Text: text}
}
