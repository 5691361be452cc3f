package pdf

import (
	"math"
	"strings"
)

// Ascent and descent of a glyph box as a fraction of the font size.
// Real font metrics are not available from the extraction backends.
const (
	ascentRatio  = 0.8
	descentRatio = 0.2
)

// lineBreak is emitted by the backends at the end of every TJ array.
// It carries no ink and is never part of a span.
const lineBreak = "\n"

// BuildSpans groups glyphs into spans, keeping content stream order.
// A glyph joins the current span while font, size and baseline match and it
// continues the run horizontally; anything else starts a new span.
func BuildSpans(pageNumber int, chars []CharObject, opts ...SpanExtractionOption) []Span {
	config := defaultSpanConfig()
	for _, opt := range opts {
		opt(config)
	}

	var spans []Span
	var current *spanBuilder

	flush := func() {
		if current != nil && current.text.Len() > 0 {
			spans = append(spans, current.span(pageNumber))
		}
		current = nil
	}

	for _, char := range chars {
		if char.Text == "" {
			continue
		}
		if char.Text == lineBreak {
			flush()
			continue
		}

		if current != nil && !current.accepts(char, config) {
			flush()
		}
		if current == nil {
			current = newSpanBuilder(char)
			continue
		}
		current.add(char)
	}
	flush()

	return spans
}

// spanBuilder accumulates glyphs of one span
type spanBuilder struct {
	font     string
	fontSize float64
	baseline float64
	right    float64
	bbox     BoundingBox
	text     strings.Builder
}

func newSpanBuilder(char CharObject) *spanBuilder {
	b := &spanBuilder{
		font:     char.Font,
		fontSize: char.FontSize,
		baseline: char.Baseline,
		right:    char.X + char.Width,
		bbox:     glyphBox(char),
	}
	b.text.WriteString(char.Text)
	return b
}

// accepts reports whether char continues the span
func (b *spanBuilder) accepts(char CharObject, config *spanExtractionConfig) bool {
	if char.Font != b.font {
		return false
	}
	if math.Abs(char.FontSize-b.fontSize) > 0.01 {
		return false
	}
	if math.Abs(char.Baseline-b.baseline) > config.BaselineTolerance {
		return false
	}

	em := math.Abs(b.fontSize)
	gap := char.X - b.right
	// Kerning, or fonts without widths, may put a glyph slightly back.
	// A larger jump means a new run.
	if gap < -em {
		return false
	}
	return gap <= config.GapFactor*em
}

func (b *spanBuilder) add(char CharObject) {
	b.text.WriteString(char.Text)
	b.bbox = b.bbox.Union(glyphBox(char))
	b.right = char.X + char.Width
}

func (b *spanBuilder) span(pageNumber int) Span {
	return Span{
		Text:     b.text.String(),
		Font:     b.font,
		FontSize: b.fontSize,
		BBox:     b.bbox,
		Page:     pageNumber,
	}
}

// glyphBox approximates the ink box of a glyph from its baseline and size
func glyphBox(char CharObject) BoundingBox {
	size := math.Abs(char.FontSize)
	return BoundingBox{
		X0: char.X,
		Y0: char.Baseline - size*descentRatio,
		X1: char.X + char.Width,
		Y1: char.Baseline + size*ascentRatio,
	}
}

// glyphWidth returns w, or an average advance when the font has no widths
func glyphWidth(w, fontSize float64) float64 {
	if w > 0 {
		return w
	}
	return math.Abs(fontSize) * 0.5
}
