package pdf

import (
	"errors"
	"math"
)

// ErrNotPDF is returned when none of the extraction backends can parse the input
var ErrNotPDF = errors.New("input is not a readable PDF document")

// BoundingBox represents a rectangular area in PDF default user space.
// The origin is the bottom-left corner of the page and Y grows upwards.
type BoundingBox struct {
	X0 float64 `json:"x0"` // Left
	Y0 float64 `json:"y0"` // Bottom
	X1 float64 `json:"x1"` // Right
	Y1 float64 `json:"y1"` // Top
}

// Width returns the width of the bounding box
func (b BoundingBox) Width() float64 {
	return b.X1 - b.X0
}

// Height returns the height of the bounding box
func (b BoundingBox) Height() float64 {
	return b.Y1 - b.Y0
}

// Union returns the smallest bounding box containing both boxes
func (b BoundingBox) Union(other BoundingBox) BoundingBox {
	return BoundingBox{
		X0: math.Min(b.X0, other.X0),
		Y0: math.Min(b.Y0, other.Y0),
		X1: math.Max(b.X1, other.X1),
		Y1: math.Max(b.Y1, other.Y1),
	}
}

// Metadata represents PDF document metadata
type Metadata struct {
	Title    string
	Author   string
	Producer string
	Pages    int
}

// CharObject represents a single glyph drawn on a page
type CharObject struct {
	Text     string
	Font     string
	FontSize float64
	X        float64 // pen position, left edge
	Baseline float64
	Width    float64
}

// Span represents a run of glyphs sharing font, size and baseline.
// It is the smallest unit of styled text the extractor reports.
type Span struct {
	Text     string
	Font     string
	FontSize float64
	BBox     BoundingBox
	Page     int // 1-based
}

// SpanExtractionOption is a function that modifies span building behavior
type SpanExtractionOption func(*spanExtractionConfig)

type spanExtractionConfig struct {
	BaselineTolerance float64 // max vertical drift, in points
	GapFactor         float64 // max horizontal gap, as a multiple of the font size
}

func defaultSpanConfig() *spanExtractionConfig {
	return &spanExtractionConfig{
		BaselineTolerance: 1.0,
		GapFactor:         1.0,
	}
}

// WithBaselineTolerance sets the vertical tolerance for keeping glyphs in one span
func WithBaselineTolerance(tolerance float64) SpanExtractionOption {
	return func(c *spanExtractionConfig) {
		c.BaselineTolerance = tolerance
	}
}

// WithGapFactor sets the largest horizontal gap, in ems, still bridged inside a span
func WithGapFactor(factor float64) SpanExtractionOption {
	return func(c *spanExtractionConfig) {
		c.GapFactor = factor
	}
}
