// Package pdffont reports which fonts a PDF is set in and marks the text
// that is not set in the expected one.
package pdffont

import (
	"context"

	"github.com/pyhub-apps/pdffont-golang/pkg/analysis"
	"github.com/pyhub-apps/pdffont-golang/pkg/checker"
	"github.com/pyhub-apps/pdffont-golang/pkg/pdf"
)

// Re-export types from the sub packages for the public API
type (
	Document             = pdf.Document
	Page                 = pdf.Page
	CharObject           = pdf.CharObject
	Span                 = pdf.Span
	BoundingBox          = pdf.BoundingBox
	SpanExtractionOption = pdf.SpanExtractionOption
	Summary              = analysis.Summary
	Entry                = analysis.Entry
	Mark                 = analysis.Mark
	Result               = checker.Result
)

// Re-export option functions
var (
	WithBaselineTolerance = pdf.WithBaselineTolerance
	WithGapFactor         = pdf.WithGapFactor
)

// ErrNotPDF is returned when no backend can read the input.
var ErrNotPDF = pdf.ErrNotPDF

// Open opens a PDF file with the first backend that can read it
func Open(filepath string) (Document, error) {
	return pdf.Open(filepath)
}

// OpenBytes opens an in-memory PDF
func OpenBytes(data []byte) (Document, error) {
	return pdf.OpenBytes(data)
}

// OpenWithLedongthuc opens a PDF file using the ledongthuc/pdf library
func OpenWithLedongthuc(filepath string) (Document, error) {
	return pdf.OpenWithLedongthuc(filepath)
}

// OpenWithDslipak opens a PDF file using the dslipak/pdf library
func OpenWithDslipak(filepath string) (Document, error) {
	return pdf.OpenWithDslipak(filepath)
}

// OpenWithPDFCPU opens a PDF file using pdfcpu and the built-in content
// stream interpreter
func OpenWithPDFCPU(filepath string) (Document, error) {
	return pdf.OpenWithPDFCPU(filepath)
}

// Analyze computes the font distribution of data against Times New Roman.
func Analyze(ctx context.Context, data []byte) (*Result, error) {
	c, err := checker.New(checker.Config{})
	if err != nil {
		return nil, err
	}
	return c.Analyze(ctx, data)
}

// Check analyzes data against Times New Roman and returns the annotated
// report in Result.Output.
func Check(ctx context.Context, data []byte) (*Result, error) {
	c, err := checker.New(checker.Config{})
	if err != nil {
		return nil, err
	}
	return c.Check(ctx, data)
}
