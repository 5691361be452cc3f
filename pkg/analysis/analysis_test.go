package analysis

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/pyhub-apps/pdffont-golang/internal/pdftest"
	"github.com/pyhub-apps/pdffont-golang/pkg/fonts"
	"github.com/pyhub-apps/pdffont-golang/pkg/pdf"
)

// fakePage serves fixed spans
type fakePage struct {
	number int
	spans  []pdf.Span
}

func (p *fakePage) GetPageNumber() int         { return p.number }
func (p *fakePage) GetWidth() float64          { return 595 }
func (p *fakePage) GetHeight() float64         { return 842 }
func (p *fakePage) GetChars() []pdf.CharObject { return nil }
func (p *fakePage) ExtractSpans(...pdf.SpanExtractionOption) []pdf.Span {
	return p.spans
}

type fakeDocument struct {
	pages []pdf.Page
}

func (d *fakeDocument) GetMetadata() pdf.Metadata { return pdf.Metadata{Pages: len(d.pages)} }
func (d *fakeDocument) GetPages() []pdf.Page      { return d.pages }
func (d *fakeDocument) PageCount() int            { return len(d.pages) }
func (d *fakeDocument) Backend() string           { return "fake" }
func (d *fakeDocument) Close() error              { return nil }
func (d *fakeDocument) GetPage(i int) (pdf.Page, error) {
	if i < 0 || i >= len(d.pages) {
		return nil, fmt.Errorf("page index %d out of range", i)
	}
	return d.pages[i], nil
}

func span(page int, font, text string, x float64) pdf.Span {
	return pdf.Span{
		Text:     text,
		Font:     font,
		FontSize: 12,
		BBox:     pdf.BoundingBox{X0: x, Y0: 700, X1: x + 30, Y1: 712},
		Page:     page,
	}
}

func document(pages ...[]pdf.Span) *fakeDocument {
	doc := &fakeDocument{}
	for i, spans := range pages {
		doc.pages = append(doc.pages, &fakePage{number: i + 1, spans: spans})
	}
	return doc
}

func defaultNormalizer(t *testing.T) *fonts.Normalizer {
	t.Helper()
	n, err := fonts.NewNormalizer(fonts.DefaultConfig())
	if err != nil {
		t.Fatalf("Failed to build normalizer: %v", err)
	}
	return n
}

func TestScanMixedDocument(t *testing.T) {
	doc := document([]pdf.Span{
		span(1, "TimesNewRomanPSMT", "Hello", 72),
		span(1, "TimesNewRomanPSMT", "Hello", 110),
		span(1, "TimesNewRomanPSMT", "Hello", 150),
		span(1, "Arial", "World", 190),
	})

	result, err := Scan(context.Background(), doc, defaultNormalizer(t))
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	wantCounts := map[string]int{"Times New Roman": 3, "Arial": 1}
	if diff := cmp.Diff(wantCounts, result.Counts); diff != "" {
		t.Errorf("counts mismatch (-want +got):\n%s", diff)
	}

	wantMarks := []Mark{{
		Page: 1,
		BBox: pdf.BoundingBox{X0: 190, Y0: 700, X1: 220, Y1: 712},
		Font: "Arial",
		Text: "World",
	}}
	if diff := cmp.Diff(wantMarks, result.Marks); diff != "" {
		t.Errorf("marks mismatch (-want +got):\n%s", diff)
	}

	wantSummary := Summary{
		Target: "Times New Roman",
		Total:  4,
		Entries: []Entry{
			{Font: "Times New Roman", Count: 3, Percent: 75, Pages: []int{1}},
			{Font: "Arial", Count: 1, Percent: 25, Pages: []int{1}},
		},
		Conforming: false,
	}
	if diff := cmp.Diff(wantSummary, result.Summary()); diff != "" {
		t.Errorf("summary mismatch (-want +got):\n%s", diff)
	}
}

func TestScanConformingDocument(t *testing.T) {
	doc := document(
		[]pdf.Span{span(1, "TimesNewRomanPSMT", "Title", 72)},
		[]pdf.Span{span(2, "TimesNewRomanPS-BoldMT", "Body", 72)},
	)

	result, err := Scan(context.Background(), doc, defaultNormalizer(t))
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	summary := result.Summary()
	if !summary.Conforming {
		t.Error("Expected a conforming summary")
	}
	if len(result.Marks) != 0 {
		t.Errorf("Expected no marks, got %+v", result.Marks)
	}
	if diff := cmp.Diff([]int{1, 2}, summary.Entries[0].Pages); diff != "" {
		t.Errorf("pages mismatch (-want +got):\n%s", diff)
	}
}

func TestScanEmptyDocument(t *testing.T) {
	for name, doc := range map[string]*fakeDocument{
		"no pages":   document(),
		"blank page": document(nil),
	} {
		t.Run(name, func(t *testing.T) {
			result, err := Scan(context.Background(), doc, defaultNormalizer(t))
			if err != nil {
				t.Fatalf("Scan failed: %v", err)
			}

			summary := result.Summary()
			if summary.Total != 0 || len(summary.Entries) != 0 {
				t.Errorf("Expected an empty summary, got %+v", summary)
			}
			if !summary.Empty() {
				t.Error("Expected Empty to report true")
			}
			if summary.Conforming {
				t.Error("Expected an empty document not to conform")
			}
			if len(summary.Percentages()) != 0 {
				t.Errorf("Expected no percentages, got %v", summary.Percentages())
			}
		})
	}
}

func TestScanWhitespaceSpans(t *testing.T) {
	doc := document([]pdf.Span{
		span(1, "TimesNewRomanPSMT", "Body", 72),
		span(1, "Arial", "   ", 110),
		span(1, "Arial", "  x ", 150),
	})

	result, err := Scan(context.Background(), doc, defaultNormalizer(t))
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	// Whitespace spans are counted but never marked.
	if result.TotalSpans != 3 || result.Counts["Arial"] != 2 {
		t.Errorf("Expected whitespace spans to be counted, got %v", result.Counts)
	}
	if len(result.Marks) != 1 || result.Marks[0].Text != "x" {
		t.Errorf("Expected a single trimmed mark, got %+v", result.Marks)
	}
}

func TestSummaryOrderingAndPercentages(t *testing.T) {
	doc := document(
		[]pdf.Span{
			span(1, "Calibri", "a", 0),
			span(1, "Arial", "b", 0),
			span(1, "Courier", "c", 0),
		},
		[]pdf.Span{
			span(2, "Courier", "d", 0),
			span(2, "Calibri", "e", 0),
			span(2, "Courier", "f", 0),
		},
	)

	result, err := Scan(context.Background(), doc, defaultNormalizer(t))
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	summary := result.Summary()

	var order []string
	sum := 0.0
	for _, e := range summary.Entries {
		order = append(order, e.Font)
		sum += e.Percent
	}
	if diff := cmp.Diff([]string{"Courier", "Calibri", "Arial"}, order); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
	if sum < 99.9 || sum > 100.1 {
		t.Errorf("Expected percentages to add up to 100, got %.2f", sum)
	}

	want := map[string]float64{"Courier": 50, "Calibri": 33.33, "Arial": 16.67}
	if diff := cmp.Diff(want, summary.Percentages()); diff != "" {
		t.Errorf("percentages mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{1, 2}, summary.Entries[0].Pages); diff != "" {
		t.Errorf("pages mismatch (-want +got):\n%s", diff)
	}
}

func TestPercentRoundsHalfToEven(t *testing.T) {
	tests := []struct {
		count, total int
		want         float64
	}{
		{1, 32, 3.12},
		{31, 32, 96.88},
		{3, 32, 9.38},
		{5, 32, 15.62},
		{1, 3, 33.33},
		{2, 3, 66.67},
	}
	for _, tt := range tests {
		if got := percent(tt.count, tt.total); got != tt.want {
			t.Errorf("percent(%d, %d) = %v, want %v", tt.count, tt.total, got, tt.want)
		}
	}
}

func TestScanCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	doc := document([]pdf.Span{span(1, "Arial", "x", 0)})
	if _, err := Scan(ctx, doc, defaultNormalizer(t)); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestScanGeneratedPDF(t *testing.T) {
	data := pdftest.MustBuild(t, pdftest.Page{
		pdftest.Line("Times", "", 12, "Conforming text"),
		pdftest.Line("Helvetica", "B", 12, "Wrong font"),
	})
	doc, err := pdf.OpenBytes(data)
	if err != nil {
		t.Fatalf("Failed to open PDF: %v", err)
	}
	defer doc.Close()

	n, err := fonts.NewNormalizer(fonts.Config{
		Target: "Times New Roman",
		AliasGroups: []fonts.AliasGroup{
			{Canonical: "Times New Roman", Aliases: []string{"times-roman"}},
		},
	})
	if err != nil {
		t.Fatalf("Failed to build normalizer: %v", err)
	}

	result, err := Scan(context.Background(), doc, n)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	want := map[string]int{"Times New Roman": 1, "Helvetica-Bold": 1}
	if diff := cmp.Diff(want, result.Counts); diff != "" {
		t.Errorf("counts mismatch (-want +got):\n%s", diff)
	}
	if len(result.Marks) != 1 || result.Marks[0].Text != "Wrong font" {
		t.Fatalf("Expected one mark for the Helvetica line, got %+v", result.Marks)
	}
	if result.Marks[0].BBox.Width() <= 0 {
		t.Errorf("Expected a non-empty mark box, got %+v", result.Marks[0].BBox)
	}
}
