package pdf

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/pyhub-apps/pdffont-golang/internal/pdftest"
)

func twoPageFixture(t *testing.T) []byte {
	t.Helper()
	return pdftest.MustBuild(t,
		pdftest.Page{
			pdftest.Line("Times", "", 12, "Hello world"),
			pdftest.Line("Helvetica", "", 12, "Second line"),
		},
		pdftest.Page{
			pdftest.Line("Courier", "", 10, "Page two"),
		},
	)
}

type fontText struct {
	Font string
	Text string
}

func pageSpans(t *testing.T, doc Document, index int) []fontText {
	t.Helper()
	page, err := doc.GetPage(index)
	if err != nil {
		t.Fatalf("Failed to get page: %v", err)
	}
	var out []fontText
	for _, s := range page.ExtractSpans() {
		out = append(out, fontText{Font: s.Font, Text: s.Text})
	}
	return out
}

func TestOpenBytes(t *testing.T) {
	doc, err := OpenBytes(twoPageFixture(t))
	if err != nil {
		t.Fatalf("Failed to open PDF: %v", err)
	}
	defer doc.Close()

	if doc.PageCount() != 2 {
		t.Errorf("Expected 2 pages, got %d", doc.PageCount())
	}
	if doc.Backend() != BackendLedongthuc {
		t.Errorf("Expected backend %s, got %s", BackendLedongthuc, doc.Backend())
	}
	if got := doc.GetMetadata().Title; got != "pdftest fixture" {
		t.Errorf("Expected title from info dictionary, got %q", got)
	}

	want := []fontText{
		{Font: "Times-Roman", Text: "Hello world"},
		{Font: "Helvetica", Text: "Second line"},
	}
	if diff := cmp.Diff(want, pageSpans(t, doc, 0)); diff != "" {
		t.Errorf("page 1 spans mismatch (-want +got):\n%s", diff)
	}

	want = []fontText{{Font: "Courier", Text: "Page two"}}
	if diff := cmp.Diff(want, pageSpans(t, doc, 1)); diff != "" {
		t.Errorf("page 2 spans mismatch (-want +got):\n%s", diff)
	}
}

func TestPageProperties(t *testing.T) {
	doc, err := OpenBytes(twoPageFixture(t))
	if err != nil {
		t.Fatalf("Failed to open PDF: %v", err)
	}
	defer doc.Close()

	page, err := doc.GetPage(1)
	if err != nil {
		t.Fatalf("Failed to get page: %v", err)
	}
	if page.GetPageNumber() != 2 {
		t.Errorf("Expected page number 2, got %d", page.GetPageNumber())
	}

	// A4 is approximately 595 x 842 points
	if w := page.GetWidth(); w < 590 || w > 600 {
		t.Errorf("Unexpected page width: %.2f", w)
	}
	if h := page.GetHeight(); h < 840 || h > 845 {
		t.Errorf("Unexpected page height: %.2f", h)
	}

	for _, s := range page.ExtractSpans() {
		if s.BBox.X0 >= s.BBox.X1 || s.BBox.Y0 >= s.BBox.Y1 {
			t.Errorf("Degenerate bounding box for %q: %+v", s.Text, s.BBox)
		}
		if s.BBox.Y1 > page.GetHeight() || s.BBox.Y0 < 0 {
			t.Errorf("Bounding box for %q outside the page: %+v", s.Text, s.BBox)
		}
	}

	if _, err := doc.GetPage(2); err == nil {
		t.Error("Expected an error for an out of range page index")
	}
}

func TestLedongthucInheritedMediaBox(t *testing.T) {
	doc, err := OpenBytesWithLedongthuc(twoPageFixture(t))
	if err != nil {
		t.Fatalf("Failed to open PDF with ledongthuc: %v", err)
	}
	defer doc.Close()

	if doc.Backend() != BackendLedongthuc {
		t.Errorf("Expected backend %s, got %s", BackendLedongthuc, doc.Backend())
	}

	// gofpdf only sets MediaBox on the Pages root
	for _, page := range doc.GetPages() {
		if w := page.GetWidth(); w < 590 || w > 600 {
			t.Errorf("Page %d: unexpected width %.2f", page.GetPageNumber(), w)
		}
		if h := page.GetHeight(); h < 840 || h > 845 {
			t.Errorf("Page %d: unexpected height %.2f", page.GetPageNumber(), h)
		}
	}
}

func TestOpenBytesWithDslipak(t *testing.T) {
	doc, err := OpenBytesWithDslipak(twoPageFixture(t))
	if err != nil {
		t.Fatalf("Failed to open PDF with dslipak: %v", err)
	}
	defer doc.Close()

	if doc.PageCount() != 2 {
		t.Errorf("Expected 2 pages, got %d", doc.PageCount())
	}
	if doc.Backend() != BackendDslipak {
		t.Errorf("Expected backend %s, got %s", BackendDslipak, doc.Backend())
	}

	spans := pageSpans(t, doc, 1)
	if len(spans) == 0 || spans[0].Font != "Courier" {
		t.Errorf("Expected Courier text on page 2, got %+v", spans)
	}
}

func TestOpenBytesWithPDFCPU(t *testing.T) {
	doc, err := OpenBytesWithPDFCPU(twoPageFixture(t))
	if err != nil {
		t.Fatalf("Failed to open PDF with pdfcpu: %v", err)
	}
	defer doc.Close()

	if doc.PageCount() != 2 {
		t.Errorf("Expected 2 pages, got %d", doc.PageCount())
	}
	if doc.Backend() != BackendPDFCPU {
		t.Errorf("Expected backend %s, got %s", BackendPDFCPU, doc.Backend())
	}
	if got := doc.GetMetadata().Title; got != "pdftest fixture" {
		t.Errorf("Expected title from info dictionary, got %q", got)
	}

	want := []fontText{
		{Font: "Times-Roman", Text: "Hello world"},
		{Font: "Helvetica", Text: "Second line"},
	}
	if diff := cmp.Diff(want, pageSpans(t, doc, 0)); diff != "" {
		t.Errorf("page 1 spans mismatch (-want +got):\n%s", diff)
	}

	page, _ := doc.GetPage(1)
	if w := page.GetWidth(); w < 590 || w > 600 {
		t.Errorf("Unexpected page width: %.2f", w)
	}
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fixture.pdf")
	if err := os.WriteFile(path, twoPageFixture(t), 0o600); err != nil {
		t.Fatal(err)
	}

	doc, err := Open(path)
	if err != nil {
		t.Fatalf("Failed to open PDF: %v", err)
	}
	defer doc.Close()

	if len(doc.GetPages()) != 2 {
		t.Errorf("Expected 2 pages, got %d", len(doc.GetPages()))
	}

	if _, err := Open(filepath.Join(t.TempDir(), "missing.pdf")); err == nil {
		t.Error("Expected an error for a missing file")
	}
}

func TestOpenBytesRejectsNonPDF(t *testing.T) {
	inputs := map[string][]byte{
		"empty":     nil,
		"text":      []byte("this is not a pdf"),
		"truncated": []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog"),
	}

	for name, data := range inputs {
		t.Run(name, func(t *testing.T) {
			_, err := OpenBytes(data)
			if !errors.Is(err, ErrNotPDF) {
				t.Errorf("Expected ErrNotPDF, got %v", err)
			}
		})
	}
}

func TestInspect(t *testing.T) {
	info, err := Inspect(twoPageFixture(t))
	if err != nil {
		t.Fatalf("Failed to inspect PDF: %v", err)
	}
	if info.Pages != 2 {
		t.Errorf("Expected 2 pages, got %d", info.Pages)
	}
	if info.Encrypted {
		t.Error("Expected an unencrypted document")
	}
	if info.Version == "" {
		t.Error("Expected a header version")
	}

	if _, err := Inspect([]byte("not a pdf")); !errors.Is(err, ErrNotPDF) {
		t.Errorf("Expected ErrNotPDF, got %v", err)
	}
}
