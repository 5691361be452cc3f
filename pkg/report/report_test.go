package report

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/pyhub-apps/pdffont-golang/pkg/analysis"
	"github.com/pyhub-apps/pdffont-golang/pkg/chart"
	"github.com/pyhub-apps/pdffont-golang/pkg/pdf"
)

var mixed = analysis.Summary{
	Target: "Times New Roman",
	Total:  4,
	Entries: []analysis.Entry{
		{Font: "Times New Roman", Count: 3, Percent: 75, Pages: []int{1}},
		{Font: "Arial", Count: 1, Percent: 25, Pages: []int{1}},
	},
}

func texts(t *testing.T, doc pdf.Document, index int) map[string]bool {
	t.Helper()
	page, err := doc.GetPage(index)
	if err != nil {
		t.Fatalf("Failed to get page: %v", err)
	}
	out := make(map[string]bool)
	for _, s := range page.ExtractSpans() {
		out[s.Text] = true
	}
	return out
}

func TestSummaryLines(t *testing.T) {
	want := []string{
		"- Times New Roman: 3 teks (75.00%)",
		"- Arial: 1 teks (25.00%)",
	}
	if diff := cmp.Diff(want, SummaryLines(mixed, DefaultOptions())); diff != "" {
		t.Errorf("lines mismatch (-want +got):\n%s", diff)
	}

	if got := SummaryLines(analysis.Summary{}, DefaultOptions()); len(got) != 0 {
		t.Errorf("Expected no lines for an empty summary, got %v", got)
	}
}

func TestVerdict(t *testing.T) {
	if got := Verdict(mixed, DefaultOptions()); got != "Dokumen masih mengandung font selain Times New Roman" {
		t.Errorf("Unexpected warning: %q", got)
	}

	conforming := analysis.Summary{
		Target:     "Times New Roman",
		Total:      1,
		Entries:    []analysis.Entry{{Font: "Times New Roman", Count: 1, Percent: 100}},
		Conforming: true,
	}
	if got := Verdict(conforming, DefaultOptions()); got != "Semua teks sudah menggunakan Times New Roman" {
		t.Errorf("Unexpected success message: %q", got)
	}

	custom := Options{WarningMessage: "Not only {target} here"}
	if got := Verdict(mixed, custom); got != "Not only Times New Roman here" {
		t.Errorf("Unexpected custom warning: %q", got)
	}
}

func TestBuild(t *testing.T) {
	png, err := chart.Render(mixed, chart.DefaultOptions())
	if err != nil {
		t.Fatalf("Failed to render chart: %v", err)
	}

	opts := DefaultOptions()
	opts.CreationDate = time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	data, err := Build(mixed, png, opts)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	doc, err := pdf.OpenBytes(data)
	if err != nil {
		t.Fatalf("Failed to open report: %v", err)
	}
	defer doc.Close()

	if doc.PageCount() != 2 {
		t.Fatalf("Expected cover and summary pages, got %d pages", doc.PageCount())
	}

	cover := texts(t, doc, 0)
	for _, want := range []string{"CHECK FONT APP", "by Mugi"} {
		if !cover[want] {
			t.Errorf("Expected %q on the cover, got %v", want, cover)
		}
	}

	summary := texts(t, doc, 1)
	for _, want := range []string{
		"Ringkasan Analisis Font",
		"- Times New Roman: 3 teks (75.00%)",
		"- Arial: 1 teks (25.00%)",
		"Dokumen masih mengandung font selain Times New Roman",
	} {
		if !summary[want] {
			t.Errorf("Expected %q on the summary page, got %v", want, summary)
		}
	}
}

func TestBuildWithoutChart(t *testing.T) {
	data, err := Build(analysis.Summary{Target: "Times New Roman"}, nil, Options{})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	info, err := pdf.Inspect(data)
	if err != nil {
		t.Fatalf("Failed to inspect report: %v", err)
	}
	if info.Pages != 2 {
		t.Errorf("Expected 2 pages, got %d", info.Pages)
	}
}

func TestBuildRejectsBrokenChart(t *testing.T) {
	if _, err := Build(mixed, []byte("not a png"), DefaultOptions()); err == nil {
		t.Error("Expected an error for an unreadable chart image")
	}
}
