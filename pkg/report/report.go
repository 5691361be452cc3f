// Package report renders the cover and summary pages prepended to an
// annotated document.
package report

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/pyhub-apps/pdffont-golang/pkg/analysis"
)

// TargetPlaceholder is replaced by the target font name in the messages
const TargetPlaceholder = "{target}"

const chartImageName = "font-distribution"

// Options holds the texts of the generated pages
type Options struct {
	Title          string `yaml:"title"`
	Byline         string `yaml:"byline"`
	Description    string `yaml:"description"`
	Heading        string `yaml:"heading"`
	CountUnit      string `yaml:"count_unit"`
	SuccessMessage string `yaml:"success_message"`
	WarningMessage string `yaml:"warning_message"`

	// CreationDate is stamped into the document; zero means now
	CreationDate time.Time `yaml:"-"`
}

// DefaultOptions returns the Indonesian texts of the CHECK FONT APP report
func DefaultOptions() Options {
	return Options{
		Title:  "CHECK FONT APP",
		Byline: "by Mugi",
		Description: "Aplikasi otomatis untuk mendeteksi dan menandai font dalam dokumen.\n" +
			"Hasil analisis disajikan dengan ringkasan, grafik distribusi, dan highlight teks.",
		Heading:        "Ringkasan Analisis Font",
		CountUnit:      "teks",
		SuccessMessage: "Semua teks sudah menggunakan " + TargetPlaceholder,
		WarningMessage: "Dokumen masih mengandung font selain " + TargetPlaceholder,
	}
}

// withDefaults fills empty fields from DefaultOptions
func (o Options) withDefaults() Options {
	d := DefaultOptions()
	fill := func(v *string, def string) {
		if strings.TrimSpace(*v) == "" {
			*v = def
		}
	}
	fill(&o.Title, d.Title)
	fill(&o.Byline, d.Byline)
	fill(&o.Description, d.Description)
	fill(&o.Heading, d.Heading)
	fill(&o.CountUnit, d.CountUnit)
	fill(&o.SuccessMessage, d.SuccessMessage)
	fill(&o.WarningMessage, d.WarningMessage)
	return o
}

// SummaryLines returns one line per font, "- <font>: <n> <unit> (<p>%)"
func SummaryLines(summary analysis.Summary, opts Options) []string {
	opts = opts.withDefaults()
	lines := make([]string, 0, len(summary.Entries))
	for _, e := range summary.Entries {
		lines = append(lines, fmt.Sprintf("- %s: %d %s (%.2f%%)", e.Font, e.Count, opts.CountUnit, e.Percent))
	}
	return lines
}

// Verdict returns the success message for a conforming summary and the
// warning message otherwise
func Verdict(summary analysis.Summary, opts Options) string {
	opts = opts.withDefaults()
	msg := opts.WarningMessage
	if summary.Conforming {
		msg = opts.SuccessMessage
	}
	return strings.ReplaceAll(msg, TargetPlaceholder, summary.Target)
}

// Build renders the cover page and the summary page. chartPNG may be nil,
// in which case the summary page carries text only.
func Build(summary analysis.Summary, chartPNG []byte, opts Options) ([]byte, error) {
	opts = opts.withDefaults()

	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetCatalogSort(true)
	created := opts.CreationDate
	if created.IsZero() {
		created = time.Now()
	}
	pdf.SetCreationDate(created)
	pdf.SetTitle(opts.Title, true)
	pdf.SetAutoPageBreak(true, 50)

	tr := pdf.UnicodeTranslatorFromDescriptor("")

	drawCover(pdf, tr, opts)
	drawSummary(pdf, tr, summary, chartPNG, opts)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render report pages: %w", err)
	}
	return buf.Bytes(), nil
}

func drawCover(pdf *gofpdf.Fpdf, tr func(string) string, opts Options) {
	pdf.AddPage()
	width, height := pdf.GetPageSize()

	pdf.SetFont("Helvetica", "", 30)
	pdf.SetTextColor(0, 0, 255)
	pdf.SetXY(0, 100)
	pdf.CellFormat(width, 40, tr(opts.Title), "", 0, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 18)
	pdf.SetTextColor(51, 51, 51)
	pdf.SetXY(0, 160)
	pdf.CellFormat(width, 24, tr(opts.Byline), "", 0, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 14)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(100, 300)
	pdf.MultiCell(width-200, 20, tr(opts.Description), "", "C", false)

	pdf.SetFillColor(51, 128, 230)
	pdf.Rect(50, height-150, width-100, 50, "F")
}

func drawSummary(pdf *gofpdf.Fpdf, tr func(string) string, summary analysis.Summary, chartPNG []byte, opts Options) {
	pdf.AddPage()
	width, height := pdf.GetPageSize()

	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(50, 50)
	pdf.CellFormat(width-100, 20, tr(opts.Heading), "", 1, "L", false, 0, "")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 12)
	for _, line := range SummaryLines(summary, opts) {
		pdf.SetX(50)
		pdf.CellFormat(width-100, 16, tr(line), "", 1, "L", false, 0, "")
	}
	pdf.Ln(12)
	pdf.SetX(50)
	pdf.MultiCell(width-100, 16, tr(Verdict(summary, opts)), "", "L", false)

	if len(chartPNG) == 0 {
		return
	}

	const chartWidth, chartHeight = 450.0, 300.0
	y := pdf.GetY() + 20
	if y < 200 {
		y = 200
	}
	if y+chartHeight > height-50 {
		pdf.AddPage()
		y = 50
	}

	opt := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader(chartImageName, opt, bytes.NewReader(chartPNG))
	pdf.ImageOptions(chartImageName, 50, y, chartWidth, chartHeight, false, opt, 0, "")
}
