package pdf

import (
	"bytes"
	"fmt"
	"os"

	gopdf "github.com/dslipak/pdf"
)

// BackendDslipak names the dslipak/pdf backend
const BackendDslipak = "dslipak"

// DsliPakDocument implements the Document interface using dslipak/pdf library
type DsliPakDocument struct {
	reader   *gopdf.Reader
	pages    []Page
	metadata Metadata
}

// OpenWithDslipak opens a PDF file using the dslipak/pdf library
func OpenWithDslipak(filepath string) (Document, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return OpenBytesWithDslipak(data)
}

// OpenBytesWithDslipak parses an in-memory PDF using the dslipak/pdf library
func OpenBytesWithDslipak(data []byte) (doc Document, err error) {
	defer recoverBackend(BackendDslipak, &err)

	r, err := gopdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF with dslipak: %w", err)
	}

	d := &DsliPakDocument{reader: r}
	d.extractMetadata()

	if err := d.initializePages(); err != nil {
		return nil, fmt.Errorf("failed to initialize pages: %w", err)
	}

	return d, nil
}

func (d *DsliPakDocument) extractMetadata() {
	info := d.reader.Trailer().Key("Info")
	d.metadata = Metadata{
		Title:    info.Key("Title").Text(),
		Author:   info.Key("Author").Text(),
		Producer: info.Key("Producer").Text(),
		Pages:    d.reader.NumPage(),
	}
}

func (d *DsliPakDocument) initializePages() error {
	pageCount := d.reader.NumPage()
	d.pages = make([]Page, pageCount)

	for i := 1; i <= pageCount; i++ {
		page, err := newDsliPakPage(d.reader, i)
		if err != nil {
			return fmt.Errorf("failed to initialize page %d: %w", i, err)
		}
		d.pages[i-1] = page
	}

	return nil
}

// GetMetadata returns the PDF metadata
func (d *DsliPakDocument) GetMetadata() Metadata {
	return d.metadata
}

// GetPages returns all pages in the document
func (d *DsliPakDocument) GetPages() []Page {
	return d.pages
}

// GetPage returns a specific page by index (0-based)
func (d *DsliPakDocument) GetPage(index int) (Page, error) {
	if index < 0 || index >= len(d.pages) {
		return nil, fmt.Errorf("page index %d out of range [0, %d)", index, len(d.pages))
	}
	return d.pages[index], nil
}

// PageCount returns the total number of pages
func (d *DsliPakDocument) PageCount() int {
	return len(d.pages)
}

// Backend returns BackendDslipak
func (d *DsliPakDocument) Backend() string {
	return BackendDslipak
}

// Close releases resources associated with the document
func (d *DsliPakDocument) Close() error {
	d.reader = nil
	d.pages = nil
	return nil
}

// DsliPakPage implements the Page interface using dslipak/pdf
type DsliPakPage struct {
	pageNumber int
	width      float64
	height     float64
	chars      []CharObject
}

func newDsliPakPage(reader *gopdf.Reader, pageNumber int) (*DsliPakPage, error) {
	page := reader.Page(pageNumber)
	if page.V.IsNull() {
		return nil, fmt.Errorf("page %d not found in page tree", pageNumber)
	}

	width, height := 612.0, 792.0
	if box := inheritedMediaBox(page.V); box.Len() == 4 {
		width = box.Index(2).Float64() - box.Index(0).Float64()
		height = box.Index(3).Float64() - box.Index(1).Float64()
	}

	p := &DsliPakPage{
		pageNumber: pageNumber,
		width:      width,
		height:     height,
	}

	content := page.Content()
	p.chars = make([]CharObject, 0, len(content.Text))
	for _, text := range content.Text {
		p.chars = append(p.chars, CharObject{
			Text:     text.S,
			Font:     text.Font,
			FontSize: text.FontSize,
			X:        text.X,
			Baseline: text.Y,
			Width:    glyphWidth(text.W, text.FontSize),
		})
	}

	return p, nil
}

// inheritedMediaBox walks up the page tree until a MediaBox is found
func inheritedMediaBox(node gopdf.Value) gopdf.Value {
	for depth := 0; depth < 32 && !node.IsNull(); depth++ {
		if box := node.Key("MediaBox"); box.Kind() == gopdf.Array {
			return box
		}
		node = node.Key("Parent")
	}
	return gopdf.Value{}
}

// GetPageNumber returns the page number (1-based)
func (p *DsliPakPage) GetPageNumber() int {
	return p.pageNumber
}

// GetWidth returns the page width
func (p *DsliPakPage) GetWidth() float64 {
	return p.width
}

// GetHeight returns the page height
func (p *DsliPakPage) GetHeight() float64 {
	return p.height
}

// GetChars returns the glyphs of the page in content stream order
func (p *DsliPakPage) GetChars() []CharObject {
	return p.chars
}

// ExtractSpans groups the page glyphs into styled text spans
func (p *DsliPakPage) ExtractSpans(opts ...SpanExtractionOption) []Span {
	return BuildSpans(p.pageNumber, p.chars, opts...)
}
