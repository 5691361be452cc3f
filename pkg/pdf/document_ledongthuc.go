package pdf

import (
	"bytes"
	"fmt"
	"os"

	lpdf "github.com/ledongthuc/pdf"
)

// BackendLedongthuc names the ledongthuc/pdf backend
const BackendLedongthuc = "ledongthuc"

// LedongthucDocument implements the Document interface using ledongthuc/pdf library
type LedongthucDocument struct {
	reader   *lpdf.Reader
	pages    []Page
	metadata Metadata
}

// OpenWithLedongthuc opens a PDF file using the ledongthuc/pdf library
func OpenWithLedongthuc(filepath string) (Document, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return OpenBytesWithLedongthuc(data)
}

// OpenBytesWithLedongthuc parses an in-memory PDF using the ledongthuc/pdf library.
// All pages are extracted eagerly so that content stream errors surface here.
func OpenBytesWithLedongthuc(data []byte) (doc Document, err error) {
	defer recoverBackend(BackendLedongthuc, &err)

	r, err := lpdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF with ledongthuc: %w", err)
	}

	d := &LedongthucDocument{reader: r}
	d.extractMetadata()

	if err := d.initializePages(); err != nil {
		return nil, fmt.Errorf("failed to initialize pages: %w", err)
	}

	return d, nil
}

// extractMetadata reads the info dictionary from the trailer
func (d *LedongthucDocument) extractMetadata() {
	info := d.reader.Trailer().Key("Info")
	d.metadata = Metadata{
		Title:    info.Key("Title").Text(),
		Author:   info.Key("Author").Text(),
		Producer: info.Key("Producer").Text(),
		Pages:    d.reader.NumPage(),
	}
}

// initializePages initializes all pages in the document
func (d *LedongthucDocument) initializePages() error {
	pageCount := d.reader.NumPage()
	d.pages = make([]Page, 0, pageCount)

	for i := 1; i <= pageCount; i++ {
		page, err := newLedongthucPage(d.reader, i)
		if err != nil {
			return fmt.Errorf("failed to initialize page %d: %w", i, err)
		}
		d.pages = append(d.pages, page)
	}

	return nil
}

// GetMetadata returns the PDF metadata
func (d *LedongthucDocument) GetMetadata() Metadata {
	return d.metadata
}

// GetPages returns all pages in the document
func (d *LedongthucDocument) GetPages() []Page {
	return d.pages
}

// GetPage returns a specific page by index (0-based)
func (d *LedongthucDocument) GetPage(index int) (Page, error) {
	if index < 0 || index >= len(d.pages) {
		return nil, fmt.Errorf("page index %d out of range [0, %d)", index, len(d.pages))
	}
	return d.pages[index], nil
}

// PageCount returns the total number of pages
func (d *LedongthucDocument) PageCount() int {
	return len(d.pages)
}

// Backend returns BackendLedongthuc
func (d *LedongthucDocument) Backend() string {
	return BackendLedongthuc
}

// Close releases resources associated with the document
func (d *LedongthucDocument) Close() error {
	d.reader = nil
	d.pages = nil
	return nil
}

// LedongthucPage implements the Page interface using ledongthuc/pdf
type LedongthucPage struct {
	pageNumber int
	width      float64
	height     float64
	chars      []CharObject
}

// newLedongthucPage reads the page geometry and its glyphs
func newLedongthucPage(reader *lpdf.Reader, pageNumber int) (*LedongthucPage, error) {
	page := reader.Page(pageNumber)
	if page.V.IsNull() {
		return nil, fmt.Errorf("page %d not found in page tree", pageNumber)
	}

	// Default to US Letter
	width := 612.0
	height := 792.0

	mediaBox := pageMediaBox(page.V)
	if mediaBox.Kind() == lpdf.Array && mediaBox.Len() == 4 {
		// MediaBox is [x0, y0, x1, y1]
		width = mediaBox.Index(2).Float64() - mediaBox.Index(0).Float64()
		height = mediaBox.Index(3).Float64() - mediaBox.Index(1).Float64()
	}

	p := &LedongthucPage{
		pageNumber: pageNumber,
		width:      width,
		height:     height,
	}
	p.extractChars(page.Content())

	return p, nil
}

// pageMediaBox walks up the page tree until a MediaBox is found.
// Most producers only set it on the Pages root.
func pageMediaBox(node lpdf.Value) lpdf.Value {
	for depth := 0; depth < 32 && !node.IsNull(); depth++ {
		if box := node.Key("MediaBox"); box.Kind() == lpdf.Array {
			return box
		}
		node = node.Key("Parent")
	}
	return lpdf.Value{}
}

// extractChars converts the positioned text runs of the page into glyphs.
// ledongthuc reports one Text per decoded rune, in content stream order.
func (p *LedongthucPage) extractChars(content lpdf.Content) {
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
}

// GetPageNumber returns the page number (1-based)
func (p *LedongthucPage) GetPageNumber() int {
	return p.pageNumber
}

// GetWidth returns the page width
func (p *LedongthucPage) GetWidth() float64 {
	return p.width
}

// GetHeight returns the page height
func (p *LedongthucPage) GetHeight() float64 {
	return p.height
}

// GetChars returns the glyphs of the page in content stream order
func (p *LedongthucPage) GetChars() []CharObject {
	return p.chars
}

// ExtractSpans groups the page glyphs into styled text spans
func (p *LedongthucPage) ExtractSpans(opts ...SpanExtractionOption) []Span {
	return BuildSpans(p.pageNumber, p.chars, opts...)
}

// recoverBackend turns a panic raised inside a parsing library into an error.
// Both backends panic on malformed objects and content streams.
func recoverBackend(backend string, err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("%s: malformed PDF: %v", backend, r)
	}
}
