package pdf

import (
	"fmt"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// BackendPDFCPU names the pdfcpu backend
const BackendPDFCPU = "pdfcpu"

// PDFCPUDocument implements the Document interface on top of pdfcpu's
// object model and the package's own content stream interpreter.
type PDFCPUDocument struct {
	pages    []Page
	metadata Metadata
}

// OpenWithPDFCPU opens a PDF file using pdfcpu
func OpenWithPDFCPU(filepath string) (Document, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return OpenBytesWithPDFCPU(data)
}

// OpenBytesWithPDFCPU parses an in-memory PDF using pdfcpu.
// Font names come straight from the page resources, so this backend also
// reads files whose fonts the other libraries cannot resolve.
func OpenBytesWithPDFCPU(data []byte) (doc Document, err error) {
	defer recoverBackend(BackendPDFCPU, &err)

	ctx, err := readContext(data, NewPDFCPUConfig())
	if err != nil {
		return nil, err
	}

	d := &PDFCPUDocument{
		metadata: Metadata{
			Title:    ctx.Title,
			Author:   ctx.Author,
			Producer: ctx.Producer,
			Pages:    ctx.PageCount,
		},
		pages: make([]Page, 0, ctx.PageCount),
	}

	for i := 1; i <= ctx.PageCount; i++ {
		page, err := newPDFCPUPage(ctx, i)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize page %d: %w", i, err)
		}
		d.pages = append(d.pages, page)
	}

	return d, nil
}

// GetMetadata returns the PDF metadata
func (d *PDFCPUDocument) GetMetadata() Metadata {
	return d.metadata
}

// GetPages returns all pages in the document
func (d *PDFCPUDocument) GetPages() []Page {
	return d.pages
}

// GetPage returns a specific page (0-based index)
func (d *PDFCPUDocument) GetPage(index int) (Page, error) {
	if index < 0 || index >= len(d.pages) {
		return nil, fmt.Errorf("page index %d out of range [0, %d)", index, len(d.pages))
	}
	return d.pages[index], nil
}

// PageCount returns the number of pages
func (d *PDFCPUDocument) PageCount() int {
	return len(d.pages)
}

// Backend returns BackendPDFCPU
func (d *PDFCPUDocument) Backend() string {
	return BackendPDFCPU
}

// Close releases resources
func (d *PDFCPUDocument) Close() error {
	d.pages = nil
	return nil
}

// PDFCPUPage implements the Page interface using pdfcpu
type PDFCPUPage struct {
	pageNumber int
	width      float64
	height     float64
	chars      []CharObject
}

func newPDFCPUPage(ctx *model.Context, pageNumber int) (*PDFCPUPage, error) {
	pageDict, _, attrs, err := ctx.PageDict(pageNumber, true)
	if err != nil {
		return nil, fmt.Errorf("failed to get page dict: %w", err)
	}
	if pageDict == nil {
		return nil, fmt.Errorf("page %d not found", pageNumber)
	}

	// Default US Letter size
	p := &PDFCPUPage{pageNumber: pageNumber, width: 612, height: 792}

	var resources types.Dict
	if attrs != nil {
		if attrs.MediaBox != nil {
			p.width = attrs.MediaBox.Width()
			p.height = attrs.MediaBox.Height()
		}
		resources = attrs.Resources
	}

	content, err := pageContent(ctx.XRefTable, pageDict)
	if err != nil {
		return nil, fmt.Errorf("failed to extract content: %w", err)
	}

	parser := newContentParser(ctx.XRefTable, resources)
	parser.parse(content)
	p.chars = parser.chars

	return p, nil
}

// pageContent returns the decoded, concatenated content streams of a page
func pageContent(xref *model.XRefTable, pageDict types.Dict) ([]byte, error) {
	contents, err := xref.Dereference(pageDict["Contents"])
	if err != nil || contents == nil {
		return nil, err
	}

	var refs []types.Object
	switch v := contents.(type) {
	case types.Array:
		refs = v
	default:
		refs = []types.Object{pageDict["Contents"]}
	}

	var combined []byte
	for _, ref := range refs {
		sd, _, err := xref.DereferenceStreamDict(ref)
		if err != nil {
			return nil, err
		}
		if sd == nil {
			continue
		}
		if err := sd.Decode(); err != nil {
			return nil, err
		}
		combined = append(combined, sd.Content...)
		combined = append(combined, '\n')
	}
	return combined, nil
}

// GetPageNumber returns the page number (1-based)
func (p *PDFCPUPage) GetPageNumber() int {
	return p.pageNumber
}

// GetWidth returns the page width in points
func (p *PDFCPUPage) GetWidth() float64 {
	return p.width
}

// GetHeight returns the page height in points
func (p *PDFCPUPage) GetHeight() float64 {
	return p.height
}

// GetChars returns the glyphs shown on the page
func (p *PDFCPUPage) GetChars() []CharObject {
	return p.chars
}

// ExtractSpans groups the page glyphs into spans
func (p *PDFCPUPage) ExtractSpans(opts ...SpanExtractionOption) []Span {
	return BuildSpans(p.pageNumber, p.chars, opts...)
}
