package pdf

import (
	"errors"
	"fmt"
	"os"
)

// backend opens an in-memory PDF with one extraction library
type backend struct {
	name string
	open func(data []byte) (Document, error)
}

// backends lists the extraction libraries in order of preference.
// ledongthuc has the most accurate glyph positions; dslipak tolerates some
// files ledongthuc rejects; pdfcpu is the strictest parser but resolves
// inherited resources and form XObjects.
var backends = []backend{
	{name: BackendLedongthuc, open: OpenBytesWithLedongthuc},
	{name: BackendDslipak, open: OpenBytesWithDslipak},
	{name: BackendPDFCPU, open: OpenBytesWithPDFCPU},
}

// Open opens a PDF file and returns a Document
func Open(filepath string) (Document, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return OpenBytes(data)
}

// OpenBytes parses an in-memory PDF, trying each extraction backend in turn.
// When every backend fails the returned error wraps ErrNotPDF and the
// individual backend errors.
func OpenBytes(data []byte) (Document, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrNotPDF)
	}

	errs := []error{ErrNotPDF}
	for _, b := range backends {
		doc, err := b.open(data)
		if err == nil {
			return doc, nil
		}
		errs = append(errs, fmt.Errorf("%s: %w", b.name, err))
	}

	return nil, errors.Join(errs...)
}
