package pdf

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Info describes a PDF as seen by pdfcpu's structural parser
type Info struct {
	Version   string
	Pages     int
	Encrypted bool
	Title     string
	Author    string
	Producer  string
}

var disableConfigDir sync.Once

// NewPDFCPUConfig returns a relaxed pdfcpu configuration that never touches
// the user's config directory.
func NewPDFCPUConfig() *model.Configuration {
	disableConfigDir.Do(api.DisableConfigDir)

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return conf
}

// Inspect reads and validates the document structure with pdfcpu.
// It does not look at text; use OpenBytes for that.
func Inspect(data []byte) (Info, error) {
	return InspectWithConfig(data, NewPDFCPUConfig())
}

// InspectWithConfig is Inspect with a caller supplied pdfcpu configuration
func InspectWithConfig(data []byte, conf *model.Configuration) (info Info, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: pdfcpu: %v", ErrNotPDF, r)
		}
	}()

	ctx, err := readContext(data, conf)
	if err != nil {
		return Info{}, err
	}

	return Info{
		Version:   ctx.VersionString(),
		Pages:     ctx.PageCount,
		Encrypted: ctx.Encrypt != nil,
		Title:     ctx.Title,
		Author:    ctx.Author,
		Producer:  ctx.Producer,
	}, nil
}

// readContext reads and validates data into a pdfcpu context. Errors wrap
// ErrNotPDF.
func readContext(data []byte, conf *model.Configuration) (*model.Context, error) {
	ctx, err := api.ReadContext(bytes.NewReader(data), conf)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read PDF context: %v", ErrNotPDF, err)
	}

	if err := api.ValidateContext(ctx); err != nil {
		return nil, fmt.Errorf("%w: invalid PDF: %v", ErrNotPDF, err)
	}
	return ctx, nil
}
