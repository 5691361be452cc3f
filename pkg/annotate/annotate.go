// Package annotate writes font marks into a PDF as highlight and note
// annotations, and assembles the final output document.
package annotate

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"sort"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/pyhub-apps/pdffont-golang/pkg/analysis"
	"github.com/pyhub-apps/pdffont-golang/pkg/pdf"
)

// Annotation flag bit 3, print the annotation
const flagPrint = 4

// Style controls how marks are drawn
type Style struct {
	Color         [3]float64 // RGB, 0..1
	IconSize      float64    // side of the note icon, in points
	Icon          string     // note icon name
	ContentPrefix string     // note text before the font name
}

// DefaultStyle draws yellow highlights with a 20 point comment icon
func DefaultStyle() Style {
	return Style{
		Color:         [3]float64{1, 1, 0},
		IconSize:      20,
		Icon:          "Comment",
		ContentPrefix: "Font: ",
	}
}

// Apply adds a Highlight annotation over every mark and a Text annotation
// anchored at its bottom-right corner, then returns the rewritten document.
// src is read, never modified. A nil conf selects pdf.NewPDFCPUConfig.
func Apply(src []byte, marks []analysis.Mark, style Style, conf *model.Configuration) (out []byte, err error) {
	if conf == nil {
		conf = pdf.NewPDFCPUConfig()
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("failed to annotate PDF: pdfcpu: %v", r)
		}
	}()

	ctx, err := api.ReadContext(bytes.NewReader(src), conf)
	if err != nil {
		return nil, fmt.Errorf("failed to read PDF context: %w", err)
	}
	if err := api.ValidateContext(ctx); err != nil {
		return nil, fmt.Errorf("invalid PDF: %w", err)
	}

	byPage := make(map[int][]analysis.Mark)
	for _, m := range marks {
		if m.Page < 1 || m.Page > ctx.PageCount {
			return nil, fmt.Errorf("mark on page %d out of range [1, %d]", m.Page, ctx.PageCount)
		}
		byPage[m.Page] = append(byPage[m.Page], m)
	}

	pages := make([]int, 0, len(byPage))
	for page := range byPage {
		pages = append(pages, page)
	}
	sort.Ints(pages)

	for _, page := range pages {
		if err := annotatePage(ctx, page, byPage[page], style); err != nil {
			return nil, fmt.Errorf("failed to annotate page %d: %w", page, err)
		}
	}

	var buf bytes.Buffer
	if err := api.WriteContext(ctx, &buf); err != nil {
		return nil, fmt.Errorf("failed to write annotated PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func annotatePage(ctx *model.Context, pageNr int, marks []analysis.Mark, style Style) error {
	pageDict, pageRef, _, err := ctx.PageDict(pageNr, false)
	if err != nil {
		return err
	}
	if pageDict == nil || pageRef == nil {
		return fmt.Errorf("page %d not found", pageNr)
	}

	var annots types.Array
	if obj, ok := pageDict["Annots"]; ok && obj != nil {
		existing, err := ctx.DereferenceArray(obj)
		if err != nil {
			return fmt.Errorf("failed to read existing annotations: %w", err)
		}
		annots = append(annots, existing...)
	}

	for _, m := range marks {
		for _, d := range []types.Dict{
			highlightDict(m.BBox, *pageRef, style),
			noteDict(m, *pageRef, style),
		} {
			ref, err := ctx.IndRefForNewObject(d)
			if err != nil {
				return err
			}
			annots = append(annots, *ref)
		}
	}

	pageDict["Annots"] = annots
	return nil
}

// highlightDict covers box with one quadrilateral, corners ordered
// upper-left, upper-right, lower-left, lower-right
func highlightDict(box pdf.BoundingBox, page types.IndirectRef, style Style) types.Dict {
	return types.Dict{
		"Type":       types.Name("Annot"),
		"Subtype":    types.Name("Highlight"),
		"Rect":       types.NewNumberArray(box.X0, box.Y0, box.X1, box.Y1),
		"QuadPoints": types.NewNumberArray(box.X0, box.Y1, box.X1, box.Y1, box.X0, box.Y0, box.X1, box.Y0),
		"C":          types.NewNumberArray(style.Color[0], style.Color[1], style.Color[2]),
		"F":          types.Integer(flagPrint),
		"P":          page,
	}
}

func noteDict(m analysis.Mark, page types.IndirectRef, style Style) types.Dict {
	x, y := m.BBox.X1, m.BBox.Y0
	return types.Dict{
		"Type":     types.Name("Annot"),
		"Subtype":  types.Name("Text"),
		"Rect":     types.NewNumberArray(x, y-style.IconSize, x+style.IconSize, y),
		"Contents": encodeText(style.ContentPrefix + m.Font),
		"Name":     types.Name(style.Icon),
		"C":        types.NewNumberArray(style.Color[0], style.Color[1], style.Color[2]),
		"F":        types.Integer(flagPrint),
		"Open":     types.Boolean(false),
		"P":        page,
	}
}

var literalEscaper = strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`)

// encodeText returns a PDF text string: a literal for ASCII, UTF-16BE with
// a byte order mark otherwise
func encodeText(s string) types.Object {
	ascii := true
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			ascii = false
			break
		}
	}
	if ascii {
		return types.StringLiteral(literalEscaper.Replace(s))
	}

	units := utf16.Encode([]rune(s))
	b := make([]byte, 2, 2+2*len(units))
	b[0], b[1] = 0xFE, 0xFF
	for _, u := range units {
		b = append(b, byte(u>>8), byte(u))
	}
	return types.HexLiteral(hex.EncodeToString(b))
}

// Merge concatenates documents in order. A nil conf selects pdf.NewPDFCPUConfig.
func Merge(parts [][]byte, conf *model.Configuration) ([]byte, error) {
	if len(parts) == 0 {
		return nil, fmt.Errorf("nothing to merge")
	}
	if conf == nil {
		conf = pdf.NewPDFCPUConfig()
	}

	readers := make([]io.ReadSeeker, 0, len(parts))
	for _, p := range parts {
		readers = append(readers, bytes.NewReader(p))
	}

	var buf bytes.Buffer
	if err := api.MergeRaw(readers, &buf, false, conf); err != nil {
		return nil, fmt.Errorf("failed to merge PDFs: %w", err)
	}
	return buf.Bytes(), nil
}
