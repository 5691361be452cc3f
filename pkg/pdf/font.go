package pdf

import (
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
	"golang.org/x/text/encoding/charmap"
)

// fontInfo is what text extraction needs from a font dictionary
type fontInfo struct {
	name      string // BaseFont without subset prefix, else the resource name
	composite bool   // Type0: two byte codes
	cmap      *ToUnicodeCMap

	firstChar    int
	widths       []float64 // simple fonts, glyph space units
	missingWidth float64
	cidWidths    map[uint32]float64
	defaultWidth float64
}

// glyph is one decoded character code
type glyph struct {
	text  string
	width float64 // glyph space units; 0 when unknown
	space bool    // single byte code 32, which word spacing applies to
}

func loadFonts(xref *model.XRefTable, resources types.Dict) map[string]*fontInfo {
	fonts := make(map[string]*fontInfo)
	if resources == nil {
		return fonts
	}
	dict, err := xref.DereferenceDict(resources["Font"])
	if err != nil || dict == nil {
		return fonts
	}
	for key, obj := range dict {
		fd, err := xref.DereferenceDict(obj)
		if err != nil || fd == nil {
			continue
		}
		fonts[key] = newFontInfo(xref, key, fd)
	}
	return fonts
}

func newFontInfo(xref *model.XRefTable, key string, d types.Dict) *fontInfo {
	f := &fontInfo{name: key}
	if bf := d.NameEntry("BaseFont"); bf != nil && *bf != "" {
		f.name = stripSubset(*bf)
	}
	if st := d.NameEntry("Subtype"); st != nil && *st == "Type0" {
		f.composite = true
	}

	if f.composite {
		f.defaultWidth = 1000
		if arr, err := xref.DereferenceArray(d["DescendantFonts"]); err == nil && len(arr) > 0 {
			if cid, err := xref.DereferenceDict(arr[0]); err == nil && cid != nil {
				if dw, err := xref.Dereference(cid["DW"]); err == nil && dw != nil {
					f.defaultWidth = numberObject(dw)
				}
				if w, err := xref.DereferenceArray(cid["W"]); err == nil {
					f.cidWidths = parseCIDWidths(xref, w)
				}
			}
		}
	} else {
		if fc := d.IntEntry("FirstChar"); fc != nil {
			f.firstChar = *fc
		}
		if arr, err := xref.DereferenceArray(d["Widths"]); err == nil {
			f.widths = make([]float64, len(arr))
			for i, o := range arr {
				if v, err := xref.Dereference(o); err == nil {
					f.widths[i] = numberObject(v)
				}
			}
		}
		if desc, err := xref.DereferenceDict(d["FontDescriptor"]); err == nil && desc != nil {
			if mw, err := xref.Dereference(desc["MissingWidth"]); err == nil && mw != nil {
				f.missingWidth = numberObject(mw)
			}
		}
	}

	if sd, _, err := xref.DereferenceStreamDict(d["ToUnicode"]); err == nil && sd != nil {
		if err := sd.Decode(); err == nil {
			cmap := NewToUnicodeCMap()
			if err := cmap.Parse(sd.Content); err == nil && cmap.Len() > 0 {
				f.cmap = cmap
			}
		}
	}

	return f
}

// parseCIDWidths reads a CIDFont W array: "c [w1 w2 ...]" and
// "cfirst clast w" entries may be mixed.
func parseCIDWidths(xref *model.XRefTable, w types.Array) map[uint32]float64 {
	widths := make(map[uint32]float64)
	for i := 0; i+1 < len(w); {
		first := uint32(numberObject(w[i]))
		next, err := xref.Dereference(w[i+1])
		if err != nil {
			break
		}
		if arr, ok := next.(types.Array); ok {
			for j, o := range arr {
				widths[first+uint32(j)] = numberObject(o)
			}
			i += 2
			continue
		}
		if i+2 >= len(w) {
			break
		}
		last := uint32(numberObject(next))
		v := numberObject(w[i+2])
		for c := first; c <= last && c-first < 0xFFFF; c++ {
			widths[c] = v
		}
		i += 3
	}
	return widths
}

// glyphs splits a shown string into character codes
func (f *fontInfo) glyphs(s []byte) []glyph {
	n := 1
	if f.composite {
		n = 2
	}

	out := make([]glyph, 0, len(s)/n+1)
	for i := 0; i < len(s); i += n {
		var code uint32
		for j := i; j < i+n && j < len(s); j++ {
			code = code<<8 | uint32(s[j])
		}

		g := glyph{width: f.width(code), space: n == 1 && code == 32}
		switch {
		case f.cmap != nil:
			if text, ok := f.cmap.Lookup(code); ok {
				g.text = text
			} else {
				g.text = string(rune(code))
			}
		case n == 1:
			g.text = string(charmap.Windows1252.DecodeByte(byte(code)))
		default:
			g.text = string(rune(code))
		}
		out = append(out, g)
	}
	return out
}

func (f *fontInfo) width(code uint32) float64 {
	if f.composite {
		if w, ok := f.cidWidths[code]; ok {
			return w
		}
		return f.defaultWidth
	}
	if i := int(code) - f.firstChar; i >= 0 && i < len(f.widths) {
		return f.widths[i]
	}
	return f.missingWidth
}

// stripSubset removes the "ABCDEF+" tag of an embedded subset font
func stripSubset(name string) string {
	if i := strings.IndexByte(name, '+'); i == 6 {
		return name[i+1:]
	}
	return name
}

func numberObject(o types.Object) float64 {
	switch v := o.(type) {
	case types.Integer:
		return float64(v)
	case types.Float:
		return float64(v)
	}
	return 0
}
