package pdf

import (
	"encoding/hex"
	"regexp"
	"strings"
	"unicode/utf16"
)

var (
	codespaceRe = regexp.MustCompile(`(?s)begincodespacerange(.*?)endcodespacerange`)
	bfcharRe    = regexp.MustCompile(`(?s)beginbfchar(.*?)endbfchar`)
	bfrangeRe   = regexp.MustCompile(`(?s)beginbfrange(.*?)endbfrange`)

	hexPairRe  = regexp.MustCompile(`<([0-9A-Fa-f]+)>\s*<([0-9A-Fa-f]*)>`)
	hexRangeRe = regexp.MustCompile(`<([0-9A-Fa-f]+)>\s*<([0-9A-Fa-f]+)>\s*(?:<([0-9A-Fa-f]*)>|\[([^\]]*)\])`)
	hexItemRe  = regexp.MustCompile(`<([0-9A-Fa-f]*)>`)
)

// ToUnicodeCMap maps the character codes of a font to text. It is built
// from the font's /ToUnicode stream.
type ToUnicodeCMap struct {
	codeBytes int // 1 or 2
	chars     map[uint32]string
	ranges    []cmapRange
}

// cmapRange maps lo..hi either onto consecutive values starting at start,
// or onto the explicit values in list.
type cmapRange struct {
	lo, hi uint32
	start  []uint16
	list   []string
}

// NewToUnicodeCMap creates an empty CMap
func NewToUnicodeCMap() *ToUnicodeCMap {
	return &ToUnicodeCMap{chars: make(map[uint32]string)}
}

// Parse reads the codespace, bfchar and bfrange sections of a CMap stream.
// Unknown sections are ignored.
func (m *ToUnicodeCMap) Parse(data []byte) error {
	content := string(data)

	for _, block := range codespaceRe.FindAllStringSubmatch(content, -1) {
		if pair := hexPairRe.FindStringSubmatch(block[1]); pair != nil && m.codeBytes == 0 {
			m.codeBytes = codeWidth(pair[1])
		}
	}

	for _, block := range bfcharRe.FindAllStringSubmatch(content, -1) {
		for _, pair := range hexPairRe.FindAllStringSubmatch(block[1], -1) {
			code, ok := parseCode(pair[1])
			if !ok {
				continue
			}
			m.setWidth(pair[1])
			m.chars[code] = utf16Text(pair[2])
		}
	}

	for _, block := range bfrangeRe.FindAllStringSubmatch(content, -1) {
		for _, r := range hexRangeRe.FindAllStringSubmatch(block[1], -1) {
			lo, ok1 := parseCode(r[1])
			hi, ok2 := parseCode(r[2])
			if !ok1 || !ok2 || hi < lo {
				continue
			}
			m.setWidth(r[1])

			cr := cmapRange{lo: lo, hi: hi}
			if r[4] != "" {
				for _, item := range hexItemRe.FindAllStringSubmatch(r[4], -1) {
					cr.list = append(cr.list, utf16Text(item[1]))
				}
			} else {
				cr.start = utf16Units(r[3])
				if len(cr.start) == 0 {
					continue
				}
			}
			m.ranges = append(m.ranges, cr)
		}
	}

	if m.codeBytes == 0 {
		m.codeBytes = 2
	}
	return nil
}

// setWidth takes the code width from the first mapping when no codespace
// range was declared.
func (m *ToUnicodeCMap) setWidth(code string) {
	if m.codeBytes == 0 {
		m.codeBytes = codeWidth(code)
	}
}

// Lookup returns the text for one character code.
func (m *ToUnicodeCMap) Lookup(code uint32) (string, bool) {
	if s, ok := m.chars[code]; ok {
		return s, true
	}
	for _, r := range m.ranges {
		if code < r.lo || code > r.hi {
			continue
		}
		offset := code - r.lo
		if r.list != nil {
			if int(offset) < len(r.list) {
				return r.list[offset], true
			}
			return "", false
		}
		units := append([]uint16(nil), r.start...)
		units[len(units)-1] += uint16(offset)
		return string(utf16.Decode(units)), true
	}
	return "", false
}

// CodeBytes returns the width of a character code in bytes.
func (m *ToUnicodeCMap) CodeBytes() int {
	return m.codeBytes
}

// Decode maps a shown string onto text, one code at a time. Codes without
// a mapping are kept as their numeric value.
func (m *ToUnicodeCMap) Decode(data []byte) string {
	var sb strings.Builder
	for _, code := range m.Codes(data) {
		if s, ok := m.Lookup(code); ok {
			sb.WriteString(s)
		} else {
			sb.WriteRune(rune(code))
		}
	}
	return sb.String()
}

// Codes splits data into character codes.
func (m *ToUnicodeCMap) Codes(data []byte) []uint32 {
	n := m.codeBytes
	if n < 1 {
		n = 1
	}
	codes := make([]uint32, 0, len(data)/n+1)
	for i := 0; i < len(data); i += n {
		var code uint32
		for j := i; j < i+n && j < len(data); j++ {
			code = code<<8 | uint32(data[j])
		}
		codes = append(codes, code)
	}
	return codes
}

// Len returns the number of codes with a mapping.
func (m *ToUnicodeCMap) Len() int {
	n := len(m.chars)
	for _, r := range m.ranges {
		if r.list != nil {
			n += len(r.list)
		} else {
			n += int(r.hi-r.lo) + 1
		}
	}
	return n
}

func codeWidth(hexCode string) int {
	if len(hexCode) <= 2 {
		return 1
	}
	return 2
}

func parseCode(hexCode string) (uint32, bool) {
	b, err := hex.DecodeString(hexCode)
	if err != nil || len(b) == 0 || len(b) > 4 {
		return 0, false
	}
	var code uint32
	for _, c := range b {
		code = code<<8 | uint32(c)
	}
	return code, true
}

// utf16Units decodes a hex destination into UTF-16BE code units. A single
// byte is widened to one unit.
func utf16Units(hexText string) []uint16 {
	b, err := hex.DecodeString(hexText)
	if err != nil || len(b) == 0 {
		return nil
	}
	if len(b) == 1 {
		return []uint16{uint16(b[0])}
	}
	units := make([]uint16, 0, len(b)/2)
	for i := 0; i+1 < len(b); i += 2 {
		units = append(units, uint16(b[i])<<8|uint16(b[i+1]))
	}
	if len(units) > 1 && units[0] == 0xFEFF {
		units = units[1:]
	}
	return units
}

func utf16Text(hexText string) string {
	return string(utf16.Decode(utf16Units(hexText)))
}
