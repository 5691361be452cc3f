package pdf

import (
	"encoding/hex"
	"math"
	"strconv"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// maxFormDepth bounds nested form XObjects.
const maxFormDepth = 8

// matrix is a PDF transformation matrix [a b c d e f]
type matrix struct {
	a, b, c, d, e, f float64
}

var identity = matrix{a: 1, d: 1}

func translate(tx, ty float64) matrix {
	return matrix{a: 1, d: 1, e: tx, f: ty}
}

// mul returns m × n
func (m matrix) mul(n matrix) matrix {
	return matrix{
		a: m.a*n.a + m.b*n.c,
		b: m.a*n.b + m.b*n.d,
		c: m.c*n.a + m.d*n.c,
		d: m.c*n.b + m.d*n.d,
		e: m.e*n.a + m.f*n.c + n.e,
		f: m.e*n.b + m.f*n.d + n.f,
	}
}

type textState struct {
	font      *fontInfo
	size      float64
	charSpace float64
	wordSpace float64
	scale     float64 // Tz / 100
	leading   float64
	rise      float64
}

// graphicsState is the part of the PDF graphics state text placement
// depends on. q/Q save and restore all of it.
type graphicsState struct {
	ctm  matrix
	text textState
}

// contentParser interprets the text operators of a content stream and
// records every glyph shown. Path and color operators are skipped.
type contentParser struct {
	xref     *model.XRefTable
	fonts    map[string]*fontInfo
	xobjects types.Dict
	depth    int

	gs      graphicsState
	stack   []graphicsState
	tm, tlm matrix

	chars []CharObject
}

func newContentParser(xref *model.XRefTable, resources types.Dict) *contentParser {
	p := &contentParser{
		xref:  xref,
		fonts: loadFonts(xref, resources),
		gs: graphicsState{
			ctm:  identity,
			text: textState{scale: 1},
		},
		tm:  identity,
		tlm: identity,
	}
	if resources != nil {
		p.xobjects, _ = xref.DereferenceDict(resources["XObject"])
	}
	return p
}

// parse runs the content stream and appends the shown glyphs to p.chars.
func (p *contentParser) parse(content []byte) {
	lex := &lexer{data: content}
	var operands []token

	for {
		tok, ok := lex.next()
		if !ok {
			return
		}
		if tok.kind != tokKeyword || tok.text == "true" || tok.text == "false" || tok.text == "null" {
			operands = append(operands, tok)
			continue
		}

		p.apply(tok.text, operands)
		operands = operands[:0]

		if tok.text == "ID" {
			lex.skipInlineImage()
		}
	}
}

func (p *contentParser) apply(op string, args []token) {
	ts := &p.gs.text

	switch op {
	case "q":
		p.stack = append(p.stack, p.gs)
	case "Q":
		if n := len(p.stack); n > 0 {
			p.gs = p.stack[n-1]
			p.stack = p.stack[:n-1]
		}
	case "cm":
		if m, ok := matrixOperand(args); ok {
			p.gs.ctm = m.mul(p.gs.ctm)
		}

	case "BT":
		p.tm, p.tlm = identity, identity

	case "Tf":
		if len(args) < 2 {
			return
		}
		name := args[len(args)-2].text
		f, ok := p.fonts[name]
		if !ok {
			// not cached: forms share the page font table
			f = &fontInfo{name: name}
		}
		ts.font = f
		ts.size = args[len(args)-1].number()
	case "Tc":
		if v, ok := lastNumber(args); ok {
			ts.charSpace = v
		}
	case "Tw":
		if v, ok := lastNumber(args); ok {
			ts.wordSpace = v
		}
	case "Tz":
		if v, ok := lastNumber(args); ok {
			ts.scale = v / 100
		}
	case "TL":
		if v, ok := lastNumber(args); ok {
			ts.leading = v
		}
	case "Ts":
		if v, ok := lastNumber(args); ok {
			ts.rise = v
		}

	case "Td", "TD":
		if len(args) < 2 {
			return
		}
		tx, ty := args[len(args)-2].number(), args[len(args)-1].number()
		if op == "TD" {
			ts.leading = -ty
		}
		p.moveLine(tx, ty)
	case "Tm":
		if m, ok := matrixOperand(args); ok {
			p.tm, p.tlm = m, m
		}
	case "T*":
		p.moveLine(0, -ts.leading)

	case "Tj":
		if s, ok := lastString(args); ok {
			p.show(s)
		}
	case "'":
		p.moveLine(0, -ts.leading)
		if s, ok := lastString(args); ok {
			p.show(s)
		}
	case "\"":
		if len(args) < 3 {
			return
		}
		ts.wordSpace = args[len(args)-3].number()
		ts.charSpace = args[len(args)-2].number()
		p.moveLine(0, -ts.leading)
		p.show([]byte(args[len(args)-1].text))
	case "TJ":
		for _, a := range args {
			switch a.kind {
			case tokString:
				p.show([]byte(a.text))
			case tokNumber:
				tx := -a.number() / 1000 * ts.size * ts.scale
				p.tm = translate(tx, 0).mul(p.tm)
			}
		}

	case "Do":
		if len(args) > 0 {
			p.drawForm(args[len(args)-1].text)
		}
	}
}

func (p *contentParser) moveLine(tx, ty float64) {
	p.tlm = translate(tx, ty).mul(p.tlm)
	p.tm = p.tlm
}

// show places every glyph of s and advances the text matrix.
func (p *contentParser) show(s []byte) {
	ts := p.gs.text
	if ts.font == nil {
		return
	}

	for _, g := range ts.font.glyphs(s) {
		trm := matrix{a: ts.size * ts.scale, d: ts.size, f: ts.rise}.mul(p.tm).mul(p.gs.ctm)

		w0 := g.width
		if w0 == 0 {
			w0 = approxWidth(g.text)
		}

		p.chars = append(p.chars, CharObject{
			Text:     g.text,
			Font:     ts.font.name,
			FontSize: math.Hypot(trm.c, trm.d),
			X:        trm.e,
			Baseline: trm.f,
			Width:    w0 / 1000 * math.Hypot(trm.a, trm.b),
		})

		tx := w0 / 1000 * ts.size
		tx += ts.charSpace
		if g.space {
			tx += ts.wordSpace
		}
		p.tm = translate(tx*ts.scale, 0).mul(p.tm)
	}
}

// drawForm runs a form XObject with its own resources and matrix.
func (p *contentParser) drawForm(name string) {
	if p.depth >= maxFormDepth || p.xobjects == nil {
		return
	}
	sd, _, err := p.xref.DereferenceStreamDict(p.xobjects[name])
	if err != nil || sd == nil {
		return
	}
	if st := sd.NameEntry("Subtype"); st == nil || *st != "Form" {
		return
	}
	if err := sd.Decode(); err != nil {
		return
	}

	child := &contentParser{
		xref:     p.xref,
		fonts:    p.fonts,
		xobjects: p.xobjects,
		depth:    p.depth + 1,
		gs:       p.gs,
		tm:       identity,
		tlm:      identity,
	}
	if res, err := p.xref.DereferenceDict(sd.Dict["Resources"]); err == nil && res != nil {
		child.fonts = loadFonts(p.xref, res)
		if xo, err := p.xref.DereferenceDict(res["XObject"]); err == nil && xo != nil {
			child.xobjects = xo
		}
	}
	if arr, err := p.xref.DereferenceArray(sd.Dict["Matrix"]); err == nil && len(arr) == 6 {
		m := matrix{
			a: numberObject(arr[0]), b: numberObject(arr[1]),
			c: numberObject(arr[2]), d: numberObject(arr[3]),
			e: numberObject(arr[4]), f: numberObject(arr[5]),
		}
		child.gs.ctm = m.mul(p.gs.ctm)
	}

	child.parse(sd.Content)
	p.chars = append(p.chars, child.chars...)
}

// approxWidth estimates a glyph advance in thousandths of an em for fonts
// that carry no widths
func approxWidth(text string) float64 {
	switch text {
	case " ":
		return 250
	case "i", "l", "I", "!", ".", ",", ";", ":", "'", "\"":
		return 300
	case "m", "M", "W", "w":
		return 800
	default:
		return 500
	}
}

func matrixOperand(args []token) (matrix, bool) {
	if len(args) < 6 {
		return matrix{}, false
	}
	a := args[len(args)-6:]
	return matrix{
		a: a[0].number(), b: a[1].number(),
		c: a[2].number(), d: a[3].number(),
		e: a[4].number(), f: a[5].number(),
	}, true
}

func lastNumber(args []token) (float64, bool) {
	if len(args) == 0 || args[len(args)-1].kind != tokNumber {
		return 0, false
	}
	return args[len(args)-1].number(), true
}

func lastString(args []token) ([]byte, bool) {
	if len(args) == 0 || args[len(args)-1].kind != tokString {
		return nil, false
	}
	return []byte(args[len(args)-1].text), true
}

type tokenKind int

const (
	tokNumber tokenKind = iota
	tokName
	tokString // text holds the decoded bytes
	tokArrayStart
	tokArrayEnd
	tokDictStart
	tokDictEnd
	tokKeyword
)

type token struct {
	kind tokenKind
	text string
}

func (t token) number() float64 {
	f, _ := strconv.ParseFloat(t.text, 64)
	return f
}

// lexer splits a content stream into tokens
type lexer struct {
	data []byte
	pos  int
}

func (l *lexer) next() (token, bool) {
	for l.pos < len(l.data) {
		c := l.data[l.pos]
		switch {
		case isWhitespace(c):
			l.pos++
		case c == '%':
			for l.pos < len(l.data) && l.data[l.pos] != '\n' && l.data[l.pos] != '\r' {
				l.pos++
			}
		case c == '(':
			l.pos++
			return token{kind: tokString, text: l.readLiteral()}, true
		case c == '<':
			if l.peek(1) == '<' {
				l.pos += 2
				return token{kind: tokDictStart, text: "<<"}, true
			}
			l.pos++
			return token{kind: tokString, text: l.readHex()}, true
		case c == '>':
			if l.peek(1) == '>' {
				l.pos += 2
				return token{kind: tokDictEnd, text: ">>"}, true
			}
			l.pos++
		case c == '[':
			l.pos++
			return token{kind: tokArrayStart, text: "["}, true
		case c == ']':
			l.pos++
			return token{kind: tokArrayEnd, text: "]"}, true
		case c == '{' || c == '}' || c == ')':
			l.pos++
		case c == '/':
			l.pos++
			return token{kind: tokName, text: l.readRegular()}, true
		default:
			word := l.readRegular()
			if isNumberStart(word[0]) {
				return token{kind: tokNumber, text: word}, true
			}
			return token{kind: tokKeyword, text: word}, true
		}
	}
	return token{}, false
}

func (l *lexer) peek(offset int) byte {
	if l.pos+offset < len(l.data) {
		return l.data[l.pos+offset]
	}
	return 0
}

func (l *lexer) readRegular() string {
	start := l.pos
	for l.pos < len(l.data) && !isWhitespace(l.data[l.pos]) && !isDelimiter(l.data[l.pos]) {
		l.pos++
	}
	if l.pos == start {
		// A lone delimiter; consume it so the lexer always advances.
		l.pos++
	}
	return string(l.data[start:l.pos])
}

// readLiteral reads a (string) after its opening parenthesis and resolves
// escapes.
func (l *lexer) readLiteral() string {
	var out []byte
	depth := 1

	for l.pos < len(l.data) {
		c := l.data[l.pos]
		l.pos++

		switch c {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return string(out)
			}
		case '\\':
			if l.pos >= len(l.data) {
				return string(out)
			}
			e := l.data[l.pos]
			l.pos++
			switch e {
			case 'n':
				out = append(out, '\n')
			case 'r':
				out = append(out, '\r')
			case 't':
				out = append(out, '\t')
			case 'b':
				out = append(out, '\b')
			case 'f':
				out = append(out, '\f')
			case '\r':
				if l.peek(0) == '\n' {
					l.pos++
				}
			case '\n':
			default:
				if e >= '0' && e <= '7' {
					v := int(e - '0')
					for i := 0; i < 2 && l.pos < len(l.data) && l.data[l.pos] >= '0' && l.data[l.pos] <= '7'; i++ {
						v = v*8 + int(l.data[l.pos]-'0')
						l.pos++
					}
					out = append(out, byte(v))
				} else {
					out = append(out, e)
				}
			}
			continue
		}
		out = append(out, c)
	}
	return string(out)
}

// readHex reads a <hex string> after its opening bracket
func (l *lexer) readHex() string {
	var digits []byte
	for l.pos < len(l.data) {
		c := l.data[l.pos]
		l.pos++
		if c == '>' {
			break
		}
		if !isWhitespace(c) {
			digits = append(digits, c)
		}
	}
	if len(digits)%2 == 1 {
		digits = append(digits, '0')
	}
	b, err := hex.DecodeString(string(digits))
	if err != nil {
		return ""
	}
	return string(b)
}

// skipInlineImage moves past the binary data of an inline image, up to and
// including the EI operator.
func (l *lexer) skipInlineImage() {
	for i := l.pos + 1; i+1 < len(l.data); i++ {
		if l.data[i] == 'E' && l.data[i+1] == 'I' && isWhitespace(l.data[i-1]) &&
			(i+2 == len(l.data) || isWhitespace(l.data[i+2]) || isDelimiter(l.data[i+2])) {
			l.pos = i + 2
			return
		}
	}
	l.pos = len(l.data)
}

func isWhitespace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\f' || b == 0
}

func isDelimiter(b byte) bool {
	return b == '(' || b == ')' || b == '<' || b == '>' || b == '[' || b == ']' ||
		b == '{' || b == '}' || b == '/' || b == '%'
}

func isNumberStart(b byte) bool {
	return b == '+' || b == '-' || b == '.' || (b >= '0' && b <= '9')
}
