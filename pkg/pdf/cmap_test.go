package pdf

import (
	"testing"
)

func TestParseBFChar(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected map[uint32]string
	}{
		{
			name: "Single mapping",
			input: `
				1 beginbfchar
				<0001> <0041>
				endbfchar
			`,
			expected: map[uint32]string{0x0001: "A"},
		},
		{
			name: "Multiple mappings",
			input: `
				3 beginbfchar
				<0001> <0041>
				<0002> <0042>
				<0003> <0043>
				endbfchar
			`,
			expected: map[uint32]string{0x0001: "A", 0x0002: "B", 0x0003: "C"},
		},
		{
			name: "Korean characters",
			input: `
				beginbfchar
				<0001> <AC00>
				<0002> <AC01>
				endbfchar
			`,
			expected: map[uint32]string{0x0001: "가", 0x0002: "각"},
		},
		{
			name: "Byte order mark",
			input: `
				beginbfchar
				<0001> <FEFF0041>
				endbfchar
			`,
			expected: map[uint32]string{0x0001: "A"},
		},
		{
			name: "Surrogate pair",
			input: `
				beginbfchar
				<0001> <D835DC00>
				endbfchar
			`,
			expected: map[uint32]string{0x0001: "𝐀"},
		},
		{
			name: "Ligature",
			input: `
				beginbfchar
				<0005> <00660069>
				endbfchar
			`,
			expected: map[uint32]string{0x0005: "fi"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmap := NewToUnicodeCMap()
			if err := cmap.Parse([]byte(tt.input)); err != nil {
				t.Fatalf("Parse() error = %v", err)
			}

			for code, want := range tt.expected {
				got, ok := cmap.Lookup(code)
				if !ok {
					t.Errorf("Code %04X not found in mapping", code)
					continue
				}
				if got != want {
					t.Errorf("Code %04X: expected %q, got %q", code, want, got)
				}
			}
		})
	}
}

func TestParseBFRange(t *testing.T) {
	cmap := NewToUnicodeCMap()
	err := cmap.Parse([]byte(`
		2 beginbfrange
		<0001> <0005> <0041>
		<0010> <0012> [<0078> <0079> <007A>]
		endbfrange
	`))
	if err != nil {
		t.Fatal(err)
	}

	tests := map[uint32]string{
		0x0001: "A",
		0x0003: "C",
		0x0005: "E",
		0x0010: "x",
		0x0012: "z",
	}
	for code, want := range tests {
		if got, ok := cmap.Lookup(code); !ok || got != want {
			t.Errorf("Code %04X: expected %q, got %q (found=%v)", code, want, got, ok)
		}
	}

	for _, code := range []uint32{0x0000, 0x0006, 0x0013} {
		if _, ok := cmap.Lookup(code); ok {
			t.Errorf("Code %04X should not be mapped", code)
		}
	}

	if cmap.Len() != 8 {
		t.Errorf("Expected 8 mappings, got %d", cmap.Len())
	}
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name  string
		cmap  string
		data  []byte
		want  string
		width int
	}{
		{
			name: "Two byte codes",
			cmap: `
				1 begincodespacerange
				<0000> <FFFF>
				endcodespacerange
				beginbfrange
				<0020> <007E> <0020>
				endbfrange
			`,
			data:  []byte{0x00, 0x48, 0x00, 0x69},
			want:  "Hi",
			width: 2,
		},
		{
			name: "One byte codes",
			cmap: `
				1 begincodespacerange
				<00> <FF>
				endcodespacerange
				beginbfchar
				<01> <0048>
				<02> <0069>
				endbfchar
			`,
			data:  []byte{0x01, 0x02},
			want:  "Hi",
			width: 1,
		},
		{
			name: "Width from mappings",
			cmap: `
				beginbfchar
				<03> <0021>
				endbfchar
			`,
			data:  []byte{0x03, 0x41},
			want:  "!A",
			width: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmap := NewToUnicodeCMap()
			if err := cmap.Parse([]byte(tt.cmap)); err != nil {
				t.Fatal(err)
			}
			if cmap.CodeBytes() != tt.width {
				t.Errorf("Expected %d byte codes, got %d", tt.width, cmap.CodeBytes())
			}
			if got := cmap.Decode(tt.data); got != tt.want {
				t.Errorf("Decode() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRealWorldCMap(t *testing.T) {
	cmapData := `
		/CIDInit /ProcSet findresource begin
		12 dict begin
		begincmap
		/CIDSystemInfo
		<< /Registry (Adobe)
		/Ordering (UCS)
		/Supplement 0
		>> def
		/CMapName /Adobe-Identity-UCS def
		/CMapType 2 def
		1 begincodespacerange
		<0000> <FFFF>
		endcodespacerange
		3 beginbfchar
		<0003> <0020>
		<0048> <AC00>
		<0049> <AC01>
		endbfchar
		2 beginbfrange
		<004A> <004C> <AC02>
		<0050> <0052> [<AC10> <AC11> <AC12>]
		endbfrange
		endcmap
		CMapName currentdict /CMap defineresource pop
		end
		end
	`

	cmap := NewToUnicodeCMap()
	if err := cmap.Parse([]byte(cmapData)); err != nil {
		t.Fatalf("Failed to parse CMap: %v", err)
	}

	got := cmap.Decode([]byte{0x00, 0x48, 0x00, 0x03, 0x00, 0x4A, 0x00, 0x52})
	if got != "가 갂값" {
		t.Errorf("Decode() = %q", got)
	}
}

func BenchmarkDecode(b *testing.B) {
	cmap := NewToUnicodeCMap()
	_ = cmap.Parse([]byte(`
		beginbfrange
		<0020> <007E> <0020>
		endbfrange
	`))

	data := []byte{0x00, 0x48, 0x00, 0x65, 0x00, 0x6C, 0x00, 0x6C, 0x00, 0x6F}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = cmap.Decode(data)
	}
}
