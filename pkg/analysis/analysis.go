// Package analysis tallies font usage across a document and collects the
// text that is not set in the target font.
package analysis

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/pyhub-apps/pdffont-golang/pkg/fonts"
	"github.com/pyhub-apps/pdffont-golang/pkg/pdf"
)

// Mark locates one span whose font is not the target font
type Mark struct {
	Page int             `json:"page"`
	BBox pdf.BoundingBox `json:"bbox"`
	Font string          `json:"font"` // canonical name
	Text string          `json:"text"` // trimmed span text
}

// Result is the outcome of a single walk over a document
type Result struct {
	Target     string
	Pages      int
	TotalSpans int
	Counts     map[string]int
	FontPages  map[string][]int // pages on which each font occurs, ascending
	Marks      []Mark
}

// Scan walks every span of doc once, counting canonical font names and
// recording a Mark for every non-empty span set in another font.
// The context is checked before each page.
func Scan(ctx context.Context, doc pdf.Document, normalizer *fonts.Normalizer, opts ...pdf.SpanExtractionOption) (*Result, error) {
	result := &Result{
		Target:    normalizer.Target(),
		Pages:     doc.PageCount(),
		Counts:    make(map[string]int),
		FontPages: make(map[string][]int),
	}

	for _, page := range doc.GetPages() {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("scan interrupted at page %d: %w", page.GetPageNumber(), err)
		}

		for _, span := range page.ExtractSpans(opts...) {
			if span.Text == "" {
				continue
			}
			font := normalizer.Normalize(span.Font)
			result.add(font, span.Page)

			if normalizer.Conforms(font) {
				continue
			}
			if text := strings.TrimSpace(span.Text); text != "" {
				result.Marks = append(result.Marks, Mark{
					Page: span.Page,
					BBox: span.BBox,
					Font: font,
					Text: text,
				})
			}
		}
	}

	return result, nil
}

func (r *Result) add(font string, page int) {
	r.TotalSpans++
	r.Counts[font]++

	pages := r.FontPages[font]
	if len(pages) == 0 || pages[len(pages)-1] != page {
		r.FontPages[font] = append(pages, page)
	}
}

// Summary is the font distribution of a document, most used font first
type Summary struct {
	Target     string  `json:"target"`
	Total      int     `json:"total"`
	Entries    []Entry `json:"fonts"`
	Conforming bool    `json:"conforming"`
}

// Entry is one line of a Summary
type Entry struct {
	Font    string  `json:"font"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"` // rounded to two decimals
	Pages   []int   `json:"pages"`
}

// Summary ranks the fonts by descending count, ties by name.
// An empty result yields no entries and is never conforming.
func (r *Result) Summary() Summary {
	s := Summary{Target: r.Target, Total: r.TotalSpans}
	if r.TotalSpans == 0 {
		return s
	}

	s.Entries = make([]Entry, 0, len(r.Counts))
	for font, count := range r.Counts {
		s.Entries = append(s.Entries, Entry{
			Font:    font,
			Count:   count,
			Percent: percent(count, r.TotalSpans),
			Pages:   r.FontPages[font],
		})
	}
	sort.Slice(s.Entries, func(i, j int) bool {
		if s.Entries[i].Count != s.Entries[j].Count {
			return s.Entries[i].Count > s.Entries[j].Count
		}
		return s.Entries[i].Font < s.Entries[j].Font
	})

	s.Conforming = len(s.Entries) == 1 && s.Entries[0].Font == r.Target
	return s
}

// Percentages maps each font to its share of the spans
func (s Summary) Percentages() map[string]float64 {
	out := make(map[string]float64, len(s.Entries))
	for _, e := range s.Entries {
		out[e.Font] = e.Percent
	}
	return out
}

// Empty reports whether the document had no text at all
func (s Summary) Empty() bool {
	return s.Total == 0
}

func percent(count, total int) float64 {
	return math.RoundToEven(float64(count)*10000/float64(total)) / 100
}
