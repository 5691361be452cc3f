package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/pyhub-apps/pdffont-golang/pkg/fonts"
	"github.com/pyhub-apps/pdffont-golang/pkg/pdf"
)

func main() {
	var (
		pdfPath  = flag.String("pdf", "", "Path to PDF file")
		library  = flag.String("lib", "auto", "PDF library to use (auto, ledongthuc, dslipak, pdfcpu)")
		pageNum  = flag.Int("page", 1, "Page to dump (1-based)")
		maxChars = flag.Int("chars", 10, "Number of glyphs to print")
	)
	flag.Parse()

	if *pdfPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	var doc pdf.Document
	var err error

	switch *library {
	case "auto":
		doc, err = pdf.Open(*pdfPath)
	case pdf.BackendLedongthuc:
		doc, err = pdf.OpenWithLedongthuc(*pdfPath)
	case pdf.BackendDslipak:
		doc, err = pdf.OpenWithDslipak(*pdfPath)
	case pdf.BackendPDFCPU:
		doc, err = pdf.OpenWithPDFCPU(*pdfPath)
	default:
		log.Fatalf("Unknown library: %s", *library)
	}
	if err != nil {
		log.Fatalf("Failed to open PDF: %v", err)
	}
	defer doc.Close()

	fmt.Printf("Using library: %s\n", doc.Backend())
	fmt.Printf("Pages: %d\n\n", doc.PageCount())

	page, err := doc.GetPage(*pageNum - 1)
	if err != nil {
		log.Fatalf("Failed to get page: %v", err)
	}

	chars := page.GetChars()
	fmt.Printf("Page %d (%.2f x %.2f) - %d glyphs\n", page.GetPageNumber(), page.GetWidth(), page.GetHeight(), len(chars))
	for i := 0; i < *maxChars && i < len(chars); i++ {
		c := chars[i]
		fmt.Printf("%3d. %q  Font: %s, Size: %.2f, X: %.2f, Baseline: %.2f, Width: %.2f\n",
			i+1, c.Text, c.Font, c.FontSize, c.X, c.Baseline, c.Width)
	}

	normalizer, err := fonts.NewNormalizer(fonts.DefaultConfig())
	if err != nil {
		log.Fatal(err)
	}

	spans := page.ExtractSpans()
	fmt.Printf("\nSpans: %d\n", len(spans))
	for i, s := range spans {
		name := normalizer.Normalize(s.Font)
		mark := " "
		if !normalizer.Conforms(name) {
			mark = "*"
		}
		fmt.Printf("%s %3d. [%.1f %.1f %.1f %.1f] %s -> %s (%.1fpt): %q\n",
			mark, i+1, s.BBox.X0, s.BBox.Y0, s.BBox.X1, s.BBox.Y1,
			s.Font, name, s.FontSize, s.Text)
	}
}
