package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/pyhub-apps/pdffont-golang/pkg/analysis"
	"github.com/pyhub-apps/pdffont-golang/pkg/annotate"
	"github.com/pyhub-apps/pdffont-golang/pkg/chart"
	"github.com/pyhub-apps/pdffont-golang/pkg/fonts"
	"github.com/pyhub-apps/pdffont-golang/pkg/pdf"
	"github.com/pyhub-apps/pdffont-golang/pkg/report"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: benchmark <pdf-file>")
		os.Exit(1)
	}

	pdfPath := os.Args[1]
	data, err := os.ReadFile(pdfPath)
	if err != nil {
		log.Fatalf("Failed to read PDF: %v", err)
	}

	normalizer, err := fonts.NewNormalizer(fonts.DefaultConfig())
	if err != nil {
		log.Fatal(err)
	}

	// Warm-up run
	doc, err := pdf.OpenBytes(data)
	if err != nil {
		log.Fatalf("Failed to open PDF: %v", err)
	}
	doc.Close()

	start := time.Now()
	doc, err = pdf.OpenBytes(data)
	if err != nil {
		log.Fatalf("Failed to open PDF: %v", err)
	}
	defer doc.Close()
	openTime := time.Since(start)

	fmt.Printf("=== pdffont Benchmark ===\n")
	fmt.Printf("File: %s\n", pdfPath)
	fmt.Printf("Pages: %d (backend %s)\n", doc.PageCount(), doc.Backend())
	fmt.Printf("Open time: %v\n", openTime)

	start = time.Now()
	res, err := analysis.Scan(context.Background(), doc, normalizer)
	if err != nil {
		log.Fatalf("Scan failed: %v", err)
	}
	summary := res.Summary()
	scanTime := time.Since(start)

	fmt.Printf("Scan time: %v\n", scanTime)
	fmt.Printf("Spans: %d, marks: %d\n", res.TotalSpans, len(res.Marks))
	fmt.Printf("Spans/sec: %.0f\n", float64(res.TotalSpans)/scanTime.Seconds())

	start = time.Now()
	png, err := chart.Render(summary, chart.DefaultOptions())
	if err != nil && !errors.Is(err, chart.ErrNoData) {
		log.Fatalf("Chart failed: %v", err)
	}
	front, err := report.Build(summary, png, report.DefaultOptions())
	if err != nil {
		log.Fatalf("Report failed: %v", err)
	}
	reportTime := time.Since(start)
	fmt.Printf("Chart and report time: %v\n", reportTime)

	start = time.Now()
	annotated, err := annotate.Apply(data, res.Marks, annotate.DefaultStyle(), nil)
	if err != nil {
		log.Fatalf("Annotate failed: %v", err)
	}
	out, err := annotate.Merge([][]byte{front, annotated}, nil)
	if err != nil {
		log.Fatalf("Merge failed: %v", err)
	}
	annotateTime := time.Since(start)
	fmt.Printf("Annotate and merge time: %v\n", annotateTime)
	fmt.Printf("Output size: %d bytes\n", len(out))

	totalTime := openTime + scanTime + reportTime + annotateTime
	fmt.Printf("\n=== Summary ===\n")
	fmt.Printf("Total processing time: %v\n", totalTime)
	fmt.Printf("Pages/sec: %.2f\n", float64(doc.PageCount())/totalTime.Seconds())
}
