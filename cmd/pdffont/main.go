package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/pyhub-apps/pdffont-golang/pkg/analysis"
	"github.com/pyhub-apps/pdffont-golang/pkg/checker"
	"github.com/pyhub-apps/pdffont-golang/pkg/config"
	"github.com/pyhub-apps/pdffont-golang/pkg/report"
)

func main() {
	var (
		pdfPath    = flag.String("pdf", "", "Path to PDF file")
		outPath    = flag.String("o", "", "Write the annotated report to this file")
		asJSON     = flag.Bool("json", false, "Print the summary as JSON")
		configPath = flag.String("config", "", "Path to a YAML config file")
		verbose    = flag.Bool("v", false, "List every text span not set in the target font")
	)
	flag.Parse()

	if *pdfPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	cfg := config.DefaultConfig()
	if *configPath != "" {
		var err error
		cfg, err = config.LoadConfig(*configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}

	normalizer, err := cfg.Normalizer()
	if err != nil {
		log.Fatalf("Invalid font config: %v", err)
	}

	c, err := checker.New(checker.Config{
		Normalizer: normalizer,
		Report:     cfg.Report,
		Chart:      cfg.ChartOptions(),
		Logger:     slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()})),
	})
	if err != nil {
		log.Fatalf("Failed to create checker: %v", err)
	}

	data, err := os.ReadFile(*pdfPath)
	if err != nil {
		log.Fatalf("Failed to read PDF: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	var res *checker.Result
	if *outPath != "" {
		res, err = c.Check(ctx, data)
	} else {
		res, err = c.Analyze(ctx, data)
	}
	if err != nil {
		log.Fatalf("Font check failed: %v", err)
	}

	if *outPath != "" {
		if err := os.WriteFile(*outPath, res.Output, 0o644); err != nil {
			log.Fatalf("Failed to write report: %v", err)
		}
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res.Summary); err != nil {
			log.Fatalf("Failed to encode summary: %v", err)
		}
		return
	}

	fmt.Printf("PDF: %s (%d pages, %s)\n\n", *pdfPath, res.Pages, res.Backend)
	printTable(os.Stdout, res.Summary)
	fmt.Printf("\n%s\n", report.Verdict(res.Summary, cfg.Report))

	if *verbose && len(res.Marks) > 0 {
		fmt.Printf("\nText not set in %s:\n", res.Summary.Target)
		for _, m := range res.Marks {
			fmt.Printf("  page %d [%.1f %.1f %.1f %.1f] %s: %s\n",
				m.Page, m.BBox.X0, m.BBox.Y0, m.BBox.X1, m.BBox.Y1, m.Font, m.Text)
		}
	}
	if *outPath != "" {
		fmt.Printf("\nAnnotated report written to %s\n", *outPath)
	}
}

// printTable aligns columns by display width so CJK font names line up
func printTable(w io.Writer, summary analysis.Summary) {
	if len(summary.Entries) == 0 {
		fmt.Fprintln(w, "No text found")
		return
	}

	fontWidth := runewidth.StringWidth("Font")
	for _, e := range summary.Entries {
		if n := runewidth.StringWidth(e.Font); n > fontWidth {
			fontWidth = n
		}
	}

	fmt.Fprintf(w, "%s  %8s  %8s  %s\n", runewidth.FillRight("Font", fontWidth), "Count", "Percent", "Pages")
	fmt.Fprintln(w, strings.Repeat("-", fontWidth+30))
	for _, e := range summary.Entries {
		pages := make([]string, len(e.Pages))
		for i, p := range e.Pages {
			pages[i] = strconv.Itoa(p)
		}
		fmt.Fprintf(w, "%s  %8d  %7.2f%%  %s\n",
			runewidth.FillRight(e.Font, fontWidth), e.Count, e.Percent, strings.Join(pages, ","))
	}
	fmt.Fprintln(w, strings.Repeat("-", fontWidth+30))
	fmt.Fprintf(w, "%s  %8d\n", runewidth.FillRight("Total", fontWidth), summary.Total)
}
