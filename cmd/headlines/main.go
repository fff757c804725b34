// Package main provides a command line dashboard for market headlines.
// Usage: marketpulse-headlines [-query Q | -category C] [-region R] [-format table|json|csv] [-out PATH]
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"

	"marketpulse/internal/app"
	"marketpulse/internal/config"
	"marketpulse/internal/domain/entity"
	"marketpulse/internal/infra/export"
	"marketpulse/internal/observability/logging"
	"marketpulse/internal/usecase/analysis"
	"marketpulse/internal/usecase/dashboard"
)

// options are the parsed command line flags.
type options struct {
	query     entity.FeedQuery
	max       int
	filter    string
	exclude   string
	excludeOn bool
	headlines int
	format    string
	out       string
	timeout   time.Duration
}

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Warning: failed to load .env: %v\n", err)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	logger := logging.New(stderr, "text")
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "Error: invalid configuration: %v\n", err)
		return 1
	}

	components, err := app.Build(ctx, cfg, logger)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	defer func() {
		if err := components.Close(); err != nil {
			logger.Error("failed to release components", slog.Any("error", err))
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, opts.timeout)
	defer cancel()

	report, err := components.Dashboard.Build(ctx, opts.request())
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	if err := render(report, opts, stdout, time.Now()); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options
	fs := flag.NewFlagSet("marketpulse-headlines", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&opts.query.Query, "query", "", "Search query")
	fs.StringVar(&opts.query.Region, "region", entity.DefaultRegion, "Region code, e.g. US, UK, NG")
	fs.StringVar(&opts.query.Category, "category", "", "Topic code (BUSINESS, TECHNOLOGY, ...); wins over -query")
	fs.StringVar(&opts.query.Language, "language", entity.DefaultLanguage, "Language code")
	fs.IntVar(&opts.max, "max", 0, "Maximum number of articles (10-100, default 50)")
	fs.StringVar(&opts.filter, "filter", "", "Comma-separated keywords; keep only matching titles")
	fs.StringVar(&opts.exclude, "exclude", "", "Comma-separated words left out of the top keywords")
	fs.IntVar(&opts.headlines, "headlines", 0, "Number of headlines to show (5-50, default 10)")
	fs.StringVar(&opts.format, "format", "table", "Output format: table, json or csv")
	fs.StringVar(&opts.out, "out", "", "Write the output to this file, or into this directory with a generated name")
	fs.DurationVar(&opts.timeout, "timeout", 90*time.Second, "Overall deadline")

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "exclude" {
			opts.excludeOn = true
		}
	})

	switch opts.format {
	case "table", "json", "csv":
	default:
		return options{}, fmt.Errorf("unsupported format %q (want table, json or csv)", opts.format)
	}
	if opts.format == "table" && opts.out != "" {
		return options{}, errors.New("-out requires -format json or csv")
	}
	if opts.timeout <= 0 {
		return options{}, errors.New("-timeout must be positive")
	}
	return opts, nil
}

func (o options) request() dashboard.Request {
	req := dashboard.Request{
		Query:       o.query,
		MaxArticles: o.max,
		Filter:      o.filter,
		Headlines:   o.headlines,
	}
	if o.excludeOn {
		req.Exclude = analysis.ParseWordList(o.exclude)
		if req.Exclude == nil {
			req.Exclude = []string{}
		}
	}
	return req
}

// render writes the report in the selected format to stdout or to -out.
func render(report *dashboard.Report, opts options, stdout io.Writer, now time.Time) error {
	if opts.format == "table" {
		return writeTable(stdout, report)
	}

	w := stdout
	if opts.out != "" {
		path := opts.out
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			path = filepath.Join(path, export.FileName(now, export.Format(opts.format)))
		}
		// #nosec G304 -- path is the caller's own command line argument
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer func() { _ = f.Close() }()
		w = f
		defer fmt.Fprintf(stdout, "Wrote %d articles to %s\n", len(report.Rows), path)
	}

	if opts.format == "csv" {
		return export.CSV(w, report.Rows)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

func writeTable(w io.Writer, r *dashboard.Report) error {
	fmt.Fprintf(w, "Feed: %s\n", r.FeedURL)
	if r.Status != dashboard.StatusOK {
		fmt.Fprintln(w, r.Message)
		return nil
	}

	s := r.Stats
	fmt.Fprintf(w, "Articles: %d   Positive: %.1f%%   Neutral: %.1f%%   Negative: %.1f%%   Top source: %s\n",
		s.Total, s.PositivePercent, s.NeutralPercent, s.NegativePercent, s.TopSource)
	if s.PositiveNegativeRatio != nil {
		fmt.Fprintf(w, "Positive/negative ratio: %.2f\n", *s.PositiveNegativeRatio)
	}
	fmt.Fprintf(w, "\nSummary: %s\n\n", r.Summary.Text)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tSENTIMENT\tSOURCE\tPUBLISHED\tTITLE")
	for i, row := range r.Headlines {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", i+1, row.Sentiment, row.Source, row.Published, row.Title)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(r.Keywords) > 0 {
		words := make([]string, 0, len(r.Keywords))
		for _, k := range r.Keywords {
			words = append(words, fmt.Sprintf("%s (%d)", k.Word, k.Count))
		}
		fmt.Fprintf(w, "\nTop keywords: %s\n", strings.Join(words, ", "))
	}
	return nil
}
