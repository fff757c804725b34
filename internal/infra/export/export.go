// Package export writes dashboard rows as downloadable CSV or JSON files.
package export

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"marketpulse/internal/usecase/dashboard"
)

// Format is an export file format.
type Format string

// Supported formats.
const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// ErrUnsupportedFormat is returned by ParseFormat for unknown formats.
var ErrUnsupportedFormat = errors.New("unsupported export format")

// Header is the CSV column order.
var Header = []string{"title", "link", "published", "summary", "source", "sentiment_label"}

// ParseFormat accepts "csv" or "json" in any case. Empty selects CSV.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatJSON:
		return FormatJSON, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

// ContentType returns the MIME type served for f.
func (f Format) ContentType() string {
	if f == FormatJSON {
		return "application/json"
	}
	return "text/csv; charset=utf-8"
}

// Write encodes rows to w in format f.
func Write(w io.Writer, f Format, rows []dashboard.Row) error {
	switch f {
	case FormatCSV:
		return CSV(w, rows)
	case FormatJSON:
		return JSON(w, rows)
	}
	return fmt.Errorf("%w: %q", ErrUnsupportedFormat, string(f))
}

// CSV writes rows with a header line.
func CSV(w io.Writer, rows []dashboard.Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, r := range rows {
		record := []string{r.Title, r.Link, r.Published, r.Summary, r.Source, string(r.Sentiment)}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// JSON writes rows as an indented array of records. No rows yields "[]".
func JSON(w io.Writer, rows []dashboard.Row) error {
	if rows == nil {
		rows = []dashboard.Row{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rows); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

// FileName returns the download name for an export created at now, e.g.
// marketpulse_data_20240102_1504-UTC.csv.
func FileName(now time.Time, f Format) string {
	return fmt.Sprintf("marketpulse_data_%s-UTC.%s", now.UTC().Format("20060102_1504"), f)
}
