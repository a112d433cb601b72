// Package export writes daily summaries and day series as CSV, JSON or Parquet.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pkordes/babystats/internal/domain"
)

// Format is an output encoding.
type Format string

const (
	FormatCSV     Format = "csv"
	FormatJSON    Format = "json"
	FormatParquet Format = "parquet"
)

// ParseFormat accepts csv, json or parquet in any case.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatCSV, FormatJSON, FormatParquet:
		return f, nil
	}
	return "", fmt.Errorf("%w: unknown export format %q", domain.ErrValidation, s)
}

// row is one record of an export table. The same struct drives the CSV
// columns, the JSON object keys and the Parquet schema.
type row interface {
	csvRecord() []string
}

// WriteSummaries writes one record per day.
func WriteSummaries(w io.Writer, f Format, days []domain.DaySummary) error {
	rows := make([]summaryRow, len(days))
	for i, d := range days {
		rows[i] = newSummaryRow(d)
	}
	if err := write(w, f, summaryHeader, rows); err != nil {
		return fmt.Errorf("export.WriteSummaries: %w", err)
	}
	return nil
}

// WriteSeries writes one record per point of s.
func WriteSeries(w io.Writer, f Format, s domain.Series) error {
	rows := make([]seriesRow, len(s.Points))
	for i, p := range s.Points {
		rows[i] = seriesRow{Date: p.Date.String(), Metric: s.Name, Value: p.Value, Unit: s.Unit}
	}
	if err := write(w, f, seriesHeader, rows); err != nil {
		return fmt.Errorf("export.WriteSeries: %w", err)
	}
	return nil
}

func write[T row](w io.Writer, f Format, header []string, rows []T) error {
	switch f {
	case FormatCSV:
		return writeCSV(w, header, rows)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if rows == nil {
			rows = []T{}
		}
		return enc.Encode(rows)
	case FormatParquet:
		return writeParquet(w, rows)
	}
	return fmt.Errorf("%w: unknown export format %q", domain.ErrValidation, f)
}

func writeCSV[T row](w io.Writer, header []string, rows []T) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, r := range rows {
		if err := cw.Write(r.csvRecord()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
