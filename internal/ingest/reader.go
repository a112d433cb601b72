package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"iter"
	"strings"

	"github.com/pkordes/babystats/internal/domain"
)

// Reader streams events out of a CSV log export. It holds one record at a time.
// A Reader is single-pass: All may be ranged over once.
type Reader struct {
	csv     *csv.Reader
	builder Builder
	cols    map[string]int
	done    bool
}

// NewReader wraps r. The header is validated on the first pull, not here.
func NewReader(r io.Reader, b Builder) *Reader {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true
	return &Reader{csv: cr, builder: b}
}

// All yields one item per data row, in file order.
//
// A row that fails to decode, or whose tabular syntax is malformed, yields a
// nil event and a *domain.RowError; iteration then continues with the next row.
// A missing header column or an I/O failure yields a single error that is not
// a *domain.RowError, after which the sequence ends.
func (r *Reader) All() iter.Seq2[domain.Event, error] {
	return func(yield func(domain.Event, error) bool) {
		if r.done {
			return
		}
		defer func() { r.done = true }()

		if err := r.readHeader(); err != nil {
			yield(nil, err)
			return
		}

		for {
			rec, err := r.csv.Read()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				var perr *csv.ParseError
				if !errors.As(err, &perr) {
					yield(nil, fmt.Errorf("%w: %v", domain.ErrRowSource, err))
					return
				}
				if !yield(nil, &domain.RowError{Line: perr.StartLine, Err: fmt.Errorf("%w: %v", domain.ErrRowSource, perr.Err)}) {
					return
				}
				continue
			}

			line, _ := r.csv.FieldPos(0)
			row, err := r.row(rec)
			if err != nil {
				if !yield(nil, &domain.RowError{Line: line, Err: err}) {
					return
				}
				continue
			}

			ev, err := r.builder.Build(row)
			if err != nil {
				if !yield(nil, &domain.RowError{Line: line, Type: row.Type, Err: err}) {
					return
				}
				continue
			}
			if !yield(ev, nil) {
				return
			}
		}
	}
}

// readHeader maps each required column name to its index.
func (r *Reader) readHeader() error {
	header, err := r.csv.Read()
	if errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: empty input, expected a header row", domain.ErrRowSource)
	}
	if err != nil {
		return fmt.Errorf("%w: header: %v", domain.ErrRowSource, err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		cols[strings.TrimSpace(name)] = i
	}

	var missing []string
	for _, name := range domain.Columns {
		if _, ok := cols[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: header missing columns: %s", domain.ErrRowSource, strings.Join(missing, ", "))
	}
	r.cols = cols
	return nil
}

// row copies the named fields out of rec. rec is reused by the csv reader.
func (r *Reader) row(rec []string) (domain.RawRow, error) {
	field := func(name string) (string, error) {
		i := r.cols[name]
		if i >= len(rec) {
			return "", fmt.Errorf("%w: record has %d fields, column %q is at %d", domain.ErrRowSource, len(rec), name, i+1)
		}
		return rec[i], nil
	}

	var row domain.RawRow
	targets := []struct {
		name string
		dst  *string
	}{
		{domain.ColType, &row.Type},
		{domain.ColStart, &row.Start},
		{domain.ColEnd, &row.End},
		{domain.ColDuration, &row.Duration},
		{domain.ColExtra, &row.Extra},
		{domain.ColExtra2, &row.Extra2},
		{domain.ColNote, &row.Note},
	}
	for _, t := range targets {
		v, err := field(t.name)
		if err != nil {
			return domain.RawRow{}, err
		}
		*t.dst = v
	}
	return row, nil
}
