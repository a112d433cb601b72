// Package ingest turns rows of a log export into domain events.
// Builder maps one RawRow to one Event; Reader streams a CSV export through it.
package ingest

import (
	"fmt"
	"strings"
	"time"

	"github.com/pkordes/babystats/internal/decode"
	"github.com/pkordes/babystats/internal/domain"
)

// Builder maps raw rows to events. The zero value decodes timestamps into time.Local.
type Builder struct {
	Location *time.Location
}

// NewBuilder returns a Builder that converts timestamps into loc.
func NewBuilder(loc *time.Location) Builder {
	return Builder{Location: loc}
}

// Build dispatches on row.Type and returns the decoded event.
// The first decode failure is returned; no partial event is produced.
// Unknown types fail with domain.ErrUnknownEventType.
func (b Builder) Build(row domain.RawRow) (domain.Event, error) {
	rowType := domain.RowType(strings.TrimSpace(row.Type))
	kind, ok := domain.RowTypes[rowType]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownEventType, row.Type)
	}

	switch kind {
	case domain.KindSleep:
		s, err := b.session(row)
		if err != nil {
			return nil, err
		}
		return domain.SleepSession{Session: s}, nil
	case domain.KindDiaper:
		return b.diaper(row)
	case domain.KindFeeding:
		return b.feeding(rowType, row)
	case domain.KindPumping:
		return b.pumping(row)
	case domain.KindTummyTime:
		s, err := b.session(row)
		if err != nil {
			return nil, err
		}
		return domain.TummyTime{Session: s}, nil
	case domain.KindMeasure:
		return b.measure(row)
	case domain.KindNote:
		at, err := b.start(row)
		if err != nil {
			return nil, err
		}
		return domain.Note{At: at, Text: row.Note}, nil
	}
	// Reached only if RowTypes maps to a Kind this switch does not handle.
	return nil, fmt.Errorf("ingest.Builder.Build: no decoder for kind %q", kind)
}

func (b Builder) start(row domain.RawRow) (time.Time, error) {
	return decode.Timestamp(row.Start, b.Location)
}

func (b Builder) session(row domain.RawRow) (domain.Session, error) {
	start, err := b.start(row)
	if err != nil {
		return domain.Session{}, err
	}
	end, err := decode.OptionalTimestamp(row.End, b.Location)
	if err != nil {
		return domain.Session{}, err
	}
	d, err := decode.Duration(row.Duration)
	if err != nil {
		return domain.Session{}, err
	}
	return domain.Session{Start: start, End: end, Duration: d, Note: row.Note}, nil
}

func (b Builder) diaper(row domain.RawRow) (domain.Event, error) {
	at, err := b.start(row)
	if err != nil {
		return nil, err
	}
	return domain.DiaperChange{
		At:   at,
		Pee:  strings.Contains(row.Extra, "Urine"),
		Poo:  strings.Contains(row.Extra, "Feces"),
		Note: row.Note,
	}, nil
}

func (b Builder) feeding(rowType domain.RowType, row domain.RawRow) (domain.Event, error) {
	switch rowType {
	case domain.RowLeftBreast, domain.RowRightBreast:
		s, err := b.session(row)
		if err != nil {
			return nil, err
		}
		side := domain.SideRight
		if rowType == domain.RowLeftBreast {
			side = domain.SideLeft
		}
		return domain.BreastFeeding{Side: side, Session: s}, nil
	default:
		at, err := b.start(row)
		if err != nil {
			return nil, err
		}
		return domain.Bottle{
			At:     at,
			Milk:   milkOf(row.Extra2),
			Ounces: decode.Ounces(row.Extra),
			Note:   row.Note,
		}, nil
	}
}

func milkOf(s string) domain.Milk {
	switch strings.TrimSpace(s) {
	case "Mom's milk":
		return domain.MilkBreast
	case "Formula":
		return domain.MilkFormula
	default:
		return domain.MilkUnknown
	}
}

func (b Builder) pumping(row domain.RawRow) (domain.Event, error) {
	start, err := b.start(row)
	if err != nil {
		return nil, err
	}
	left, right := decode.PumpSides(row.Note)
	return domain.Pumping{
		Start:    start,
		VolumeML: decode.OuncesToML(decode.Ounces(row.Extra)),
		LeftML:   left,
		RightML:  right,
		Note:     row.Note,
	}, nil
}

// measure reads sub-measurements from Extra and fills gaps from Note.
func (b Builder) measure(row domain.RawRow) (domain.Event, error) {
	at, err := b.start(row)
	if err != nil {
		return nil, err
	}
	g := decode.GrowthFrom(row.Extra).Merge(decode.GrowthFrom(row.Note))
	return domain.GrowthMeasurement{
		At:                  at,
		WeightLB:            g.WeightLB,
		HeightIn:            g.HeightIn,
		HeadCircumferenceIn: g.HeadCircumferenceIn,
		Note:                row.Note,
	}, nil
}
