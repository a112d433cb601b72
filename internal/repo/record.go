package repo

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/pkordes/babystats/internal/domain"
)

// record is the column-level shape of one events row.
type record struct {
	rowType    domain.RowType
	occurredAt time.Time
	endedAt    *time.Time
	duration   time.Duration
	note       string
	details    details
}

// details holds the variant-specific fields stored in the JSONB column.
// pgx marshals it with encoding/json on the way in and out.
type details struct {
	Pee    bool        `json:"pee,omitempty"`
	Poo    bool        `json:"poo,omitempty"`
	Milk   domain.Milk `json:"milk,omitempty"`
	Ounces float64     `json:"ounces,omitempty"`

	VolumeML int  `json:"volume_ml,omitempty"`
	LeftML   *int `json:"left_ml,omitempty"`
	RightML  *int `json:"right_ml,omitempty"`

	WeightLB            *float64 `json:"weight_lb,omitempty"`
	HeightIn            *float64 `json:"height_in,omitempty"`
	HeadCircumferenceIn *float64 `json:"head_circumference_in,omitempty"`
}

func sessionRecord(rt domain.RowType, s domain.Session) record {
	return record{rowType: rt, occurredAt: s.Start, endedAt: s.End, duration: s.Duration, note: s.Note}
}

// toRecord flattens an event into columns.
func toRecord(e domain.Event) record {
	rt := domain.RowTypeOf(e)
	switch ev := e.(type) {
	case domain.SleepSession:
		return sessionRecord(rt, ev.Session)
	case domain.TummyTime:
		return sessionRecord(rt, ev.Session)
	case domain.BreastFeeding:
		return sessionRecord(rt, ev.Session)
	case domain.DiaperChange:
		return record{rowType: rt, occurredAt: ev.At, note: ev.Note,
			details: details{Pee: ev.Pee, Poo: ev.Poo}}
	case domain.Bottle:
		return record{rowType: rt, occurredAt: ev.At, note: ev.Note,
			details: details{Milk: ev.Milk, Ounces: ev.Ounces}}
	case domain.Pumping:
		return record{rowType: rt, occurredAt: ev.Start, note: ev.Note,
			details: details{VolumeML: ev.VolumeML, LeftML: ev.LeftML, RightML: ev.RightML}}
	case domain.GrowthMeasurement:
		return record{rowType: rt, occurredAt: ev.At, note: ev.Note,
			details: details{WeightLB: ev.WeightLB, HeightIn: ev.HeightIn, HeadCircumferenceIn: ev.HeadCircumferenceIn}}
	case domain.Note:
		return record{rowType: rt, occurredAt: ev.At, note: ev.Text}
	}
	return record{rowType: rt, occurredAt: e.Time()}
}

// contentKey identifies an event by everything it carries, so re-importing an
// export matches the rows already stored while two different entries logged in
// the same minute stay apart.
func (r record) contentKey(kind domain.Kind) (string, error) {
	detailsJSON, err := json.Marshal(r.details)
	if err != nil {
		return "", fmt.Errorf("marshal details: %w", err)
	}
	ended := ""
	if r.endedAt != nil {
		ended = r.endedAt.UTC().Format(time.RFC3339Nano)
	}

	h := sha256.New()
	for _, field := range []string{
		string(kind),
		string(r.rowType),
		r.occurredAt.UTC().Format(time.RFC3339Nano),
		ended,
		strconv.FormatInt(r.duration.Milliseconds(), 10),
		r.note,
		string(detailsJSON),
	} {
		// Length prefix keeps field boundaries unambiguous.
		fmt.Fprintf(h, "%d:%s", len(field), field)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// event rebuilds the domain event from a scanned row.
func (r record) event() (domain.Event, error) {
	session := domain.Session{Start: r.occurredAt, End: r.endedAt, Duration: r.duration, Note: r.note}
	d := r.details

	switch r.rowType {
	case domain.RowSleep:
		return domain.SleepSession{Session: session}, nil
	case domain.RowTummyTime, domain.RowVaccination:
		return domain.TummyTime{Session: session}, nil
	case domain.RowLeftBreast:
		return domain.BreastFeeding{Side: domain.SideLeft, Session: session}, nil
	case domain.RowRightBreast:
		return domain.BreastFeeding{Side: domain.SideRight, Session: session}, nil
	case domain.RowDiaper:
		return domain.DiaperChange{At: r.occurredAt, Pee: d.Pee, Poo: d.Poo, Note: r.note}, nil
	case domain.RowBottle:
		milk := d.Milk
		if milk == "" {
			milk = domain.MilkUnknown
		}
		return domain.Bottle{At: r.occurredAt, Milk: milk, Ounces: d.Ounces, Note: r.note}, nil
	case domain.RowPumping:
		return domain.Pumping{Start: r.occurredAt, VolumeML: d.VolumeML, LeftML: d.LeftML, RightML: d.RightML, Note: r.note}, nil
	case domain.RowMeasure:
		return domain.GrowthMeasurement{At: r.occurredAt, WeightLB: d.WeightLB, HeightIn: d.HeightIn,
			HeadCircumferenceIn: d.HeadCircumferenceIn, Note: r.note}, nil
	case domain.RowNote:
		return domain.Note{At: r.occurredAt, Text: r.note}, nil
	}
	return nil, fmt.Errorf("%w: stored row type %q", domain.ErrUnknownEventType, r.rowType)
}
