package domain

// RawRow is one untyped record from the log export. Fields are addressed by
// column name in the source, never by position.
type RawRow struct {
	Type     string
	Start    string
	End      string
	Duration string
	Extra    string
	Extra2   string
	Note     string
}

// Column names of the log export header.
const (
	ColType     = "Type"
	ColStart    = "Start"
	ColEnd      = "End"
	ColDuration = "Duration"
	ColExtra    = "Extra"
	ColExtra2   = "Extra2"
	ColNote     = "Note"
)

// Columns lists every column a log export must carry.
var Columns = []string{ColType, ColStart, ColEnd, ColDuration, ColExtra, ColExtra2, ColNote}

// RowType is the value of the Type column. It is the external tag the builder
// dispatches on; several row types can share a Kind.
type RowType string

const (
	RowSleep       RowType = "Sleep"
	RowDiaper      RowType = "Diaper"
	RowBottle      RowType = "Bottle feeding"
	RowLeftBreast  RowType = "Left breast"
	RowRightBreast RowType = "Right breast"
	RowPumping     RowType = "Pumping"
	RowVaccination RowType = "Vaccination"
	RowTummyTime   RowType = "Tummy time"
	RowMeasure     RowType = "Measure"
	RowNote        RowType = "Note"
)

// RowTypes maps every known row type to the Kind it decodes into.
var RowTypes = map[RowType]Kind{
	RowSleep:       KindSleep,
	RowDiaper:      KindDiaper,
	RowBottle:      KindFeeding,
	RowLeftBreast:  KindFeeding,
	RowRightBreast: KindFeeding,
	RowPumping:     KindPumping,
	RowVaccination: KindTummyTime,
	RowTummyTime:   KindTummyTime,
	RowMeasure:     KindMeasure,
	RowNote:        KindNote,
}

// RowTypeOf returns the canonical row type for e. Tummy time is always
// reported as RowTummyTime even when it was read from a "Vaccination" row.
func RowTypeOf(e Event) RowType {
	switch ev := e.(type) {
	case SleepSession:
		return RowSleep
	case DiaperChange:
		return RowDiaper
	case Bottle:
		return RowBottle
	case BreastFeeding:
		if ev.Side == SideLeft {
			return RowLeftBreast
		}
		return RowRightBreast
	case Pumping:
		return RowPumping
	case TummyTime:
		return RowTummyTime
	case GrowthMeasurement:
		return RowMeasure
	case Note:
		return RowNote
	}
	return ""
}
