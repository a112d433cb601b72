// Package domain contains the core data types for babystats.
// It holds no parsing or SQL and is imported by every other internal package
// (decode, ingest, stats, service, repo).
package domain

import "time"

// Kind is the discriminant of an Event. The set is closed: every Kind listed in
// Kinds must be produced by the ingest builder and understood by the repo.
type Kind string

const (
	KindSleep     Kind = "sleep"
	KindDiaper    Kind = "diaper"
	KindFeeding   Kind = "feeding"
	KindPumping   Kind = "pumping"
	KindTummyTime Kind = "tummy_time"
	KindMeasure   Kind = "measure"
	KindNote      Kind = "note"
)

// Kinds returns every Kind in declaration order.
func Kinds() []Kind {
	return []Kind{KindSleep, KindDiaper, KindFeeding, KindPumping, KindTummyTime, KindMeasure, KindNote}
}

// Event is one decoded log entry. The concrete types in this file are the only
// implementations; the unexported marker method keeps the set closed.
type Event interface {
	// Kind reports the variant.
	Kind() Kind
	// Time is the variant's start or occurred-at timestamp.
	Time() time.Time

	event()
}

// Session is the shape shared by sleep, breast feeding and tummy time entries.
// End is nil while the session is still in progress. Duration comes from the
// log itself and is not always End minus Start; comparisons use Duration.
type Session struct {
	Start    time.Time
	End      *time.Time
	Duration time.Duration
	Note     string
}

// Closed reports whether the session has a known end.
func (s Session) Closed() bool { return s.End != nil }

// SleepSession is a single nap or night sleep.
type SleepSession struct {
	Session
}

func (SleepSession) Kind() Kind        { return KindSleep }
func (e SleepSession) Time() time.Time { return e.Start }
func (SleepSession) event()            {}

// DiaperChange records a diaper change. Pee and Poo may both be set or both unset.
type DiaperChange struct {
	At   time.Time
	Pee  bool
	Poo  bool
	Note string
}

func (DiaperChange) Kind() Kind        { return KindDiaper }
func (e DiaperChange) Time() time.Time { return e.At }
func (DiaperChange) event()            {}

// FeedingMethod distinguishes the feeding sub-variants.
type FeedingMethod string

const (
	MethodBottle      FeedingMethod = "bottle"
	MethodLeftBreast  FeedingMethod = "left_breast"
	MethodRightBreast FeedingMethod = "right_breast"
)

// Feeding is implemented by Bottle and BreastFeeding.
type Feeding interface {
	Event
	Method() FeedingMethod
}

// Milk is the content of a bottle.
type Milk string

const (
	MilkBreast  Milk = "breast_milk"
	MilkFormula Milk = "formula"
	MilkUnknown Milk = "unknown"
)

// Bottle is a bottle feeding. Ounces is zero when the log omits the quantity.
type Bottle struct {
	At     time.Time
	Milk   Milk
	Ounces float64
	Note   string
}

func (Bottle) Kind() Kind            { return KindFeeding }
func (e Bottle) Time() time.Time     { return e.At }
func (Bottle) Method() FeedingMethod { return MethodBottle }
func (Bottle) event()                {}

// Side is the breast used for a breast feeding.
type Side string

const (
	SideLeft  Side = "left"
	SideRight Side = "right"
)

// BreastFeeding is a left or right breast feeding session.
type BreastFeeding struct {
	Side Side
	Session
}

func (BreastFeeding) Kind() Kind        { return KindFeeding }
func (e BreastFeeding) Time() time.Time { return e.Start }
func (BreastFeeding) event()            {}

// Method maps Side to the matching FeedingMethod.
func (e BreastFeeding) Method() FeedingMethod {
	if e.Side == SideLeft {
		return MethodLeftBreast
	}
	return MethodRightBreast
}

// Pumping is a breast pump session. LeftML and RightML come from free text and
// are not guaranteed to add up to VolumeML.
type Pumping struct {
	Start    time.Time
	VolumeML int
	LeftML   *int
	RightML  *int
	Note     string
}

func (Pumping) Kind() Kind        { return KindPumping }
func (e Pumping) Time() time.Time { return e.Start }
func (Pumping) event()            {}

// SidesMatchTotal reports whether both sides are present and add up to VolumeML.
func (e Pumping) SidesMatchTotal() bool {
	if e.LeftML == nil || e.RightML == nil {
		return false
	}
	return *e.LeftML+*e.RightML == e.VolumeML
}

// TummyTime has the same shape as SleepSession.
type TummyTime struct {
	Session
}

func (TummyTime) Kind() Kind        { return KindTummyTime }
func (e TummyTime) Time() time.Time { return e.Start }
func (TummyTime) event()            {}

// GrowthMeasurement holds any subset of weight, height and head circumference.
type GrowthMeasurement struct {
	At                  time.Time
	WeightLB            *float64
	HeightIn            *float64
	HeadCircumferenceIn *float64
	Note                string
}

func (GrowthMeasurement) Kind() Kind        { return KindMeasure }
func (e GrowthMeasurement) Time() time.Time { return e.At }
func (GrowthMeasurement) event()            {}

// Note is a free-text entry.
type Note struct {
	At   time.Time
	Text string
}

func (Note) Kind() Kind        { return KindNote }
func (e Note) Time() time.Time { return e.At }
func (Note) event()            {}
