package domain

import (
	"time"

	"github.com/google/uuid"
)

// DayDuration is one (date, duration) result row, used for the longest sleep
// per day and for the moving mean.
type DayDuration struct {
	Date     Date
	Duration time.Duration
}

// DayCount is one (date, count) result row, used for wakeups.
type DayCount struct {
	Date  Date
	Count int
}

// DaySummary aggregates every event whose Time falls on Date.
// LongestSleep is zero when no closed sleep started that day.
type DaySummary struct {
	Date Date

	Feedings       int
	Bottles        int
	BottleOunces   float64
	BreastFeedings int
	BreastTime     time.Duration

	Diapers int
	Pees    int
	Poos    int

	Sleeps       int
	SleepTotal   time.Duration
	LongestSleep time.Duration

	TummyTime time.Duration
	PumpedML  int
	Notes     int

	// Measurement is the last growth measurement of the day, if any.
	Measurement *GrowthMeasurement
}

// StoredEvent is an Event persisted by the repo, with its database identity.
type StoredEvent struct {
	ID         uuid.UUID
	BatchID    uuid.UUID
	RowType    RowType
	Event      Event
	ImportedAt time.Time
}

// Point is one value of a day series.
type Point struct {
	Date  Date
	Value float64
}

// Series is a named per-day series, the shape handed to charts and exports.
// Unit describes Value, for example "minutes" or "count".
type Series struct {
	Name   string
	Unit   string
	Points []Point
}
