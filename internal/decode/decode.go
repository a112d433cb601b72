// Package decode converts the raw text fields of a log export into typed values.
// Timestamp and duration decoding fail with domain sentinels; quantity and
// embedded sub-measurement decoding never fail and fall back to zero or nil.
package decode

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/pkordes/babystats/internal/domain"
)

// TimestampLayout is the export's "day/month/year hour:minute" format.
// Single-digit days, months and hours are accepted.
const TimestampLayout = "2/1/2006 15:04"

// OunceToML is the conversion factor used for pumped volumes.
const OunceToML = 29.574

const ounceSuffix = " oz"

// maxMinutes is the largest minute count a time.Duration can hold.
const maxMinutes = math.MaxInt64 / int64(time.Minute)

// Timestamp parses s as a UTC wall-clock time and converts it to loc.
// Surrounding whitespace is a deviation from the layout and is rejected.
func Timestamp(s string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(TimestampLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", domain.ErrMalformedTimestamp, s)
	}
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc), nil
}

// OptionalTimestamp returns nil for an empty field and decodes anything else.
func OptionalTimestamp(s string, loc *time.Location) (*time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	t, err := Timestamp(s, loc)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Duration parses "HOURS:MINUTES". Hours may exceed 24 up to the range of
// time.Duration; both parts must be non-negative integers.
func Duration(s string) (time.Duration, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("%w: %q: expecting HH:MM", domain.ErrMalformedDuration, s)
	}
	hours, err := strconv.ParseUint(parts[0], 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: hours: %v", domain.ErrMalformedDuration, s, err)
	}
	minutes, err := strconv.ParseUint(parts[1], 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: minutes: %v", domain.ErrMalformedDuration, s, err)
	}
	total := hours*60 + minutes
	if total > uint64(maxMinutes) {
		return 0, fmt.Errorf("%w: %q: out of range", domain.ErrMalformedDuration, s)
	}
	return time.Duration(total) * time.Minute, nil
}

// Ounces returns the number in front of a trailing " oz", or 0 when the suffix
// is missing or the number does not parse. Many rows omit the quantity.
func Ounces(s string) float64 {
	if !strings.HasSuffix(s, ounceSuffix) {
		return 0
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimSuffix(s, ounceSuffix)), 64)
	if err != nil {
		return 0
	}
	return v
}

// OuncesToML converts ounces to whole millilitres, truncating.
func OuncesToML(oz float64) int {
	return int(oz * OunceToML)
}
