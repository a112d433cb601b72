// Package stats contains the day grouper and the aggregators that reduce
// grouped events to per-day results. Nothing here returns an error: input is
// already decoded, and empty days and ties have a fixed policy.
package stats

import (
	"slices"
	"time"

	"github.com/pkordes/babystats/internal/domain"
)

// Bucket holds the items whose key timestamp falls on Date, in insertion order.
type Bucket[T any] struct {
	Date  domain.Date
	Items []T
}

// GroupByDay buckets items by the local calendar date of key(item). Items for
// which key reports false are dropped. Buckets are returned in ascending date
// order with unique dates.
func GroupByDay[T any](items []T, key func(T) (time.Time, bool)) []Bucket[T] {
	index := make(map[domain.Date]int)
	var buckets []Bucket[T]
	for _, it := range items {
		ts, ok := key(it)
		if !ok {
			continue
		}
		d := domain.DateOf(ts)
		i, seen := index[d]
		if !seen {
			i = len(buckets)
			index[d] = i
			buckets = append(buckets, Bucket[T]{Date: d})
		}
		buckets[i].Items = append(buckets[i].Items, it)
	}
	slices.SortStableFunc(buckets, func(a, b Bucket[T]) int { return a.Date.Compare(b.Date) })
	return buckets
}

// ByTime keys an event on its intrinsic Time.
func ByTime(e domain.Event) (time.Time, bool) {
	return e.Time(), true
}

// ByEnd keys a sleep on its end time; sessions still in progress are dropped.
func ByEnd(s domain.SleepSession) (time.Time, bool) {
	if s.End == nil {
		return time.Time{}, false
	}
	return *s.End, true
}

// Sleeps extracts the sleep sessions from events. When closedOnly is set,
// sessions without an end are left out.
func Sleeps(events []domain.Event, closedOnly bool) []domain.SleepSession {
	var out []domain.SleepSession
	for _, e := range events {
		s, ok := e.(domain.SleepSession)
		if !ok || (closedOnly && !s.Closed()) {
			continue
		}
		out = append(out, s)
	}
	return out
}

// Pumpings extracts the pumping sessions from events.
func Pumpings(events []domain.Event) []domain.Pumping {
	var out []domain.Pumping
	for _, e := range events {
		if p, ok := e.(domain.Pumping); ok {
			out = append(out, p)
		}
	}
	return out
}
