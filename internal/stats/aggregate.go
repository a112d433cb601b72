package stats

import (
	"slices"
	"time"

	"github.com/pkordes/babystats/internal/domain"
)

// Pick is the item chosen for a day by MaxPerDay.
type Pick[T any] struct {
	Date domain.Date
	Item T
}

// MaxPerDay selects, for each bucket, the item with the greatest duration.
// Only a strictly greater duration replaces the current maximum, so the first
// of several tied items wins. Empty buckets produce no entry.
func MaxPerDay[T any](buckets []Bucket[T], duration func(T) time.Duration) []Pick[T] {
	out := make([]Pick[T], 0, len(buckets))
	for _, b := range buckets {
		if len(b.Items) == 0 {
			continue
		}
		best := b.Items[0]
		for _, it := range b.Items[1:] {
			if duration(it) > duration(best) {
				best = it
			}
		}
		out = append(out, Pick[T]{Date: b.Date, Item: best})
	}
	return out
}

// LongestSleepPerDay returns the longest closed sleep of each day, where a
// sleep belongs to the day it ended on.
func LongestSleepPerDay(sleeps []domain.SleepSession) []domain.DayDuration {
	picks := MaxPerDay(GroupByDay(sleeps, ByEnd), sleepDuration)
	out := make([]domain.DayDuration, len(picks))
	for i, p := range picks {
		out[i] = domain.DayDuration{Date: p.Date, Duration: p.Item.Duration}
	}
	return out
}

func sleepDuration(s domain.SleepSession) time.Duration { return s.Duration }

// MovingMean returns, for every full window of size consecutive entries, the
// mean duration truncated to whole milliseconds, labelled with the date of the
// window's last entry. Entries are consecutive in the slice, not on the
// calendar: missing days are not filled. Input shorter than size yields nothing.
func MovingMean(days []domain.DayDuration, size int) []domain.DayDuration {
	if size <= 0 || len(days) < size {
		return nil
	}
	out := make([]domain.DayDuration, 0, len(days)-size+1)
	var sum int64
	for i, d := range days {
		sum += d.Duration.Milliseconds()
		if i >= size {
			sum -= days[i-size].Duration.Milliseconds()
		}
		if i >= size-1 {
			mean := sum / int64(size)
			out = append(out, domain.DayDuration{Date: d.Date, Duration: time.Duration(mean) * time.Millisecond})
		}
	}
	return out
}

// WakeupRules bound the overnight run counted by CountWakeups.
type WakeupRules struct {
	// MaxGap is the longest awake time between two sleeps that still counts
	// as resettling.
	MaxGap time.Duration
	// CutoffHour ends the night: a sleep ending in a later hour of the bucket
	// day stops the walk.
	CutoffHour int
}

// DefaultWakeupRules are 90 minutes and 10 AM.
var DefaultWakeupRules = WakeupRules{MaxGap: 90 * time.Minute, CutoffHour: 10}

// CountWakeups walks one day's closed sleeps in start order and counts how many
// are absorbed before the walk stops. The walk stops, without counting the
// current sleep, when that sleep ends after the cutoff hour of day or when it
// starts more than MaxGap after the previous sleep ended. Sleeps without an end
// are ignored. The input slice is not modified.
func CountWakeups(day domain.Date, sleeps []domain.SleepSession, rules WakeupRules) int {
	sorted := make([]domain.SleepSession, 0, len(sleeps))
	for _, s := range sleeps {
		if s.Closed() {
			sorted = append(sorted, s)
		}
	}
	slices.SortStableFunc(sorted, func(a, b domain.SleepSession) int { return a.Start.Compare(b.Start) })

	count := 0
	var prevEnd *time.Time
	for _, s := range sorted {
		end := *s.End
		cutoff := day.At(rules.CutoffHour+1, end.Location())
		if !end.Before(cutoff) {
			break
		}
		if prevEnd != nil && s.Start.Sub(*prevEnd) > rules.MaxGap {
			break
		}
		count++
		prevEnd = s.End
	}
	return count
}

// WakeupsPerDay buckets closed sleeps by end date and counts wakeups per day.
func WakeupsPerDay(sleeps []domain.SleepSession, rules WakeupRules) []domain.DayCount {
	buckets := GroupByDay(sleeps, ByEnd)
	out := make([]domain.DayCount, len(buckets))
	for i, b := range buckets {
		out[i] = domain.DayCount{Date: b.Date, Count: CountWakeups(b.Date, b.Items, rules)}
	}
	return out
}
