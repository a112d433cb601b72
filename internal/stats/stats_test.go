package stats_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/babystats/internal/domain"
	"github.com/pkordes/babystats/internal/stats"
)

// ---- helpers ---------------------------------------------------------------

func at(day, hour, minute int) time.Time {
	return time.Date(2024, 3, day, hour, minute, 0, 0, time.UTC)
}

func date(day int) domain.Date {
	return domain.Date{Year: 2024, Month: time.March, Day: day}
}

// sleep returns a closed sleep from start lasting d, with Duration set to d.
func sleep(start time.Time, d time.Duration) domain.SleepSession {
	end := start.Add(d)
	return domain.SleepSession{Session: domain.Session{Start: start, End: &end, Duration: d}}
}

func openSleep(start time.Time, d time.Duration) domain.SleepSession {
	return domain.SleepSession{Session: domain.Session{Start: start, Duration: d}}
}

func days(minutes ...int) []domain.DayDuration {
	out := make([]domain.DayDuration, len(minutes))
	for i, m := range minutes {
		out[i] = domain.DayDuration{Date: date(i + 1), Duration: time.Duration(m) * time.Minute}
	}
	return out
}

// ---- GroupByDay --------------------------------------------------------------

func TestGroupByDay_SortedUniqueInsertionOrder(t *testing.T) {
	events := []domain.Event{
		domain.Note{At: at(3, 9, 0), Text: "c1"},
		domain.Note{At: at(1, 9, 0), Text: "a1"},
		domain.Note{At: at(3, 7, 0), Text: "c2"},
		domain.Note{At: at(2, 9, 0), Text: "b1"},
	}

	buckets := stats.GroupByDay(events, stats.ByTime)

	require.Len(t, buckets, 3)
	assert.Equal(t, []domain.Date{date(1), date(2), date(3)},
		[]domain.Date{buckets[0].Date, buckets[1].Date, buckets[2].Date})
	require.Len(t, buckets[2].Items, 2)
	assert.Equal(t, "c1", buckets[2].Items[0].(domain.Note).Text, "insertion order kept")
	assert.Equal(t, "c2", buckets[2].Items[1].(domain.Note).Text)
}

func TestGroupByDay_UsesTimestampLocation(t *testing.T) {
	west := time.FixedZone("UTC-5", -5*60*60)
	// 02:00 UTC on the 2nd is 21:00 on the 1st in UTC-5.
	events := []domain.Event{domain.Note{At: at(2, 2, 0).In(west)}}

	buckets := stats.GroupByDay(events, stats.ByTime)

	require.Len(t, buckets, 1)
	assert.Equal(t, date(1), buckets[0].Date)
}

func TestGroupByDay_ByEndDropsOpenSessions(t *testing.T) {
	sleeps := []domain.SleepSession{
		sleep(at(1, 23, 0), 2*time.Hour), // ends on the 2nd
		openSleep(at(2, 13, 0), time.Hour),
	}

	buckets := stats.GroupByDay(sleeps, stats.ByEnd)

	require.Len(t, buckets, 1)
	assert.Equal(t, date(2), buckets[0].Date, "a nap ending after midnight belongs to the new day")
}

func TestSleeps_Filter(t *testing.T) {
	events := []domain.Event{
		sleep(at(1, 1, 0), time.Hour),
		openSleep(at(1, 5, 0), time.Hour),
		domain.Note{At: at(1, 2, 0)},
	}

	assert.Len(t, stats.Sleeps(events, false), 2)
	assert.Len(t, stats.Sleeps(events, true), 1)
}

// ---- MaxPerDay ---------------------------------------------------------------

// TestMaxPerDay_FirstWinsOnTie checks 90/45/90: the first 90 minute sleep is kept.
func TestMaxPerDay_FirstWinsOnTie(t *testing.T) {
	first := sleep(at(1, 1, 0), 90*time.Minute)
	first.Note = "first"
	third := sleep(at(1, 6, 0), 90*time.Minute)
	third.Note = "third"
	buckets := []stats.Bucket[domain.SleepSession]{{
		Date:  date(1),
		Items: []domain.SleepSession{first, sleep(at(1, 4, 0), 45*time.Minute), third},
	}}

	picks := stats.MaxPerDay(buckets, func(s domain.SleepSession) time.Duration { return s.Duration })

	require.Len(t, picks, 1)
	assert.Equal(t, "first", picks[0].Item.Note)
}

func TestMaxPerDay_OmitsEmptyDays(t *testing.T) {
	buckets := []stats.Bucket[domain.SleepSession]{
		{Date: date(1)},
		{Date: date(2), Items: []domain.SleepSession{sleep(at(2, 1, 0), time.Hour)}},
	}

	picks := stats.MaxPerDay(buckets, func(s domain.SleepSession) time.Duration { return s.Duration })

	require.Len(t, picks, 1)
	assert.Equal(t, date(2), picks[0].Date)
}

// TestLongestSleepPerDay_TrustsDurationField uses a Duration that disagrees with
// End-Start to show that the supplied duration decides.
func TestLongestSleepPerDay_TrustsDurationField(t *testing.T) {
	short := sleep(at(1, 1, 0), 30*time.Minute)
	short.Duration = 5 * time.Hour
	sleeps := []domain.SleepSession{
		short,
		sleep(at(1, 8, 0), 3*time.Hour),
		sleep(at(2, 20, 0), time.Hour),
		openSleep(at(3, 1, 0), 9*time.Hour),
	}

	got := stats.LongestSleepPerDay(sleeps)

	assert.Equal(t, []domain.DayDuration{
		{Date: date(1), Duration: 5 * time.Hour},
		{Date: date(2), Duration: time.Hour},
	}, got)
}

// ---- MovingMean --------------------------------------------------------------

func TestMovingMean_SingleWindow(t *testing.T) {
	got := stats.MovingMean(days(60, 90, 120, 90, 60), 5)

	require.Len(t, got, 1)
	assert.Equal(t, 84*time.Minute, got[0].Duration)
	assert.Equal(t, date(5), got[0].Date, "labelled with the last day of the window")
}

func TestMovingMean_ShortInput(t *testing.T) {
	assert.Empty(t, stats.MovingMean(days(60, 90, 120, 90), 5))
	assert.Empty(t, stats.MovingMean(nil, 5))
	assert.Empty(t, stats.MovingMean(days(60), 0))
}

func TestMovingMean_Slides(t *testing.T) {
	got := stats.MovingMean(days(10, 20, 30, 40), 2)

	assert.Equal(t, []domain.DayDuration{
		{Date: date(2), Duration: 15 * time.Minute},
		{Date: date(3), Duration: 25 * time.Minute},
		{Date: date(4), Duration: 35 * time.Minute},
	}, got)
}

func TestMovingMean_TruncatesMilliseconds(t *testing.T) {
	in := []domain.DayDuration{
		{Date: date(1), Duration: 1 * time.Millisecond},
		{Date: date(2), Duration: 2 * time.Millisecond},
	}

	got := stats.MovingMean(in, 2)

	require.Len(t, got, 1)
	assert.Equal(t, time.Millisecond, got[0].Duration)
}

// ---- Wakeups -----------------------------------------------------------------

func TestCountWakeups_StopsAtCutoff(t *testing.T) {
	sleeps := []domain.SleepSession{
		sleep(at(2, 9, 0), 2*time.Hour),     // 09:00-11:00, ends after 10 AM
		sleep(at(1, 23, 0), 30*time.Minute), // 23:00-23:30
		sleep(at(2, 1, 30), 30*time.Minute), // 01:30-02:00
		sleep(at(2, 0, 0), time.Hour),       // 00:00-01:00
	}

	got := stats.CountWakeups(date(2), sleeps, stats.DefaultWakeupRules)

	assert.Equal(t, 3, got)
}

func TestCountWakeups_StopsAtGap(t *testing.T) {
	sleeps := []domain.SleepSession{
		sleep(at(2, 0, 0), time.Hour),       // 00:00-01:00
		sleep(at(2, 2, 0), time.Hour),       // gap 60m
		sleep(at(2, 4, 31), 30*time.Minute), // gap 91m, halts
		sleep(at(2, 5, 10), 30*time.Minute), // not reached
	}

	assert.Equal(t, 2, stats.CountWakeups(date(2), sleeps, stats.DefaultWakeupRules))
}

func TestCountWakeups_GapEqualToLimitCounts(t *testing.T) {
	sleeps := []domain.SleepSession{
		sleep(at(2, 0, 0), time.Hour),
		sleep(at(2, 2, 30), time.Hour), // gap exactly 90m
	}

	assert.Equal(t, 2, stats.CountWakeups(date(2), sleeps, stats.DefaultWakeupRules))
}

func TestCountWakeups_EndInCutoffHourCounts(t *testing.T) {
	sleeps := []domain.SleepSession{sleep(at(2, 9, 0), 90*time.Minute)} // ends 10:30

	assert.Equal(t, 1, stats.CountWakeups(date(2), sleeps, stats.DefaultWakeupRules))
}

func TestCountWakeups_CustomRules(t *testing.T) {
	sleeps := []domain.SleepSession{
		sleep(at(2, 0, 0), time.Hour),
		sleep(at(2, 1, 20), time.Hour),
	}
	rules := stats.WakeupRules{MaxGap: 15 * time.Minute, CutoffHour: 10}

	assert.Equal(t, 1, stats.CountWakeups(date(2), sleeps, rules))
}

func TestCountWakeups_DoesNotReorderInput(t *testing.T) {
	sleeps := []domain.SleepSession{
		sleep(at(2, 3, 0), time.Hour),
		sleep(at(2, 1, 0), time.Hour),
	}

	stats.CountWakeups(date(2), sleeps, stats.DefaultWakeupRules)

	assert.True(t, sleeps[0].Start.Equal(at(2, 3, 0)))
}

func TestWakeupsPerDay(t *testing.T) {
	sleeps := []domain.SleepSession{
		sleep(at(1, 23, 0), 30*time.Minute), // day 1
		sleep(at(2, 0, 0), time.Hour),       // day 2
		sleep(at(2, 1, 30), time.Hour),      // day 2
		sleep(at(2, 13, 0), time.Hour),      // day 2, afternoon nap
		openSleep(at(3, 1, 0), time.Hour),
	}

	got := stats.WakeupsPerDay(sleeps, stats.DefaultWakeupRules)

	assert.Equal(t, []domain.DayCount{
		{Date: date(1), Count: 0},
		{Date: date(2), Count: 2},
	}, got)
}

// ---- Summarize ---------------------------------------------------------------

func TestSummarize(t *testing.T) {
	weight1, weight2 := 10.0, 10.5
	events := []domain.Event{
		sleep(at(1, 1, 0), 2*time.Hour),
		sleep(at(1, 13, 0), 3*time.Hour),
		openSleep(at(1, 22, 0), 10*time.Minute),
		domain.DiaperChange{At: at(1, 3, 0), Pee: true, Poo: true},
		domain.DiaperChange{At: at(1, 7, 0), Pee: true},
		domain.Bottle{At: at(1, 4, 0), Ounces: 3},
		domain.Bottle{At: at(1, 8, 0), Ounces: 2.5},
		domain.BreastFeeding{Side: domain.SideLeft, Session: domain.Session{Start: at(1, 10, 0), Duration: 15 * time.Minute}},
		domain.Pumping{Start: at(1, 11, 0), VolumeML: 118},
		domain.TummyTime{Session: domain.Session{Start: at(1, 12, 0), Duration: 5 * time.Minute}},
		domain.GrowthMeasurement{At: at(1, 15, 0), WeightLB: &weight2},
		domain.GrowthMeasurement{At: at(1, 9, 0), WeightLB: &weight1},
		domain.Note{At: at(1, 16, 0)},
		domain.Note{At: at(2, 16, 0)},
	}

	got := stats.Summarize(events)

	require.Len(t, got, 2)
	d := got[0]
	assert.Equal(t, date(1), d.Date)
	assert.Equal(t, 3, d.Sleeps)
	assert.Equal(t, 5*time.Hour, d.SleepTotal)
	assert.Equal(t, 3*time.Hour, d.LongestSleep)
	assert.Equal(t, 2, d.Diapers)
	assert.Equal(t, 2, d.Pees)
	assert.Equal(t, 1, d.Poos)
	assert.Equal(t, 3, d.Feedings)
	assert.Equal(t, 2, d.Bottles)
	assert.InDelta(t, 5.5, d.BottleOunces, 1e-9)
	assert.Equal(t, 1, d.BreastFeedings)
	assert.Equal(t, 15*time.Minute, d.BreastTime)
	assert.Equal(t, 118, d.PumpedML)
	assert.Equal(t, 5*time.Minute, d.TummyTime)
	assert.Equal(t, 1, d.Notes)
	require.NotNil(t, d.Measurement)
	assert.Equal(t, 10.5, *d.Measurement.WeightLB, "latest measurement of the day")

	assert.Equal(t, date(2), got[1].Date)
	assert.Equal(t, 1, got[1].Notes)
}
