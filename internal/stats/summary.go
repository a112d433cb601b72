package stats

import (
	"github.com/pkordes/babystats/internal/domain"
)

// Summarize buckets events by their own Time and folds each day into a
// DaySummary. Days are returned in ascending order.
func Summarize(events []domain.Event) []domain.DaySummary {
	buckets := GroupByDay(events, ByTime)
	out := make([]domain.DaySummary, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, summarizeDay(b))
	}
	return out
}

func summarizeDay(b Bucket[domain.Event]) domain.DaySummary {
	s := domain.DaySummary{Date: b.Date}
	for _, e := range b.Items {
		switch ev := e.(type) {
		case domain.SleepSession:
			s.Sleeps++
			if ev.Closed() {
				s.SleepTotal += ev.Duration
				if ev.Duration > s.LongestSleep {
					s.LongestSleep = ev.Duration
				}
			}
		case domain.DiaperChange:
			s.Diapers++
			if ev.Pee {
				s.Pees++
			}
			if ev.Poo {
				s.Poos++
			}
		case domain.Bottle:
			s.Feedings++
			s.Bottles++
			s.BottleOunces += ev.Ounces
		case domain.BreastFeeding:
			s.Feedings++
			s.BreastFeedings++
			s.BreastTime += ev.Duration
		case domain.Pumping:
			s.PumpedML += ev.VolumeML
		case domain.TummyTime:
			s.TummyTime += ev.Duration
		case domain.GrowthMeasurement:
			m := ev
			if s.Measurement == nil || !m.At.Before(s.Measurement.At) {
				s.Measurement = &m
			}
		case domain.Note:
			s.Notes++
		}
	}
	return s
}
