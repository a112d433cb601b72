// Package service contains the orchestration for babystats commands.
// Services read events from an export or the database, hand them to the stats
// package and report what was skipped. No SQL and no CSV parsing lives here.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/pkordes/babystats/internal/domain"
	"github.com/pkordes/babystats/internal/ingest"
	"github.com/pkordes/babystats/internal/repo"
	"github.com/pkordes/babystats/internal/stats"
)

// AnalysisOptions configure an AnalysisService.
type AnalysisOptions struct {
	// Location is the zone timestamps are decoded into. Nil means time.Local.
	Location *time.Location
	// Strict makes Load fail on the first undecodable row.
	Strict bool
	// WindowDays is the moving mean window for SleepTrend.
	WindowDays int
	// Wakeups bound the overnight run counted by Wakeups.
	Wakeups stats.WakeupRules
}

// LoadReport counts what Load did with the rows it read.
type LoadReport struct {
	Events  int
	Skipped int
}

// AnalysisService loads events and computes the per-day reports.
type AnalysisService struct {
	logger *slog.Logger
	opts   AnalysisOptions
	events repo.EventRepo
}

// NewAnalysisService constructs an AnalysisService. events may be nil when
// nothing is read from the database.
func NewAnalysisService(logger *slog.Logger, opts AnalysisOptions, events repo.EventRepo) *AnalysisService {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	return &AnalysisService{logger: logger, opts: opts, events: events}
}

// Load decodes every row of a log export. Undecodable rows are logged and
// skipped unless the service is strict, in which case the first one is
// returned. Row source failures are always returned.
func (s *AnalysisService) Load(ctx context.Context, r io.Reader) ([]domain.Event, LoadReport, error) {
	var (
		events []domain.Event
		report LoadReport
	)

	reader := ingest.NewReader(r, ingest.NewBuilder(s.opts.Location))
	for ev, err := range reader.All() {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, report, fmt.Errorf("service.AnalysisService.Load: %w", ctxErr)
		}
		if err != nil {
			var rowErr *domain.RowError
			if !errors.As(err, &rowErr) {
				return nil, report, fmt.Errorf("service.AnalysisService.Load: %w", err)
			}
			if s.opts.Strict {
				return nil, report, fmt.Errorf("service.AnalysisService.Load: %w", err)
			}
			report.Skipped++
			s.logger.Warn("skipping row", "line", rowErr.Line, "type", rowErr.Type, "error", rowErr.Err)
			continue
		}
		report.Events++
		events = append(events, ev)
	}

	s.logger.Debug("log loaded", "events", report.Events, "skipped", report.Skipped)
	return events, report, nil
}

// LoadStored reads previously imported events with from <= start < to.
// A zero bound is open.
func (s *AnalysisService) LoadStored(ctx context.Context, from, to time.Time) ([]domain.Event, error) {
	if s.events == nil {
		return nil, fmt.Errorf("service.AnalysisService.LoadStored: %w: no database configured", domain.ErrValidation)
	}
	if !from.IsZero() && !to.IsZero() && !from.Before(to) {
		return nil, fmt.Errorf("service.AnalysisService.LoadStored: %w: from must be before to", domain.ErrValidation)
	}

	stored, err := s.events.ListBetween(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("service.AnalysisService.LoadStored: %w", err)
	}
	events := make([]domain.Event, len(stored))
	for i, se := range stored {
		events[i] = se.Event
	}
	return events, nil
}

// MaxSleep returns the longest closed sleep of each day, bucketed by end date.
func (s *AnalysisService) MaxSleep(events []domain.Event) []domain.DayDuration {
	return stats.LongestSleepPerDay(stats.Sleeps(events, true))
}

// SleepTrend returns the moving mean of MaxSleep over the configured window.
func (s *AnalysisService) SleepTrend(events []domain.Event) []domain.DayDuration {
	return stats.MovingMean(s.MaxSleep(events), s.opts.WindowDays)
}

// Wakeups returns the overnight wakeup count of each day.
func (s *AnalysisService) Wakeups(events []domain.Event) []domain.DayCount {
	return stats.WakeupsPerDay(stats.Sleeps(events, true), s.opts.Wakeups)
}

// Summary returns one DaySummary per day with any event.
func (s *AnalysisService) Summary(events []domain.Event) []domain.DaySummary {
	return stats.Summarize(events)
}

// Pumping returns every pumping session in log order.
func (s *AnalysisService) Pumping(events []domain.Event) []domain.Pumping {
	return stats.Pumpings(events)
}

// Metric names a day series.
type Metric string

const (
	MetricMaxSleep   Metric = "max-sleep"
	MetricSleepTrend Metric = "sleep-trend"
	MetricWakeups    Metric = "wakeups"
)

// Metrics lists every Metric Series accepts.
func Metrics() []Metric {
	return []Metric{MetricMaxSleep, MetricSleepTrend, MetricWakeups}
}

// Series computes metric as a chartable series. Durations are in minutes.
func (s *AnalysisService) Series(metric Metric, events []domain.Event) (domain.Series, error) {
	switch metric {
	case MetricMaxSleep:
		return durationSeries(metric, s.MaxSleep(events)), nil
	case MetricSleepTrend:
		return durationSeries(metric, s.SleepTrend(events)), nil
	case MetricWakeups:
		counts := s.Wakeups(events)
		out := domain.Series{Name: string(metric), Unit: "count", Points: make([]domain.Point, len(counts))}
		for i, c := range counts {
			out.Points[i] = domain.Point{Date: c.Date, Value: float64(c.Count)}
		}
		return out, nil
	}
	return domain.Series{}, fmt.Errorf("service.AnalysisService.Series: %w: unknown metric %q", domain.ErrValidation, metric)
}

func durationSeries(metric Metric, days []domain.DayDuration) domain.Series {
	out := domain.Series{Name: string(metric), Unit: "minutes", Points: make([]domain.Point, len(days))}
	for i, d := range days {
		out.Points[i] = domain.Point{Date: d.Date, Value: d.Duration.Minutes()}
	}
	return out
}
