package service_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/babystats/internal/domain"
	"github.com/pkordes/babystats/internal/service"
	"github.com/pkordes/babystats/internal/stats"
)

const header = "Type,Start,End,Duration,Extra,Extra2,Note\n"

// nightLog has four sleeps around the night of 01/03, a pumping session and one bad row.
const nightLog = header +
	"Sleep,01/03/2024 23:00,01/03/2024 23:30,00:30,,,\n" +
	"Sleep,02/03/2024 00:00,02/03/2024 01:00,01:00,,,\n" +
	"Bath,02/03/2024 01:10,,,,,\n" +
	"Sleep,02/03/2024 01:30,02/03/2024 02:00,00:30,,,\n" +
	"Sleep,02/03/2024 09:00,02/03/2024 11:00,02:00,,,\n" +
	"Pumping,02/03/2024 12:00,,,4 oz,,60L 58R\n"

func newAnalysis(strict bool) *service.AnalysisService {
	return service.NewAnalysisService(discardLogger(), service.AnalysisOptions{
		Location:   time.UTC,
		Strict:     strict,
		WindowDays: 2,
		Wakeups:    stats.DefaultWakeupRules,
	}, nil)
}

func day(d int) domain.Date {
	return domain.Date{Year: 2024, Month: time.March, Day: d}
}

func TestAnalysisService_Load_SkipsBadRows(t *testing.T) {
	var logs bytes.Buffer
	svc := service.NewAnalysisService(slog.New(slog.NewJSONHandler(&logs, nil)),
		service.AnalysisOptions{Location: time.UTC}, nil)

	events, report, err := svc.Load(context.Background(), strings.NewReader(nightLog))

	require.NoError(t, err)
	assert.Len(t, events, 5)
	assert.Equal(t, service.LoadReport{Events: 5, Skipped: 1}, report)
	assert.Contains(t, logs.String(), `"msg":"skipping row"`)
	assert.Contains(t, logs.String(), `"line":4`)
	assert.Contains(t, logs.String(), `"type":"Bath"`)
}

func TestAnalysisService_Load_StrictStopsAtFirstBadRow(t *testing.T) {
	_, report, err := newAnalysis(true).Load(context.Background(), strings.NewReader(nightLog))

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnknownEventType)
	assert.True(t, domain.IsRowError(err))
	assert.Equal(t, 2, report.Events)
}

func TestAnalysisService_Load_HeaderFailureIsFatal(t *testing.T) {
	_, _, err := newAnalysis(false).Load(context.Background(), strings.NewReader("Type,Start\n"))

	assert.ErrorIs(t, err, domain.ErrRowSource)
}

func TestAnalysisService_Load_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := newAnalysis(false).Load(ctx, strings.NewReader(nightLog))

	assert.ErrorIs(t, err, context.Canceled)
}

func loadNight(t *testing.T, svc *service.AnalysisService) []domain.Event {
	t.Helper()
	events, _, err := svc.Load(context.Background(), strings.NewReader(nightLog))
	require.NoError(t, err)
	return events
}

func TestAnalysisService_Reports(t *testing.T) {
	svc := newAnalysis(false)
	events := loadNight(t, svc)

	assert.Equal(t, []domain.DayDuration{
		{Date: day(1), Duration: 30 * time.Minute},
		{Date: day(2), Duration: 2 * time.Hour},
	}, svc.MaxSleep(events))

	assert.Equal(t, []domain.DayDuration{
		{Date: day(2), Duration: 75 * time.Minute},
	}, svc.SleepTrend(events))

	assert.Equal(t, []domain.DayCount{
		{Date: day(1), Count: 0},
		{Date: day(2), Count: 2},
	}, svc.Wakeups(events))

	pumps := svc.Pumping(events)
	require.Len(t, pumps, 1)
	assert.Equal(t, 118, pumps[0].VolumeML)
	assert.True(t, pumps[0].SidesMatchTotal())

	summary := svc.Summary(events)
	require.Len(t, summary, 2)
	assert.Equal(t, 3, summary[1].Sleeps)
	assert.Equal(t, 118, summary[1].PumpedML)
}

func TestAnalysisService_Series(t *testing.T) {
	svc := newAnalysis(false)
	events := loadNight(t, svc)

	maxSleep, err := svc.Series(service.MetricMaxSleep, events)
	require.NoError(t, err)
	assert.Equal(t, "minutes", maxSleep.Unit)
	assert.Equal(t, []domain.Point{{Date: day(1), Value: 30}, {Date: day(2), Value: 120}}, maxSleep.Points)

	wakeups, err := svc.Series(service.MetricWakeups, events)
	require.NoError(t, err)
	assert.Equal(t, "count", wakeups.Unit)
	assert.Equal(t, []domain.Point{{Date: day(1), Value: 0}, {Date: day(2), Value: 2}}, wakeups.Points)

	_, err = svc.Series("naps", events)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestAnalysisService_LoadStored(t *testing.T) {
	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 7)
	note := domain.Note{At: from.Add(time.Hour), Text: "x"}
	r := &mockEventRepo{
		listBetween: func(_ context.Context, gotFrom, gotTo time.Time) ([]domain.StoredEvent, error) {
			assert.True(t, gotFrom.Equal(from))
			assert.True(t, gotTo.Equal(to))
			return []domain.StoredEvent{{RowType: domain.RowNote, Event: note}}, nil
		},
	}
	svc := service.NewAnalysisService(discardLogger(), service.AnalysisOptions{}, r)

	events, err := svc.LoadStored(context.Background(), from, to)

	require.NoError(t, err)
	assert.Equal(t, []domain.Event{note}, events)
}

func TestAnalysisService_LoadStored_Errors(t *testing.T) {
	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	boom := errors.New("connection refused")
	r := &mockEventRepo{
		listBetween: func(context.Context, time.Time, time.Time) ([]domain.StoredEvent, error) { return nil, boom },
	}

	_, err := newAnalysis(false).LoadStored(context.Background(), time.Time{}, time.Time{})
	assert.ErrorIs(t, err, domain.ErrValidation, "no repo configured")

	svc := service.NewAnalysisService(discardLogger(), service.AnalysisOptions{}, r)

	_, err = svc.LoadStored(context.Background(), from, from)
	assert.ErrorIs(t, err, domain.ErrValidation, "empty range")

	_, err = svc.LoadStored(context.Background(), from, time.Time{})
	assert.ErrorIs(t, err, boom)
}
