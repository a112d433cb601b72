package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx" driver for database/sql

	"github.com/pkordes/babystats/internal/chart"
	"github.com/pkordes/babystats/internal/decode"
	"github.com/pkordes/babystats/internal/domain"
	"github.com/pkordes/babystats/internal/export"
	"github.com/pkordes/babystats/internal/repo"
	"github.com/pkordes/babystats/internal/service"
	"github.com/pkordes/babystats/migrations"
)

func runEvents(ctx context.Context, e *env, args []string) error {
	var f analysisFlags
	fs := newFlagSet("events", e)
	f.register(fs, e)
	events, _, err := f.load(ctx, e, fs, args)
	if err != nil {
		return err
	}
	for _, ev := range events {
		fmt.Fprintln(e.stdout, describe(ev))
	}
	return nil
}

func runMaxSleep(ctx context.Context, e *env, args []string) error {
	var f analysisFlags
	fs := newFlagSet("max-sleep", e)
	f.register(fs, e)
	events, svc, err := f.load(ctx, e, fs, args)
	if err != nil {
		return err
	}
	printDurations(e, svc.MaxSleep(events))
	return nil
}

func runSleepTrend(ctx context.Context, e *env, args []string) error {
	var f analysisFlags
	fs := newFlagSet("sleep-trend", e)
	f.register(fs, e)
	events, svc, err := f.load(ctx, e, fs, args)
	if err != nil {
		return err
	}
	printDurations(e, svc.SleepTrend(events))
	return nil
}

func runWakeups(ctx context.Context, e *env, args []string) error {
	var f analysisFlags
	fs := newFlagSet("wakeups", e)
	f.register(fs, e)
	events, svc, err := f.load(ctx, e, fs, args)
	if err != nil {
		return err
	}
	for _, d := range svc.Wakeups(events) {
		fmt.Fprintf(e.stdout, "%s: %d\n", d.Date, d.Count)
	}
	return nil
}

func runPumping(ctx context.Context, e *env, args []string) error {
	var f analysisFlags
	fs := newFlagSet("pumping", e)
	f.register(fs, e)
	events, svc, err := f.load(ctx, e, fs, args)
	if err != nil {
		return err
	}
	for _, p := range svc.Pumping(events) {
		fmt.Fprintln(e.stdout, describePumping(p))
	}
	return nil
}

func runSummary(ctx context.Context, e *env, args []string) error {
	var f analysisFlags
	fs := newFlagSet("summary", e)
	f.register(fs, e)
	events, svc, err := f.load(ctx, e, fs, args)
	if err != nil {
		return err
	}
	for _, d := range svc.Summary(events) {
		fmt.Fprintln(e.stdout, describeDay(d))
	}
	return nil
}

func runExport(ctx context.Context, e *env, args []string) error {
	var (
		f       analysisFlags
		what    string
		format  string
		outPath string
	)
	fs := newFlagSet("export", e)
	f.register(fs, e)
	fs.StringVar(&what, "what", "summary", "summary, max-sleep, sleep-trend or wakeups")
	fs.StringVar(&format, "format", "csv", "csv, json or parquet")
	fs.StringVar(&outPath, "o", "", "output file (default standard output)")
	events, svc, err := f.load(ctx, e, fs, args)
	if err != nil {
		return err
	}
	fmtOut, err := export.ParseFormat(format)
	if err != nil {
		return err
	}

	out := e.stdout
	var file *os.File
	if outPath != "" {
		file, err = os.Create(outPath)
		if err != nil {
			return fmt.Errorf("create %s: %w", outPath, err)
		}
		defer file.Close() // error path only; the success path closes below
		out = file
	}

	if what == "summary" {
		err = export.WriteSummaries(out, fmtOut, svc.Summary(events))
	} else {
		var series domain.Series
		series, err = svc.Series(service.Metric(what), events)
		if err == nil {
			err = export.WriteSeries(out, fmtOut, series)
		}
	}
	if err != nil {
		return err
	}
	if file != nil {
		if err := file.Close(); err != nil {
			return fmt.Errorf("close %s: %w", outPath, err)
		}
		e.logger.Info("export written", "path", outPath, "format", fmtOut, "what", what)
	}
	return nil
}

func runChart(ctx context.Context, e *env, args []string) error {
	var (
		f      analysisFlags
		metric string
	)
	fs := newFlagSet("chart", e)
	f.register(fs, e)
	fs.StringVar(&metric, "metric", string(service.MetricSleepTrend), "max-sleep, sleep-trend or wakeups")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := e.cfg.RequireChart(); err != nil {
		return err
	}
	events, svc, err := f.read(ctx, e, fs)
	if err != nil {
		return err
	}
	series, err := svc.Series(service.Metric(metric), events)
	if err != nil {
		return err
	}

	c := e.cfg.Chart
	url, err := chart.New(c.Endpoint, c.Username, c.APIKey, e.logger).Plot(ctx, series)
	if err != nil {
		return err
	}
	fmt.Fprintln(e.stdout, url)
	return nil
}

func runImport(ctx context.Context, e *env, args []string) error {
	var (
		f         analysisFlags
		undo      string
		batchSize int
	)
	fs := newFlagSet("import", e)
	f.register(fs, e)
	fs.StringVar(&undo, "undo", "", "remove the events of a previous import batch id instead of importing")
	fs.IntVar(&batchSize, "batch-size", service.DefaultBatchSize, "events per database round trip")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := e.cfg.RequireDatabase(); err != nil {
		return err
	}
	if f.db {
		return fmt.Errorf("%w: import reads a log export, not the database", domain.ErrValidation)
	}

	if err := migrate(ctx, e); err != nil {
		return err
	}
	pool, err := openPool(ctx, e.cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	loc, err := f.location(e)
	if err != nil {
		return err
	}
	importer := service.NewImportService(repo.NewEventRepo(pool, loc), e.logger).WithBatchSize(batchSize)

	if undo != "" {
		id, err := uuid.Parse(undo)
		if err != nil {
			return fmt.Errorf("%w: -undo: %v", domain.ErrValidation, err)
		}
		n, err := importer.Undo(ctx, id)
		if err != nil {
			return err
		}
		fmt.Fprintf(e.stdout, "batch %s: removed %d\n", id, n)
		return nil
	}

	opts, err := f.options(loc)
	if err != nil {
		return err
	}
	in, err := openInput(fs.Args(), e.stdin)
	if err != nil {
		return err
	}
	defer in.Close()
	events, loaded, err := service.NewAnalysisService(e.logger, opts, nil).Load(ctx, in)
	if err != nil {
		return err
	}

	report, err := importer.Import(ctx, events)
	if err != nil {
		return err
	}
	fmt.Fprintf(e.stdout, "batch %s: inserted %d, duplicates %d, skipped %d\n",
		report.BatchID, report.Inserted, report.Duplicates, loaded.Skipped)
	return nil
}

// migrate applies pending schema migrations over a database/sql connection,
// which goose requires.
func migrate(ctx context.Context, e *env) error {
	db, err := sql.Open("pgx", e.cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	n, err := migrations.Up(ctx, db)
	if err != nil {
		return err
	}
	if n > 0 {
		e.logger.Info("migrations applied", "count", n)
	}
	return nil
}

func printDurations(e *env, days []domain.DayDuration) {
	for _, d := range days {
		fmt.Fprintf(e.stdout, "%s: %s\n", d.Date, decode.FormatHHMMSS(d.Duration))
	}
}
