package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pkordes/babystats/internal/domain"
	"github.com/pkordes/babystats/internal/repo"
	"github.com/pkordes/babystats/internal/service"
	"github.com/pkordes/babystats/internal/stats"
)

const dayLayout = "2006-01-02"

// analysisFlags are shared by every command that reads events.
type analysisFlags struct {
	strict bool
	tz     string
	window int
	maxGap time.Duration
	cutoff int

	db       bool
	from, to string
}

func newFlagSet(name string, e *env) *flag.FlagSet {
	fs := flag.NewFlagSet("babystats "+name, flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	return fs
}

func (f *analysisFlags) register(fs *flag.FlagSet, e *env) {
	a := e.cfg.Analysis
	fs.BoolVar(&f.strict, "strict", e.cfg.Strict, "abort on the first undecodable row")
	fs.StringVar(&f.tz, "tz", "", "IANA zone for day boundaries (default BABYSTATS_TZ, then the system zone)")
	fs.IntVar(&f.window, "window", a.WindowDays, "moving mean window in days")
	fs.DurationVar(&f.maxGap, "max-gap", a.WakeupMaxGap(), "longest awake gap that still continues a night")
	fs.IntVar(&f.cutoff, "cutoff", a.WakeupCutoffHour, "hour of day that ends the night")
	fs.BoolVar(&f.db, "db", false, "read imported events from DATABASE_URL instead of a file")
	fs.StringVar(&f.from, "from", "", "with -db, first day to read (yyyy-mm-dd)")
	fs.StringVar(&f.to, "to", "", "with -db, last day to read, inclusive (yyyy-mm-dd)")
}

func (f *analysisFlags) location(e *env) (*time.Location, error) {
	if f.tz == "" {
		return e.cfg.Location, nil
	}
	loc, err := time.LoadLocation(f.tz)
	if err != nil {
		return nil, fmt.Errorf("%w: -tz: %v", domain.ErrValidation, err)
	}
	return loc, nil
}

func (f *analysisFlags) options(loc *time.Location) (service.AnalysisOptions, error) {
	if f.window < 1 {
		return service.AnalysisOptions{}, fmt.Errorf("%w: -window must be at least 1", domain.ErrValidation)
	}
	if f.cutoff < 0 || f.cutoff > 23 {
		return service.AnalysisOptions{}, fmt.Errorf("%w: -cutoff must be between 0 and 23", domain.ErrValidation)
	}
	return service.AnalysisOptions{
		Location:   loc,
		Strict:     f.strict,
		WindowDays: f.window,
		Wakeups:    stats.WakeupRules{MaxGap: f.maxGap, CutoffHour: f.cutoff},
	}, nil
}

// load parses fs, then reads events as read does.
func (f *analysisFlags) load(ctx context.Context, e *env, fs *flag.FlagSet, args []string) ([]domain.Event, *service.AnalysisService, error) {
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f.read(ctx, e, fs)
}

// read takes events from the file named by the parsed fs, standard input or
// the database, and returns them with the service that read them.
func (f *analysisFlags) read(ctx context.Context, e *env, fs *flag.FlagSet) ([]domain.Event, *service.AnalysisService, error) {
	loc, err := f.location(e)
	if err != nil {
		return nil, nil, err
	}
	opts, err := f.options(loc)
	if err != nil {
		return nil, nil, err
	}

	if f.db {
		if fs.NArg() > 0 {
			return nil, nil, fmt.Errorf("%w: -db does not take a file", domain.ErrValidation)
		}
		return f.loadStored(ctx, e, opts)
	}

	in, err := openInput(fs.Args(), e.stdin)
	if err != nil {
		return nil, nil, err
	}
	defer in.Close()

	svc := service.NewAnalysisService(e.logger, opts, nil)
	events, report, err := svc.Load(ctx, in)
	if err != nil {
		return nil, nil, err
	}
	if report.Skipped > 0 {
		e.logger.Warn("rows skipped", "skipped", report.Skipped, "events", report.Events)
	}
	return events, svc, nil
}

func (f *analysisFlags) loadStored(ctx context.Context, e *env, opts service.AnalysisOptions) ([]domain.Event, *service.AnalysisService, error) {
	if err := e.cfg.RequireDatabase(); err != nil {
		return nil, nil, err
	}
	from, err := parseDay(f.from, opts.Location, "-from")
	if err != nil {
		return nil, nil, err
	}
	to, err := parseDay(f.to, opts.Location, "-to")
	if err != nil {
		return nil, nil, err
	}
	if !to.IsZero() {
		to = to.AddDate(0, 0, 1)
	}

	pool, err := openPool(ctx, e.cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	defer pool.Close()

	svc := service.NewAnalysisService(e.logger, opts, repo.NewEventRepo(pool, opts.Location))
	events, err := svc.LoadStored(ctx, from, to)
	if err != nil {
		return nil, nil, err
	}
	return events, svc, nil
}

func parseDay(s string, loc *time.Location, name string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.ParseInLocation(dayLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s: want yyyy-mm-dd, got %q", domain.ErrValidation, name, s)
	}
	return t, nil
}

// openInput returns the named file, or stdin when no file or "-" is given.
func openInput(args []string, stdin io.Reader) (io.ReadCloser, error) {
	switch {
	case len(args) > 1:
		return nil, fmt.Errorf("%w: expected at most one input file, got %d", domain.ErrValidation, len(args))
	case len(args) == 0 || args[0] == "-":
		return io.NopCloser(stdin), nil
	}
	f, err := os.Open(args[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrRowSource, err)
	}
	return f, nil
}

// openPool creates a pgx pool and verifies the database is reachable.
func openPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("create database pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	return pool, nil
}
