// Package main is the entry point for the babystats command line tool.
// Its responsibility is wiring config, logging and services together and
// dispatching to a subcommand. Aggregation lives in internal/stats.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/pkordes/babystats/internal/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// env is what every subcommand receives.
type env struct {
	cfg    config.Config
	logger *slog.Logger
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

// command is one subcommand. run receives the arguments after the command name.
type command struct {
	summary string
	run     func(ctx context.Context, e *env, args []string) error
}

var commands = map[string]command{
	"events":      {"list every decoded event", runEvents},
	"max-sleep":   {"longest sleep per day", runMaxSleep},
	"sleep-trend": {"moving mean of the longest sleep per day", runSleepTrend},
	"wakeups":     {"overnight wakeups per day", runWakeups},
	"pumping":     {"pumping sessions with left/right breakdown", runPumping},
	"summary":     {"per-day totals of every event kind", runSummary},
	"export":      {"write a summary or day series as csv, json or parquet", runExport},
	"chart":       {"send a day series to the charting service and print its URL", runChart},
	"import":      {"store decoded events in Postgres", runImport},
}

// run executes one invocation and returns the process exit code.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	// --- Config -----------------------------------------------------------
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "configuration error: %v\n", err)
		return 1
	}

	// --- Logger -----------------------------------------------------------
	// Results go to stdout; structured logs go to stderr.
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))

	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "-help" {
		usage(stderr)
		if len(args) == 0 {
			return 1
		}
		return 0
	}

	cmd, ok := commands[args[0]]
	if !ok {
		fmt.Fprintf(stderr, "unknown command %q\n\n", args[0])
		usage(stderr)
		return 1
	}

	e := &env{cfg: cfg, logger: logger.With("command", args[0]), stdin: stdin, stdout: stdout, stderr: stderr}
	if err := cmd.run(ctx, e, args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		e.logger.Error("command failed", "error", err)
		return 1
	}
	return 0
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "usage: babystats <command> [flags] [file]")
	fmt.Fprintln(w, "\nReads a log export from file, or standard input when no file is given.")
	fmt.Fprintln(w, "\ncommands:")
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "  %-12s %s\n", name, commands[name].summary)
	}
}
