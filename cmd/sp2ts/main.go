package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/leowmjw/go-sp2ts/pkg/batch"
	"github.com/leowmjw/go-sp2ts/pkg/civil"
	"github.com/leowmjw/go-sp2ts/pkg/hcl"
	"github.com/leowmjw/go-sp2ts/pkg/settlement"
)

// Exit codes
const (
	exitOK         = 0
	exitConversion = 1 // a conversion failed
	exitUsage      = 2 // invalid or missing arguments
)

// utcLayout renders instants the way the conversion lines print them
const utcLayout = "2006-01-02 15:04:05-07:00"

var errUsage = errors.New("usage")

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

type options struct {
	timestamp   int64
	datetime    string
	timezone    string
	date        string
	period      int
	boundary    string
	transitions int
	batchPath   string
	displayJSON bool
	logLevel    string
}

// parseOptions defines the command line flags. Short and long forms share a
// variable, so -ts and --timestamp are the same flag.
func parseOptions(args []string, stderr io.Writer) (*options, map[string]bool, error) {
	opts := &options{}
	fs := flag.NewFlagSet("sp2ts", flag.ContinueOnError)
	fs.SetOutput(stderr)

	for _, name := range []string{"ts", "timestamp"} {
		fs.Int64Var(&opts.timestamp, name, 0, "Specify a timestamp in `seconds since epoch`")
	}
	for _, name := range []string{"dt", "datetime"} {
		fs.StringVar(&opts.datetime, name, "", "Specify a datetime as `yyyy-mm-ddTHH:MM:SS` (optionally also -tz)")
	}
	for _, name := range []string{"tz", "timezone"} {
		fs.StringVar(&opts.timezone, name, civil.UTC, "Olson `timezone` for -dt input and for output")
	}
	for _, name := range []string{"d", "date"} {
		fs.StringVar(&opts.date, name, "", "Specify a settlement `yyyy-mm-dd` date (use with -sp)")
	}
	for _, name := range []string{"sp", "settlement-period"} {
		fs.IntVar(&opts.period, name, 0, "Specify a settlement `period` in [1..50] (use with -d)")
	}
	fs.StringVar(&opts.boundary, "boundary", "right", "Period boundary for -d/-sp: left, middle or right")
	fs.IntVar(&opts.transitions, "transitions", 0, "List the clock-change days of a `year`")
	fs.StringVar(&opts.batchPath, "batch", "", "Run the conversions of an HCL, JSON or YAML `file` or HCL directory")
	fs.BoolVar(&opts.displayJSON, "json", false, "Display results as JSON")
	fs.StringVar(&opts.logLevel, "log-level", "info", "Log level: debug, info, warn or error")

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	if fs.NArg() > 0 {
		return nil, nil, fmt.Errorf("%w: unexpected argument %q", errUsage, fs.Arg(0))
	}

	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) {
		set[canonical(f.Name)] = true
	})
	return opts, set, nil
}

func canonical(name string) string {
	switch name {
	case "timestamp":
		return "ts"
	case "datetime":
		return "dt"
	case "timezone":
		return "tz"
	case "date":
		return "d"
	case "settlement-period":
		return "sp"
	}
	return name
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, set, err := parseOptions(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		// The flag set has already reported its own parse errors
		if errors.Is(err, errUsage) {
			fmt.Fprintln(stderr, err)
		}
		return exitUsage
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(opts.logLevel)); err != nil {
		fmt.Fprintf(stderr, "invalid -log-level %q\n", opts.logLevel)
		return exitUsage
	}

	// Set up logging
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{
		Level: level,
	}))

	conv, err := settlement.Default()
	if err != nil {
		logger.Error("Failed to load market time zone", "error", err)
		return exitConversion
	}

	modes := 0
	for _, name := range []string{"ts", "dt", "d", "transitions", "batch"} {
		if set[name] {
			modes++
		}
	}
	if modes != 1 {
		logger.Error("Exactly one of -ts, -dt, -d/-sp, -transitions or -batch is required")
		return exitUsage
	}
	if set["d"] != set["sp"] {
		logger.Error("-d/--date and -sp/--settlement-period must be used together")
		return exitUsage
	}
	if set["boundary"] && !set["d"] {
		logger.Error("-boundary only applies to -d/-sp conversions")
		return exitUsage
	}

	switch {
	case set["transitions"]:
		return printTransitions(conv, opts, stdout, logger)
	case set["batch"]:
		return runBatch(ctx, conv, opts, stdout, logger)
	default:
		return convertOne(conv, opts, set, stdout, logger)
	}
}

// convertOne handles a single -ts, -dt or -d/-sp conversion
func convertOne(conv *settlement.Converter, opts *options, set map[string]bool, stdout io.Writer, logger *slog.Logger) int {
	if _, err := settlement.ParseBoundary(opts.boundary); err != nil {
		logger.Error("Invalid boundary", "error", err)
		return exitUsage
	}

	req := batch.Request{
		ID:       "cli",
		Boundary: opts.boundary,
		Timezone: opts.timezone,
	}
	var local civil.Timestamp
	switch {
	case set["ts"]:
		req.Timestamp = &opts.timestamp
	case set["dt"]:
		ts, err := civil.ParseLocal(opts.datetime)
		if err != nil {
			logger.Error("Failed to parse datetime, use <yyyy-mm-ddTHH:MM:SS> format", "error", err)
			return exitUsage
		}
		local = ts.In(opts.timezone)
		req.Datetime = opts.datetime
	default:
		if _, err := settlement.ParseDate(opts.date); err != nil {
			logger.Error("Failed to parse date, use <yyyy-mm-dd> format", "error", err)
			return exitUsage
		}
		req.Date = opts.date
		req.Period = opts.period
	}

	logger.Debug("Converting", "request", req)
	runner := batch.NewRunner(logger, conv)
	result, err := runner.Convert(req)
	if err != nil {
		logger.Error("Conversion failed", "error", err)
		return exitConversion
	}

	if opts.displayJSON {
		return printJSON(stdout, result, logger)
	}

	rendered, err := civil.FromEpoch(*result.Timestamp, opts.timezone)
	if err != nil {
		logger.Error("Failed to render timestamp", "error", err)
		return exitConversion
	}
	instant := fmt.Sprintf("%d (%s)", *result.Timestamp, rendered.Format(utcLayout))
	period := fmt.Sprintf("%s SP%d", result.Date, result.Period)

	switch result.Kind {
	case batch.TimestampToPeriod:
		fmt.Fprintf(stdout, "%s  ->  %s\n", instant, period)
	case batch.DatetimeToPeriod:
		fmt.Fprintf(stdout, "%s  ->  %s\n", local, period)
	default:
		fmt.Fprintf(stdout, "%s  ->  %s\n", period, instant)
	}
	return exitOK
}

func printTransitions(conv *settlement.Converter, opts *options, stdout io.Writer, logger *slog.Logger) int {
	if opts.transitions < 1 || opts.transitions > 9999 {
		logger.Error("Invalid year", "year", opts.transitions)
		return exitUsage
	}

	transitions := conv.Transitions(opts.transitions)
	if opts.displayJSON {
		if transitions == nil {
			transitions = []settlement.Transition{}
		}
		return printJSON(stdout, transitions, logger)
	}

	for _, t := range transitions {
		fmt.Fprintf(stdout, "%s  %-6s  %d periods  (starts %s)\n",
			t.Date, t.Kind, t.MaxPeriod, time.Unix(t.StartEpoch, 0).UTC().Format(utcLayout))
	}
	return exitOK
}

func runBatch(ctx context.Context, conv *settlement.Converter, opts *options, stdout io.Writer, logger *slog.Logger) int {
	logger.Info("Loading batch", "path", opts.batchPath)
	b, err := hcl.LoadBatch(opts.batchPath, conv)
	if err != nil {
		logger.Error("Failed to load batch", "error", err)
		return exitUsage
	}

	report := batch.NewRunner(logger, conv).Run(ctx, *b)

	if opts.displayJSON {
		if code := printJSON(stdout, report, logger); code != exitOK {
			return code
		}
	} else {
		for _, result := range report.Results {
			fmt.Fprintln(stdout, formatResult(result))
		}
	}

	if report.Failed > 0 {
		return exitConversion
	}
	return exitOK
}

func formatResult(r batch.Result) string {
	if !r.OK() {
		return fmt.Sprintf("%s: error: %s", r.ID, r.Error)
	}
	ts := strconv.FormatInt(*r.Timestamp, 10)
	if r.Kind == batch.PeriodToTimestamp {
		return fmt.Sprintf("%s: %s SP%d  ->  %s (%s)", r.ID, r.Date, r.Period, ts, r.Datetime)
	}
	return fmt.Sprintf("%s: %s (%s)  ->  %s SP%d", r.ID, ts, r.Datetime, r.Date, r.Period)
}

func printJSON(stdout io.Writer, v interface{}, logger *slog.Logger) int {
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		logger.Error("Failed to encode JSON", "error", err)
		return exitConversion
	}
	return exitOK
}
