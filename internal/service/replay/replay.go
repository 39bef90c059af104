package replay

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/oshokin/lightlid/internal/config"
	"github.com/oshokin/lightlid/internal/domain/lid"
	"github.com/oshokin/lightlid/internal/logger"
)

var (
	// ErrSyntax is returned for a line that is not "<offset> <level>".
	ErrSyntax = errors.New("expected \"<offset> <level>\"")
	// ErrOutOfOrder is returned when an offset is smaller than the previous one.
	ErrOutOfOrder = errors.New("offset goes back in time")
	// ErrLevelRange is returned for a level outside [0, 255].
	ErrLevelRange = errors.New("level must be between 0 and 255")
)

// maxOffsetMillis is the largest millisecond offset a time.Duration holds.
const maxOffsetMillis = math.MaxInt64 / int64(time.Millisecond)

// traceStart is the wall time the first offset is counted from.
var traceStart = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

// Sample is one line of a trace.
type Sample struct {
	// Offset is the time since the start of the trace.
	Offset time.Duration
	// Level is the brightness level.
	Level int
}

// Options controls a replay run.
type Options struct {
	// Path is the trace file, "" or "-" reads Stdin.
	Path string
	// Sensitivity is the detector threshold.
	Sensitivity int
	// Baseline is the level the detector starts from.
	Baseline int
	// Stdin is read when Path is empty.
	Stdin io.Reader
	// Stdout receives one line per transition.
	Stdout io.Writer
}

// Run reads the trace named by opts and prints its transitions.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "replay")

	if err := config.ValidateSensitivity(opts.Sensitivity); err != nil {
		return err
	}

	if opts.Baseline < lid.MinLevel || opts.Baseline > lid.MaxLevel {
		return fmt.Errorf("%w: baseline %d", ErrLevelRange, opts.Baseline)
	}

	r := opts.Stdin

	if opts.Path != "" && opts.Path != "-" {
		file, err := os.Open(opts.Path)
		if err != nil {
			return fmt.Errorf("open trace: %w", err)
		}

		defer file.Close()

		r = file
	}

	samples, err := Parse(r)
	if err != nil {
		return err
	}

	events, err := Replay(ctx, samples, opts.Stdout, lid.WithSensitivity(opts.Sensitivity), lid.WithBaseline(opts.Baseline))
	if err != nil {
		return err
	}

	logger.InfoKV(ctx, "Trace replayed", "samples", len(samples), "events", len(events))

	return nil
}

// Parse reads a trace. Errors name the offending line.
func Parse(r io.Reader) ([]Sample, error) {
	var (
		samples []Sample
		number  int
	)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		number++

		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		sample, err := parseLine(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", number, err)
		}

		if len(samples) > 0 && sample.Offset < samples[len(samples)-1].Offset {
			return nil, fmt.Errorf(
				"line %d: %w: %s after %s",
				number, ErrOutOfOrder, sample.Offset, samples[len(samples)-1].Offset,
			)
		}

		samples = append(samples, sample)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read trace: %w", err)
	}

	return samples, nil
}

// Replay feeds samples to a new detector and writes each transition to w
// as "<offset>\t<transition>\tlevel=<n>\tdelta=<d>". A nil w prints nothing.
func Replay(ctx context.Context, samples []Sample, w io.Writer, opts ...lid.Option) ([]lid.Event, error) {
	detector := lid.NewDetector(opts...)

	var events []lid.Event

	for _, sample := range samples {
		if err := ctx.Err(); err != nil {
			return events, err
		}

		event, ok := detector.Observe(sample.Level, traceStart.Add(sample.Offset))
		if !ok {
			continue
		}

		events = append(events, event)

		if w == nil {
			continue
		}

		if _, err := fmt.Fprintf(w, "%s\t%s\tlevel=%d\tdelta=%d\n", Offset(event), event.Transition, event.Level, event.Delta); err != nil {
			return events, fmt.Errorf("write event: %w", err)
		}
	}

	return events, nil
}

// Offset returns the time of event relative to the start of the trace.
func Offset(event lid.Event) time.Duration {
	return event.At.Sub(traceStart)
}

func parseLine(line string) (Sample, error) {
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return Sample{}, fmt.Errorf("%w, got %q", ErrSyntax, line)
	}

	offset, err := parseOffset(fields[0])
	if err != nil {
		return Sample{}, err
	}

	level, err := strconv.Atoi(fields[1])
	if err != nil {
		return Sample{}, fmt.Errorf("%w: level %q is not a number", ErrSyntax, fields[1])
	}

	if level < lid.MinLevel || level > lid.MaxLevel {
		return Sample{}, fmt.Errorf("%w: got %d", ErrLevelRange, level)
	}

	return Sample{Offset: offset, Level: level}, nil
}

// parseOffset accepts a Go duration or an integer number of milliseconds.
func parseOffset(s string) (time.Duration, error) {
	var (
		offset time.Duration
		err    error
	)

	if ms, convErr := strconv.ParseInt(s, 10, 64); convErr == nil {
		if ms > maxOffsetMillis || ms < -maxOffsetMillis {
			return 0, fmt.Errorf("%w: offset %q overflows a duration", ErrSyntax, s)
		}

		offset = time.Duration(ms) * time.Millisecond
	} else if offset, err = time.ParseDuration(s); err != nil {
		return 0, fmt.Errorf("%w: offset %q is neither a duration nor milliseconds", ErrSyntax, s)
	}

	if offset < 0 {
		return 0, fmt.Errorf("%w: negative offset %s", ErrOutOfOrder, offset)
	}

	return offset, nil
}
