package probe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/oshokin/lightlid/internal/brightness"
	"github.com/oshokin/lightlid/internal/config"
	"github.com/oshokin/lightlid/internal/logger"
	"github.com/oshokin/lightlid/internal/source"
)

const (
	// DefaultCount is the number of samples taken by default.
	DefaultCount = 5
	// DefaultInterval is the pause between samples by default.
	DefaultInterval = 500 * time.Millisecond
)

var (
	// ErrAllSamplesFailed is returned when no sample could be read.
	ErrAllSamplesFailed = errors.New("every sample failed")
	// ErrInvalidCount is returned for a non-positive sample count.
	ErrInvalidCount = errors.New("count must be positive")
)

// Options controls a probe run.
type Options struct {
	// Count is the number of samples.
	Count int
	// Interval is the pause between samples.
	Interval time.Duration
	// Stdout receives one line per sample.
	Stdout io.Writer
}

// Result summarises a probe run.
type Result struct {
	// Levels holds the levels of the successful samples.
	Levels []int
	// Failed counts samples that could not be read.
	Failed int
}

// Run opens the source described by cfg and samples it.
func Run(ctx context.Context, cfg *config.Config, opts *Options) error {
	ctx = logger.WithName(ctx, "probe")

	reduce, err := brightness.NewReducer(cfg.Brightness.Method, cfg.Brightness.Region)
	if err != nil {
		return err
	}

	src, err := source.New(cfg)
	if err != nil {
		return fmt.Errorf("open %s source: %w", cfg.Source.Kind, err)
	}

	defer func() {
		if err := src.Close(); err != nil {
			logger.ErrorKV(ctx, "Failed to close source", "error", err)
		}
	}()

	logger.InfoKV(ctx, "Probing source", "source", cfg.Source.Kind, "count", opts.Count, "interval", opts.Interval.String())

	result, err := Sample(ctx, src, reduce, opts)
	if err != nil {
		return err
	}

	if len(result.Levels) > 0 {
		low, high := spread(result.Levels)
		logger.InfoKV(ctx, "Probe finished", "ok", len(result.Levels), "failed", result.Failed, "min", low, "max", high)
	}

	return nil
}

// Sample reads opts.Count frames from src, opts.Interval apart, and writes
// "<n>\tlevel=<l>" or "<n>\terror=<err>" for each of them.
func Sample(ctx context.Context, src source.Source, reduce brightness.Reducer, opts *Options) (Result, error) {
	var result Result

	if opts.Count <= 0 {
		return result, fmt.Errorf("%w: got %d", ErrInvalidCount, opts.Count)
	}

	timer := time.NewTimer(0)
	defer timer.Stop()

	for n := 1; n <= opts.Count; n++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		case <-timer.C:
		}

		img, err := src.Frame(ctx)
		if err != nil {
			result.Failed++
			_, _ = fmt.Fprintf(opts.Stdout, "%d\terror=%v\n", n, err)
		} else {
			level := reduce(img)
			result.Levels = append(result.Levels, level)
			_, _ = fmt.Fprintf(opts.Stdout, "%d\tlevel=%d\n", n, level)
		}

		timer.Reset(opts.Interval)
	}

	if len(result.Levels) == 0 {
		return result, fmt.Errorf("%w: %d of %d", ErrAllSamplesFailed, result.Failed, opts.Count)
	}

	return result, nil
}

func spread(levels []int) (int, int) {
	low, high := levels[0], levels[0]
	for _, level := range levels[1:] {
		low = min(low, level)
		high = max(high, level)
	}

	return low, high
}
