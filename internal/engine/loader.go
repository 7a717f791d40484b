package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/tartampluch/go-onthisday/internal/config"
)

// SourceConfig contains all parameters required to read the family dataset.
type SourceConfig struct {
	Mode      string // config.SourceModeLocal or config.SourceModeWeb
	LocalPath string // Path to the JSON dataset file
	URL       string // HTTP(S) location of the JSON dataset
	User      string // HTTP Basic Auth Username
	Password  string // HTTP Basic Auth Password
}

// Result is the outcome of one load-and-collect pass.
type Result struct {
	Dataset    *Dataset
	Events     []Event
	Highlights Highlights
	Now        time.Time
}

// Loader fetches the dataset and runs the collector against the clock's current day.
type Loader struct {
	Clock   Clock          // Interface for time mocking.
	Fetcher DatasetFetcher // Interface for network abstraction.
}

// Run executes the acquire, decode and collect pipeline.
// On any error nothing is returned to render.
func (l *Loader) Run(ctx context.Context, src SourceConfig) (*Result, error) {
	start := time.Now()
	log := slog.With(
		config.LogKeyComponent, config.CompEngine,
		config.LogKeyMode, src.Mode,
	)
	log.DebugContext(ctx, config.MsgSyncStarted)

	ds, err := l.Load(ctx, src)
	if err != nil {
		return nil, err
	}

	now := l.clock().Now()
	events := Events(ds)
	h := CollectEvents(events, DateOf(now))

	log.InfoContext(ctx, config.MsgSyncDone,
		slog.Group(config.LogKeyStats,
			slog.Int(config.LogKeyPersons, countPersons(ds)),
			slog.Int(config.LogKeyEvents, len(events)),
			slog.Int(config.LogKeyToday, len(h.Today)),
			slog.Int(config.LogKeyTomorrow, len(h.Tomorrow)),
		),
		config.LogKeyDate, h.Date.String(),
		config.LogKeyDuration, time.Since(start).Milliseconds(),
	)

	return &Result{Dataset: ds, Events: events, Highlights: h, Now: now}, nil
}

// Load reads and decodes the dataset described by src.
func (l *Loader) Load(ctx context.Context, src SourceConfig) (*Dataset, error) {
	reader, err := l.acquireStream(ctx, src)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%s: %w", config.ErrDatasetLoad, err)
	}
	defer func() { _ = reader.Close() }()

	data, err := io.ReadAll(reader)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%s: %w", config.ErrDatasetLoad, err)
	}

	ds, err := DecodeDataset(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrDatasetDecode, err)
	}

	slog.Debug(config.MsgDatasetLoaded,
		config.LogKeyComponent, config.CompEngine,
		config.LogKeySizeBytes, len(data),
		config.LogKeyPersons, countPersons(ds),
	)
	return ds, nil
}

// acquireStream opens the appropriate data source based on configuration.
func (l *Loader) acquireStream(ctx context.Context, src SourceConfig) (io.ReadCloser, error) {
	switch src.Mode {
	case config.SourceModeLocal:
		if src.LocalPath == "" {
			return nil, errors.New(config.ErrLocalPathEmpty)
		}
		return os.Open(src.LocalPath)
	case config.SourceModeWeb:
		if src.URL == "" {
			return nil, errors.New(config.ErrWebURLEmpty)
		}
		if l.Fetcher == nil {
			return nil, errors.New(config.ErrFetcherMissing)
		}
		return l.Fetcher.Fetch(ctx, src.URL, src.User, src.Password)
	default:
		return nil, fmt.Errorf("%s: %q", config.ErrModeUnsupport, src.Mode)
	}
}

func (l *Loader) clock() Clock {
	if l.Clock == nil {
		return RealClock{}
	}
	return l.Clock
}

func countPersons(ds *Dataset) int {
	n := 0
	for _, gen := range ds.Generations {
		if gen != nil {
			n += len(gen.Persons)
		}
	}
	return n
}
