package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/airpen/airpen/internal/dispatcher"
)

// Logger interface for pluggable logging.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
}

// Dispatcher accepts events.
type Dispatcher interface {
	Dispatch(e dispatcher.Event) (any, error)
}

// PumpOption configures Pump.
type PumpOption func(*pumpConfig)

type pumpConfig struct {
	paced bool
}

// Paced waits between frames for the gap between their timestamps, so a
// recording replays at the speed it was captured.
func Paced() PumpOption {
	return func(c *pumpConfig) {
		c.paced = true
	}
}

// Pump forwards every frame from src as a frame event until the source ends or
// ctx is cancelled. Bad frames are logged and skipped. It returns the number
// of frames dispatched.
func Pump(ctx context.Context, src Source, d Dispatcher, logger Logger, opts ...PumpOption) (int, error) {
	cfg := &pumpConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	var (
		sent int
		last time.Time
	)
	for {
		if err := ctx.Err(); err != nil {
			return sent, err
		}

		f, err := src.Next()
		if errors.Is(err, io.EOF) {
			logger.Info("frame source drained", "frames", sent)
			return sent, nil
		}
		if errors.Is(err, ErrBadFrame) {
			logger.Error("skipping frame", "error", err)
			continue
		}
		if err != nil {
			return sent, fmt.Errorf("reading frame: %w", err)
		}

		if cfg.paced {
			if err := wait(ctx, last, f.Timestamp); err != nil {
				return sent, err
			}
			last = f.Timestamp
		}

		_, err = d.Dispatch(dispatcher.Event{
			Command:   dispatcher.CommandFrame,
			Frame:     f,
			Timestamp: time.Now(),
		})
		if errors.Is(err, dispatcher.ErrClosed) {
			return sent, err
		}
		if err != nil {
			logger.Error("frame not dispatched", "frame", f.ID, "error", err)
			continue
		}
		sent++
	}
}

// wait sleeps for the gap between two frame timestamps. Missing or
// out-of-order timestamps do not wait.
func wait(ctx context.Context, prev, next time.Time) error {
	if prev.IsZero() || next.IsZero() {
		return nil
	}
	gap := next.Sub(prev)
	if gap <= 0 {
		return nil
	}

	timer := time.NewTimer(gap)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
