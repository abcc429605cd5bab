// Package tracker turns sensor frames into finished strokes and camera motion.
//
// A Tracker owns all state shared between the frame producer and the render
// consumer. ProcessFrame runs the whole per-frame update under one exclusive
// section, and Read hands the consumer a consistent view, so a reader never
// observes a half-applied frame.
package tracker

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/airpen/airpen/internal/guard"
	"github.com/airpen/airpen/internal/track"
	"github.com/airpen/airpen/internal/world"
	"github.com/airpen/airpen/pkg/core"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/airpen/airpen/internal/tracker"

// Logger is the logging surface the tracker needs. *slog.Logger satisfies it.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
}

// Config holds the gesture thresholds.
type Config struct {
	// Finger tracing
	PrimingSamples  int           // accepted samples before a stroke starts is PrimingSamples+1
	PrimingRadius   float64       // max distance between consecutive priming samples
	PrimingInterval time.Duration // min spacing between evaluated priming samples
	InvalidInterval time.Duration // re-check delay after an invalid sample
	Decimation      float64       // min distance between appended stroke points
	MinStrokePoints int           // a terminated stroke is kept only above this length
	PrimaryIndex    int           // pointable slot that drives the stroke

	// Camera control
	OpenHandFingers int     // more extended fingers than this selects rotation mode
	DeadZone        float64 // palm displacement ignored at or below this
	AngleDivisor    float64 // palm displacement per radian of increment
	DepthGain       float64 // camera depth per unit of palm depth

	CameraDefault core.Vector
}

// DefaultConfig returns the thresholds the gestures were tuned with.
func DefaultConfig() Config {
	return Config{
		PrimingSamples:  10,
		PrimingRadius:   10,
		PrimingInterval: 30 * time.Millisecond,
		InvalidInterval: 100 * time.Millisecond,
		Decimation:      1,
		MinStrokePoints: 3,
		PrimaryIndex:    1,
		OpenHandFingers: 3,
		DeadZone:        0.3,
		AngleDivisor:    200,
		DepthGain:       6,
		CameraDefault:   world.DefaultPosition,
	}
}

// state is everything guarded by the tracker.
type state struct {
	tracks   *track.Table
	finished []core.Stroke
	camera   world.Camera

	rotating     bool
	rotationHand int
}

// Tracker is the per-frame gesture state machine.
type Tracker struct {
	cfg    Config
	shared *guard.Guard[state]

	// stats is republished after every update so it can be read, e.g. by a
	// log handler, without taking the guard.
	stats atomic.Pointer[Stats]

	logger Logger
	now    func() time.Time
	seed   SeedSource

	meterProvider metric.MeterProvider
	frames        metric.Int64Counter
	strokes       metric.Int64Counter
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithLogger sets the logger.
func WithLogger(l Logger) Option {
	return func(t *Tracker) {
		t.logger = l
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) {
		t.now = now
	}
}

// WithSeed replaces the source of stroke seed points.
func WithSeed(s SeedSource) Option {
	return func(t *Tracker) {
		t.seed = s
	}
}

// WithMeterProvider records metrics on mp instead of the global provider.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(t *Tracker) {
		t.meterProvider = mp
	}
}

// New creates a Tracker with an empty track table and the camera at its default.
func New(cfg Config, opts ...Option) (*Tracker, error) {
	t := &Tracker{
		cfg:           cfg,
		logger:        slog.New(slog.DiscardHandler),
		now:           time.Now,
		seed:          UniformSeed(),
		meterProvider: otel.GetMeterProvider(),
	}
	for _, opt := range opts {
		opt(t)
	}

	t.shared = guard.New(state{
		tracks: track.NewTable(),
		camera: world.New(cfg.CameraDefault),
	})
	t.stats.Store(&Stats{})

	m := t.meterProvider.Meter(instrumentationName)

	var err error

	t.frames, err = m.Int64Counter(
		"airpen.tracker.frames",
		metric.WithDescription("Frames processed, by classified mode"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating frames counter: %w", err)
	}

	t.strokes, err = m.Int64Counter(
		"airpen.tracker.strokes.finished",
		metric.WithDescription("Strokes moved to the finished list, by reason"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating strokes counter: %w", err)
	}

	return t, nil
}

// ProcessFrame classifies one sensor frame and applies it. Frames must not be
// processed concurrently with each other.
func (t *Tracker) ProcessFrame(f core.Frame) Mode {
	now := t.now()

	var mode Mode
	t.shared.Update(func(s *state) {
		mode = t.classify(s, f, now)
		t.publish(s)
	})

	t.frames.Add(context.Background(), 1, metric.WithAttributes(attribute.String("mode", mode.String())))
	return mode
}

// Reset puts the camera back at its default position and orientation.
func (t *Tracker) Reset() {
	t.shared.Update(func(s *state) {
		s.camera.Reset()
	})
	t.logger.Info("camera reset")
}

// Read runs fn with a consistent view of the shared state. The view must not
// be kept after fn returns.
func (t *Tracker) Read(fn func(View)) {
	t.shared.Read(func(s *state) {
		fn(View{s: s})
	})
}

// Stats is a point-in-time summary for logging.
type Stats struct {
	ActiveTracks    int  `json:"activeTracks"`
	FinishedStrokes int  `json:"finishedStrokes"`
	Rotating        bool `json:"rotating"`
}

// Stats returns the counts as of the last processed frame. It never blocks,
// so it is safe to call from loggers the tracker itself writes to.
func (t *Tracker) Stats() Stats {
	return *t.stats.Load()
}

func (t *Tracker) publish(s *state) {
	t.stats.Store(&Stats{
		ActiveTracks:    s.tracks.Len(),
		FinishedStrokes: len(s.finished),
		Rotating:        s.rotating,
	})
}

// finish appends a line to the finished list. The line is owned by the list
// from here on and never modified again.
func (t *Tracker) finish(s *state, tr *track.Track, reason string) {
	s.finished = append(s.finished, tr.Line)
	t.strokes.Add(context.Background(), 1, metric.WithAttributes(attribute.String("reason", reason)))
	t.logger.Debug("stroke finished", "track", tr.ID, "points", len(tr.Line), "reason", reason)
}
