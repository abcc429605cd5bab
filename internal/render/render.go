// Package render hands tracker state to a drawing backend.
//
// The drawing surface itself lives outside this module. On every refresh tick
// the tracker state is copied into a Scene under the read guard, and the
// Painter draws that copy after the guard is released, so a slow paint never
// holds up the frame producer.
package render

import (
	"context"
	"slices"
	"time"

	"github.com/airpen/airpen/internal/track"
	"github.com/airpen/airpen/internal/tracker"
	"github.com/airpen/airpen/internal/world"
	"github.com/airpen/airpen/pkg/core"
)

// Scene is everything needed to draw one refresh. Finished strokes are shared
// with the tracker, which never modifies them; active lines are copies.
type Scene struct {
	Finished []core.Stroke
	Active   []core.Stroke
	Camera   world.Camera
	Rotating bool

	// Column-major rotation matrices of the accumulated world orientations.
	WorldX, WorldY [16]float32
}

// Painter draws a scene.
type Painter interface {
	Paint(Scene) error
}

// PainterFunc adapts a function to Painter.
type PainterFunc func(Scene) error

func (f PainterFunc) Paint(s Scene) error { return f(s) }

// StateReader exposes tracker state under its read guard.
type StateReader interface {
	Read(fn func(tracker.View))
}

// Logger interface for pluggable logging.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
}

// Snapshot builds a scene from a tracker view. Tracks that have not started a
// stroke are left out of Active.
func Snapshot(v tracker.View) Scene {
	cam := v.Camera()

	var active []core.Stroke
	v.EachActive(func(tr track.Track) {
		if len(tr.Line) > 0 {
			active = append(active, tr.Line.Clone())
		}
	})

	return Scene{
		Finished: slices.Clone(v.Finished()),
		Active:   active,
		Camera:   cam,
		Rotating: v.Rotating(),
		WorldX:   cam.WorldX.Matrix(),
		WorldY:   cam.WorldY.Matrix(),
	}
}

// Draw takes a snapshot under the read guard and paints it outside.
func Draw(r StateReader, p Painter) error {
	var scene Scene
	r.Read(func(v tracker.View) {
		scene = Snapshot(v)
	})
	return p.Paint(scene)
}

// Loop paints at every interval until ctx is cancelled. Paint errors are
// logged and the loop keeps going.
func Loop(ctx context.Context, r StateReader, p Painter, interval time.Duration, logger Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logger.Debug("render loop started", "interval", interval)
	for {
		select {
		case <-ctx.Done():
			logger.Debug("render loop stopped")
			return
		case <-ticker.C:
			if err := Draw(r, p); err != nil {
				logger.Error("paint failed", "error", err)
			}
		}
	}
}
