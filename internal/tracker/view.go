package tracker

import (
	"github.com/airpen/airpen/internal/track"
	"github.com/airpen/airpen/internal/world"
	"github.com/airpen/airpen/pkg/core"
)

// View is a read-only window onto the shared state. It is only valid inside
// the Read callback that produced it; slices it returns must not be retained
// or modified.
type View struct {
	s *state
}

// Finished returns the finished strokes in completion order.
func (v View) Finished() []core.Stroke {
	return v.s.finished
}

// EachActive calls fn for every track in insertion order. Tracks that have not
// started a stroke yet have an empty Line.
func (v View) EachActive(fn func(track.Track)) {
	v.s.tracks.Each(func(tr *track.Track) {
		fn(*tr)
	})
}

// Camera returns the current camera state.
func (v View) Camera() world.Camera {
	return v.s.camera
}

// Rotating reports whether an open hand is steering the camera.
func (v View) Rotating() bool {
	return v.s.rotating
}
