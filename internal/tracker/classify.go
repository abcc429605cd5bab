package tracker

import (
	"time"

	"github.com/airpen/airpen/pkg/core"
)

// Mode is the handling a frame received.
type Mode int

const (
	ModeFlushAll Mode = iota
	ModeTracing
	ModeRotation
)

func (m Mode) String() string {
	switch m {
	case ModeFlushAll:
		return "flush_all"
	case ModeTracing:
		return "tracing"
	case ModeRotation:
		return "rotation"
	default:
		return "unknown"
	}
}

// classify picks exactly one handling for the frame and applies it.
func (t *Tracker) classify(s *state, f core.Frame, now time.Time) Mode {
	if len(f.Hands) == 0 {
		t.flushAll(s)
		return ModeFlushAll
	}

	if open, ok := t.openHand(f); ok {
		t.rotate(s, open)
		return ModeRotation
	}

	for _, h := range f.Hands {
		t.traceFinger(s, h, now)
	}
	return ModeTracing
}

// openHand returns the first hand with more extended fingers than the
// open-hand threshold.
func (t *Tracker) openHand(f core.Frame) (core.Hand, bool) {
	for _, h := range f.Hands {
		if h.ExtendedFingers > t.cfg.OpenHandFingers {
			return h, true
		}
	}
	return core.Hand{}, false
}

// flushAll moves every track's line to the finished list regardless of
// length, the palm track included, and empties the table.
func (t *Tracker) flushAll(s *state) {
	t.stopRotating(s)
	for _, tr := range s.tracks.Drain() {
		t.finish(s, tr, "hands_lost")
	}
}

// leaveRotation clears rotation mode and drops its palm track.
func (t *Tracker) leaveRotation(s *state) {
	if t.stopRotating(s) {
		s.tracks.Remove(s.rotationHand)
	}
}

func (t *Tracker) stopRotating(s *state) bool {
	if !s.rotating {
		return false
	}
	s.rotating = false
	t.logger.Debug("rotation mode left", "hand", s.rotationHand)
	return true
}
