package tracker

import (
	"time"

	"github.com/airpen/airpen/internal/track"
	"github.com/airpen/airpen/pkg/core"
)

// traceFinger applies one hand to the priming and stroke state machine.
func (t *Tracker) traceFinger(s *state, h core.Hand, now time.Time) {
	if h.ExtendedFingers == 0 {
		return
	}
	if len(h.Pointables) == 0 {
		t.terminate(s, h.ID)
		return
	}

	t.leaveRotation(s)

	p, hasPrimary := t.primary(h)

	var tr *track.Track
	if hasPrimary {
		tr = s.tracks.GetOrCreate(p.ID, h.ID)
	} else {
		found, ok := s.tracks.FindByHand(h.ID)
		if !ok {
			return
		}
		tr = found
	}

	if !hasPrimary || !p.Valid {
		tr.Counter = 0
		tr.Deadline = now.Add(t.cfg.InvalidInterval)
		return
	}

	tip := s.camera.ToWorld(p.Tip)

	if tr.Counter > t.cfg.PrimingSamples {
		if tip.DistanceTo(tr.Previous) > t.cfg.Decimation {
			tr.Line = append(tr.Line, tip)
			tr.Previous = tip
		}
		return
	}

	if !now.After(tr.Deadline) {
		return
	}

	if tip.DistanceTo(tr.Previous) < t.cfg.PrimingRadius {
		tr.Counter++
		if tr.Counter == t.cfg.PrimingSamples+1 {
			tr.Line = core.Stroke{t.seed.Seed(), tip}
			t.logger.Debug("stroke started", "track", tr.ID, "hand", h.ID)
		}
	} else {
		tr.Counter = 0
	}
	tr.Previous = tip
	tr.Deadline = now.Add(t.cfg.PrimingInterval)
}

// primary returns the pointable that drives the stroke for a hand.
func (t *Tracker) primary(h core.Hand) (core.Pointable, bool) {
	i := t.cfg.PrimaryIndex
	if i < 0 || i >= len(h.Pointables) {
		return core.Pointable{}, false
	}
	return h.Pointables[i], true
}

// terminate ends every track of a hand that lost all its pointables. Lines
// longer than the minimum are kept as finished strokes.
func (t *Tracker) terminate(s *state, handID int) {
	for {
		tr, ok := s.tracks.FindByHand(handID)
		if !ok {
			return
		}
		s.tracks.Remove(tr.ID)
		if len(tr.Line) > t.cfg.MinStrokePoints {
			t.finish(s, tr, "terminated")
		} else if len(tr.Line) > 0 {
			t.logger.Debug("stroke discarded", "track", tr.ID, "points", len(tr.Line))
		}
	}
}
