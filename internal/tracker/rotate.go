package tracker

import "github.com/airpen/airpen/pkg/core"

// rotate steers the camera with the palm of an open hand.
//
// The first rotation frame for a hand flushes every stroke in progress and
// seeds a palm track. Later frames turn palm displacement beyond the dead zone
// into incremental rotation about the world axes and a camera dolly.
func (t *Tracker) rotate(s *state, h core.Hand) {
	palm := h.Palm
	if palm.IsZero() {
		return
	}

	palmTrack, ok := s.tracks.Get(h.ID)
	if !s.rotating || !ok || s.rotationHand != h.ID {
		t.leaveRotation(s)
		for _, tr := range s.tracks.Drain() {
			t.finish(s, tr, "rotation")
		}

		palmTrack = s.tracks.GetOrCreate(h.ID, h.ID)
		palmTrack.Previous = palm
		s.rotating = true
		s.rotationHand = h.ID
		t.logger.Debug("rotation mode entered", "hand", h.ID)
		return
	}

	d := palm.Sub(palmTrack.Previous)
	if d.Length() <= t.cfg.DeadZone {
		return
	}

	// Horizontal palm motion turns the world about Y, vertical motion about X.
	s.camera.Rotate(d.Y/t.cfg.AngleDivisor, d.X/t.cfg.AngleDivisor)
	s.camera.Dolly(d.Z * t.cfg.DepthGain)
	palmTrack.Previous = palm
}
