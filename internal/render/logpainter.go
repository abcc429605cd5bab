package render

import (
	"errors"
	"fmt"

	"github.com/airpen/airpen/internal/geo"
)

// LogPainter is a headless Painter. It logs every stroke the first time it
// shows up as finished, and camera mode changes.
type LogPainter struct {
	logger   Logger
	seen     int
	rotating bool
}

// NewLogPainter creates a LogPainter.
func NewLogPainter(logger Logger) *LogPainter {
	return &LogPainter{logger: logger}
}

// Paint logs what changed since the previous scene.
func (p *LogPainter) Paint(s Scene) error {
	if s.Rotating != p.rotating {
		p.rotating = s.Rotating
		p.logger.Info("camera mode", "rotating", s.Rotating, "position", s.Camera.Position)
	}

	var errs []error
	for ; p.seen < len(s.Finished); p.seen++ {
		i, stroke := p.seen, s.Finished[p.seen]
		wkt, err := geo.WKT(stroke)
		switch {
		case errors.Is(err, geo.ErrTooFewPoints):
			p.logger.Debug("stroke skipped", "index", i, "points", len(stroke))
		case err != nil:
			errs = append(errs, fmt.Errorf("stroke %d: %w", i, err))
		default:
			p.logger.Info("stroke", "index", i, "points", len(stroke), "length", stroke.Length(), "wkt", wkt)
		}
	}
	return errors.Join(errs...)
}

// Seen returns how many finished strokes have been handled, including those
// that could not be rendered.
func (p *LogPainter) Seen() int {
	return p.seen
}
