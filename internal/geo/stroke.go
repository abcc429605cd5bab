// Package geo converts strokes to and from simple-features geometry.
package geo

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/airpen/airpen/pkg/core"
	geom "github.com/peterstace/simplefeatures/geom"
)

// ErrTooFewPoints is returned when a line would have fewer than 2 points.
var ErrTooFewPoints = errors.New("stroke must have at least 2 points")

// LineString builds an XYZ line string from a stroke.
func LineString(s core.Stroke) (geom.LineString, error) {
	if len(s) < 2 {
		return geom.LineString{}, fmt.Errorf("%w, got %d", ErrTooFewPoints, len(s))
	}

	flat := make([]float64, 0, len(s)*3)
	for _, p := range s {
		flat = append(flat, p.X, p.Y, p.Z)
	}

	seq := geom.NewSequence(flat, geom.DimXYZ)
	return geom.NewLineString(seq)
}

// Stroke converts a line string back to a stroke. Missing Z values are zero.
func Stroke(ls geom.LineString) core.Stroke {
	seq := ls.Coordinates()
	if seq.Length() == 0 {
		return nil
	}
	out := make(core.Stroke, seq.Length())
	for i := 0; i < seq.Length(); i++ {
		c := seq.Get(i)
		out[i] = core.Vector{X: c.X, Y: c.Y, Z: c.Z}
	}
	return out
}

// WKT renders a stroke as a LINESTRING Z.
func WKT(s core.Stroke) (string, error) {
	ls, err := LineString(s)
	if err != nil {
		return "", err
	}
	return ls.AsText(), nil
}

// ParseWKT parses a LINESTRING back into a stroke.
func ParseWKT(input string) (core.Stroke, error) {
	g, err := geom.UnmarshalWKT(input)
	if err != nil {
		return nil, fmt.Errorf("failed to parse WKT: %w", err)
	}
	ls, ok := g.AsLineString()
	if !ok {
		return nil, fmt.Errorf("expected LINESTRING, got %s", g.Type())
	}
	return Stroke(ls), nil
}

// ParseStroke parses a JSON array of points into a stroke.
// Input format: "[[x1,y1,z1],[x2,y2,z2],...]"; z may be omitted.
func ParseStroke(input string) (core.Stroke, error) {
	var coords [][]float64
	if err := json.Unmarshal([]byte(input), &coords); err != nil {
		return nil, fmt.Errorf("failed to parse stroke JSON: %w", err)
	}

	if len(coords) < 2 {
		return nil, fmt.Errorf("%w, got %d", ErrTooFewPoints, len(coords))
	}

	stroke := make(core.Stroke, len(coords))
	for i, c := range coords {
		if len(c) < 2 {
			return nil, fmt.Errorf("coordinate %d has insufficient values", i)
		}
		p := core.Vector{X: c[0], Y: c[1]}
		if len(c) > 2 {
			p.Z = c[2]
		}
		stroke[i] = p
	}

	return stroke, nil
}
