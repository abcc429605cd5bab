package geo

import (
	"strings"
	"testing"

	"github.com/airpen/airpen/pkg/core"
	geom "github.com/peterstace/simplefeatures/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineString(t *testing.T) {
	s := core.Stroke{{X: 1, Y: 2, Z: 3}, {X: 4, Y: 5, Z: 6}, {X: -1, Y: 0.5, Z: 10}}

	ls, err := LineString(s)
	require.NoError(t, err)

	seq := ls.Coordinates()
	require.Equal(t, 3, seq.Length())
	c := seq.Get(2)
	assert.Equal(t, -1.0, c.X)
	assert.Equal(t, 0.5, c.Y)
	assert.Equal(t, 10.0, c.Z)

	assert.Equal(t, s, Stroke(ls))
}

func TestLineString_TooFewPoints(t *testing.T) {
	for _, s := range []core.Stroke{nil, {{X: 1}}} {
		_, err := LineString(s)
		assert.ErrorIs(t, err, ErrTooFewPoints)
	}
}

func TestLineString_SingleDistinctPoint(t *testing.T) {
	_, err := LineString(core.Stroke{{X: 2, Y: 3}, {X: 2, Y: 3, Z: 8}})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrTooFewPoints)
}

func TestStroke_Empty(t *testing.T) {
	assert.Nil(t, Stroke(geom.LineString{}))
}

func TestWKT_RoundTrip(t *testing.T) {
	s := core.Stroke{{X: 0.5, Y: 0.25, Z: 0.75}, {X: 12, Y: -3, Z: 40}}

	wkt, err := WKT(s)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(wkt, "LINESTRING Z"), wkt)

	back, err := ParseWKT(wkt)
	require.NoError(t, err)
	assert.Equal(t, s, back)
}

func TestWKT_TooFewPoints(t *testing.T) {
	_, err := WKT(core.Stroke{{X: 1}})
	assert.ErrorIs(t, err, ErrTooFewPoints)
}

func TestParseWKT_Invalid(t *testing.T) {
	_, err := ParseWKT("not wkt")
	require.Error(t, err)

	_, err = ParseWKT("POINT Z (1 2 3)")
	require.Error(t, err)
}

func TestParseStroke(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  core.Stroke
	}{
		{
			name:  "xyz",
			input: "[[100.5,200.25,3],[300.75,400.5,4],[500,600,5]]",
			want:  core.Stroke{{X: 100.5, Y: 200.25, Z: 3}, {X: 300.75, Y: 400.5, Z: 4}, {X: 500, Y: 600, Z: 5}},
		},
		{
			name:  "z omitted",
			input: "[[1,2],[3,4,5]]",
			want:  core.Stroke{{X: 1, Y: 2}, {X: 3, Y: 4, Z: 5}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseStroke(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseStroke_Errors(t *testing.T) {
	_, err := ParseStroke("not valid json")
	require.Error(t, err)

	_, err = ParseStroke("[[100,200,1]]")
	assert.ErrorIs(t, err, ErrTooFewPoints)

	_, err = ParseStroke("[[100],[200,300]]")
	require.Error(t, err)
}
