// pkg/core/stroke.go
package core

// Stroke is an ordered sequence of 3D points drawn by a fingertip.
type Stroke []Vector

// Len returns the number of points in the stroke.
func (s Stroke) Len() int {
	return len(s)
}

// Clone returns a copy that shares no backing array with s.
func (s Stroke) Clone() Stroke {
	if s == nil {
		return nil
	}
	out := make(Stroke, len(s))
	copy(out, s)
	return out
}

// Length returns the polyline length of the stroke.
func (s Stroke) Length() float64 {
	var total float64
	for i := 1; i < len(s); i++ {
		total += s[i].DistanceTo(s[i-1])
	}
	return total
}
