// Package world holds the virtual camera state: its position and the two
// accumulated world orientation quaternions.
package world

import (
	"math"

	"github.com/airpen/airpen/internal/quat"
	"github.com/airpen/airpen/pkg/core"
)

// DefaultPosition is where the camera sits after a reset.
var DefaultPosition = core.Vector{X: 0, Y: 300, Z: 600}

// driftTolerance bounds how far an accumulated orientation may drift from unit
// length before it is renormalised.
const driftTolerance = 1e-9

var (
	axisX = core.Vector{X: 1}
	axisY = core.Vector{Y: 1}
)

// Camera is the virtual camera. Only Position.Z is driven by gestures; X and Y
// stay at their defaults and act as fixed offsets in the space conversion.
type Camera struct {
	Position core.Vector
	WorldX   quat.Quaternion
	WorldY   quat.Quaternion

	// Default is the position restored by Reset.
	Default core.Vector
}

// New returns a camera at def with identity orientation.
func New(def core.Vector) Camera {
	c := Camera{Default: def}
	c.Reset()
	return c
}

// Reset restores the default position and clears both orientations.
func (c *Camera) Reset() {
	c.Position = c.Default
	c.WorldX = quat.Identity()
	c.WorldY = quat.Identity()
}

// offset moves a camera-relative point by the camera displacement from its
// default. y and z are reflected relative to x to match the render transform,
// which translates by (x, -y, -z).
func (c Camera) offset(v core.Vector) core.Vector {
	return core.Vector{
		X: v.X - c.Position.X + c.Default.X,
		Y: v.Y + c.Position.Y - c.Default.Y,
		Z: v.Z + c.Position.Z - c.Default.Z,
	}
}

// ToWorld re-expresses a camera-relative point in world space so that stored
// strokes stay put while the camera rotates.
func (c Camera) ToWorld(v core.Vector) core.Vector {
	q := quat.Pure(c.offset(v))
	q = c.WorldX.Sandwich(q)
	q = c.WorldY.Sandwich(q)
	return q.Vector()
}

// ToCamera is the inverse of ToWorld for the current camera state.
func (c Camera) ToCamera(w core.Vector) core.Vector {
	q := quat.Pure(w)
	q = c.WorldY.Unsandwich(q)
	q = c.WorldX.Unsandwich(q)
	v := q.Vector()
	return core.Vector{
		X: v.X + c.Position.X - c.Default.X,
		Y: v.Y - c.Position.Y + c.Default.Y,
		Z: v.Z - c.Position.Z + c.Default.Z,
	}
}

// Rotate right-composes small rotations onto the accumulated orientations:
// angleX about the x axis onto WorldX, angleY about the y axis onto WorldY.
func (c *Camera) Rotate(angleX, angleY float64) {
	c.WorldY = guardDrift(c.WorldY.Mul(quat.FromAxisAngle(axisY, angleY)))
	c.WorldX = guardDrift(c.WorldX.Mul(quat.FromAxisAngle(axisX, angleX)))
}

// Dolly moves the camera along its depth axis.
func (c *Camera) Dolly(dz float64) {
	c.Position.Z += dz
}

func guardDrift(q quat.Quaternion) quat.Quaternion {
	if math.Abs(q.Norm()-1) > driftTolerance {
		return q.Normalize()
	}
	return q
}
