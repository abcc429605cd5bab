// Package quat implements the quaternion algebra used to accumulate the world
// orientation and to move points between camera and world space.
package quat

import (
	"math"

	"github.com/airpen/airpen/pkg/core"
)

// Quaternion is W + Xi + Yj + Zk.
type Quaternion struct {
	W, X, Y, Z float64
}

// Identity returns the unit quaternion with no rotation.
func Identity() Quaternion {
	return Quaternion{W: 1}
}

// New builds a quaternion from its four components.
func New(w, x, y, z float64) Quaternion {
	return Quaternion{W: w, X: x, Y: y, Z: z}
}

// FromAxisAngle returns (cos(angle), axis*sin(angle)). The axis must be a unit
// vector. Note the full angle is used, so the rotation applied by Sandwich is
// twice angle.
func FromAxisAngle(axis core.Vector, angle float64) Quaternion {
	s := math.Sin(angle)
	return Quaternion{W: math.Cos(angle), X: axis.X * s, Y: axis.Y * s, Z: axis.Z * s}
}

// Pure embeds v as the vector part of a quaternion with zero scalar part.
func Pure(v core.Vector) Quaternion {
	return Quaternion{X: v.X, Y: v.Y, Z: v.Z}
}

// Vector returns the vector part of q.
func (q Quaternion) Vector() core.Vector {
	return core.Vector{X: q.X, Y: q.Y, Z: q.Z}
}

// Mul returns the Hamilton product q * r.
func (q Quaternion) Mul(r Quaternion) Quaternion {
	return Quaternion{
		W: q.W*r.W - q.X*r.X - q.Y*r.Y - q.Z*r.Z,
		X: q.W*r.X + q.X*r.W + q.Y*r.Z - q.Z*r.Y,
		Y: q.W*r.Y - q.X*r.Z + q.Y*r.W + q.Z*r.X,
		Z: q.W*r.Z + q.X*r.Y - q.Y*r.X + q.Z*r.W,
	}
}

// Conj returns the conjugate of q.
func (q Quaternion) Conj() Quaternion {
	return Quaternion{W: q.W, X: -q.X, Y: -q.Y, Z: -q.Z}
}

// Norm returns the magnitude of q.
func (q Quaternion) Norm() float64 {
	return math.Sqrt(q.W*q.W + q.X*q.X + q.Y*q.Y + q.Z*q.Z)
}

// Normalize returns q scaled to unit length. The zero quaternion maps to Identity.
func (q Quaternion) Normalize() Quaternion {
	n := q.Norm()
	if n == 0 {
		return Identity()
	}
	return Quaternion{W: q.W / n, X: q.X / n, Y: q.Y / n, Z: q.Z / n}
}

// Sandwich returns conj(q) * p * q.
func (q Quaternion) Sandwich(p Quaternion) Quaternion {
	return q.Conj().Mul(p).Mul(q)
}

// Unsandwich returns q * p * conj(q), the inverse of Sandwich for unit q.
func (q Quaternion) Unsandwich(p Quaternion) Quaternion {
	return q.Mul(p).Mul(q.Conj())
}

// Matrix returns the column-major 4x4 rotation matrix for a unit quaternion,
// laid out for a GL-style modelview multiply.
func (q Quaternion) Matrix() [16]float32 {
	x2 := q.X * q.X * 2
	y2 := q.Y * q.Y * 2
	z2 := q.Z * q.Z * 2
	xy := q.X * q.Y * 2
	yz := q.Y * q.Z * 2
	zx := q.Z * q.X * 2
	xw := q.X * q.W * 2
	yw := q.Y * q.W * 2
	zw := q.Z * q.W * 2

	return [16]float32{
		float32(1 - y2 - z2), float32(xy + zw), float32(zx - yw), 0,
		float32(xy - zw), float32(1 - z2 - x2), float32(yz + xw), 0,
		float32(zx + yw), float32(yz - xw), float32(1 - x2 - y2), 0,
		0, 0, 0, 1,
	}
}
