package quat

import (
	"math"
	"testing"

	"github.com/airpen/airpen/pkg/core"
	"github.com/stretchr/testify/assert"
)

const eps = 1e-9

func assertQuat(t *testing.T, want, got Quaternion) {
	t.Helper()
	assert.InDelta(t, want.W, got.W, eps, "W")
	assert.InDelta(t, want.X, got.X, eps, "X")
	assert.InDelta(t, want.Y, got.Y, eps, "Y")
	assert.InDelta(t, want.Z, got.Z, eps, "Z")
}

func assertVec(t *testing.T, want, got core.Vector) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, eps, "X")
	assert.InDelta(t, want.Y, got.Y, eps, "Y")
	assert.InDelta(t, want.Z, got.Z, eps, "Z")
}

func TestMul_BasisUnits(t *testing.T) {
	i := New(0, 1, 0, 0)
	j := New(0, 0, 1, 0)
	k := New(0, 0, 0, 1)

	assertQuat(t, k, i.Mul(j))
	assertQuat(t, i, j.Mul(k))
	assertQuat(t, j, k.Mul(i))
	assertQuat(t, New(-1, 0, 0, 0), i.Mul(i))
	assertQuat(t, k.Conj(), j.Mul(i))
}

func TestMul_IdentityIsNeutral(t *testing.T) {
	q := New(0.5, 0.5, -0.5, 0.5)
	assertQuat(t, q, Identity().Mul(q))
	assertQuat(t, q, q.Mul(Identity()))
}

func TestFromAxisAngle_IsUnit(t *testing.T) {
	q := FromAxisAngle(core.Vector{Y: 1}, 0.37)
	assert.InDelta(t, 1.0, q.Norm(), eps)
	assert.InDelta(t, math.Cos(0.37), q.W, eps)
	assert.InDelta(t, math.Sin(0.37), q.Y, eps)
}

func TestNormalize(t *testing.T) {
	q := New(2, 0, 0, 0).Normalize()
	assertQuat(t, Identity(), q)
	assertQuat(t, Identity(), Quaternion{}.Normalize())
}

func TestSandwich_RotatesAboutAxis(t *testing.T) {
	// (cos a, sin a about Z) rotates by 2a; conj(R)*p*R turns x towards -y.
	r := FromAxisAngle(core.Vector{Z: 1}, math.Pi/4)
	got := r.Sandwich(Pure(core.Vector{X: 1})).Vector()
	assertVec(t, core.Vector{X: 0, Y: -1, Z: 0}, got)
}

func TestUnsandwich_InvertsSandwich(t *testing.T) {
	r := FromAxisAngle(core.Vector{X: 1}, 0.3).Mul(FromAxisAngle(core.Vector{Y: 1}, -1.1))
	p := core.Vector{X: 12, Y: -40, Z: 7.5}

	got := r.Unsandwich(r.Sandwich(Pure(p))).Vector()
	assertVec(t, p, got)
}

func TestMatrix_Identity(t *testing.T) {
	m := Identity().Matrix()
	want := [16]float32{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}
	assert.Equal(t, want, m)
}

func TestMatrix_MatchesUnsandwich(t *testing.T) {
	r := FromAxisAngle(core.Vector{Y: 1}, 0.4)
	p := core.Vector{X: 1, Y: 2, Z: 3}
	m := r.Matrix()

	// column-major: out = M * p
	got := core.Vector{
		X: float64(m[0])*p.X + float64(m[4])*p.Y + float64(m[8])*p.Z,
		Y: float64(m[1])*p.X + float64(m[5])*p.Y + float64(m[9])*p.Z,
		Z: float64(m[2])*p.X + float64(m[6])*p.Y + float64(m[10])*p.Z,
	}
	want := r.Unsandwich(Pure(p)).Vector()
	assert.InDelta(t, want.X, got.X, 1e-5)
	assert.InDelta(t, want.Y, got.Y, 1e-5)
	assert.InDelta(t, want.Z, got.Z, 1e-5)
}
