package tracker

import (
	"math/rand/v2"

	"github.com/airpen/airpen/pkg/core"
)

// SeedSource supplies the first point of every new stroke.
type SeedSource interface {
	Seed() core.Vector
}

// SeedFunc adapts a function to SeedSource.
type SeedFunc func() core.Vector

func (f SeedFunc) Seed() core.Vector { return f() }

// FixedSeed always returns v.
func FixedSeed(v core.Vector) SeedSource {
	return SeedFunc(func() core.Vector { return v })
}

// UniformSeed draws each component uniformly from [0, 1).
func UniformSeed() SeedSource {
	return SeedFunc(func() core.Vector {
		return core.Vector{X: rand.Float64(), Y: rand.Float64(), Z: rand.Float64()}
	})
}
