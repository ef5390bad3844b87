package mechanics

import "math/rand"

// Rand is the subset of math/rand used by the roll functions. Services
// pass DefaultRand; tests pass a seeded *rand.Rand for deterministic
// rolls.
type Rand interface {
	Intn(n int) int
	Float64() float64
}

type globalRand struct{}

func (globalRand) Intn(n int) int   { return rand.Intn(n) }
func (globalRand) Float64() float64 { return rand.Float64() }

// DefaultRand delegates to the top-level math/rand functions, which are
// safe for concurrent use.
var DefaultRand Rand = globalRand{}
