package pathfind

import "math/rand"

// Rand is a deterministic random number generator. Tests use it to build
// random worlds that come out the same on every run and every machine, so a
// failing seed can be replayed. The global one exists because most tests
// only need one generator and a seed call at the top.
type Rand struct {
	r *rand.Rand
}

func NewRand(seed int64) Rand {
	return Rand{rand.New(rand.NewSource(seed))}
}

// RInt returns a random integer in [min, max], both ends included.
func (r *Rand) RInt(min, max int64) int64 {
	return min + r.r.Int63n(max-min+1)
}

// RFloat returns a random float in [min, max).
func (r *Rand) RFloat(min, max float64) float64 {
	return min + r.r.Float64()*(max-min)
}

var globalRand = NewRand(0)

func RSeed(seed int64) {
	globalRand = NewRand(seed)
}

func RInt(min, max int64) int64 {
	return globalRand.RInt(min, max)
}

func RFloat(min, max float64) float64 {
	return globalRand.RFloat(min, max)
}
