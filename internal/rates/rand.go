package rates

import "golang.org/x/exp/rand"

// NewRand returns a PCG-backed generator for the given stream of a base seed.
// Streams are decorrelated with a splitmix64 finaliser so that neighbouring
// indices (scenario ids, Monte Carlo path numbers) do not share state, and a
// (seed, stream) pair always reproduces the same sequence regardless of the
// order in which streams are consumed.
func NewRand(seed, stream uint64) *rand.Rand {
	return rand.New(rand.NewSource(mix(seed ^ mix(stream+0x9e3779b97f4a7c15))))
}

func mix(z uint64) uint64 {
	z += 0x9e3779b97f4a7c15
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}
