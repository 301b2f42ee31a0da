package demand

import "math/rand"

// defaultSeed is used when callers pass seed==0.
const defaultSeed int64 = 1

// rngFromSeed returns a deterministic *rand.Rand; seed==0 ⇒ defaultSeed.
//
// math/rand.Rand is not goroutine-safe; every stream is owned by one caller.
func rngFromSeed(seed int64) *rand.Rand {
	if seed == 0 {
		seed = defaultSeed
	}

	return rand.New(rand.NewSource(seed))
}

// deriveSeed mixes a parent seed and a stream identifier with a SplitMix64
// finalizer so neighbouring stream IDs give uncorrelated seeds.
func deriveSeed(parent int64, stream uint64) int64 {
	x := uint64(parent) ^ (stream + 0x9e3779b97f4a7c15)
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	x ^= x >> 31

	return int64(x)
}

// streamRNG returns the stream for one sink stage under a run seed.
func streamRNG(seed int64, stage int) *rand.Rand {
	if seed == 0 {
		seed = defaultSeed
	}

	return rngFromSeed(deriveSeed(seed, uint64(stage)))
}
