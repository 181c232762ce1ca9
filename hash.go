package probkit

import (
	"github.com/cespare/xxhash/v2"
	"github.com/spaolacci/murmur3"
	"github.com/zeebo/xxh3"
)

// Hasher is a seeded hash oracle. Implementations must be deterministic for
// a given (data, seed) pair, and outputs for distinct seeds should be
// uncorrelated.
type Hasher interface {
	Hash(data []byte, seed uint32) uint64
}

// HasherFunc adapts an ordinary function to the Hasher interface.
type HasherFunc func(data []byte, seed uint32) uint64

// Hash calls fn(data, seed).
func (fn HasherFunc) Hash(data []byte, seed uint32) uint64 {
	return fn(data, seed)
}

var (
	// XXH3 hashes with the 64-bit xxh3 algorithm. It is the default.
	XXH3 Hasher = HasherFunc(xxh3Hash)

	// Murmur3 hashes with the 64-bit half of MurmurHash3 x64_128.
	Murmur3 Hasher = HasherFunc(murmur3Hash)

	// XXHash hashes with the 64-bit xxHash algorithm.
	XXHash Hasher = HasherFunc(xxhashHash)
)

// HasherByName returns one of the built-in hashers by name ("xxh3",
// "murmur3" or "xxhash").
func HasherByName(name string) (Hasher, bool) {
	switch name {
	case "xxh3", "":
		return XXH3, true
	case "murmur3":
		return Murmur3, true
	case "xxhash":
		return XXHash, true
	}
	return nil, false
}

func xxh3Hash(data []byte, seed uint32) uint64 {
	return xxh3.HashSeed(data, uint64(seed))
}

func murmur3Hash(data []byte, seed uint32) uint64 {
	return murmur3.Sum64WithSeed(data, seed)
}

func xxhashHash(data []byte, seed uint32) uint64 {
	// xxhash's seeded digest allocates; seed 0 takes the fast path.
	if seed == 0 {
		return xxhash.Sum64(data)
	}
	d := xxhash.NewWithSeed(uint64(seed))
	_, _ = d.Write(data)
	return d.Sum64()
}
