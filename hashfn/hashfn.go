// Package hashfn provides the seeded hash primitives used to build and query
// zmph hash functions.
//
// Every primitive is a stateless value: Hash is a pure function of (seed, key)
// and is safe for concurrent use. Distinct seeds behave as independent hash
// functions, which is what the displacement search relies on.
package hashfn

import (
	"fmt"
	"slices"

	"github.com/cespare/xxhash/v2"
	"github.com/twmb/murmur3"
	"github.com/zeebo/xxh3"

	zmpherrors "github.com/PaNDa2code/zmph/errors"
)

// Hasher is a deterministic, seeded hash over key bytes.
//
// Seed 0 is the primary hash that routes a key to its bucket; seeds >= 1 are
// displacement candidates. Implementations must not retain key.
type Hasher interface {
	Hash(seed uint32, key []byte) uint64
}

// Murmur3 is 32-bit MurmurHash3 (x86_32) with the seed as the murmur seed.
// Outputs are zero-extended to uint64. This is the default primitive.
//
// Keys are read without pointer arithmetic past the slice, so the primitive
// is usable under the race detector's checkptr instrumentation.
type Murmur3 struct{}

// Hash implements Hasher.
func (Murmur3) Hash(seed uint32, key []byte) uint64 {
	return uint64(murmur3.SeedSum32(seed, key))
}

// XXHash is seeded 64-bit xxHash.
type XXHash struct{}

// Hash implements Hasher.
func (XXHash) Hash(seed uint32, key []byte) uint64 {
	if seed == 0 {
		return xxhash.Sum64(key)
	}
	d := xxhash.NewWithSeed(uint64(seed))
	_, _ = d.Write(key) // Digest.Write never fails
	return d.Sum64()
}

// XXH3 is seeded 64-bit XXH3.
type XXH3 struct{}

// Hash implements Hasher.
func (XXH3) Hash(seed uint32, key []byte) uint64 {
	return xxh3.HashSeed(key, uint64(seed))
}

var byName = map[string]Hasher{
	"murmur3": Murmur3{},
	"xxhash":  XXHash{},
	"xxh3":    XXH3{},
}

// Names returns the registered primitive names in sorted order.
func Names() []string {
	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// ByName returns the primitive registered under name.
func ByName(name string) (Hasher, error) {
	h, ok := byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (want one of %v)", zmpherrors.ErrUnknownHasher, name, Names())
	}
	return h, nil
}
