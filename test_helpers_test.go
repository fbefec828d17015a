package zmph

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"math/rand/v2"
	"testing"

	"github.com/PaNDa2code/zmph/hashfn"
)

// Named seeds for deterministic reproduction.
const (
	testSeed1 = 0x1234567890ABCDEF
	testSeed2 = 0xFEDCBA9876543210
)

// newTestRNG returns a PCG generator seeded from the test name, so every test
// sees its own reproducible stream.
func newTestRNG(t testing.TB) *rand.Rand {
	t.Helper()
	h := fnv.New128a()
	h.Write([]byte(t.Name()))
	sum := h.Sum(nil)
	s1 := binary.LittleEndian.Uint64(sum[:8])
	s2 := binary.LittleEndian.Uint64(sum[8:])
	return rand.New(rand.NewPCG(testSeed1^s1, testSeed2^s2))
}

// generateKeySet creates n distinct pseudo-random string keys mapped to
// their generation index.
func generateKeySet(rng *rand.Rand, n int) map[string]int {
	keys := make(map[string]int, n)
	for len(keys) < n {
		k := fmt.Sprintf("key-%016x-%d", rng.Uint64(), rng.IntN(1000))
		if _, ok := keys[k]; ok {
			continue
		}
		keys[k] = len(keys)
	}
	return keys
}

// collidingHasher sends every key to the same primary bucket and defers to
// inner for displacement seeds.
type collidingHasher struct {
	inner   Hasher
	primary uint64
}

func (h collidingHasher) Hash(seed uint32, key []byte) uint64 {
	if seed == 0 {
		return h.primary
	}
	return h.inner.Hash(seed, key)
}

// stuckHasher behaves like inner for the primary hash but sends every key to
// the same slot for any displacement, so multi-key buckets never resolve.
type stuckHasher struct {
	inner Hasher
}

func (h stuckHasher) Hash(seed uint32, key []byte) uint64 {
	if seed == 0 {
		return h.inner.Hash(0, key)
	}
	return 0
}

// allHashers lists every shipped primitive by name.
func allHashers(t testing.TB) map[string]Hasher {
	t.Helper()
	out := make(map[string]Hasher)
	for _, name := range hashfn.Names() {
		h, err := hashfn.ByName(name)
		if err != nil {
			t.Fatalf("ByName(%q): %v", name, err)
		}
		out[name] = h
	}
	return out
}

// checkBijection verifies that every key of keys resolves to a distinct slot
// in [0, n) and that the slots cover the whole range.
func checkBijection[V any](t *testing.T, m *MPHF[string, V], keys map[string]V) {
	t.Helper()
	n := m.Len()
	if n != len(keys) {
		t.Fatalf("Len() = %d, want %d", n, len(keys))
	}
	owner := make([]string, n)
	seen := make([]bool, n)
	for k := range keys {
		slot := m.Slot(k)
		if slot < 0 || slot >= n {
			t.Fatalf("Slot(%q) = %d, out of range [0, %d)", k, slot, n)
		}
		if seen[slot] {
			t.Fatalf("Slot(%q) = %d, already taken by %q", k, slot, owner[slot])
		}
		seen[slot] = true
		owner[slot] = k
	}
}
