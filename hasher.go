package zmph

import "github.com/PaNDa2code/zmph/hashfn"

// Hasher is the seeded hash primitive injected into construction and lookup.
// See hashfn for the available implementations.
type Hasher = hashfn.Hasher

// Key is the set of key types an MPHF can be built over. Keys are hashed by
// their byte content.
type Key interface {
	~string | ~[]byte
}

// slotOf reduces a hash to a slot index in [0, n).
func slotOf(h uint64, n uint64) int {
	return int(h % n)
}
