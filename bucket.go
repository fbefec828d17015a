package zmph

import (
	"fmt"

	zmpherrors "github.com/PaNDa2code/zmph/errors"
)

// assignBuckets groups key indices by primary hash. buckets[p] lists, in
// input order, the keys with H(0, key) mod n == p.
func assignBuckets(keys [][]byte, h Hasher) [][]int {
	n := uint64(len(keys))
	buckets := make([][]int, n)
	for i, key := range keys {
		p := slotOf(h.Hash(0, key), n)
		buckets[p] = append(buckets[p], i)
	}
	return buckets
}

// sortBucketsBySize returns bucket indices ordered by size, largest first,
// using a counting sort. Buckets of equal size keep ascending index order.
func sortBucketsBySize(buckets [][]int) []int {
	maxSize := 0
	for _, b := range buckets {
		maxSize = max(maxSize, len(b))
	}

	counts := make([]int, maxSize+1)
	for _, b := range buckets {
		counts[len(b)]++
	}

	// Convert to start positions, reverse order for largest first
	positions := make([]int, maxSize+1)
	pos := 0
	for size := maxSize; size >= 0; size-- {
		positions[size] = pos
		pos += counts[size]
	}

	order := make([]int, len(buckets))
	for i, b := range buckets {
		size := len(b)
		order[positions[size]] = i
		positions[size]++
	}
	return order
}

// multiKeyPrefix returns the length of the leading run of buckets with two
// or more keys in order, and checks that no multi-key bucket appears after
// it. The solver and the singleton placer split order at this point.
func multiKeyPrefix(buckets [][]int, order []int) (int, error) {
	split := len(order)
	for i, p := range order {
		if len(buckets[p]) <= 1 {
			split = i
			break
		}
	}
	for _, p := range order[split:] {
		if len(buckets[p]) > 1 {
			return 0, fmt.Errorf("%w: bucket %d has %d keys", zmpherrors.ErrBucketOrder, p, len(buckets[p]))
		}
	}
	return split, nil
}
