package zmph

import (
	"fmt"

	zmpherrors "github.com/PaNDa2code/zmph/errors"
)

// placeSingletons hands the slots left free by the displacement search to
// the single-key buckets, recording each as a direct slot.
func (c *construction[V]) placeSingletons() error {
	if err := c.advance(phaseMultiKeyResolved, phaseSingletonResolved); err != nil {
		return err
	}

	rest := c.order[c.split:]
	free := freeSlots(c.occupied)
	if want := countSingletons(c.buckets, rest); len(free) != want {
		return fmt.Errorf("%w: %d free slots, %d singleton buckets",
			zmpherrors.ErrSlotAccounting, len(free), want)
	}

	for _, p := range rest {
		members := c.buckets[p]
		if len(members) == 0 {
			continue
		}
		slot := free[len(free)-1]
		free = free[:len(free)-1]

		c.values[slot] = c.vals[members[0]]
		c.occupied[slot] = true
		c.table[p] = directSlotEntry(slot)
	}
	return nil
}

// freeSlots returns the indices of unoccupied slots in ascending order.
func freeSlots(occupied []bool) []int {
	var free []int
	for slot, taken := range occupied {
		if !taken {
			free = append(free, slot)
		}
	}
	return free
}

// countSingletons returns the number of single-key buckets in order.
func countSingletons(buckets [][]int, order []int) int {
	count := 0
	for _, p := range order {
		if len(buckets[p]) == 1 {
			count++
		}
	}
	return count
}
