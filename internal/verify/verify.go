// Package verify checks a built hash function against the key set it was
// built from.
package verify

import (
	"context"
	"fmt"
	"runtime"
	"slices"

	"golang.org/x/sync/errgroup"

	zmpherrors "github.com/PaNDa2code/zmph/errors"
)

// minChunkSize keeps per-goroutine work large enough to amortize scheduling.
const minChunkSize = 1024

// Table is the read side of a built hash function.
type Table[K ~string, V comparable] interface {
	Lookup(key K) V
	Slot(key K) int
	Len() int
}

// Lookups checks that every key in want looks up its value, splitting the
// key set across workers goroutines (GOMAXPROCS when workers <= 0). It
// returns an error wrapping errors.ErrLookupMismatch naming the first
// mismatching key any worker finds.
func Lookups[K ~string, V comparable](ctx context.Context, t Table[K, V], want map[K]V, workers int) error {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	keys := sortedKeys(want)

	chunk := max(minChunkSize, (len(keys)+workers-1)/workers)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for start := 0; start < len(keys); start += chunk {
		part := keys[start:min(start+chunk, len(keys))]
		g.Go(func() error {
			for _, k := range part {
				if err := ctx.Err(); err != nil {
					return err
				}
				if got, exp := t.Lookup(k), want[k]; got != exp {
					return fmt.Errorf("%w: key %q: got %v, want %v", zmpherrors.ErrLookupMismatch, k, got, exp)
				}
			}
			return nil
		})
	}
	return g.Wait()
}

// Bijection checks that the keys of want resolve to distinct slots covering
// [0, t.Len()).
func Bijection[K ~string, V comparable](t Table[K, V], want map[K]V) error {
	n := t.Len()
	if n != len(want) {
		return fmt.Errorf("%w: table has %d slots for %d keys", zmpherrors.ErrLookupMismatch, n, len(want))
	}
	owner := make([]*K, n)
	for _, k := range sortedKeys(want) {
		slot := t.Slot(k)
		if slot < 0 || slot >= n {
			return fmt.Errorf("%w: key %q resolves to slot %d outside [0, %d)", zmpherrors.ErrLookupMismatch, k, slot, n)
		}
		if prev := owner[slot]; prev != nil {
			return fmt.Errorf("%w: keys %q and %q share slot %d", zmpherrors.ErrLookupMismatch, *prev, k, slot)
		}
		owner[slot] = &k
	}
	return nil
}

func sortedKeys[K ~string, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
