package zmph

import (
	"context"
	"fmt"
	"log/slog"

	zmpherrors "github.com/PaNDa2code/zmph/errors"
)

// contextCheckInterval is how often, in displacement candidates, the solver
// checks for context cancellation.
const contextCheckInterval = 10000

// solver finds displacements for multi-key buckets.
//
// Slot occupancy is shared with the construction pass that created the
// solver: a slot claimed by one bucket is never offered to a later one.
// In-trial duplicate detection uses a generation-stamped array so no
// clearing is needed between candidates.
type solver struct {
	ctx         context.Context
	hasher      Hasher
	n           uint64
	maxAttempts uint32
	logger      *slog.Logger

	occupied []bool   // Reference to the construction's occupancy (not copied)
	trialGen []uint32 // Generation when each slot was last computed in a trial
	gen      uint32   // Current trial generation

	slots []int // Slots of the last successful trial, in bucket order

	// Statistics
	attempts        uint64
	maxDisplacement uint32
}

func newSolver(ctx context.Context, cfg *buildConfig, occupied []bool) *solver {
	return &solver{
		ctx:         ctx,
		hasher:      cfg.hasher,
		n:           uint64(len(occupied)),
		maxAttempts: uint32(cfg.maxAttempts),
		logger:      cfg.logger,
		occupied:    occupied,
		trialGen:    make([]uint32, len(occupied)),
	}
}

// nextGeneration starts a new trial. On wrap-around the stamp array is
// cleared so stale stamps cannot match.
func (s *solver) nextGeneration() {
	s.gen++
	if s.gen == 0 {
		clear(s.trialGen)
		s.gen = 1
	}
}

// tryDisplacement computes H(d, key) mod n for each member in order and
// reports whether all slots are free and distinct. On success the slots are
// left in s.slots.
func (s *solver) tryDisplacement(d uint32, keys [][]byte, members []int) bool {
	s.nextGeneration()
	s.slots = s.slots[:0]
	for _, ki := range members {
		slot := slotOf(s.hasher.Hash(d, keys[ki]), s.n)
		if s.occupied[slot] || s.trialGen[slot] == s.gen {
			return false
		}
		s.trialGen[slot] = s.gen
		s.slots = append(s.slots, slot)
	}
	return true
}

// solveBucket searches d = 1, 2, ... for the bucket at primary index p and
// marks the winning slots occupied. The slots are returned in member order
// and stay valid until the next call.
func (s *solver) solveBucket(p int, keys [][]byte, members []int) (uint32, []int, error) {
	for i := uint64(1); i <= uint64(s.maxAttempts); i++ {
		s.attempts++
		if s.attempts%contextCheckInterval == 0 {
			if err := s.ctx.Err(); err != nil {
				return 0, nil, err
			}
		}

		d := uint32(i)
		if !s.tryDisplacement(d, keys, members) {
			continue
		}
		for _, slot := range s.slots {
			s.occupied[slot] = true
		}
		s.maxDisplacement = max(s.maxDisplacement, d)
		if d > 1 && s.logger.Enabled(s.ctx, slog.LevelDebug) {
			s.logger.DebugContext(s.ctx, "bucket resolved",
				"bucket", p, "size", len(members), "displacement", d)
		}
		return d, s.slots, nil
	}
	return 0, nil, fmt.Errorf("%w: bucket %d with %d keys after %d attempts",
		zmpherrors.ErrConstructionExhausted, p, len(members), s.maxAttempts)
}
