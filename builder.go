package zmph

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"time"

	zmpherrors "github.com/PaNDa2code/zmph/errors"
)

// phase is the stage a construction pass has reached. Stages only move
// forward, one step at a time.
type phase uint8

const (
	phaseUnbuilt phase = iota
	phaseBucketsAssigned
	phaseMultiKeyResolved
	phaseSingletonResolved
	phaseBuilt
)

func (p phase) String() string {
	switch p {
	case phaseUnbuilt:
		return "unbuilt"
	case phaseBucketsAssigned:
		return "buckets-assigned"
	case phaseMultiKeyResolved:
		return "multi-key-resolved"
	case phaseSingletonResolved:
		return "singleton-resolved"
	case phaseBuilt:
		return "built"
	default:
		return "unknown"
	}
}

// construction owns the intermediate table and value array for a single
// build. It is not safe for concurrent use and is discarded once the MPHF
// has been handed out.
type construction[V any] struct {
	ctx   context.Context
	cfg   *buildConfig
	phase phase

	keys   [][]byte // Key bytes, indexed like vals
	vals   []V
	n      int
	start  time.Time
	logger *slog.Logger

	buckets [][]int // Primary index -> key indices
	order   []int   // Bucket indices, largest first
	split   int     // order[:split] are multi-key buckets

	table    []tableEntry
	values   []V
	occupied []bool

	stats Stats
}

func newConstruction[V any](ctx context.Context, cfg *buildConfig, keys [][]byte, vals []V) *construction[V] {
	n := len(keys)
	return &construction[V]{
		ctx:      ctx,
		cfg:      cfg,
		keys:     keys,
		vals:     vals,
		n:        n,
		start:    time.Now(),
		logger:   cfg.logger,
		table:    make([]tableEntry, n),
		values:   make([]V, n),
		occupied: make([]bool, n),
	}
}

// advance moves the pass from one stage to the next, failing if the pass is
// not at from.
func (c *construction[V]) advance(from, to phase) error {
	if c.phase != from {
		return fmt.Errorf("%w: at %s, want %s before %s", zmpherrors.ErrPhaseOrder, c.phase, from, to)
	}
	c.phase = to
	return nil
}

// assignBuckets partitions the keys by primary hash and orders the buckets.
func (c *construction[V]) assignBuckets() error {
	if err := c.advance(phaseUnbuilt, phaseBucketsAssigned); err != nil {
		return err
	}
	c.buckets = assignBuckets(c.keys, c.cfg.hasher)
	c.order = sortBucketsBySize(c.buckets)
	split, err := multiKeyPrefix(c.buckets, c.order)
	if err != nil {
		return err
	}
	c.split = split

	for _, b := range c.buckets {
		if len(b) == 0 {
			continue
		}
		c.stats.Buckets++
		c.stats.MaxBucketSize = max(c.stats.MaxBucketSize, len(b))
	}
	c.stats.MultiKeyBuckets = split
	c.stats.SingletonBuckets = c.stats.Buckets - split

	c.logger.DebugContext(c.ctx, "buckets assigned",
		"keys", c.n,
		"buckets", c.stats.Buckets,
		"multiKeyBuckets", c.stats.MultiKeyBuckets,
		"maxBucketSize", c.stats.MaxBucketSize)
	return nil
}

// resolveMultiKey runs the displacement search over every multi-key bucket,
// largest first.
func (c *construction[V]) resolveMultiKey() error {
	if err := c.advance(phaseBucketsAssigned, phaseMultiKeyResolved); err != nil {
		return err
	}
	if err := c.ctx.Err(); err != nil {
		return err
	}

	s := newSolver(c.ctx, c.cfg, c.occupied)
	for _, p := range c.order[:c.split] {
		members := c.buckets[p]
		d, slots, err := s.solveBucket(p, c.keys, members)
		if err != nil {
			return err
		}
		// p == H(0, members[0]) mod n by construction of the buckets
		c.table[p] = displacementEntry(d)
		for i, slot := range slots {
			c.values[slot] = c.vals[members[i]]
		}
	}
	c.stats.TotalAttempts = s.attempts
	c.stats.MaxDisplacement = s.maxDisplacement
	return nil
}

// build runs every construction stage and hands the tables to a new MPHF.
func build[K Key, V any](ctx context.Context, keys [][]byte, vals []V, cfg *buildConfig) (*MPHF[K, V], error) {
	c := newConstruction(ctx, cfg, keys, vals)
	if err := c.assignBuckets(); err != nil {
		return nil, fmt.Errorf("assign buckets: %w", err)
	}
	if err := c.resolveMultiKey(); err != nil {
		return nil, fmt.Errorf("resolve multi-key buckets: %w", err)
	}
	if err := c.placeSingletons(); err != nil {
		return nil, fmt.Errorf("place singleton buckets: %w", err)
	}
	m, err := newMPHF[K](c)
	if err != nil {
		return nil, err
	}

	c.logger.InfoContext(ctx, "mphf built",
		"keys", m.stats.NumKeys,
		"buckets", m.stats.Buckets,
		"attempts", m.stats.TotalAttempts,
		"maxDisplacement", m.stats.MaxDisplacement,
		"duration", m.stats.BuildDuration)
	return m, nil
}

// Build constructs an MPHF over the keys of m, storing each key's value.
//
// Keys are sorted before construction, so the same map and options always
// produce the same function. Returns errors.ErrEmptyInput for an empty map
// and errors.ErrConstructionExhausted if a bucket cannot be resolved within
// the configured attempt cap.
func Build[K ~string, V any](m map[K]V, opts ...Option) (*MPHF[K, V], error) {
	return BuildContext(context.Background(), m, opts...)
}

// BuildContext is like Build but stops early when ctx is cancelled.
func BuildContext[K ~string, V any](ctx context.Context, m map[K]V, opts ...Option) (*MPHF[K, V], error) {
	if len(m) == 0 {
		return nil, zmpherrors.ErrEmptyInput
	}
	cfg, err := newBuildConfig(opts)
	if err != nil {
		return nil, err
	}

	sorted := slices.Sorted(maps.Keys(m))
	keys := make([][]byte, len(sorted))
	vals := make([]V, len(sorted))
	for i, k := range sorted {
		keys[i] = []byte(k)
		vals[i] = m[k]
	}
	return build[K](ctx, keys, vals, cfg)
}

// BuildSlices constructs an MPHF where keys[i] maps to values[i]. Keys are
// bucketed in the order given.
//
// Unlike Build, BuildSlices accepts byte-slice keys. It returns
// errors.ErrLengthMismatch if the slices differ in length and
// errors.ErrDuplicateKey if a key appears twice.
func BuildSlices[K Key, V any](keys []K, values []V, opts ...Option) (*MPHF[K, V], error) {
	return BuildSlicesContext(context.Background(), keys, values, opts...)
}

// BuildSlicesContext is like BuildSlices but stops early when ctx is cancelled.
func BuildSlicesContext[K Key, V any](ctx context.Context, keys []K, values []V, opts ...Option) (*MPHF[K, V], error) {
	if len(keys) != len(values) {
		return nil, fmt.Errorf("%w: %d keys, %d values", zmpherrors.ErrLengthMismatch, len(keys), len(values))
	}
	if len(keys) == 0 {
		return nil, zmpherrors.ErrEmptyInput
	}
	cfg, err := newBuildConfig(opts)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]int, len(keys))
	keyBytes := make([][]byte, len(keys))
	for i, k := range keys {
		if j, dup := seen[string(k)]; dup {
			return nil, fmt.Errorf("%w: positions %d and %d", zmpherrors.ErrDuplicateKey, j, i)
		}
		seen[string(k)] = i
		// Copy so later changes to a caller's []byte key cannot reach the build.
		keyBytes[i] = []byte(string(k))
	}
	return build[K](ctx, keyBytes, slices.Clone(values), cfg)
}
