package zmph

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"math"
	"strings"
	"testing"

	zmpherrors "github.com/PaNDa2code/zmph/errors"
	"github.com/PaNDa2code/zmph/hashfn"
)

// constantHasher returns the same value for every seed and key, so any
// bucket of two or more keys can never be resolved.
type constantHasher uint64

func (h constantHasher) Hash(uint32, []byte) uint64 { return uint64(h) }

// cancellingHasher delegates to inner and calls cancel once the given
// displacement seed is requested.
type cancellingHasher struct {
	inner    Hasher
	cancelAt uint32
	cancel   context.CancelFunc
}

func (h cancellingHasher) Hash(seed uint32, key []byte) uint64 {
	if seed == h.cancelAt {
		h.cancel()
	}
	return h.inner.Hash(seed, key)
}

func TestBuildEmptyInput(t *testing.T) {
	_, err := Build(map[string]int{})
	if !errors.Is(err, zmpherrors.ErrEmptyInput) {
		t.Errorf("Build(empty) error = %v, want ErrEmptyInput", err)
	}
	_, err = Build[string, int](nil)
	if !errors.Is(err, zmpherrors.ErrEmptyInput) {
		t.Errorf("Build(nil) error = %v, want ErrEmptyInput", err)
	}
	_, err = BuildSlices([]string{}, []int{})
	if !errors.Is(err, zmpherrors.ErrEmptyInput) {
		t.Errorf("BuildSlices(empty) error = %v, want ErrEmptyInput", err)
	}
}

func TestBuildConstructionExhausted(t *testing.T) {
	keys := map[string]int{"a": 1, "b": 2, "c": 3}
	_, err := Build(keys, WithHasher(constantHasher(5)), WithMaxAttempts(50))
	if !errors.Is(err, zmpherrors.ErrConstructionExhausted) {
		t.Fatalf("error = %v, want ErrConstructionExhausted", err)
	}
	if !strings.Contains(err.Error(), "50 attempts") {
		t.Errorf("error %q does not report the attempt cap", err)
	}
}

func TestBuildStuckDisplacementExhausts(t *testing.T) {
	keys := generateKeySet(newTestRNG(t), 200)
	_, err := Build(keys, WithHasher(stuckHasher{inner: hashfn.Murmur3{}}), WithMaxAttempts(10))
	if !errors.Is(err, zmpherrors.ErrConstructionExhausted) {
		t.Fatalf("error = %v, want ErrConstructionExhausted", err)
	}
}

func TestBuildInvalidOptions(t *testing.T) {
	keys := map[string]int{"a": 1}
	// Wraps to 0 where int is 32 bits, which is rejected as well.
	tooMany := uint64(math.MaxUint32) + 1
	tests := []struct {
		name string
		opts []Option
	}{
		{"nil hasher", []Option{WithHasher(nil)}},
		{"zero attempts", []Option{WithMaxAttempts(0)}},
		{"negative attempts", []Option{WithMaxAttempts(-3)}},
		{"too many attempts", []Option{WithMaxAttempts(int(tooMany))}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(keys, tt.opts...)
			if !errors.Is(err, zmpherrors.ErrInvalidOption) {
				t.Errorf("error = %v, want ErrInvalidOption", err)
			}
		})
	}
}

func TestBuildContextCancelledBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := BuildContext(ctx, map[string]int{"a": 1, "b": 2}, WithHasher(constantHasher(0)))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestBuildContextCancelledDuringSearch(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h := cancellingHasher{
		inner:    constantHasher(0),
		cancelAt: 5000,
		cancel:   cancel,
	}
	_, err := BuildContext(ctx, map[string]int{"a": 1, "b": 2}, WithHasher(h))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestBuildDeterministic(t *testing.T) {
	keys := generateKeySet(newTestRNG(t), 1000)
	m1, err := Build(keys)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	m2, err := Build(keys)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	for i := range m1.table {
		if m1.table[i] != m2.table[i] {
			t.Fatalf("table[%d] differs between builds: %d vs %d", i, m1.table[i], m2.table[i])
		}
	}
	for k := range keys {
		if m1.Slot(k) != m2.Slot(k) {
			t.Fatalf("Slot(%q) differs between builds", k)
		}
	}
}

func TestBuildSlices(t *testing.T) {
	keys := [][]byte{[]byte("alpha"), []byte("beta"), []byte("gamma"), []byte("delta"), {0, 1, 2}}
	values := []string{"A", "B", "G", "D", "bin"}
	m, err := BuildSlices(keys, values)
	if err != nil {
		t.Fatalf("BuildSlices failed: %v", err)
	}
	for i, k := range keys {
		if got := m.Lookup(k); got != values[i] {
			t.Errorf("Lookup(%q) = %q, want %q", k, got, values[i])
		}
	}

	// Caller-owned inputs may change after the build.
	keys[0][0] = 'X'
	values[1] = "changed"
	if got := m.Lookup([]byte("alpha")); got != "A" {
		t.Errorf("Lookup(alpha) = %q after mutating input key, want A", got)
	}
	if got := m.Lookup([]byte("beta")); got != "B" {
		t.Errorf("Lookup(beta) = %q after mutating input values, want B", got)
	}
}

func TestBuildSlicesErrors(t *testing.T) {
	_, err := BuildSlices([]string{"a", "b"}, []int{1})
	if !errors.Is(err, zmpherrors.ErrLengthMismatch) {
		t.Errorf("length mismatch error = %v, want ErrLengthMismatch", err)
	}
	_, err = BuildSlices([]string{"a", "b", "a"}, []int{1, 2, 3})
	if !errors.Is(err, zmpherrors.ErrDuplicateKey) {
		t.Errorf("duplicate error = %v, want ErrDuplicateKey", err)
	}
	_, err = BuildSlices([][]byte{[]byte("k"), []byte("k")}, []int{1, 2})
	if !errors.Is(err, zmpherrors.ErrDuplicateKey) {
		t.Errorf("duplicate []byte error = %v, want ErrDuplicateKey", err)
	}
}

type label string

func TestBuildNamedStringKeys(t *testing.T) {
	keys := map[label]int{"red": 1, "green": 2, "blue": 3}
	m, err := Build(keys)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	for k, want := range keys {
		if got := m.Lookup(k); got != want {
			t.Errorf("Lookup(%q) = %d, want %d", k, got, want)
		}
	}
}

func TestBuildLogsProgress(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	keys := generateKeySet(newTestRNG(t), 100)
	if _, err := Build(keys, WithLogger(logger)); err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"buckets assigned", "mphf built", "keys=100"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

func TestBuildNilLogger(t *testing.T) {
	if _, err := Build(map[string]int{"a": 1, "b": 2}, WithLogger(nil)); err != nil {
		t.Fatalf("Build with nil logger failed: %v", err)
	}
}

func TestConstructionPhaseOrder(t *testing.T) {
	cfg := defaultBuildConfig()
	keys := [][]byte{[]byte("a"), []byte("b")}
	c := newConstruction(context.Background(), cfg, keys, []int{1, 2})

	if err := c.resolveMultiKey(); !errors.Is(err, zmpherrors.ErrPhaseOrder) {
		t.Errorf("resolveMultiKey before assignBuckets: error = %v, want ErrPhaseOrder", err)
	}
	if err := c.placeSingletons(); !errors.Is(err, zmpherrors.ErrPhaseOrder) {
		t.Errorf("placeSingletons before resolveMultiKey: error = %v, want ErrPhaseOrder", err)
	}
	if _, err := newMPHF[string](c); !errors.Is(err, zmpherrors.ErrPhaseOrder) {
		t.Errorf("newMPHF before placeSingletons: error = %v, want ErrPhaseOrder", err)
	}

	if err := c.assignBuckets(); err != nil {
		t.Fatalf("assignBuckets: %v", err)
	}
	if err := c.assignBuckets(); !errors.Is(err, zmpherrors.ErrPhaseOrder) {
		t.Errorf("second assignBuckets: error = %v, want ErrPhaseOrder", err)
	}
	if err := c.resolveMultiKey(); err != nil {
		t.Fatalf("resolveMultiKey: %v", err)
	}
	if err := c.placeSingletons(); err != nil {
		t.Fatalf("placeSingletons: %v", err)
	}
	m, err := newMPHF[string](c)
	if err != nil {
		t.Fatalf("newMPHF: %v", err)
	}
	if c.phase != phaseBuilt {
		t.Errorf("phase = %s, want %s", c.phase, phaseBuilt)
	}
	if c.table != nil || c.values != nil {
		t.Error("construction still holds the tables after hand-off")
	}
	if m.Lookup("a") != 1 || m.Lookup("b") != 2 {
		t.Errorf("lookups = %d, %d; want 1, 2", m.Lookup("a"), m.Lookup("b"))
	}
}
