package zmph

import (
	"fmt"
	"log/slog"
	"math"

	zmpherrors "github.com/PaNDa2code/zmph/errors"
	"github.com/PaNDa2code/zmph/hashfn"
)

// DefaultMaxAttempts bounds the displacement search per bucket. A bucket of
// size k succeeds on a single candidate with probability roughly
// n!/((n-k)! n^k) against an empty table, so 2^20 candidates covers buckets
// far larger than a well-distributed primary hash ever produces.
const DefaultMaxAttempts = 1 << 20

// Option is a functional option for configuring builds.
type Option func(*buildConfig)

type buildConfig struct {
	hasher      Hasher
	maxAttempts int
	logger      *slog.Logger
}

func defaultBuildConfig() *buildConfig {
	return &buildConfig{
		hasher:      hashfn.Murmur3{},
		maxAttempts: DefaultMaxAttempts,
		logger:      slog.New(slog.DiscardHandler),
	}
}

// newBuildConfig applies opts over the defaults and validates the result.
func newBuildConfig(opts []Option) (*buildConfig, error) {
	cfg := defaultBuildConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.hasher == nil {
		return nil, fmt.Errorf("%w: nil hasher", zmpherrors.ErrInvalidOption)
	}
	if cfg.maxAttempts <= 0 || uint64(cfg.maxAttempts) > math.MaxUint32 {
		return nil, fmt.Errorf("%w: max attempts %d outside [1, %d]",
			zmpherrors.ErrInvalidOption, cfg.maxAttempts, uint64(math.MaxUint32))
	}
	if cfg.logger == nil {
		cfg.logger = slog.New(slog.DiscardHandler)
	}
	return cfg, nil
}

// WithHasher sets the hash primitive. The same primitive is used by every
// lookup on the resulting MPHF. Default is hashfn.Murmur3.
func WithHasher(h Hasher) Option {
	return func(c *buildConfig) {
		c.hasher = h
	}
}

// WithMaxAttempts caps the number of displacement values tried per multi-key
// bucket. When a bucket exhausts the cap, the build fails with
// errors.ErrConstructionExhausted. Default is DefaultMaxAttempts.
func WithMaxAttempts(n int) Option {
	return func(c *buildConfig) {
		c.maxAttempts = n
	}
}

// WithLogger sets a logger for construction progress. A nil logger disables
// logging, which is also the default.
func WithLogger(l *slog.Logger) Option {
	return func(c *buildConfig) {
		c.logger = l
	}
}
