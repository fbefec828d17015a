package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/PaNDa2code/zmph"
	"github.com/PaNDa2code/zmph/hashfn"
	"github.com/PaNDa2code/zmph/internal/wordlist"
)

// buildFlags are shared by every subcommand that builds a hash function.
type buildFlags struct {
	words       string
	hash        string
	maxAttempts int
	verbose     bool
}

func (f *buildFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVar(&f.words, "words", wordlist.DefaultPath, "newline-separated word list")
	fl.StringVar(&f.hash, "hash", "murmur3", "hash primitive: "+strings.Join(hashfn.Names(), ", "))
	fl.IntVar(&f.maxAttempts, "max-attempts", zmph.DefaultMaxAttempts, "maximum displacement candidates per bucket")
	fl.BoolVarP(&f.verbose, "verbose", "v", false, "log construction progress to stderr")
}

// load reads the word list and builds a hash function over it.
func (f *buildFlags) load(ctx context.Context, cmd *cobra.Command) (map[string]int, *zmph.MPHF[string, int], error) {
	h, err := hashfn.ByName(f.hash)
	if err != nil {
		return nil, nil, err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Loading %s...\n", f.words)
	words, err := wordlist.Load(f.words)
	if err != nil {
		return nil, nil, err
	}

	fmt.Fprintf(out, "Building over %d keys (%s)...\n", len(words), f.hash)
	m, err := zmph.BuildContext(ctx, words,
		zmph.WithHasher(h),
		zmph.WithMaxAttempts(f.maxAttempts),
		zmph.WithLogger(f.logger(cmd.ErrOrStderr())),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("build: %w", err)
	}
	return words, m, nil
}

func (f *buildFlags) logger(w io.Writer) *slog.Logger {
	if !f.verbose {
		return nil
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func printStats(w io.Writer, st zmph.Stats) {
	fmt.Fprintf(w, "  keys:              %d\n", st.NumKeys)
	fmt.Fprintf(w, "  buckets:           %d (%d multi-key, %d singleton)\n",
		st.Buckets, st.MultiKeyBuckets, st.SingletonBuckets)
	fmt.Fprintf(w, "  max bucket size:   %d\n", st.MaxBucketSize)
	fmt.Fprintf(w, "  attempts:          %d\n", st.TotalAttempts)
	fmt.Fprintf(w, "  max displacement:  %d\n", st.MaxDisplacement)
	fmt.Fprintf(w, "  build time:        %v\n", st.BuildDuration.Round(time.Microsecond))
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "zmph",
		Short: "zmph builds minimal perfect hash functions over word lists.",
		Long: `zmph builds a minimal perfect hash function over a newline-separated
word list, mapping each word to its line number, and then verifies or
queries it.`,
		SilenceUsage: true,
	}
	root.AddCommand(newCheckCmd(), newLookupCmd(), newBenchCmd())
	return root
}
