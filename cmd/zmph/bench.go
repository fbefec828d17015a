package main

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	mrand "math/rand/v2"
	"os"
	"runtime"
	"runtime/metrics"
	"runtime/pprof"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"

	"github.com/PaNDa2code/zmph"
	"github.com/PaNDa2code/zmph/hashfn"
)

// benchResult holds one bench run's measurements.
type benchResult struct {
	keys          int
	hash          string
	genDuration   time.Duration
	buildDuration time.Duration
	avgLookup     time.Duration
	peakHeap      uint64
	peakRSS       uint64
	stats         zmph.Stats
}

// memSampler records peak heap and RSS every 10ms until stopped.
// Uses runtime/metrics rather than ReadMemStats to avoid stop-the-world pauses.
type memSampler struct {
	baseHeap uint64
	baseRSS  uint64
	peakHeap atomic.Uint64
	peakRSS  atomic.Uint64
	done     chan struct{}
	stopped  chan struct{}
}

func startMemSampler() *memSampler {
	runtime.GC()
	var baseline runtime.MemStats
	runtime.ReadMemStats(&baseline)

	s := &memSampler{
		baseHeap: baseline.Alloc,
		baseRSS:  maxRSS(),
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}
	s.peakHeap.Store(s.baseHeap)
	s.peakRSS.Store(s.baseRSS)

	go func() {
		defer close(s.stopped)
		samples := []metrics.Sample{{Name: "/memory/classes/heap/objects:bytes"}}
		ticker := time.NewTicker(10 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-s.done:
				return
			case <-ticker.C:
				metrics.Read(samples)
				storeMax(&s.peakHeap, samples[0].Value.Uint64())
				storeMax(&s.peakRSS, maxRSS())
			}
		}
	}()
	return s
}

// stop ends sampling and returns the peaks above the baseline.
func (s *memSampler) stop() (heap, rss uint64) {
	close(s.done)
	<-s.stopped

	var final runtime.MemStats
	runtime.ReadMemStats(&final)
	storeMax(&s.peakHeap, final.Alloc)
	storeMax(&s.peakRSS, maxRSS())
	return s.peakHeap.Load() - s.baseHeap, s.peakRSS.Load() - s.baseRSS
}

func storeMax(v *atomic.Uint64, x uint64) {
	for {
		old := v.Load()
		if x <= old || v.CompareAndSwap(old, x) {
			return
		}
	}
}

// randomKeys returns n distinct random hex keys mapped to their index.
func randomKeys(n int) map[string]int {
	keys := make(map[string]int, n)
	var buf [12]byte
	for len(keys) < n {
		_, _ = rand.Read(buf[:]) // crypto/rand.Read does not fail on supported platforms
		k := hex.EncodeToString(buf[:])
		if _, ok := keys[k]; !ok {
			keys[k] = len(keys)
		}
	}
	return keys
}

func newBenchCmd() *cobra.Command {
	var (
		numKeys    int
		hashName   string
		queries    int
		cpuprofile string
	)
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "measure build time, lookup latency and memory over random keys",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := hashfn.ByName(hashName)
			if err != nil {
				return err
			}
			if numKeys <= 0 {
				return fmt.Errorf("--keys must be positive, got %d", numKeys)
			}
			out := cmd.OutOrStdout()
			res := benchResult{keys: numKeys, hash: hashName}

			fmt.Fprintln(out, "Generating keys...")
			genStart := time.Now()
			keys := randomKeys(numKeys)
			res.genDuration = time.Since(genStart)

			if cpuprofile != "" {
				f, err := os.Create(cpuprofile)
				if err != nil {
					return fmt.Errorf("create CPU profile: %w", err)
				}
				defer func() { _ = f.Close() }()
				if err := pprof.StartCPUProfile(f); err != nil {
					return fmt.Errorf("start CPU profile: %w", err)
				}
			}

			fmt.Fprintln(out, "Building...")
			sampler := startMemSampler()
			buildStart := time.Now()
			m, err := zmph.BuildContext(cmd.Context(), keys, zmph.WithHasher(h))
			res.buildDuration = time.Since(buildStart)
			res.peakHeap, res.peakRSS = sampler.stop()
			if cpuprofile != "" {
				pprof.StopCPUProfile()
			}
			if err != nil {
				return fmt.Errorf("build: %w", err)
			}
			res.stats = m.Stats()

			order := make([]string, 0, numKeys)
			for k := range keys {
				order = append(order, k)
			}
			mrand.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })

			fmt.Fprintln(out, "Benchmarking lookups...")
			queryStart := time.Now()
			for i := range queries {
				_ = m.Lookup(order[i%numKeys])
			}
			res.avgLookup = time.Since(queryStart) / time.Duration(max(queries, 1))

			printBench(out, res)
			return nil
		},
	}
	fl := cmd.Flags()
	fl.IntVar(&numKeys, "keys", 1_000_000, "number of random keys")
	fl.StringVar(&hashName, "hash", "murmur3", "hash primitive")
	fl.IntVar(&queries, "queries", 100_000, "number of timed lookups")
	fl.StringVar(&cpuprofile, "cpuprofile", "", "write a CPU profile of the build phase to file")
	return cmd
}

func printBench(w io.Writer, r benchResult) {
	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "╔═════════════════════╦══════════════════╗\n")
	fmt.Fprintf(w, "║ Hash: %-14s║ Keys: %-10d ║\n", r.hash, r.keys)
	fmt.Fprintf(w, "╠═════════════════════╬══════════════════╣\n")
	fmt.Fprintf(w, "║ Key generation      ║ %8.2f sec     ║\n", r.genDuration.Seconds())
	fmt.Fprintf(w, "║ Build time          ║ %8.2f sec     ║\n", r.buildDuration.Seconds())
	fmt.Fprintf(w, "║ Build throughput    ║ %8.2f M/sec   ║\n", float64(r.keys)/r.buildDuration.Seconds()/1_000_000)
	fmt.Fprintf(w, "║ Lookup latency      ║ %8.1f ns      ║\n", float64(r.avgLookup.Nanoseconds()))
	fmt.Fprintf(w, "║ Multi-key buckets   ║ %10d       ║\n", r.stats.MultiKeyBuckets)
	fmt.Fprintf(w, "║ Max bucket size     ║ %10d       ║\n", r.stats.MaxBucketSize)
	fmt.Fprintf(w, "║ Attempts            ║ %10d       ║\n", r.stats.TotalAttempts)
	fmt.Fprintf(w, "║ Max displacement    ║ %10d       ║\n", r.stats.MaxDisplacement)
	fmt.Fprintf(w, "║ Peak heap memory    ║ %8.1f MB      ║\n", float64(r.peakHeap)/1_000_000)
	fmt.Fprintf(w, "║ Peak RSS memory     ║ %8.1f MB      ║\n", float64(r.peakRSS)/1_000_000)
	fmt.Fprintf(w, "╚═════════════════════╩══════════════════╝\n")
}
