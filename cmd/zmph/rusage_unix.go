//go:build unix

package main

import (
	"runtime"

	"golang.org/x/sys/unix"
)

// maxRSS returns the maximum resident set size in bytes.
// Uses getrusage(RUSAGE_SELF), which tracks peak RSS since process start.
func maxRSS() uint64 {
	var ru unix.Rusage
	if err := unix.Getrusage(unix.RUSAGE_SELF, &ru); err != nil {
		return 0
	}
	// On macOS, Maxrss is in bytes. On Linux, it's in kilobytes.
	rss := uint64(ru.Maxrss)
	if runtime.GOOS == "linux" {
		rss *= 1024
	}
	return rss
}
