//go:build !linux

package wordlist

// adviseSequential is a no-op on non-Linux platforms.
func adviseSequential(data []byte) {}
