//go:build !unix

package main

// maxRSS is unavailable without getrusage.
func maxRSS() uint64 { return 0 }
