//go:build linux

package wordlist

import "golang.org/x/sys/unix"

// adviseSequential hints to the kernel that the mapping will be read once,
// front to back. Best-effort: errors are ignored.
func adviseSequential(data []byte) {
	if len(data) == 0 {
		return
	}
	_ = unix.Madvise(data, unix.MADV_SEQUENTIAL)
}
