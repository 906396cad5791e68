//go:build !windows

package shardcrypto

import (
	"golang.org/x/sys/unix"
)

// mlock attempts to pin the memory region backing data so it cannot be
// swapped to disk. Returns true on success.
func mlock(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	return unix.Mlock(data) == nil
}

// munlock releases a previously pinned region.
func munlock(data []byte) {
	if len(data) == 0 {
		return
	}
	_ = unix.Munlock(data)
}
