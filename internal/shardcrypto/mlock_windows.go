//go:build windows

package shardcrypto

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

// mlock attempts to pin the memory region backing data so it cannot be
// swapped to disk. Returns true on success.
func mlock(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	return windows.VirtualLock(uintptr(unsafe.Pointer(&data[0])), uintptr(len(data))) == nil
}

// munlock releases a previously pinned region.
func munlock(data []byte) {
	if len(data) == 0 {
		return
	}
	_ = windows.VirtualUnlock(uintptr(unsafe.Pointer(&data[0])), uintptr(len(data)))
}
