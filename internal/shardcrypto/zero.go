package shardcrypto

import "runtime"

// Zeroize overwrites buf with zero bytes in a way the compiler cannot
// elide. The KeepAlive after the stores forms a barrier: the slice is
// observably live past the writes, so dead-store elimination cannot remove
// them.
func Zeroize(buf []byte) {
	for i := range buf {
		buf[i] = 0
	}
	runtime.KeepAlive(buf)
}
