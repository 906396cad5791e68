package shardcrypto

import (
	"bytes"
	"testing"
)

func TestSecureBytesLifecycle(t *testing.T) {
	sb := SecureBytesFromSlice([]byte("sensitive"))
	if sb.Len() != 9 {
		t.Errorf("Len = %d, want 9", sb.Len())
	}
	if !bytes.Equal(sb.Bytes(), []byte("sensitive")) {
		t.Error("content mismatch")
	}

	data := sb.Bytes()
	sb.Destroy()

	if sb.Bytes() != nil {
		t.Error("Bytes should be nil after Destroy")
	}
	if sb.Len() != 0 {
		t.Error("Len should be 0 after Destroy")
	}
	for _, b := range data {
		if b != 0 {
			t.Fatal("backing memory not zeroized")
		}
	}

	sb.Destroy() // idempotent
}

func TestZeroize(t *testing.T) {
	buf := []byte{1, 2, 3, 4, 5}
	Zeroize(buf)
	for i, b := range buf {
		if b != 0 {
			t.Fatalf("byte %d not zeroed", i)
		}
	}
	Zeroize(nil) // no-op
}

func TestRandomBytes(t *testing.T) {
	a, err := RandomBytes(32)
	if err != nil {
		t.Fatalf("RandomBytes: %v", err)
	}
	b, err := RandomBytes(32)
	if err != nil {
		t.Fatalf("RandomBytes: %v", err)
	}
	if bytes.Equal(a, b) {
		t.Error("two random draws returned identical bytes")
	}
}

func TestSecureRandomBytes(t *testing.T) {
	sb, err := SecureRandomBytes(16)
	if err != nil {
		t.Fatalf("SecureRandomBytes: %v", err)
	}
	defer sb.Destroy()
	if sb.Len() != 16 {
		t.Errorf("Len = %d, want 16", sb.Len())
	}
}
