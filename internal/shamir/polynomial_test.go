package shamir

import (
	"errors"
	"testing"
)

func TestEvaluateConstant(t *testing.T) {
	// Degree-0 polynomial is the constant everywhere.
	for x := 0; x < 256; x++ {
		if got := evaluate([]byte{0x42}, byte(x)); got != 0x42 {
			t.Fatalf("evaluate const at %d = %#02x", x, got)
		}
	}
}

func TestEvaluateLinear(t *testing.T) {
	// P(x) = 0x01 + 0x02*x
	coeffs := []byte{0x01, 0x02}
	if got := evaluate(coeffs, 0); got != 0x01 {
		t.Errorf("P(0) = %#02x, want 0x01", got)
	}
	if got := evaluate(coeffs, 1); got != 0x03 {
		t.Errorf("P(1) = %#02x, want 0x03", got)
	}
	// 0x02 * 0x02 = 0x04, plus 0x01 = 0x05.
	if got := evaluate(coeffs, 2); got != 0x05 {
		t.Errorf("P(2) = %#02x, want 0x05", got)
	}
}

func TestEvaluateMatchesPowerSum(t *testing.T) {
	coeffs := []byte{0x17, 0x9a, 0x03, 0xe0, 0x55}
	for x := 0; x < 256; x += 13 {
		var want byte
		for i, c := range coeffs {
			want = gfAdd(want, gfMul(c, gfPow(byte(x), i)))
		}
		if got := evaluate(coeffs, byte(x)); got != want {
			t.Fatalf("evaluate at %d = %#02x, want %#02x", x, got, want)
		}
	}
}

func TestInterpolateRecoversConstantTerm(t *testing.T) {
	coeffs := []byte{0xd1, 0x08, 0x7f}
	xs := []byte{5, 17, 203}
	ys := make([]byte, len(xs))
	for i, x := range xs {
		ys[i] = evaluate(coeffs, x)
	}

	got, err := interpolateAtZero(xs, ys)
	if err != nil {
		t.Fatalf("interpolateAtZero: %v", err)
	}
	if got != coeffs[0] {
		t.Errorf("interpolated %#02x, want %#02x", got, coeffs[0])
	}
}

func TestInterpolateDuplicatePoint(t *testing.T) {
	_, err := interpolateAtZero([]byte{1, 1}, []byte{0x10, 0x20})
	if !errors.Is(err, ErrDuplicatePoint) {
		t.Errorf("expected ErrDuplicatePoint, got %v", err)
	}
}

func TestInterpolateExtraPointsAgree(t *testing.T) {
	// More points than the degree needs must not change the answer.
	coeffs := []byte{0x2a, 0x11}
	xs := []byte{1, 2, 3, 4, 5}
	ys := make([]byte, len(xs))
	for i, x := range xs {
		ys[i] = evaluate(coeffs, x)
	}

	for n := 2; n <= len(xs); n++ {
		got, err := interpolateAtZero(xs[:n], ys[:n])
		if err != nil {
			t.Fatalf("interpolateAtZero with %d points: %v", n, err)
		}
		if got != coeffs[0] {
			t.Errorf("%d points: got %#02x, want %#02x", n, got, coeffs[0])
		}
	}
}
