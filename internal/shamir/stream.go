package shamir

import (
	"runtime"

	"github.com/shardkey/shardkey/internal/shardcrypto"
)

// maxShares is the number of usable evaluation points in GF(2^8): every
// non-zero byte value.
const maxShares = 255

// ShareStream deals the share family for one split lazily, x = 1, 2, ...
// up to 255. It owns the only copy of the polynomial coefficient matrix,
// which together with any single share is secret-equivalent, so the stream
// must be destroyed once the caller has drawn what it needs.
//
// A stream is single-owner: it is not safe for concurrent use. Independent
// streams over disjoint inputs may run in parallel freely.
type ShareStream struct {
	k      int
	secret []byte // owned copy; constant terms of the per-byte polynomials
	coeffs []byte // (k-1) rows of len(secret) random coefficients, row i = degree i+1
	next   int    // next x to deal
	dead   bool
}

func newShareStream(k int, secret []byte, rng RNG) (*ShareStream, error) {
	st := &ShareStream{
		k:      k,
		secret: make([]byte, len(secret)),
		coeffs: make([]byte, (k-1)*len(secret)),
		next:   1,
	}
	copy(st.secret, secret)

	// One bulk draw for the whole matrix keeps seeded streams reproducible
	// regardless of how many shares are ultimately taken.
	if err := rng.Fill(st.coeffs); err != nil {
		st.Destroy()
		return nil, err
	}

	// Backstop for callers that drop the stream without destroying it.
	runtime.SetFinalizer(st, func(s *ShareStream) {
		s.Destroy()
	})
	return st, nil
}

// Next deals the share at the next evaluation point. A request after the
// 255th share wipes the stream and fails with ErrShareLimitExceeded; every
// call after that fails with ErrStreamDestroyed.
func (st *ShareStream) Next() (Share, error) {
	if st.dead {
		return Share{}, ErrStreamDestroyed
	}
	if st.next > maxShares {
		st.Destroy()
		return Share{}, ErrShareLimitExceeded
	}

	x := byte(st.next)
	y := make([]byte, len(st.secret))
	for j := range st.secret {
		y[j] = st.evalColumn(j, x)
	}

	share := Share{X: x, Y: y, Threshold: st.k, ID: st.next}
	st.next++
	return share, nil
}

// evalColumn Horner-evaluates the polynomial for secret byte j at x. The
// coefficient of x^i lives at coeffs[(i-1)*len(secret)+j]; the constant
// term is the secret byte itself.
func (st *ShareStream) evalColumn(j int, x byte) byte {
	stride := len(st.secret)
	val := st.coeffs[(st.k-2)*stride+j]
	for i := st.k - 3; i >= 0; i-- {
		val = gfAdd(gfMul(val, x), st.coeffs[i*stride+j])
	}
	return gfAdd(gfMul(val, x), st.secret[j])
}

// Take deals the next n shares eagerly.
func (st *ShareStream) Take(n int) ([]Share, error) {
	shares := make([]Share, 0, n)
	for i := 0; i < n; i++ {
		share, err := st.Next()
		if err != nil {
			return nil, err
		}
		shares = append(shares, share)
	}
	return shares, nil
}

// Remaining reports how many shares the stream can still deal.
func (st *ShareStream) Remaining() int {
	if st.dead {
		return 0
	}
	return maxShares - st.next + 1
}

// Reset rewinds the stream to x = 1. The coefficient matrix is unchanged,
// so the stream re-deals the identical share family.
func (st *ShareStream) Reset() error {
	if st.dead {
		return ErrStreamDestroyed
	}
	st.next = 1
	return nil
}

// Destroy wipes the coefficient matrix and the stream's copy of the
// secret. Safe to call multiple times.
func (st *ShareStream) Destroy() {
	if st.dead {
		return
	}
	shardcrypto.Zeroize(st.coeffs)
	shardcrypto.Zeroize(st.secret)
	st.dead = true
	runtime.SetFinalizer(st, nil)
}
