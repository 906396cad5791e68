// Package shamir implements Shamir's Secret Sharing over GF(2^8).
//
// A secret byte sequence is split byte-wise: every secret byte becomes the
// constant term of its own random polynomial of degree k-1, and a share is
// the evaluation of all those polynomials at one non-zero field point. Any
// k shares determine the polynomials and therefore the secret; k-1 shares
// reveal nothing beyond the secret's length.
package shamir

// Shamir is a configured splitter/reconstructor bound to a threshold.
// Instances are immutable and safe for concurrent use; the streams they
// produce are not.
type Shamir struct {
	k int
}

// New returns an engine for threshold k. k must be in 2..255: a threshold
// of 1 would make every share the secret, and GF(2^8) has only 255 usable
// evaluation points.
func New(k int) (*Shamir, error) {
	if k < 2 || k > 255 {
		return nil, ErrInvalidThreshold
	}
	return &Shamir{k: k}, nil
}

// Threshold returns the configured k.
func (s *Shamir) Threshold() int {
	return s.k
}

// Split deals shares for secret using the operating system CSPRNG.
func (s *Shamir) Split(secret []byte) (*ShareStream, error) {
	return s.SplitWithRNG(secret, SystemRNG{})
}

// SplitWithRNG deals shares for secret drawing polynomial coefficients from
// rng. With a SeededRNG the full share family is a pure function of
// (seed, secret, k).
//
// The returned stream owns a copy of the secret and the coefficient
// matrix; call Destroy when done with it.
func (s *Shamir) SplitWithRNG(secret []byte, rng RNG) (*ShareStream, error) {
	if len(secret) == 0 {
		return nil, ErrEmptySecret
	}
	return newShareStream(s.k, secret, rng)
}

// Recover reconstructs the secret from m >= k shares. Extra shares beyond
// the threshold are folded into the interpolation rather than ignored, so
// an inconsistent over-provisioned set produces garbage instead of a
// silently truncated answer. Share metadata carrying a threshold other
// than the engine's is rejected.
func (s *Shamir) Recover(shares []Share) ([]byte, error) {
	mk, err := metadataThreshold(shares)
	if err != nil {
		return nil, err
	}
	if mk != 0 && mk != s.k {
		return nil, ErrThresholdMismatch
	}
	return recoverShares(shares, s.k)
}

// Recover reconstructs a secret without a declared threshold. When every
// share carries the same threshold metadata it is enforced; otherwise the
// set is taken at face value and k is inferable only up to len(shares).
// Mixing shares from two same-length splits is undetectable here, which is
// the price of metadata-free shares.
func Recover(shares []Share) ([]byte, error) {
	mk, err := metadataThreshold(shares)
	if err != nil {
		return nil, err
	}
	return recoverShares(shares, mk)
}

// RecoverThreshold reconstructs a secret with a caller-declared threshold:
// fewer than k shares fail with ErrInsufficientShares even when the shares
// carry no metadata of their own.
func RecoverThreshold(shares []Share, k int) ([]byte, error) {
	engine, err := New(k)
	if err != nil {
		return nil, err
	}
	return engine.Recover(shares)
}
