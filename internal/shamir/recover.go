package shamir

import (
	"fmt"

	"github.com/shardkey/shardkey/internal/shardcrypto"
)

// metadataThreshold extracts the threshold carried by share metadata.
// Returns 0 when no share declares one, the common value when all
// declaring shares agree, and ErrThresholdMismatch otherwise.
func metadataThreshold(shares []Share) (int, error) {
	k := 0
	for _, sh := range shares {
		if sh.Threshold == 0 {
			continue
		}
		if k == 0 {
			k = sh.Threshold
			continue
		}
		if sh.Threshold != k {
			return 0, ErrThresholdMismatch
		}
	}
	return k, nil
}

// recoverShares validates the share set and interpolates every byte
// position at x = 0. threshold 0 means "unknown": the set is used as
// given. All m shares participate in the interpolation; for a consistent
// set any k-subset yields the same bytes, so the extras cost arithmetic
// but buy a self-consistency check against copy-paste mixups.
func recoverShares(shares []Share, threshold int) ([]byte, error) {
	if len(shares) == 0 {
		return nil, ErrEmptyShares
	}

	secretLen := len(shares[0].Y)
	if secretLen == 0 {
		return nil, ErrEmptySecret
	}

	var seen [256]bool
	for _, sh := range shares {
		if sh.X == 0 {
			return nil, ErrInvalidShareIndex
		}
		if seen[sh.X] {
			return nil, fmt.Errorf("%w: x=%d", ErrDuplicateShareIndex, sh.X)
		}
		seen[sh.X] = true
		if len(sh.Y) != secretLen {
			return nil, ErrInconsistentShareLength
		}
	}

	if threshold > 0 && len(shares) < threshold {
		return nil, fmt.Errorf("%w: have %d, need %d", ErrInsufficientShares, len(shares), threshold)
	}

	// The x-coordinates are common to every byte position, so the Lagrange
	// weights are computed once for the whole secret.
	xs := make([]byte, len(shares))
	for i, sh := range shares {
		xs[i] = sh.X
	}
	weights, err := lagrangeWeights(xs)
	if err != nil {
		return nil, err
	}
	defer shardcrypto.Zeroize(weights)

	secret := make([]byte, secretLen)
	for j := 0; j < secretLen; j++ {
		var val byte
		for i, sh := range shares {
			val = gfAdd(val, gfMul(sh.Y[j], weights[i]))
		}
		secret[j] = val
	}
	return secret, nil
}
