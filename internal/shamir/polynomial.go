package shamir

// polynomial.go provides the two polynomial operations the scheme needs:
// Horner evaluation for dealing shares and Lagrange interpolation at x = 0
// for recovering the constant term.

// evaluate computes coeffs[0] + coeffs[1]*x + ... + coeffs[n-1]*x^(n-1)
// using Horner's method. coeffs[0] is the constant term.
func evaluate(coeffs []byte, x byte) byte {
	if len(coeffs) == 0 {
		return 0
	}
	val := coeffs[len(coeffs)-1]
	for i := len(coeffs) - 2; i >= 0; i-- {
		val = gfAdd(gfMul(val, x), coeffs[i])
	}
	return val
}

// lagrangeWeights precomputes, for each point x_i, the weight
//
//	w_i = prod_{j != i} x_j / (x_j - x_i)
//
// so the value at zero is sum_i y_i * w_i. The x-coordinates are shared by
// every byte position of a share set, so the weights are computed once and
// reused across the whole secret.
//
// All x must be distinct and non-zero; a repeated x is reported as
// ErrDuplicatePoint before it can surface as a zero denominator.
func lagrangeWeights(xs []byte) ([]byte, error) {
	for i := 0; i < len(xs); i++ {
		for j := i + 1; j < len(xs); j++ {
			if xs[i] == xs[j] {
				return nil, ErrDuplicatePoint
			}
		}
	}

	weights := make([]byte, len(xs))
	for i, xi := range xs {
		weight := byte(1)
		for j, xj := range xs {
			if i == j {
				continue
			}
			// x_i != x_j, so the denominator x_j ^ x_i is never zero.
			factor, err := gfDiv(xj, gfSub(xj, xi))
			if err != nil {
				return nil, err
			}
			weight = gfMul(weight, factor)
		}
		weights[i] = weight
	}
	return weights, nil
}

// interpolateAtZero recovers P(0) from points (xs[i], ys[i]).
func interpolateAtZero(xs, ys []byte) (byte, error) {
	weights, err := lagrangeWeights(xs)
	if err != nil {
		return 0, err
	}
	var val byte
	for i, y := range ys {
		val = gfAdd(val, gfMul(y, weights[i]))
	}
	return val, nil
}
