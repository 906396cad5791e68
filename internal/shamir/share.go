package shamir

// Share is one fragment of a split secret: the non-zero evaluation point X
// and one polynomial evaluation per secret byte. Threshold and ID are
// advisory metadata carried by serialization envelopes; they never enter
// the field arithmetic.
type Share struct {
	// X is the evaluation point, 1..255. Zero is forbidden: P(0) is the
	// secret itself.
	X byte

	// Y holds one byte per secret byte: Y[j] = P_j(X).
	Y []byte

	// Threshold is the k used at split time, or 0 when unknown.
	Threshold int

	// ID is a sequential share index assigned at split time, or 0.
	ID int
}

// Encode returns the canonical wire form: the X byte followed by the raw Y
// bytes, no length prefix. Length is carried by the transport.
func (s Share) Encode() []byte {
	buf := make([]byte, 1+len(s.Y))
	buf[0] = s.X
	copy(buf[1:], s.Y)
	return buf
}

// DecodeShare parses the canonical wire form produced by Encode. Metadata
// fields are left zero; envelopes that carry them populate the fields
// themselves.
func DecodeShare(data []byte) (Share, error) {
	if len(data) < 2 {
		return Share{}, ErrShareTooShort
	}
	if data[0] == 0 {
		return Share{}, ErrInvalidShareIndex
	}
	y := make([]byte, len(data)-1)
	copy(y, data[1:])
	return Share{X: data[0], Y: y}, nil
}
