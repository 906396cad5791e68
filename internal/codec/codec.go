// Package codec implements the share envelope encodings the CLI speaks:
// JSON, a hex share string, base64, and the raw canonical bytes. The JSON
// and hex envelopes carry threshold metadata; base64 and raw are the bare
// canonical form (the x byte followed by the y bytes) and carry none.
package codec

import (
	"bytes"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shardkey/shardkey/internal/shamir"
)

// Format identifies a share encoding.
type Format string

// Share encodings.
const (
	FormatJSON   Format = "json"
	FormatHex    Format = "hex"
	FormatBase64 Format = "base64"
	FormatRaw    Format = "raw"
)

// envelopeVersion tags the JSON envelope and the hex share-string prefix.
const envelopeVersion = 1

// hexPrefix introduces the printable share string: shard-v1-<k>-<x>-<hex>.
const hexPrefix = "shard-v1"

var (
	// ErrUnknownFormat is returned for an unrecognized format name.
	ErrUnknownFormat = errors.New("unknown share format")

	// ErrMalformedEnvelope is returned when a share payload does not parse
	// in the requested (or any detectable) encoding.
	ErrMalformedEnvelope = errors.New("malformed share envelope")

	// ErrUnsupportedVersion is returned when an envelope has a version this
	// build does not speak.
	ErrUnsupportedVersion = errors.New("unsupported share envelope version")
)

// ParseFormat parses a format name.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "hex":
		return FormatHex, nil
	case "base64", "b64":
		return FormatBase64, nil
	case "raw", "bin", "binary":
		return FormatRaw, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// FileExt returns the conventional file extension for a format.
func (f Format) FileExt() string {
	switch f {
	case FormatJSON:
		return ".json"
	case FormatHex:
		return ".txt"
	case FormatBase64:
		return ".b64"
	case FormatRaw:
		return ".bin"
	default:
		return ".share"
	}
}

// jsonEnvelope is the JSON wire form. Y uses encoding/json's default
// base64 representation for byte slices.
type jsonEnvelope struct {
	Version   int    `json:"version"`
	Threshold int    `json:"threshold,omitempty"`
	ID        int    `json:"id,omitempty"`
	X         int    `json:"x"`
	Y         []byte `json:"y"`
}

// Encode serializes a share in the given format.
func Encode(share shamir.Share, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		return json.Marshal(jsonEnvelope{
			Version:   envelopeVersion,
			Threshold: share.Threshold,
			ID:        share.ID,
			X:         int(share.X),
			Y:         share.Y,
		})
	case FormatHex:
		s := fmt.Sprintf("%s-%d-%d-%x", hexPrefix, share.Threshold, share.X, share.Y)
		return []byte(s), nil
	case FormatBase64:
		raw := share.Encode()
		out := make([]byte, base64.StdEncoding.EncodedLen(len(raw)))
		base64.StdEncoding.Encode(out, raw)
		return out, nil
	case FormatRaw:
		return share.Encode(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// Decode parses a share payload in the given format.
func Decode(data []byte, format Format) (shamir.Share, error) {
	switch format {
	case FormatJSON:
		return decodeJSON(data)
	case FormatHex:
		return decodeHexString(strings.TrimSpace(string(data)))
	case FormatBase64:
		raw := make([]byte, base64.StdEncoding.DecodedLen(len(data)))
		n, err := base64.StdEncoding.Decode(raw, bytes.TrimSpace(data))
		if err != nil {
			return shamir.Share{}, fmt.Errorf("%w: %v", ErrMalformedEnvelope, err)
		}
		return shamir.DecodeShare(raw[:n])
	case FormatRaw:
		return shamir.DecodeShare(data)
	default:
		return shamir.Share{}, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// DecodeAuto sniffs the encoding of a share payload: JSON object, share
// string, base64, then raw canonical bytes.
func DecodeAuto(data []byte) (shamir.Share, Format, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return shamir.Share{}, "", ErrMalformedEnvelope
	}

	if trimmed[0] == '{' {
		share, err := decodeJSON(trimmed)
		return share, FormatJSON, err
	}
	if bytes.HasPrefix(trimmed, []byte(hexPrefix+"-")) {
		share, err := decodeHexString(string(trimmed))
		return share, FormatHex, err
	}
	if share, err := Decode(trimmed, FormatBase64); err == nil {
		return share, FormatBase64, nil
	}

	share, err := shamir.DecodeShare(data)
	return share, FormatRaw, err
}

func decodeJSON(data []byte) (shamir.Share, error) {
	var env jsonEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return shamir.Share{}, fmt.Errorf("%w: %v", ErrMalformedEnvelope, err)
	}
	if env.Version != envelopeVersion {
		return shamir.Share{}, fmt.Errorf("%w: %d", ErrUnsupportedVersion, env.Version)
	}
	if env.X < 1 || env.X > 255 {
		return shamir.Share{}, shamir.ErrInvalidShareIndex
	}
	if len(env.Y) == 0 {
		return shamir.Share{}, ErrMalformedEnvelope
	}
	return shamir.Share{
		X:         byte(env.X),
		Y:         env.Y,
		Threshold: env.Threshold,
		ID:        env.ID,
	}, nil
}

// decodeHexString parses shard-v1-<threshold>-<x>-<hex>.
func decodeHexString(s string) (shamir.Share, error) {
	parts := strings.Split(s, "-")
	if len(parts) != 5 {
		return shamir.Share{}, fmt.Errorf("%w: %s", ErrMalformedEnvelope, s)
	}
	if parts[0]+"-"+parts[1] != hexPrefix {
		return shamir.Share{}, fmt.Errorf("%w: %s", ErrUnsupportedVersion, s)
	}

	k, err := strconv.Atoi(parts[2])
	if err != nil || k < 0 || k > 255 {
		return shamir.Share{}, fmt.Errorf("%w: bad threshold in %s", ErrMalformedEnvelope, s)
	}
	x, err := strconv.Atoi(parts[3])
	if err != nil || x < 1 || x > 255 {
		return shamir.Share{}, fmt.Errorf("%w: bad index in %s", ErrMalformedEnvelope, s)
	}
	y, err := hex.DecodeString(parts[4])
	if err != nil || len(y) == 0 {
		return shamir.Share{}, fmt.Errorf("%w: bad hex in %s", ErrMalformedEnvelope, s)
	}

	return shamir.Share{X: byte(x), Y: y, Threshold: k, ID: x}, nil
}
