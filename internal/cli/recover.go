package cli

import (
	"bufio"
	"bytes"
	"os"

	"github.com/spf13/cobra"

	"github.com/shardkey/shardkey/internal/codec"
	"github.com/shardkey/shardkey/internal/fileutil"
	"github.com/shardkey/shardkey/internal/metrics"
	"github.com/shardkey/shardkey/internal/shamir"
	"github.com/shardkey/shardkey/internal/shardcrypto"
	shkerr "github.com/shardkey/shardkey/pkg/errors"
)

var (
	recoverFormat    string
	recoverThreshold int
	recoverOut       string
	recoverLabel     string
)

var recoverCmd = &cobra.Command{
	Use:   "recover [share-file...]",
	Short: "Recover a secret from shares",
	Long: `Recover a secret from k or more shares.

Shares are read from the given files, from stdin (one envelope per line)
when no files are named, or from the store when --label is given. The
envelope encoding is detected automatically unless --format pins it.

Examples:
  shardkey recover shares/share-1.json shares/share-3.json shares/share-5.json
  cat shares.txt | shardkey recover --threshold 3 --out secret.bin
  shardkey recover --label deploy-token --out token.txt`,
	RunE: runRecover,
}

func init() {
	recoverCmd.Flags().StringVarP(&recoverFormat, "format", "f", "", "share format: json, hex, base64, raw (default: detect)")
	recoverCmd.Flags().IntVarP(&recoverThreshold, "threshold", "t", 0, "require at least this many shares")
	recoverCmd.Flags().StringVar(&recoverOut, "out", "", "write the secret to this file instead of stdout")
	recoverCmd.Flags().StringVar(&recoverLabel, "label", "", "load share envelopes from the store under this label")
}

func runRecover(cmd *cobra.Command, args []string) (err error) {
	defer func() { metrics.Global.RecordRecover(err) }()

	payloads, err := collectPayloads(cmd, args)
	if err != nil {
		return err
	}
	if len(payloads) == 0 {
		return shkerr.WithSuggestion(
			shkerr.ErrInsufficientShares,
			"pass share files as arguments, pipe envelopes on stdin, or use --label",
		)
	}

	shares, err := decodePayloads(payloads)
	if err != nil {
		return err
	}

	secret, err := recoverSecret(shares)
	if err != nil {
		return err
	}
	defer shardcrypto.Zeroize(secret)

	logger.Debug("secret recovered")

	if recoverOut != "" {
		if err := fileutil.WriteAtomic(recoverOut, secret, 0o600); err != nil {
			return shkerr.Wrap(err, "writing recovered secret")
		}
		return nil
	}
	_, err = formatter.Writer().Write(secret)
	return err
}

// collectPayloads gathers raw share payloads from files, the store, or
// stdin lines.
func collectPayloads(cmd *cobra.Command, args []string) ([][]byte, error) {
	if recoverLabel != "" {
		return storePayloads(recoverLabel)
	}

	if len(args) > 0 {
		payloads := make([][]byte, 0, len(args))
		for _, path := range args {
			// #nosec G304 -- share paths come from the operator
			data, err := os.ReadFile(path)
			if err != nil {
				return nil, shkerr.Wrap(err, "reading share file %s", path)
			}
			payloads = append(payloads, data)
		}
		return payloads, nil
	}

	var payloads [][]byte
	scanner := bufio.NewScanner(cmd.InOrStdin())
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		payloads = append(payloads, append([]byte{}, line...))
	}
	if err := scanner.Err(); err != nil {
		return nil, shkerr.Wrap(err, "reading shares from stdin")
	}
	return payloads, nil
}

// storePayloads loads persisted envelopes for a label.
func storePayloads(label string) ([][]byte, error) {
	st, err := openStore()
	if err != nil {
		return nil, err
	}
	defer func() { _ = st.Close() }()

	secret, err := st.GetSecretByLabel(label)
	metrics.Global.RecordStoreOp(err)
	if err != nil {
		return nil, err
	}

	records, err := st.ListShares(secret.ID)
	metrics.Global.RecordStoreOp(err)
	if err != nil {
		return nil, err
	}

	payloads := make([][]byte, 0, len(records))
	for _, record := range records {
		payloads = append(payloads, []byte(record.ShareData))
	}
	return payloads, nil
}

// decodePayloads parses every payload into a share, honoring --format.
func decodePayloads(payloads [][]byte) ([]shamir.Share, error) {
	var pinned codec.Format
	if recoverFormat != "" {
		var err error
		pinned, err = codec.ParseFormat(recoverFormat)
		if err != nil {
			return nil, shkerr.WithSuggestion(shkerr.ErrInvalidFormat, "valid formats: json, hex, base64, raw")
		}
	}

	shares := make([]shamir.Share, 0, len(payloads))
	for i, payload := range payloads {
		var share shamir.Share
		var err error
		if pinned != "" {
			share, err = codec.Decode(payload, pinned)
		} else {
			share, _, err = codec.DecodeAuto(payload)
		}
		if err != nil {
			return nil, shkerr.Wrap(shkerr.ErrInvalidShare, "share %d", i+1)
		}
		shares = append(shares, share)
	}
	return shares, nil
}

// recoverSecret runs the reconstruction, strict when --threshold is set.
func recoverSecret(shares []shamir.Share) ([]byte, error) {
	if recoverThreshold > 0 {
		secret, err := shamir.RecoverThreshold(shares, recoverThreshold)
		if shkerr.Is(err, shamir.ErrInvalidThreshold) {
			return nil, shkerr.WithSuggestion(shkerr.ErrInvalidThreshold, "threshold must be in 2..255")
		}
		if err != nil {
			return nil, wrapRecoverErr(err)
		}
		return secret, nil
	}

	secret, err := shamir.Recover(shares)
	if err != nil {
		return nil, wrapRecoverErr(err)
	}
	return secret, nil
}

// wrapRecoverErr maps engine errors onto CLI error codes and suggestions.
func wrapRecoverErr(err error) error {
	switch {
	case shkerr.Is(err, shamir.ErrInsufficientShares):
		return shkerr.WithSuggestion(
			shkerr.Wrap(shkerr.ErrInsufficientShares, "%v", err),
			"collect more shares and try again",
		)
	case shkerr.Is(err, shamir.ErrDuplicateShareIndex):
		return shkerr.WithSuggestion(
			shkerr.Wrap(shkerr.ErrInvalidShare, "%v", err),
			"each share may be supplied only once",
		)
	case shkerr.Is(err, shamir.ErrInconsistentShareLength),
		shkerr.Is(err, shamir.ErrThresholdMismatch):
		return shkerr.WithSuggestion(
			shkerr.Wrap(shkerr.ErrInvalidShare, "%v", err),
			"these shares do not come from the same split",
		)
	default:
		return shkerr.Wrap(err, "recovering secret")
	}
}

