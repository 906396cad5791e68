package cli

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tyler-smith/go-bip39"

	"github.com/shardkey/shardkey/internal/codec"
	"github.com/shardkey/shardkey/internal/fileutil"
	"github.com/shardkey/shardkey/internal/metrics"
	"github.com/shardkey/shardkey/internal/output"
	"github.com/shardkey/shardkey/internal/shamir"
	"github.com/shardkey/shardkey/internal/shardcrypto"
	shkerr "github.com/shardkey/shardkey/pkg/errors"
)

var (
	splitThreshold int
	splitShares    int
	splitFormat    string
	splitIn        string
	splitEnv       string
	splitSeed      string
	splitOutDir    string
	splitLabel     string
	splitMnemonic  bool
)

var splitCmd = &cobra.Command{
	Use:   "split",
	Short: "Split a secret into threshold shares",
	Long: `Split a secret into n shares of which any k recover it.

The secret is read from --in (a file, or - for stdin), from the
environment variable named by --env, or interactively with hidden input.

Examples:
  shardkey split -t 3 -n 5 --in key.bin --out-dir shares/
  cat secret.txt | shardkey split -t 2 -n 3 --in - --format hex
  shardkey split -t 3 -n 5 --env DEPLOY_TOKEN --label deploy-token
  shardkey split -t 2 -n 2 --in - --seed $(head -c32 /dev/urandom | xxd -p -c64)`,
	RunE: runSplit,
}

func init() {
	splitCmd.Flags().IntVarP(&splitThreshold, "threshold", "t", 0, "shares required to recover (default from config)")
	splitCmd.Flags().IntVarP(&splitShares, "shares", "n", 0, "total shares to deal (default from config)")
	splitCmd.Flags().StringVarP(&splitFormat, "format", "f", "", "share format: json, hex, base64, raw")
	splitCmd.Flags().StringVar(&splitIn, "in", "", "read the secret from this file (- for stdin)")
	splitCmd.Flags().StringVar(&splitEnv, "env", "", "read the secret from this environment variable")
	splitCmd.Flags().StringVar(&splitSeed, "seed", "", "32-byte hex seed for deterministic dealing (testing only)")
	splitCmd.Flags().StringVar(&splitOutDir, "out-dir", "", "write one share file per share into this directory")
	splitCmd.Flags().StringVar(&splitLabel, "label", "", "record split metadata in the store under this label")
	splitCmd.Flags().BoolVar(&splitMnemonic, "mnemonic", false, "require the secret to be a valid BIP39 mnemonic")
}

func runSplit(cmd *cobra.Command, _ []string) (err error) {
	dealt := 0
	defer func() { metrics.Global.RecordSplit(dealt, err) }()

	k := splitThreshold
	if k == 0 {
		k = cfg.Split.DefaultThreshold
	}
	n := splitShares
	if n == 0 {
		n = cfg.Split.DefaultShares
	}
	if k < 2 || k > 255 {
		return shkerr.WithSuggestion(shkerr.ErrInvalidThreshold, "threshold must be in 2..255")
	}
	if n < k {
		return shkerr.WithSuggestion(shkerr.ErrInvalidInput, "share count must be at least the threshold")
	}
	if n > 255 {
		return shkerr.WithSuggestion(shkerr.ErrInvalidInput, "at most 255 shares can be dealt")
	}

	formatName := splitFormat
	if formatName == "" {
		formatName = cfg.Split.DefaultFormat
	}
	format, err := codec.ParseFormat(formatName)
	if err != nil {
		return shkerr.WithSuggestion(shkerr.ErrInvalidFormat, "valid formats: json, hex, base64, raw")
	}
	if format == codec.FormatRaw && splitOutDir == "" {
		return shkerr.WithSuggestion(shkerr.ErrInvalidInput, "raw shares are binary; use --out-dir")
	}

	secret, err := readSecret(cmd)
	if err != nil {
		return err
	}
	if cfg.Security.MemoryLock {
		// Move the secret into locked memory while shares are dealt.
		sb := shardcrypto.SecureBytesFromSlice(secret)
		shardcrypto.Zeroize(secret)
		secret = sb.Bytes()
		defer sb.Destroy()
	} else {
		defer shardcrypto.Zeroize(secret)
	}

	if splitMnemonic {
		mnemonic := strings.TrimSpace(string(secret))
		if !bip39.IsMnemonicValid(mnemonic) {
			return shkerr.WithSuggestion(shkerr.ErrInvalidMnemonic, "check the word list and word count (12, 15, 18, 21, or 24 words)")
		}
	}

	rng, err := splitRNG()
	if err != nil {
		return err
	}

	engine, err := shamir.New(k)
	if err != nil {
		return shkerr.Wrap(err, "configuring splitter")
	}
	stream, err := engine.SplitWithRNG(secret, rng)
	if err != nil {
		return shkerr.Wrap(err, "splitting secret")
	}
	defer stream.Destroy()

	shares, err := stream.Take(n)
	if err != nil {
		return shkerr.Wrap(err, "dealing shares")
	}
	dealt = len(shares)

	logger.Debug("split dealt")

	envelopes := make([][]byte, len(shares))
	for i, share := range shares {
		envelopes[i], err = codec.Encode(share, format)
		if err != nil {
			return shkerr.Wrap(err, "encoding share %d", share.ID)
		}
	}

	if splitLabel != "" {
		if err := persistSplit(splitLabel, n, k, envelopes, format); err != nil {
			return err
		}
	}

	if splitOutDir != "" {
		return writeShareFiles(shares, envelopes, format)
	}
	return printShares(envelopes, format)
}

// readSecret resolves the secret bytes from --in, --env, or an
// interactive prompt.
func readSecret(cmd *cobra.Command) ([]byte, error) {
	switch {
	case splitIn == "-":
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, shkerr.Wrap(err, "reading secret from stdin")
		}
		if len(data) == 0 {
			return nil, shkerr.ErrEmptySecret
		}
		return data, nil

	case splitIn != "":
		// #nosec G304 -- secret path comes from the operator
		data, err := os.ReadFile(splitIn)
		if err != nil {
			return nil, shkerr.Wrap(err, "reading secret file")
		}
		if len(data) == 0 {
			return nil, shkerr.ErrEmptySecret
		}
		return data, nil

	case splitEnv != "":
		value, ok := os.LookupEnv(splitEnv)
		if !ok || value == "" {
			return nil, shkerr.WithDetails(shkerr.ErrEmptySecret, map[string]string{"env": splitEnv})
		}
		return []byte(value), nil

	default:
		return promptSecret("Enter secret: ")
	}
}

// splitRNG returns the seeded generator when --seed is given, the system
// CSPRNG otherwise.
func splitRNG() (shamir.RNG, error) {
	if splitSeed == "" {
		return shamir.SystemRNG{}, nil
	}
	seed, err := hex.DecodeString(strings.TrimSpace(splitSeed))
	if err != nil || len(seed) != shamir.SeedSize {
		return nil, shkerr.ErrInvalidSeed
	}
	defer shardcrypto.Zeroize(seed)
	return shamir.NewSeededRNG(seed)
}

// writeShareFiles writes one share per file into --out-dir.
func writeShareFiles(shares []shamir.Share, envelopes [][]byte, format codec.Format) error {
	if err := os.MkdirAll(splitOutDir, 0o750); err != nil {
		return shkerr.Wrap(err, "creating output directory")
	}

	for i, envelope := range envelopes {
		name := fmt.Sprintf("share-%d%s", shares[i].ID, format.FileExt())
		path := filepath.Join(splitOutDir, name)
		data := envelope
		if format != codec.FormatRaw {
			data = append(append([]byte{}, envelope...), '\n')
		}
		if err := fileutil.WriteAtomic(path, data, 0o600); err != nil {
			return shkerr.Wrap(err, "writing %s", name)
		}
	}

	return output.FormatSuccess(formatter.Writer(),
		fmt.Sprintf("Wrote %d shares to %s", len(envelopes), splitOutDir), formatter.Format())
}

// printShares prints envelopes to stdout, one per line (or, for JSON
// envelopes under JSON output, one object holding a "shares" array).
func printShares(envelopes [][]byte, format codec.Format) error {
	if formatter.IsJSON() && format == codec.FormatJSON {
		lines := make([]json.RawMessage, len(envelopes))
		for i, envelope := range envelopes {
			lines[i] = json.RawMessage(envelope)
		}
		return formatter.Print(map[string]any{"shares": lines})
	}

	for _, envelope := range envelopes {
		if err := formatter.Println(string(envelope)); err != nil {
			return err
		}
	}
	return nil
}

// persistSplit records split metadata and envelopes in the store.
func persistSplit(label string, n, k int, envelopes [][]byte, format codec.Format) error {
	if format == codec.FormatRaw {
		return shkerr.WithSuggestion(shkerr.ErrInvalidInput, "store persistence requires a text format (json, hex, base64)")
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	secret, err := st.CreateSecret(0, label, n, k)
	metrics.Global.RecordStoreOp(err)
	if err != nil {
		return err
	}

	for _, envelope := range envelopes {
		_, err := st.AddShare(secret.ID, 0, string(envelope))
		metrics.Global.RecordStoreOp(err)
		if err != nil {
			return err
		}
	}

	logger.Debug("split recorded")
	return nil
}
