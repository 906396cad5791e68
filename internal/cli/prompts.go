package cli

import (
	"fmt"
	"os"
	"syscall"

	"golang.org/x/term"

	shkerr "github.com/shardkey/shardkey/pkg/errors"
)

// promptSecret prompts for a secret with hidden input. The caller owns the
// returned bytes and must zeroize them after use.
func promptSecret(prompt string) ([]byte, error) {
	if !term.IsTerminal(syscall.Stdin) {
		return nil, shkerr.WithSuggestion(
			shkerr.ErrInvalidInput,
			"stdin is not a terminal; use --in - to read the secret from a pipe",
		)
	}

	fmt.Fprint(os.Stderr, prompt)
	secret, err := term.ReadPassword(syscall.Stdin)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return nil, shkerr.Wrap(err, "reading secret")
	}
	if len(secret) == 0 {
		return nil, shkerr.ErrEmptySecret
	}
	return secret, nil
}
