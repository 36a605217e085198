package utils

import (
	"crypto/subtle"
	"fmt"
	"os"

	"golang.org/x/term"

	kerrors "github.com/PolarWolf314/rssh/internal/errors"
)

// ReadPassphrase prompts the user for a passphrase without echoing input.
// Returns an error if stdin is not a terminal.
func ReadPassphrase(prompt string) ([]byte, error) {
	fd := int(os.Stdin.Fd())

	if !term.IsTerminal(fd) {
		return nil, fmt.Errorf("cannot read passphrase: stdin is not a terminal")
	}

	fmt.Fprint(os.Stderr, prompt)
	passphrase, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr) // Add newline after hidden input

	if err != nil {
		return nil, fmt.Errorf("failed to read passphrase: %w", err)
	}

	return passphrase, nil
}

// ReadPassphraseConfirm reads a new passphrase twice and ensures both entries match.
func ReadPassphraseConfirm() ([]byte, error) {
	first, err := ReadPassphrase("New passphrase: ")
	if err != nil {
		return nil, err
	}

	second, err := ReadPassphrase("Confirm passphrase: ")
	if err != nil {
		ClearBytes(first)
		return nil, err
	}
	defer ClearBytes(second)

	return confirmPassphrase(first, second)
}

// confirmPassphrase returns first when both entries match and are non-empty.
// On failure first is cleared.
func confirmPassphrase(first, second []byte) ([]byte, error) {
	if subtle.ConstantTimeCompare(first, second) != 1 {
		ClearBytes(first)
		return nil, fmt.Errorf("%w: passphrases do not match", kerrors.ErrPassphraseRequired)
	}
	if len(first) == 0 {
		return nil, fmt.Errorf("%w: passphrase cannot be empty", kerrors.ErrPassphraseRequired)
	}
	return first, nil
}

// IsTerminal returns true if stdin is a terminal.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// ClearBytes zeroes a byte slice holding sensitive data.
func ClearBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
