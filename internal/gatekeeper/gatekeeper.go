package gatekeeper

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"os"

	kerrors "github.com/PolarWolf314/rssh/internal/errors"
	"github.com/PolarWolf314/rssh/internal/keyring"
	"github.com/PolarWolf314/rssh/internal/utils"
	"github.com/PolarWolf314/rssh/internal/vault"
)

// EnvPassphrase is the environment variable checked before any other source.
const EnvPassphrase = "RSSH_PASSPHRASE"

// Class groups operations by how sensitive they are.
type Class int

const (
	// Read operations need the passphrase only under PolicyAll.
	Read Class = iota
	// Privileged operations always need the passphrase.
	Privileged
)

func (c Class) String() string {
	if c == Privileged {
		return "privileged"
	}
	return "read"
}

// Required reports whether an operation of class c needs the passphrase under policy p.
func Required(p vault.Policy, c Class) bool {
	return c == Privileged || p == vault.PolicyAll
}

// Check compares candidate to the vault passphrase in constant time.
func Check(v *vault.Vault, candidate string) error {
	if subtle.ConstantTimeCompare([]byte(v.Passphrase), []byte(candidate)) != 1 {
		return kerrors.ErrWrongPassphrase
	}
	return nil
}

// errUnavailable means a Source has no passphrase to offer.
var errUnavailable = errors.New("passphrase source unavailable")

// Source supplies a candidate passphrase.
type Source interface {
	Name() string
	Passphrase() (string, error)
}

// EnvSource reads the passphrase from an environment variable.
type EnvSource struct {
	Var string
}

func (s EnvSource) Name() string { return "environment" }

func (s EnvSource) Passphrase() (string, error) {
	if p := os.Getenv(s.Var); p != "" {
		return p, nil
	}
	return "", errUnavailable
}

// KeyringSource reads the passphrase cached for a vault in the OS keyring.
type KeyringSource struct {
	VaultPath string
}

func (s KeyringSource) Name() string { return "keyring" }

func (s KeyringSource) Passphrase() (string, error) {
	p, err := keyring.GetPassphrase(s.VaultPath)
	if err != nil {
		return "", errUnavailable
	}
	return p, nil
}

// PromptSource asks for the passphrase on the terminal.
type PromptSource struct {
	// Read defaults to utils.ReadPassphrase when nil.
	Read func(prompt string) ([]byte, error)
}

func (s PromptSource) Name() string { return "prompt" }

func (s PromptSource) Passphrase() (string, error) {
	read := s.Read
	if read == nil {
		if !utils.IsTerminal() {
			return "", errUnavailable
		}
		read = utils.ReadPassphrase
	}

	p, err := read("Passphrase: ")
	if err != nil {
		return "", err
	}
	defer utils.ClearBytes(p)
	return string(p), nil
}

// Gatekeeper verifies the vault passphrase before an operation runs.
type Gatekeeper struct {
	Sources []Source
}

// New returns a Gatekeeper that tries RSSH_PASSPHRASE, then the keyring entry
// for vaultPath, then an interactive prompt.
func New(vaultPath string) *Gatekeeper {
	return &Gatekeeper{Sources: []Source{
		EnvSource{Var: EnvPassphrase},
		KeyringSource{VaultPath: vaultPath},
		PromptSource{},
	}}
}

// Verify authorizes an operation of class c against v. The first source
// that offers a passphrase decides the outcome.
func (g *Gatekeeper) Verify(v *vault.Vault, c Class) error {
	if !Required(v.Policy, c) {
		return nil
	}

	for _, src := range g.Sources {
		candidate, err := src.Passphrase()
		if errors.Is(err, errUnavailable) {
			continue
		}
		if err != nil {
			return fmt.Errorf("%w: %s: %v", kerrors.ErrPassphraseRequired, src.Name(), err)
		}
		if err := Check(v, candidate); err != nil {
			return fmt.Errorf("%w (from %s)", err, src.Name())
		}
		return nil
	}

	return fmt.Errorf("%w: set %s or run in a terminal", kerrors.ErrPassphraseRequired, EnvPassphrase)
}
