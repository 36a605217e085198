package workflows

import (
	"context"

	"github.com/PolarWolf314/rssh/internal/audit"
	"github.com/PolarWolf314/rssh/internal/gatekeeper"
	"github.com/PolarWolf314/rssh/internal/keyring"
)

// KeyringSaveOptions configures caching the passphrase in the OS keyring.
type KeyringSaveOptions struct {
	VaultOptions

	// Passphrase is checked against the vault before it is cached.
	Passphrase string
}

// KeyringSave caches the vault passphrase in the OS keyring after checking it.
func KeyringSave(ctx context.Context, opts KeyringSaveOptions) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	v, err := opts.store().Load()
	if err != nil {
		return err
	}
	if err := gatekeeper.Check(v, opts.Passphrase); err != nil {
		return err
	}

	if err := keyring.SavePassphrase(opts.Path, opts.Passphrase); err != nil {
		return err
	}

	opts.record(audit.Entry{Operation: "keyring-save"})
	return nil
}

// KeyringForget removes the cached passphrase. It succeeds when none is cached.
func KeyringForget(ctx context.Context, opts VaultOptions) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := keyring.DeletePassphrase(opts.Path); err != nil {
		return err
	}

	opts.record(audit.Entry{Operation: "keyring-forget"})
	return nil
}

// KeyringStatus reports whether a passphrase is cached for the vault.
func KeyringStatus(ctx context.Context, opts VaultOptions) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return keyring.HasPassphrase(opts.Path), nil
}
