package workflows

import (
	"context"

	"github.com/PolarWolf314/rssh/internal/audit"
	"github.com/PolarWolf314/rssh/internal/gatekeeper"
	"github.com/PolarWolf314/rssh/internal/keyring"
	"github.com/PolarWolf314/rssh/internal/vault"
)

// ChangeGatekeeperOptions configures the passwd workflow.
type ChangeGatekeeperOptions struct {
	VaultOptions

	Passphrase string

	// ReadPassphrase supplies the new passphrase after the current one has
	// been verified. It is used when Passphrase is empty.
	ReadPassphrase func() (string, error)

	Policy vault.Policy

	// KeepPolicy ignores Policy and keeps the vault's current level.
	KeepPolicy bool
}

// ChangeGatekeeperResult contains the outcome of a passwd operation.
type ChangeGatekeeperResult struct {
	Policy vault.Policy

	// KeyringUpdated is true when a cached keyring entry was replaced.
	KeyringUpdated bool
}

// ChangeGatekeeper replaces the vault passphrase and policy after verifying
// the current passphrase.
func ChangeGatekeeper(ctx context.Context, opts ChangeGatekeeperOptions) (*ChangeGatekeeperResult, error) {
	s, v, err := openVault(ctx, opts.VaultOptions, gatekeeper.Privileged)
	if err != nil {
		return nil, err
	}

	passphrase := opts.Passphrase
	if passphrase == "" && opts.ReadPassphrase != nil {
		if passphrase, err = opts.ReadPassphrase(); err != nil {
			return nil, err
		}
	}

	policy := opts.Policy
	if opts.KeepPolicy {
		policy = v.Policy
	}
	if err := v.SetGatekeeper(passphrase, policy); err != nil {
		return nil, err
	}

	if err := s.Save(v); err != nil {
		return nil, err
	}

	result := &ChangeGatekeeperResult{Policy: policy}
	if keyring.HasPassphrase(opts.Path) {
		if err := keyring.SavePassphrase(opts.Path, passphrase); err != nil {
			opts.Logger.WarnfAlways("vault updated but keyring entry is stale: %v", err)
		} else {
			result.KeyringUpdated = true
		}
	}

	level := int(policy)
	opts.record(audit.Entry{Operation: "passwd", Policy: &level})

	return result, nil
}
