package workflows

import (
	"context"

	"github.com/PolarWolf314/rssh/internal/audit"
	"github.com/PolarWolf314/rssh/internal/gatekeeper"
	"github.com/PolarWolf314/rssh/internal/vault"
)

// UpsertOptions configures the set workflow.
type UpsertOptions struct {
	VaultOptions

	Address  string
	Username string
	Password string
}

// UpsertResult contains the outcome of a set operation.
type UpsertResult struct {
	Change vault.Change
}

// Upsert stores a password for an address and user, creating the host or
// user when needed, and saves the vault.
//
// Returns ErrInvalidCredential if a field is empty or contains whitespace.
func Upsert(ctx context.Context, opts UpsertOptions) (*UpsertResult, error) {
	s, v, err := openVault(ctx, opts.VaultOptions, gatekeeper.Privileged)
	if err != nil {
		return nil, err
	}

	change, err := v.Upsert(opts.Address, opts.Username, opts.Password)
	if err != nil {
		return nil, err
	}
	opts.Logger.Infof("%s %s@%s", change, opts.Username, opts.Address)

	if err := s.Save(v); err != nil {
		return nil, err
	}

	opts.record(audit.Entry{Operation: "set", Address: opts.Address, Username: opts.Username, Change: change.String()})

	return &UpsertResult{Change: change}, nil
}
