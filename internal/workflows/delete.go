package workflows

import (
	"context"

	"github.com/PolarWolf314/rssh/internal/audit"
	"github.com/PolarWolf314/rssh/internal/gatekeeper"
)

// DeleteOptions configures the delete workflow.
type DeleteOptions struct {
	VaultOptions

	Address  string
	Username string
}

// DeleteResult contains the outcome of a delete operation.
type DeleteResult struct {
	// Removed is false when no credential matched exactly.
	Removed bool

	// HostRemoved is true when the deleted user was the host's last one.
	HostRemoved bool
}

// Delete removes one credential, matching address and user exactly. A host
// left without users is removed. The vault is saved even when nothing matched.
func Delete(ctx context.Context, opts DeleteOptions) (*DeleteResult, error) {
	s, v, err := openVault(ctx, opts.VaultOptions, gatekeeper.Privileged)
	if err != nil {
		return nil, err
	}

	hostsBefore := len(v.Hosts)
	removed := v.Delete(opts.Address, opts.Username)
	if !removed {
		opts.Logger.Infof("no credential %s@%s", opts.Username, opts.Address)
	}

	if err := s.Save(v); err != nil {
		return nil, err
	}

	if removed {
		opts.record(audit.Entry{Operation: "delete", Address: opts.Address, Username: opts.Username})
	}

	return &DeleteResult{Removed: removed, HostRemoved: len(v.Hosts) < hostsBefore}, nil
}
