package workflows

import (
	"context"

	"github.com/PolarWolf314/rssh/internal/audit"
	"github.com/PolarWolf314/rssh/internal/vault"
)

// InitOptions configures the init workflow.
type InitOptions struct {
	VaultOptions

	// Passphrase guards the new vault.
	Passphrase string

	// Policy selects which operations require the passphrase.
	Policy vault.Policy
}

// InitResult contains the outcome of an init operation.
type InitResult struct {
	// Path is the vault file that was written.
	Path string

	// Replaced is true when an existing vault was overwritten.
	Replaced bool
}

// Init creates an empty vault at opts.Path.
//
// An existing vault is overwritten without asking for its passphrase.
// Returns ErrInvalidPolicy or ErrPassphraseRequired for bad gatekeeper
// settings and ErrPersistence if the vault cannot be written.
func Init(ctx context.Context, opts InitOptions) (*InitResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	_, replaced, err := opts.store().Initialize(opts.Passphrase, opts.Policy)
	if err != nil {
		return nil, err
	}
	if replaced {
		opts.Logger.Warnf("replaced existing vault at %s", opts.Path)
	}

	policy := int(opts.Policy)
	opts.record(audit.Entry{Operation: "init", Policy: &policy, Replaced: replaced})

	return &InitResult{Path: opts.Path, Replaced: replaced}, nil
}
