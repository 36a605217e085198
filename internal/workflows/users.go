package workflows

import (
	"context"

	"github.com/PolarWolf314/rssh/internal/audit"
	"github.com/PolarWolf314/rssh/internal/gatekeeper"
)

// UsersOptions configures the users workflow.
type UsersOptions struct {
	VaultOptions

	Address string
}

// UsersResult lists the usernames stored for an address.
type UsersResult struct {
	Usernames []string
}

// ListUsers returns the users stored under an exactly matching address.
func ListUsers(ctx context.Context, opts UsersOptions) (*UsersResult, error) {
	_, v, err := openVault(ctx, opts.VaultOptions, gatekeeper.Read)
	if err != nil {
		return nil, err
	}

	opts.record(audit.Entry{Operation: "users", Address: opts.Address})

	return &UsersResult{Usernames: v.Users(opts.Address)}, nil
}
