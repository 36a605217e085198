package workflows

import (
	"context"

	"github.com/PolarWolf314/rssh/internal/audit"
	"github.com/PolarWolf314/rssh/internal/gatekeeper"
	logger "github.com/PolarWolf314/rssh/internal/logging"
	"github.com/PolarWolf314/rssh/internal/store"
	"github.com/PolarWolf314/rssh/internal/vault"
)

// VaultOptions locates the vault and its collaborators. It is embedded in
// the options of every workflow that touches the vault.
type VaultOptions struct {
	// Path is the vault file.
	Path string

	// Writer replaces files atomically. Nil means store.FileWriter.
	Writer store.AtomicWriter

	// Gatekeeper verifies the passphrase. Nil means gatekeeper.New(Path).
	Gatekeeper *gatekeeper.Gatekeeper

	// AuditPath is the audit log. Empty disables auditing.
	AuditPath string

	Logger logger.Logger
}

func (o VaultOptions) store() *store.Store {
	s := store.New(o.Path)
	if o.Writer != nil {
		s.Writer = o.Writer
	}
	return s
}

func (o VaultOptions) writer() store.AtomicWriter {
	if o.Writer != nil {
		return o.Writer
	}
	return store.FileWriter{}
}

func (o VaultOptions) gatekeeper() *gatekeeper.Gatekeeper {
	if o.Gatekeeper != nil {
		return o.Gatekeeper
	}
	return gatekeeper.New(o.Path)
}

func (o VaultOptions) record(entry audit.Entry) {
	audit.Log(o.AuditPath, entry)
}

// openVault loads the vault and checks the passphrase for an operation of class c.
func openVault(ctx context.Context, o VaultOptions, c gatekeeper.Class) (*store.Store, *vault.Vault, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	s := o.store()
	o.Logger.Debugf("loading vault from %s", o.Path)
	v, err := s.Load()
	if err != nil {
		return nil, nil, err
	}

	if err := o.gatekeeper().Verify(v, c); err != nil {
		return nil, nil, err
	}
	o.Logger.Debugf("%s operation authorized", c)

	return s, v, nil
}
