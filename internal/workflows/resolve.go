package workflows

import (
	"context"
	"os"

	"github.com/PolarWolf314/rssh/internal/audit"
	"github.com/PolarWolf314/rssh/internal/executor"
	"github.com/PolarWolf314/rssh/internal/gatekeeper"
	"github.com/PolarWolf314/rssh/internal/lookup"
	"github.com/PolarWolf314/rssh/internal/store"
	"github.com/PolarWolf314/rssh/internal/vault"
)

// DefaultUser is used when neither the caller nor the config names a user.
const DefaultUser = "root"

// ResolveOptions identifies the credential to look up.
type ResolveOptions struct {
	VaultOptions

	Address string

	// Username may be empty, in which case DefaultUser is used.
	Username string

	// DefaultUser overrides the package default, usually from config.
	DefaultUser string

	// Prompter picks among several fuzzy matches. Nil means a line prompter
	// on standard input and standard error.
	Prompter lookup.Prompter
}

func (o ResolveOptions) query() lookup.Query {
	user := o.Username
	if user == "" {
		user = o.DefaultUser
	}
	if user == "" {
		user = DefaultUser
	}
	return lookup.Query{Address: o.Address, Username: user}
}

func (o ResolveOptions) prompter() lookup.Prompter {
	if o.Prompter != nil {
		return o.Prompter
	}
	return lookup.NewLinePrompter(os.Stdin, os.Stderr)
}

// resolve runs the lookup for an operation of class c. A changed
// remembered choice is saved before returning.
func resolve(ctx context.Context, o ResolveOptions, c gatekeeper.Class) (*store.Store, vault.Credential, error) {
	s, v, err := openVault(ctx, o.VaultOptions, c)
	if err != nil {
		return nil, vault.Credential{}, err
	}

	q := o.query()
	o.Logger.Debugf("resolving %s@%s", q.Username, q.Address)

	cred, err := lookup.Resolver{Prompter: o.prompter(), Saver: s}.Resolve(v, q)
	if err != nil {
		return nil, vault.Credential{}, err
	}
	return s, cred, nil
}

// GetResult holds a resolved credential.
type GetResult struct {
	Credential vault.Credential
}

// Get resolves a credential so its password can be shown. Revealing a
// password is privileged regardless of policy.
func Get(ctx context.Context, opts ResolveOptions) (*GetResult, error) {
	_, cred, err := resolve(ctx, opts, gatekeeper.Privileged)
	if err != nil {
		return nil, err
	}

	opts.record(audit.Entry{Operation: "get", Address: cred.Host, Username: cred.Username})

	return &GetResult{Credential: cred}, nil
}

// ConnectOptions configures login and run.
type ConnectOptions struct {
	ResolveOptions

	// Command runs non-interactively. Empty opens a shell.
	Command string

	Executor executor.Executor
}

// ConnectResult reports which credential was used.
type ConnectResult struct {
	Host     string
	Port     int
	Username string
}

// Connect resolves a credential and hands it to the executor. Remote
// failures are returned as the executor's ErrRemote* kinds.
func Connect(ctx context.Context, opts ConnectOptions) (*ConnectResult, error) {
	_, cred, err := resolve(ctx, opts.ResolveOptions, gatekeeper.Read)
	if err != nil {
		return nil, err
	}

	host, port, err := executor.ParseTarget(cred.Host)
	if err != nil {
		return nil, err
	}

	op := "login"
	if opts.Command != "" {
		op = "run"
	}
	opts.record(audit.Entry{Operation: op, Address: cred.Host, Username: cred.Username})
	opts.Logger.Infof("connecting to %s@%s:%d", cred.Username, host, port)

	err = opts.Executor.Run(ctx, executor.Target{
		User:     cred.Username,
		Host:     host,
		Port:     port,
		Password: cred.Password,
		Command:  opts.Command,
	})

	return &ConnectResult{Host: host, Port: port, Username: cred.Username}, err
}
