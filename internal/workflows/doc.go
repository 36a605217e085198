// Package workflows provides high-level orchestration for rssh commands.
//
// Workflows coordinate the vault, store, gatekeeper, lookup, executor and
// audit packages to implement complete user-facing features. Each workflow
// handles a single command's business logic, independent of CLI concerns
// like flag parsing, spinners, and output formatting.
//
// # Design Philosophy
//
// The cmd/ package should be a thin layer that:
//
//   - Parses command-line flags and arguments
//   - Calls the appropriate workflow function
//   - Formats the result for display
//
// Workflows handle everything else:
//
//   - Loading the vault and checking the gatekeeper passphrase
//   - Performing the operation on the in-memory vault
//   - Saving the vault once, atomically
//   - Recording audit trail entries
//
// # Available Workflows
//
//   - Init: creates an empty vault, replacing any existing one
//   - Upsert, Delete: change one credential
//   - Import, Export: move credentials in and out as text lines
//   - ListUsers: lists users stored for an address
//   - ChangeGatekeeper: replaces the passphrase and policy
//   - Get, Connect: resolve a credential, then print it or log in with it
//   - KeyringSave, KeyringForget, KeyringStatus: manage the cached passphrase
//   - Log: reads the audit trail
//   - Doctor: runs health checks
//
// # Error Handling
//
// Workflows return typed errors from the internal/errors package, allowing
// the CLI layer to provide appropriate user-facing messages without string
// matching:
//
//	result, err := workflows.Get(ctx, opts)
//	if errors.Is(err, kerrors.ErrCredentialNotFound) {
//	    // suggest `rssh set`
//	}
//
// # Context Usage
//
// All workflow functions accept a context.Context as their first parameter.
// It is checked before the vault is loaded and passed to the remote executor.
package workflows
