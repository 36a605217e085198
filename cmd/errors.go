package cmd

import (
	"errors"

	kerrors "github.com/PolarWolf314/rssh/internal/errors"
	"github.com/PolarWolf314/rssh/internal/gatekeeper"
	"github.com/PolarWolf314/rssh/internal/ui"
)

// formatError formats an error for display to the user. Every known kind
// gets its own message; the wrapped detail follows when it adds something.
func formatError(err error) string {
	detail := err.Error()

	switch {
	// Vault state.
	case errors.Is(err, kerrors.ErrVaultNotFound):
		return ui.Failed("No vault found", "Run "+ui.Code.Sprint("rssh init")+" to create one, or pass "+ui.Flag.Sprint("--vault"))
	case errors.Is(err, kerrors.ErrPersistence):
		return ui.Failed("Could not save: "+detail, "The previous file is unchanged")

	// At-rest payload.
	case errors.Is(err, kerrors.ErrDecode):
		return ui.Failed("Vault file is not valid base64", "It may have been edited by hand or truncated")
	case errors.Is(err, kerrors.ErrCrypto):
		return ui.Failed("Vault file could not be decrypted", "It may be corrupt or written by another program")
	case errors.Is(err, kerrors.ErrSchema):
		return ui.Failed("Vault contents are malformed: " + detail)

	// Lookup.
	case errors.Is(err, kerrors.ErrCredentialNotFound):
		return ui.Failed("No matching credential: "+detail, "Add one with "+ui.Code.Sprint("rssh set <address> <user> <password>"))
	case errors.Is(err, kerrors.ErrAmbiguousChoice):
		return ui.Failed("Invalid choice: " + detail)
	case errors.Is(err, kerrors.ErrPromptFailed):
		return ui.Failed("Could not read from standard input: " + detail)

	// Input.
	case errors.Is(err, kerrors.ErrImportFormat):
		return ui.Failed("Import aborted, nothing was stored", detail)
	case errors.Is(err, kerrors.ErrInvalidCredential):
		return ui.Failed("Invalid credential: "+detail, "Addresses, users and passwords cannot be empty or contain spaces")
	case errors.Is(err, kerrors.ErrInvalidPolicy):
		return ui.Failed("Invalid policy", "Use "+ui.Flag.Sprint("--policy 0")+" to guard changes only or "+ui.Flag.Sprint("--policy 1")+" to guard every use")
	case errors.Is(err, kerrors.ErrInvalidConfig):
		return ui.Failed("Invalid configuration: "+detail, "Check "+ui.Path.Sprint("config.toml")+" or run "+ui.Code.Sprint("rssh config init --force"))
	case errors.Is(err, kerrors.ErrFileNotFound):
		return ui.Failed("No files to import: " + detail)
	case errors.Is(err, kerrors.ErrInvalidDateFormat):
		return ui.Failed(detail)

	// Gatekeeper.
	case errors.Is(err, kerrors.ErrWrongPassphrase):
		return ui.Failed("Wrong passphrase", "A stale keyring entry can be cleared with "+ui.Code.Sprint("rssh keyring forget"))
	case errors.Is(err, kerrors.ErrPassphraseRequired):
		return ui.Failed("A passphrase is required: "+detail, "Set "+ui.Code.Sprint(gatekeeper.EnvPassphrase)+", run "+ui.Code.Sprint("rssh keyring save")+", or run in a terminal")

	// Remote.
	case errors.Is(err, kerrors.ErrRemoteAuthFailed):
		return ui.Failed("The host rejected the stored password", "Update it with "+ui.Code.Sprint("rssh set"))
	case errors.Is(err, kerrors.ErrRemoteUnknownHostKey):
		return ui.Failed("The host key is not in known_hosts", "Set "+ui.Code.Sprint("accept_new_host_keys = true")+" or add it with "+ui.Code.Sprint("ssh-keyscan"))
	case errors.Is(err, kerrors.ErrRemoteHostKeyChanged):
		return ui.Failed("The host key has CHANGED since the last login", "Someone may be intercepting the connection; verify the host before editing known_hosts")
	case errors.Is(err, kerrors.ErrRemoteTimeout):
		return ui.Failed("Connection timed out: " + detail)
	case errors.Is(err, kerrors.ErrRemoteRuntime):
		return ui.Failed("Remote command failed: " + detail)
	case errors.Is(err, kerrors.ErrRemoteBadArguments):
		return ui.Failed("Invalid ssh arguments: " + detail)
	case errors.Is(err, kerrors.ErrRemoteConflictingArguments):
		return ui.Failed("Conflicting ssh arguments: " + detail)
	case errors.Is(err, kerrors.ErrRemoteParse):
		return ui.Failed("ssh could not parse its arguments: " + detail)
	case errors.Is(err, kerrors.ErrRemoteInternal):
		return ui.Failed("ssh failed: "+detail, "Check that the executor is installed, see "+ui.Code.Sprint("rssh doctor"))

	default:
		return ui.Failed(detail)
	}
}
