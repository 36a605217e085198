// Package errors provides typed error values for rssh.
//
// Using sentinel errors allows callers to handle specific error conditions
// programmatically with errors.Is() rather than string matching. The CLI
// maps every sentinel to its own message, so a known failure is never
// reported as a generic one.
//
// # Error Categories
//
//   - Payload errors: the vault file cannot be decoded (ErrDecode, ErrCrypto, ErrSchema)
//   - Vault state: missing vault or failed save (ErrVaultNotFound, ErrPersistence)
//   - Lookup: nothing or too much matched (ErrCredentialNotFound, ErrAmbiguousChoice)
//   - Input: rejected data (ErrImportFormat, ErrInvalidCredential, ErrInvalidPolicy, ErrInvalidConfig,
//     ErrFileNotFound, ErrInvalidDateFormat)
//   - Gatekeeper: passphrase problems (ErrWrongPassphrase, ErrPassphraseRequired)
//   - Remote: failures passed through from the remote executor (ErrRemote*)
//
// # Usage
//
// Wrap errors with additional context:
//
//	return fmt.Errorf("reading %s line %d: %w", name, n, errors.ErrImportFormat)
//
// Handle errors in the CLI layer:
//
//	if errors.Is(err, kerrors.ErrVaultNotFound) {
//	    // tell the user to run `rssh init`
//	}
package errors
