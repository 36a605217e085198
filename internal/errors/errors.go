package errors

import "errors"

// At-rest payload errors indicate the vault file could not be turned back into a vault.
var (
	// ErrDecode indicates the stored text is not valid encoded binary.
	ErrDecode = errors.New("vault payload is not valid base64")

	// ErrCrypto indicates the decrypted byte stream has invalid padding or block structure.
	ErrCrypto = errors.New("vault payload could not be decrypted")

	// ErrSchema indicates the decrypted content does not parse as a vault.
	ErrSchema = errors.New("vault content does not match the expected schema")
)

// Vault state errors indicate issues with the vault file itself.
var (
	// ErrVaultNotFound indicates there is no readable vault at the configured path.
	ErrVaultNotFound = errors.New("vault not found")

	// ErrPersistence indicates an atomic save failed. The file on disk is left intact.
	ErrPersistence = errors.New("failed to save vault")
)

// Lookup errors indicate a query could not be resolved to a single credential.
var (
	// ErrCredentialNotFound indicates no stored credential matches the query.
	ErrCredentialNotFound = errors.New("credential not found")

	// ErrAmbiguousChoice indicates the disambiguation answer was empty, non-numeric or out of range.
	ErrAmbiguousChoice = errors.New("invalid choice")

	// ErrPromptFailed indicates standard input could not be read during an interactive prompt.
	ErrPromptFailed = errors.New("failed to read from standard input")
)

// Input errors indicate caller-supplied data was rejected.
var (
	// ErrImportFormat indicates a malformed import line. Nothing from the import is committed.
	ErrImportFormat = errors.New("malformed import line")

	// ErrInvalidCredential indicates an address, username or password that cannot be stored.
	ErrInvalidCredential = errors.New("invalid credential field")

	// ErrInvalidPolicy indicates a policy level other than 0 or 1.
	ErrInvalidPolicy = errors.New("policy level must be 0 or 1")

	// ErrInvalidConfig indicates a config.toml value that cannot be used.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrFileNotFound indicates an import file or pattern matched nothing.
	ErrFileNotFound = errors.New("file not found")

	// ErrInvalidDateFormat indicates a --since or --until value that is not YYYY-MM-DD.
	ErrInvalidDateFormat = errors.New("invalid date format")
)

// Gatekeeper errors indicate the operation was not authorized.
var (
	// ErrWrongPassphrase indicates the supplied gatekeeper passphrase does not match.
	ErrWrongPassphrase = errors.New("wrong passphrase")

	// ErrPassphraseRequired indicates no passphrase source was available.
	ErrPassphraseRequired = errors.New("passphrase required")
)

// Remote execution errors are reported by the executor after a credential was resolved.
var (
	ErrRemoteBadArguments         = errors.New("remote: invalid arguments")
	ErrRemoteConflictingArguments = errors.New("remote: conflicting arguments")
	ErrRemoteRuntime              = errors.New("remote: runtime error")
	ErrRemoteParse                = errors.New("remote: parse error")
	ErrRemoteAuthFailed           = errors.New("remote: authentication failed")
	ErrRemoteUnknownHostKey       = errors.New("remote: host key is unknown")
	ErrRemoteHostKeyChanged       = errors.New("remote: host key has changed")
	ErrRemoteTimeout              = errors.New("remote: connection timed out")
	ErrRemoteInternal             = errors.New("remote: internal error")
)
