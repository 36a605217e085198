// Package keyring caches gatekeeper passphrases in the OS keyring, keyed by
// the absolute vault path.
package keyring
