package keyring

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/zalando/go-keyring"
)

const serviceName = "rssh"

// ErrNotFound is returned when no passphrase is cached for a vault.
var ErrNotFound = keyring.ErrNotFound

// VaultID returns the keyring account name for the vault at path.
func VaultID(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}

// SavePassphrase stores the gatekeeper passphrase for a vault in the OS keyring.
func SavePassphrase(vaultPath, passphrase string) error {
	if err := keyring.Set(serviceName, VaultID(vaultPath), passphrase); err != nil {
		return fmt.Errorf("failed to save passphrase to keyring: %w", err)
	}
	return nil
}

// GetPassphrase retrieves the cached passphrase for a vault.
func GetPassphrase(vaultPath string) (string, error) {
	return keyring.Get(serviceName, VaultID(vaultPath))
}

// DeletePassphrase removes the cached passphrase. Deleting a missing entry is not an error.
func DeletePassphrase(vaultPath string) error {
	err := keyring.Delete(serviceName, VaultID(vaultPath))
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("failed to remove passphrase from keyring: %w", err)
	}
	return nil
}

// HasPassphrase reports whether a passphrase is cached for the vault.
func HasPassphrase(vaultPath string) bool {
	_, err := GetPassphrase(vaultPath)
	return err == nil
}
