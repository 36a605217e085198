package store

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/PolarWolf314/rssh/internal/codec"
	kerrors "github.com/PolarWolf314/rssh/internal/errors"
	"github.com/PolarWolf314/rssh/internal/vault"
)

// Store loads and saves a vault at Path.
type Store struct {
	Path   string
	Writer AtomicWriter
	Codec  *codec.Codec
}

// New returns a Store for path using FileWriter and the default codec.
func New(path string) *Store {
	return &Store{
		Path:   path,
		Writer: FileWriter{},
		Codec:  codec.Default(),
	}
}

// Exists reports whether a non-empty vault file is present.
func (s *Store) Exists() (bool, error) {
	data, err := s.Writer.Read(s.Path)
	if err != nil {
		return false, err
	}
	return len(bytes.TrimSpace(data)) > 0, nil
}

// Load reads, opens and decodes the vault.
func (s *Store) Load() (*vault.Vault, error) {
	data, err := s.Writer.Read(s.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", kerrors.ErrVaultNotFound, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("%w at %s", kerrors.ErrVaultNotFound, s.Path)
	}

	payload, err := s.Codec.Open(string(data))
	if err != nil {
		return nil, err
	}

	return vault.Unmarshal(payload)
}

// Save validates, encodes and seals v, then replaces the vault file. When
// the writer fails any staging file is removed and the previous vault is
// left untouched.
func (s *Store) Save(v *vault.Vault) error {
	payload, err := vault.Marshal(v)
	if err != nil {
		return err
	}

	text, err := s.Codec.Seal(payload)
	if err != nil {
		return fmt.Errorf("%w: %v", kerrors.ErrPersistence, err)
	}

	if err := s.Writer.Write(s.Path, []byte(text)); err != nil {
		staging := s.Writer.StagingPath(s.Path)
		if rmErr := os.Remove(staging); rmErr != nil && !errors.Is(rmErr, fs.ErrNotExist) {
			return fmt.Errorf("%w: %w (staging file %s not removed: %v)", kerrors.ErrPersistence, err, staging, rmErr)
		}
		return fmt.Errorf("%w: %w", kerrors.ErrPersistence, err)
	}

	return nil
}

// Initialize saves a new empty vault. An existing vault is overwritten
// without checking its passphrase; replaced reports whether one existed.
func (s *Store) Initialize(passphrase string, policy vault.Policy) (v *vault.Vault, replaced bool, err error) {
	v = vault.New("", vault.PolicyPrivileged)
	if err := v.SetGatekeeper(passphrase, policy); err != nil {
		return nil, false, err
	}

	replaced, err = s.Exists()
	if err != nil {
		return nil, false, fmt.Errorf("%w: %w", kerrors.ErrPersistence, err)
	}

	if err := s.Save(v); err != nil {
		return nil, false, err
	}
	return v, replaced, nil
}
