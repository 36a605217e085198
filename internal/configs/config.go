package configs

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	kerrors "github.com/PolarWolf314/rssh/internal/errors"
	"github.com/PolarWolf314/rssh/internal/utils"
)

// Executor names.
const (
	ExecutorNative  = "native"
	ExecutorSSHPass = "sshpass"
)

// Config is the user configuration stored in config.toml.
type Config struct {
	VaultPath         string `toml:"vault_path"`
	DefaultUser       string `toml:"default_user"`
	Executor          string `toml:"executor"`
	KnownHosts        string `toml:"known_hosts"`
	AcceptNewHostKeys bool   `toml:"accept_new_host_keys"`
	ConnectTimeout    string `toml:"connect_timeout"`
	Audit             bool   `toml:"audit"`
}

// Defaults returns the configuration used when config.toml is absent.
func Defaults() *Config {
	return &Config{
		DefaultUser:    "root",
		Executor:       ExecutorNative,
		KnownHosts:     "~/.ssh/known_hosts",
		ConnectTimeout: "10s",
		Audit:          true,
	}
}

// LoadConfig loads the user configuration. Keys missing from the file keep
// their default values.
func LoadConfig() (*Config, error) {
	return LoadConfigFrom(UserRsshSettings.ConfigPath())
}

// LoadConfigFrom loads a configuration file at path.
func LoadConfigFrom(path string) (*Config, error) {
	config := Defaults()

	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return config, nil
	}

	if err := LoadTOML(path, config); err != nil {
		return nil, fmt.Errorf("%w: failed to load %s: %v", kerrors.ErrInvalidConfig, path, err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// SaveConfig writes cfg to the user config file.
func SaveConfig(cfg *Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := SaveTOML(UserRsshSettings.ConfigPath(), cfg); err != nil {
		return fmt.Errorf("failed to save user config: %w", err)
	}
	return nil
}

// Validate checks values that would otherwise fail later at connect time.
func (c *Config) Validate() error {
	if c.DefaultUser == "" || strings.ContainsAny(c.DefaultUser, " \t\r\n") {
		return fmt.Errorf("%w: default_user %q", kerrors.ErrInvalidConfig, c.DefaultUser)
	}

	switch c.Executor {
	case ExecutorNative, ExecutorSSHPass:
	default:
		return fmt.Errorf("%w: executor must be %q or %q, got %q", kerrors.ErrInvalidConfig, ExecutorNative, ExecutorSSHPass, c.Executor)
	}

	if _, err := c.Timeout(); err != nil {
		return err
	}

	return nil
}

// Timeout parses connect_timeout.
func (c *Config) Timeout() (time.Duration, error) {
	d, err := time.ParseDuration(c.ConnectTimeout)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%w: connect_timeout %q is not a positive duration", kerrors.ErrInvalidConfig, c.ConnectTimeout)
	}
	return d, nil
}

// KnownHostsPath returns known_hosts with "~" expanded.
func (c *Config) KnownHostsPath() (string, error) {
	return utils.ExpandHome(c.KnownHosts)
}
