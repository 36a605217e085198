package configs

import (
	"os"
	"path/filepath"

	"github.com/PolarWolf314/rssh/internal/utils"
)

// EnvVault overrides the configured vault path.
const EnvVault = "RSSH_VAULT"

// UserSettings holds the per-user locations rssh reads and writes.
type UserSettings struct {
	ConfigDir string
	DataDir   string
}

// UserRsshSettings is initialized at startup. Tests may point it elsewhere.
var UserRsshSettings *UserSettings

func init() {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}

	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = filepath.Join(homeDir, ".config")
	}

	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		dataDir = filepath.Join(homeDir, ".local", "share")
	}

	UserRsshSettings = &UserSettings{
		ConfigDir: filepath.Join(configDir, "rssh"),
		DataDir:   filepath.Join(dataDir, "rssh"),
	}
}

// ConfigPath returns the location of config.toml.
func (s *UserSettings) ConfigPath() string {
	return filepath.Join(s.ConfigDir, "config.toml")
}

// DefaultVaultPath returns the vault location used when nothing else is configured.
func (s *UserSettings) DefaultVaultPath() string {
	return filepath.Join(s.DataDir, "vault")
}

// ResolveVaultPath picks the vault path: the --vault flag, then RSSH_VAULT,
// then vault_path from config, then the default location.
func ResolveVaultPath(flagValue string, cfg *Config) (string, error) {
	path := flagValue
	if path == "" {
		path = os.Getenv(EnvVault)
	}
	if path == "" && cfg != nil {
		path = cfg.VaultPath
	}
	if path == "" {
		return UserRsshSettings.DefaultVaultPath(), nil
	}
	return utils.ExpandHome(path)
}
