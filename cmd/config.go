package cmd

import (
	"github.com/spf13/cobra"
)

// ConfigCmd is the top-level config command.
var ConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage rssh configuration",
	Long: `Provides commands for the user configuration file.

Settings:
  vault_path            vault file used when --vault and $RSSH_VAULT are unset
  default_user          user for logins that name none (root)
  executor              "native" (built-in SSH client) or "sshpass"
  known_hosts           known_hosts file for the native executor
  accept_new_host_keys  trust and record keys of hosts seen for the first time
  connect_timeout       dial timeout, e.g. "10s"
  audit                 keep an audit log next to the vault

Examples:
  # Write a config file with the defaults
  rssh config init

  # Show the effective settings
  rssh config show`,
}

func init() {
	ConfigCmd.AddCommand(configInitCmd)
	ConfigCmd.AddCommand(configShowCmd)
}

// GetConfigCmd returns the ConfigCmd for testing.
func GetConfigCmd() *cobra.Command {
	return ConfigCmd
}
