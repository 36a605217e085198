// Package configs manages the rssh user configuration.
//
// Configuration is stored in TOML at <UserConfigDir>/rssh/config.toml:
//
//	vault_path = "~/.local/share/rssh/vault"
//	default_user = "root"
//	executor = "native"            # or "sshpass"
//	known_hosts = "~/.ssh/known_hosts"
//	accept_new_host_keys = false
//	connect_timeout = "10s"
//	audit = true
//
// A missing file or missing key falls back to Defaults. The vault path is
// resolved by ResolveVaultPath: --vault flag, RSSH_VAULT, vault_path, then
// <XDG_DATA_HOME or ~/.local/share>/rssh/vault.
//
// UserRsshSettings is initialized at startup with the config and data
// directories.
package configs
