package cmd

import (
	"fmt"

	"github.com/PolarWolf314/rssh/internal/configs"
	"github.com/PolarWolf314/rssh/internal/ui"
	"github.com/PolarWolf314/rssh/internal/utils"
	"github.com/spf13/cobra"
)

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective settings",
	Long: `Prints every setting after applying config.toml, $RSSH_VAULT and
--vault, and where each file lives.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		vault, err := configs.ResolveVaultPath(vaultPath, cfg)
		if err != nil {
			return err
		}

		path := configs.UserRsshSettings.ConfigPath()
		source := ui.Muted.Sprint("not created, using defaults")
		if utils.FileExists(path) {
			source = ui.Path.Sprint(path)
		}

		fmt.Println("Config file: " + source)
		fmt.Println()
		fmt.Printf("  vault                 %s\n", ui.Path.Sprint(vault))
		fmt.Printf("  default_user          %s\n", ui.Highlight.Sprint(cfg.DefaultUser))
		fmt.Printf("  executor              %s\n", cfg.Executor)
		fmt.Printf("  known_hosts           %s\n", ui.Path.Sprint(cfg.KnownHosts))
		fmt.Printf("  accept_new_host_keys  %t\n", cfg.AcceptNewHostKeys)
		fmt.Printf("  connect_timeout       %s\n", cfg.ConnectTimeout)
		fmt.Printf("  audit                 %t\n", cfg.Audit)
		return nil
	},
}
