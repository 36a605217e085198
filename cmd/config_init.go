package cmd

import (
	"fmt"

	"github.com/PolarWolf314/rssh/internal/configs"
	"github.com/PolarWolf314/rssh/internal/ui"
	"github.com/PolarWolf314/rssh/internal/utils"
	"github.com/spf13/cobra"
)

var configInitForce bool

func init() {
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "overwrite an existing config file")
}

// resetConfigInitState resets the config init command's global state for testing.
func resetConfigInitState() {
	configInitForce = false
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with the default settings",
	Long: `Creates config.toml in your user config directory with every setting at
its default value, ready to edit. An existing file is kept unless --force
is given.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting config init command")

		path := configs.UserRsshSettings.ConfigPath()
		if utils.FileExists(path) && !configInitForce {
			fmt.Println(ui.Warning.Sprint("⚠") + " Config already exists at " + ui.Path.Sprint(path))
			fmt.Println(ui.Info.Sprint("→") + " Use " + ui.Flag.Sprint("--force") + " to overwrite it")
			return nil
		}

		if err := configs.SaveConfig(configs.Defaults()); err != nil {
			return Logger.ErrorfAndReturn("Failed to write config: %w", err)
		}

		fmt.Println(ui.Done("Wrote default config to " + ui.Path.Sprint(path)))
		return nil
	},
}
