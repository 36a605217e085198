package cmd

import (
	"context"

	"github.com/PolarWolf314/rssh/internal/ui"
	"github.com/PolarWolf314/rssh/internal/workflows"
	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:     "delete <address> <user>",
	Aliases: []string{"rm"},
	Short:   "Remove a stored password",
	Long: `Removes the password for a user on a host. The address is matched
exactly. A host without users left is removed as well.

Examples:
  rssh delete 192.168.1.5 root`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting delete command")

		opts, _, err := vaultOptions()
		if err != nil {
			return err
		}

		spinner, cleanup := startSpinner("Removing credential...")
		defer cleanup()

		result, err := workflows.Delete(context.Background(), workflows.DeleteOptions{
			VaultOptions: opts,
			Address:      args[0],
			Username:     args[1],
		})
		if err != nil {
			return err
		}

		identity := ui.Highlight.Sprint(args[1] + "@" + args[0])
		switch {
		case !result.Removed:
			spinner.FinalMSG = ui.Warning.Sprint("⚠") + " No credential stored for " + identity
		case result.HostRemoved:
			spinner.FinalMSG = ui.Done("Removed " + identity + " and its host")
		default:
			spinner.FinalMSG = ui.Done("Removed " + identity)
		}
		return nil
	},
}
