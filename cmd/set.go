package cmd

import (
	"context"

	"github.com/PolarWolf314/rssh/internal/ui"
	"github.com/PolarWolf314/rssh/internal/vault"
	"github.com/PolarWolf314/rssh/internal/workflows"
	"github.com/spf13/cobra"
)

var setCmd = &cobra.Command{
	Use:     "set <address> <user> <password>",
	Aliases: []string{"add"},
	Short:   "Store or update a password",
	Long: `Stores the password for a user on a host, adding the host or user when
they are new. The address is matched exactly.

Examples:
  rssh set 192.168.1.5 root hunter2
  rssh set db.internal:2222 postgres s3cret`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting set command")

		opts, _, err := vaultOptions()
		if err != nil {
			return err
		}

		spinner, cleanup := startSpinner("Saving credential...")
		defer cleanup()

		result, err := workflows.Upsert(context.Background(), workflows.UpsertOptions{
			VaultOptions: opts,
			Address:      args[0],
			Username:     args[1],
			Password:     args[2],
		})
		if err != nil {
			return err
		}

		identity := ui.Highlight.Sprint(args[1] + "@" + args[0])
		switch result.Change {
		case vault.HostAdded:
			spinner.FinalMSG = ui.Done("Added host with " + identity)
		case vault.UserAdded:
			spinner.FinalMSG = ui.Done("Added " + identity)
		case vault.PasswordUpdated:
			spinner.FinalMSG = ui.Done("Updated password for " + identity)
		default:
			spinner.FinalMSG = ui.Done("Password for " + identity + " unchanged")
		}
		return nil
	},
}
