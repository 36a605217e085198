package cmd

import (
	"context"
	"fmt"

	"github.com/PolarWolf314/rssh/internal/workflows"
	"github.com/spf13/cobra"
)

var usersCmd = &cobra.Command{
	Use:   "users <address>",
	Short: "List the users stored for a host",
	Long: `Prints one user per line for the host with exactly this address.
Prints nothing when the host is not stored.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting users command")

		opts, _, err := vaultOptions()
		if err != nil {
			return err
		}

		result, err := workflows.ListUsers(context.Background(), workflows.UsersOptions{
			VaultOptions: opts,
			Address:      args[0],
		})
		if err != nil {
			return err
		}

		for _, u := range result.Usernames {
			fmt.Fprintln(cmd.OutOrStdout(), u)
		}
		return nil
	},
}
