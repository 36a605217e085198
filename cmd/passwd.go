package cmd

import (
	"context"
	"fmt"

	"github.com/PolarWolf314/rssh/internal/ui"
	"github.com/PolarWolf314/rssh/internal/vault"
	"github.com/PolarWolf314/rssh/internal/workflows"
	"github.com/spf13/cobra"
)

// keepPolicy is the --policy default meaning "leave it as it is".
const keepPolicy = -1

var passwdPolicy = keepPolicy

func init() {
	passwdCmd.Flags().IntVar(&passwdPolicy, "policy", keepPolicy, "new policy level (0 or 1); unchanged when omitted")
}

// resetPasswdCommandState resets the passwd command's global state for testing.
func resetPasswdCommandState() {
	passwdPolicy = keepPolicy
}

var passwdCmd = &cobra.Command{
	Use:   "passwd",
	Short: "Change the vault passphrase or policy",
	Long: `Replaces the vault passphrase after checking the current one. A
passphrase cached with "rssh keyring save" is updated too.

Examples:
  rssh passwd
  rssh passwd --policy 1`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting passwd command")

		opts := workflows.ChangeGatekeeperOptions{KeepPolicy: passwdPolicy == keepPolicy}
		if !opts.KeepPolicy {
			policy, err := vault.ParsePolicy(passwdPolicy)
			if err != nil {
				return err
			}
			opts.Policy = policy
		}

		vopts, _, err := vaultOptions()
		if err != nil {
			return err
		}
		opts.VaultOptions = vopts

		opts.ReadPassphrase = readNewPassphrase

		spinner, cleanup := startSpinner("Changing passphrase...")
		defer cleanup()

		result, err := workflows.ChangeGatekeeper(context.Background(), opts)
		if err != nil {
			return err
		}

		msg := ui.Done(fmt.Sprintf("Passphrase changed, policy %d", result.Policy))
		if result.KeyringUpdated {
			msg += "\n" + ui.Info.Sprint("→") + " Keyring entry updated"
		}
		spinner.FinalMSG = msg
		return nil
	},
}
