package cmd

import (
	"context"
	"fmt"

	"github.com/PolarWolf314/rssh/internal/ui"
	"github.com/PolarWolf314/rssh/internal/vault"
	"github.com/PolarWolf314/rssh/internal/workflows"
	"github.com/spf13/cobra"
)

var initPolicy int

func init() {
	initCmd.Flags().IntVar(&initPolicy, "policy", 0, "0: passphrase guards changes and reveals, 1: passphrase guards every use")
}

// resetInitCommandState resets the init command's global state for testing.
func resetInitCommandState() {
	initPolicy = 0
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create an empty vault",
	Long: `Creates an empty vault protected by a new passphrase.

An existing vault at the same path is replaced without asking for its
passphrase. The new passphrase is read twice from the terminal, or once
from standard input when it is not a terminal.

Examples:
  rssh init
  rssh init --policy 1
  echo "$PASS" | rssh init --vault ./team.vault`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting init command")

		policy, err := vault.ParsePolicy(initPolicy)
		if err != nil {
			return err
		}

		opts, _, err := vaultOptions()
		if err != nil {
			return err
		}

		passphrase, err := readNewPassphrase()
		if err != nil {
			return err
		}

		spinner, cleanup := startSpinner("Creating vault...")
		defer cleanup()

		result, err := workflows.Init(context.Background(), workflows.InitOptions{
			VaultOptions: opts,
			Passphrase:   passphrase,
			Policy:       policy,
		})
		if err != nil {
			return err
		}

		msg := ui.Done("Created vault at " + ui.Path.Sprint(result.Path))
		if result.Replaced {
			msg = ui.Done("Replaced vault at " + ui.Path.Sprint(result.Path))
		}
		spinner.FinalMSG = msg + "\n" + ui.Info.Sprint("→") + fmt.Sprintf(" Policy %d: %s", policy, policyDescription(policy))
		return nil
	},
}

func policyDescription(p vault.Policy) string {
	if p == vault.PolicyAll {
		return "every operation asks for the passphrase"
	}
	return "logins and user listings do not ask for the passphrase"
}
