package cmd

import (
	"context"
	"fmt"

	kerrors "github.com/PolarWolf314/rssh/internal/errors"
	"github.com/PolarWolf314/rssh/internal/gatekeeper"
	"github.com/PolarWolf314/rssh/internal/ui"
	"github.com/PolarWolf314/rssh/internal/utils"
	"github.com/PolarWolf314/rssh/internal/workflows"
	"github.com/spf13/cobra"
)

func init() {
	keyringCmd.AddCommand(keyringSaveCmd)
	keyringCmd.AddCommand(keyringForgetCmd)
	keyringCmd.AddCommand(keyringStatusCmd)
}

var keyringCmd = &cobra.Command{
	Use:   "keyring",
	Short: "Cache the vault passphrase in the OS keyring",
	Long: `Stores the vault passphrase in the operating system keyring (Keychain,
Secret Service or Windows Credential Manager) so rssh does not ask for it.
The entry belongs to one vault path.

The passphrase sources are tried in order: $RSSH_PASSPHRASE, the keyring,
then a terminal prompt.`,
}

var keyringSaveCmd = &cobra.Command{
	Use:   "save",
	Short: "Check the passphrase and cache it",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting keyring save command")

		opts, _, err := vaultOptions()
		if err != nil {
			return err
		}

		passphrase, err := (gatekeeper.EnvSource{Var: gatekeeper.EnvPassphrase}).Passphrase()
		if err != nil {
			if !utils.IsTerminal() {
				return fmt.Errorf("%w: set %s or run in a terminal", kerrors.ErrPassphraseRequired, gatekeeper.EnvPassphrase)
			}
			p, err := utils.ReadPassphrase("Passphrase: ")
			if err != nil {
				return err
			}
			defer utils.ClearBytes(p)
			passphrase = string(p)
		}

		if err := workflows.KeyringSave(context.Background(), workflows.KeyringSaveOptions{VaultOptions: opts, Passphrase: passphrase}); err != nil {
			return err
		}
		fmt.Println(ui.Done("Passphrase cached for " + ui.Path.Sprint(opts.Path)))
		return nil
	},
}

var keyringForgetCmd = &cobra.Command{
	Use:   "forget",
	Short: "Remove the cached passphrase",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting keyring forget command")

		opts, _, err := vaultOptions()
		if err != nil {
			return err
		}
		if err := workflows.KeyringForget(context.Background(), opts); err != nil {
			return err
		}
		fmt.Println(ui.Done("No passphrase cached for " + ui.Path.Sprint(opts.Path)))
		return nil
	},
}

var keyringStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether a passphrase is cached",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, _, err := vaultOptions()
		if err != nil {
			return err
		}
		cached, err := workflows.KeyringStatus(context.Background(), opts)
		if err != nil {
			return err
		}
		if cached {
			fmt.Println(ui.Done("Passphrase cached for " + ui.Path.Sprint(opts.Path)))
		} else {
			fmt.Println(ui.Info.Sprint("→") + " No passphrase cached for " + ui.Path.Sprint(opts.Path))
		}
		return nil
	},
}
