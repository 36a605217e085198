package cmd

import (
	"context"
	"fmt"

	"github.com/PolarWolf314/rssh/internal/ui"
	"github.com/PolarWolf314/rssh/internal/utils"
	"github.com/PolarWolf314/rssh/internal/workflows"
	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import <file|glob>...",
	Short: "Add credentials from text files",
	Long: `Reads "address user password" lines from files and stores them all with
a single save. Blank lines are skipped. If any line is malformed nothing is
stored and the file and line are reported.

Patterns support ** to match directories recursively; quote them so the
shell does not expand them first.

Examples:
  rssh import hosts.txt
  rssh import 'inventory/**/*.txt'`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting import command")

		opts, _, err := vaultOptions()
		if err != nil {
			return err
		}

		spinner, cleanup := startSpinner("Importing credentials...")
		defer cleanup()

		result, err := workflows.Import(context.Background(), workflows.ImportOptions{
			VaultOptions: opts,
			Patterns:     args,
		})
		if err != nil {
			return err
		}

		msg := ui.Done(fmt.Sprintf("Imported %d credential(s) from %d file(s)", result.Count, len(result.Files)))
		if verbose || debug {
			msg += "\n" + utils.FormatPaths(result.Files)
		}
		msg += fmt.Sprintf("\n  %d host(s) added, %d user(s) added, %d updated, %d unchanged",
			result.HostsAdded, result.UsersAdded, result.Updated, result.Unchanged)
		spinner.FinalMSG = msg
		return nil
	},
}
