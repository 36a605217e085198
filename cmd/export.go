package cmd

import (
	"context"
	"fmt"

	"github.com/PolarWolf314/rssh/internal/ui"
	"github.com/PolarWolf314/rssh/internal/workflows"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export <file|->",
	Short: "Write every credential as plain text",
	Long: `Writes one "address user password" line per stored credential, in the
format import reads. Use - to print to standard output. A file is replaced
atomically and created readable only by you.

The output contains every password in clear text.

Examples:
  rssh export backup.txt
  rssh export - | grep 192.168.1.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting export command")

		opts, _, err := vaultOptions()
		if err != nil {
			return err
		}

		exportOpts := workflows.ExportOptions{
			VaultOptions: opts,
			OutputPath:   args[0],
			Stdout:       cmd.OutOrStdout(),
		}

		if args[0] == workflows.StdoutPath {
			_, err := workflows.Export(context.Background(), exportOpts)
			return err
		}

		spinner, cleanup := startSpinner("Exporting credentials...")
		defer cleanup()

		result, err := workflows.Export(context.Background(), exportOpts)
		if err != nil {
			return err
		}

		spinner.FinalMSG = ui.Done(fmt.Sprintf("Exported %d credential(s) to %s", result.Count, ui.Path.Sprint(result.OutputPath))) +
			"\n" + ui.Warning.Sprint("⚠") + " The file contains passwords in clear text"
		return nil
	},
}
