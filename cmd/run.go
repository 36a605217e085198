package cmd

import (
	"context"
	"strings"

	"github.com/PolarWolf314/rssh/internal/workflows"
	"github.com/spf13/cobra"
)

func init() {
	// Flags after the address belong to the remote command.
	runCmd.Flags().SetInterspersed(false)
}

var runCmd = &cobra.Command{
	Use:   "run <address> <user> <command>...",
	Short: "Run a command on a host",
	Long: `Resolves a credential and runs a command on the host without opening an
interactive shell. Output of the remote command is passed through. A
non-zero remote exit status makes rssh fail.

Examples:
  rssh run 192.168.1.5 root uptime
  rssh run 1.5 deploy ls -la /var/log`,
	Args: cobra.MinimumNArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting run command")

		command := strings.Join(args[2:], " ")
		opts, err := connectOptions(args[0], args[1], command)
		if err != nil {
			return err
		}

		result, err := workflows.Connect(context.Background(), opts)
		if err != nil {
			return err
		}
		Logger.Infof("Command finished on %s@%s", result.Username, result.Host)
		return nil
	},
}
