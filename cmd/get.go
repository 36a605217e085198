package cmd

import (
	"context"
	"fmt"

	"github.com/PolarWolf314/rssh/internal/ui"
	"github.com/PolarWolf314/rssh/internal/workflows"
	"github.com/spf13/cobra"
)

var getPorcelain bool

func init() {
	getCmd.Flags().BoolVar(&getPorcelain, "porcelain", false, "print \"user address password\" on one line")
}

// resetGetCommandState resets the get command's global state for testing.
func resetGetCommandState() {
	getPorcelain = false
}

var getCmd = &cobra.Command{
	Use:   "get <address> [user]",
	Short: "Print a stored password",
	Long: `Resolves a credential the same way login does and prints its password.
Revealing a password always asks for the vault passphrase.

Examples:
  rssh get 192.168.1.5
  rssh get 1.5 deploy
  rssh get 192.168.1.5 root --porcelain`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting get command")

		opts, _, err := resolveOptions(args[0], optionalArg(args, 1))
		if err != nil {
			return err
		}

		result, err := workflows.Get(context.Background(), opts)
		if err != nil {
			return err
		}

		c := result.Credential
		if getPorcelain {
			fmt.Printf("%s %s %s\n", c.Username, c.Host, c.Password)
			return nil
		}
		fmt.Println(ui.Highlight.Sprint(c.Username + "@" + c.Host))
		fmt.Println(c.Password)
		return nil
	},
}
