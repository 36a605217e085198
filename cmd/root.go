package cmd

import (
	"context"
	"fmt"
	"os"

	logger "github.com/PolarWolf314/rssh/internal/logging"
	"github.com/PolarWolf314/rssh/internal/workflows"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	vaultPath string
	verbose   bool
	debug     bool
	Logger    logger.Logger

	RootCmd = &cobra.Command{
		Use:   "rssh [address] [user]",
		Short: "Log in to hosts with passwords kept in a local vault",
		Long: `rssh keeps SSH passwords for many hosts in one encrypted vault file and
logs in with them.

The address may be a fragment of a stored address. When several stored
hosts contain it, rssh asks which one to use and remembers the answer.
The user defaults to default_user from config.toml (root).

Examples:
  rssh init
  rssh set 192.168.1.5 root hunter2
  rssh 192.168.1.5          # log in as root
  rssh 1.5 deploy           # fuzzy address, explicit user
  rssh run 192.168.1.5 root uptime`,
		Args:          cobra.RangeArgs(0, 2),
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			Logger = logger.Logger{
				Verbose: verbose,
				Debug:   debug,
			}
			Logger.Debugf("Initializing rssh with verbose=%t, debug=%t", verbose, debug)
		},
		RunE: runLogin,
	}
)

func init() {
	RootCmd.PersistentFlags().StringVarP(&vaultPath, "vault", "f", "", "vault file (default: $RSSH_VAULT, config vault_path, or ~/.local/share/rssh/vault)")
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	RootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug output")

	RootCmd.AddCommand(initCmd)
	RootCmd.AddCommand(setCmd)
	RootCmd.AddCommand(getCmd)
	RootCmd.AddCommand(runCmd)
	RootCmd.AddCommand(deleteCmd)
	RootCmd.AddCommand(importCmd)
	RootCmd.AddCommand(exportCmd)
	RootCmd.AddCommand(usersCmd)
	RootCmd.AddCommand(passwdCmd)
	RootCmd.AddCommand(keyringCmd)
	RootCmd.AddCommand(logCmd)
	RootCmd.AddCommand(ConfigCmd)
	RootCmd.AddCommand(doctorCmd)
}

// Execute runs the command line and returns the process exit code.
func Execute() int {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, formatError(err))
		return 1
	}
	return 0
}

func runLogin(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return cmd.Help()
	}

	opts, err := connectOptions(args[0], optionalArg(args, 1), "")
	if err != nil {
		return err
	}

	Logger.Infof("Starting login to %s", args[0])
	result, err := workflows.Connect(context.Background(), opts)
	if err != nil {
		return err
	}
	Logger.Infof("Session with %s@%s closed", result.Username, result.Host)
	return nil
}

// connectOptions builds the options shared by login and run.
func connectOptions(address, username, command string) (workflows.ConnectOptions, error) {
	resolve, cfg, err := resolveOptions(address, username)
	if err != nil {
		return workflows.ConnectOptions{}, err
	}

	exec, err := executorFactory(cfg)
	if err != nil {
		return workflows.ConnectOptions{}, err
	}

	return workflows.ConnectOptions{
		ResolveOptions: resolve,
		Command:        command,
		Executor:       exec,
	}, nil
}

func optionalArg(args []string, i int) string {
	if len(args) > i {
		return args[i]
	}
	return ""
}

// GetRootCmd returns the RootCmd for testing.
func GetRootCmd() *cobra.Command {
	return RootCmd
}

// ResetGlobalState resets all global variables to their default values for testing.
func ResetGlobalState() {
	vaultPath = ""
	verbose = false
	debug = false
	Logger = logger.Logger{}
	executorFactory = newExecutor
	resetInitCommandState()
	resetGetCommandState()
	resetPasswdCommandState()
	resetLogCommandState()
	resetDoctorCommandState()
	resetConfigInitState()
	resetCobraFlagState(RootCmd)
}

// resetCobraFlagState clears the Changed mark on every flag of c and its
// subcommands to prevent test pollution.
func resetCobraFlagState(c *cobra.Command) {
	unset := func(flag *pflag.Flag) { flag.Changed = false }
	c.Flags().VisitAll(unset)
	c.PersistentFlags().VisitAll(unset)
	for _, sub := range c.Commands() {
		resetCobraFlagState(sub)
	}
}
