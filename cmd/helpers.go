package cmd

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/PolarWolf314/rssh/internal/audit"
	"github.com/PolarWolf314/rssh/internal/configs"
	kerrors "github.com/PolarWolf314/rssh/internal/errors"
	"github.com/PolarWolf314/rssh/internal/executor"
	"github.com/PolarWolf314/rssh/internal/gatekeeper"
	"github.com/PolarWolf314/rssh/internal/ui"
	"github.com/PolarWolf314/rssh/internal/utils"
	"github.com/PolarWolf314/rssh/internal/workflows"
	"github.com/briandowns/spinner"
)

// executorFactory builds the remote executor. Tests replace it.
var executorFactory = newExecutor

// activeSpinner is stopped before anything reads from the terminal.
var activeSpinner *spinner.Spinner

// startSpinner creates and starts a spinner with the given message when not in verbose or debug mode.
// Returns the spinner and a function that should be deferred to clean up.
//
// spinner.FinalMSG values do NOT need trailing newlines. The cleanup function
// calls ui.EnsureNewline() on the final message before printing it.
func startSpinner(message string) (*spinner.Spinner, func()) {
	Logger.Debugf("Starting spinner with message: %s", message)
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.Suffix = " " + message

	if err := s.Color("cyan"); err != nil {
		Logger.Warnf("Failed to set spinner color: %v", err)
	}

	quiet := !verbose && !debug
	if quiet {
		s.Start()
		log.SetOutput(io.Discard)
		activeSpinner = s
	} else {
		Logger.Infof("Running in verbose or debug mode: %s", message)
	}

	cleanup := func() {
		if quiet {
			log.SetOutput(os.Stderr)
		}

		finalMsg := ""
		if s.FinalMSG != "" {
			finalMsg = ui.EnsureNewline(s.FinalMSG)
			// Clear FinalMSG so s.Stop() doesn't print it.
			s.FinalMSG = ""
		}

		pauseSpinner()

		if finalMsg != "" {
			fmt.Print(finalMsg)
		}
	}

	return s, cleanup
}

// pauseSpinner stops the running spinner, if any, so a prompt can use the terminal.
func pauseSpinner() {
	if activeSpinner != nil {
		activeSpinner.Stop()
		activeSpinner = nil
	}
}

// loadConfig reads config.toml, falling back to defaults when it is absent.
func loadConfig() (*configs.Config, error) {
	cfg, err := configs.LoadConfig()
	if err != nil {
		return nil, err
	}
	Logger.Debugf("Loaded config from %s", configs.UserRsshSettings.ConfigPath())
	return cfg, nil
}

// vaultOptions resolves the vault path and wires the gatekeeper and audit log.
func vaultOptions() (workflows.VaultOptions, *configs.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return workflows.VaultOptions{}, nil, err
	}

	path, err := configs.ResolveVaultPath(vaultPath, cfg)
	if err != nil {
		return workflows.VaultOptions{}, nil, err
	}
	Logger.Debugf("Using vault %s", path)

	opts := workflows.VaultOptions{
		Path:       path,
		Gatekeeper: newGatekeeper(path),
		Logger:     Logger,
	}
	if cfg.Audit {
		opts.AuditPath = audit.LogPath(path)
	}
	return opts, cfg, nil
}

// resolveOptions builds lookup options with the configured default user.
func resolveOptions(address, username string) (workflows.ResolveOptions, *configs.Config, error) {
	vopts, cfg, err := vaultOptions()
	if err != nil {
		return workflows.ResolveOptions{}, nil, err
	}
	return workflows.ResolveOptions{
		VaultOptions: vopts,
		Address:      address,
		Username:     username,
		DefaultUser:  cfg.DefaultUser,
	}, cfg, nil
}

// newGatekeeper tries RSSH_PASSPHRASE, the keyring, then a terminal prompt.
func newGatekeeper(path string) *gatekeeper.Gatekeeper {
	sources := []gatekeeper.Source{
		gatekeeper.EnvSource{Var: gatekeeper.EnvPassphrase},
		gatekeeper.KeyringSource{VaultPath: path},
	}
	if utils.IsTerminal() {
		sources = append(sources, gatekeeper.PromptSource{Read: func(prompt string) ([]byte, error) {
			pauseSpinner()
			return utils.ReadPassphrase(prompt)
		}})
	}
	return &gatekeeper.Gatekeeper{Sources: sources}
}

func newExecutor(cfg *configs.Config) (executor.Executor, error) {
	if cfg.Executor == configs.ExecutorSSHPass {
		Logger.Debugf("Using sshpass executor")
		return executor.NewSSHPassExecutor(cfg.AcceptNewHostKeys), nil
	}

	timeout, err := cfg.Timeout()
	if err != nil {
		return nil, err
	}
	knownHosts, err := cfg.KnownHostsPath()
	if err != nil {
		return nil, err
	}
	Logger.Debugf("Using native executor with %s", knownHosts)
	return executor.NewSSHExecutor(knownHosts, cfg.AcceptNewHostKeys, timeout), nil
}

// readNewPassphrase asks twice on a terminal. Otherwise the first line of
// standard input is used, so scripts can pipe it in.
func readNewPassphrase() (string, error) {
	if utils.IsTerminal() {
		pauseSpinner()
		p, err := utils.ReadPassphraseConfirm()
		if err != nil {
			return "", err
		}
		defer utils.ClearBytes(p)
		return string(p), nil
	}

	line, err := utils.ReadLine(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("%w: %v", kerrors.ErrPromptFailed, err)
	}
	if line == "" {
		return "", fmt.Errorf("%w: empty passphrase", kerrors.ErrPassphraseRequired)
	}
	return line, nil
}
