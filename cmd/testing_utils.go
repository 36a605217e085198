// Package cmd contains testing utilities shared between command tests.
// This file provides common functions for setting up an isolated vault and
// config directory, feeding standard input and capturing output.
package cmd

import (
	"bytes"
	"context"
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/PolarWolf314/rssh/internal/configs"
	"github.com/PolarWolf314/rssh/internal/executor"
	"github.com/PolarWolf314/rssh/internal/gatekeeper"
)

// setupTestEnvironment points rssh at temporary config and data directories
// and returns the vault path. The vault passphrase is taken from the
// environment, as a script would supply it.
func setupTestEnvironment(t *testing.T, passphrase string) string {
	t.Helper()

	tempUserDir := t.TempDir()
	originalUserSettings := configs.UserRsshSettings
	configs.UserRsshSettings = &configs.UserSettings{
		ConfigDir: filepath.Join(tempUserDir, "config"),
		DataDir:   filepath.Join(tempUserDir, "data"),
	}

	t.Setenv("NO_COLOR", "1")
	t.Setenv(configs.EnvVault, "")
	t.Setenv(gatekeeper.EnvPassphrase, passphrase)

	ResetGlobalState()
	t.Cleanup(func() {
		configs.UserRsshSettings = originalUserSettings
		ResetGlobalState()
	})

	return configs.UserRsshSettings.DefaultVaultPath()
}

// withStdin replaces os.Stdin with a pipe holding input for the rest of the test.
func withStdin(t *testing.T, input string) {
	t.Helper()

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("Failed to create stdin pipe: %v", err)
	}
	if _, err := io.WriteString(w, input); err != nil {
		t.Fatalf("Failed to write stdin: %v", err)
	}
	w.Close()

	original := os.Stdin
	os.Stdin = r
	t.Cleanup(func() {
		os.Stdin = original
		r.Close()
	})
}

// captureOutput captures both stdout and stderr during function execution.
func captureOutput(fn func() error) (string, error) {
	originalStdout := os.Stdout
	originalStderr := os.Stderr

	stdoutReader, stdoutWriter, _ := os.Pipe()
	stderrReader, stderrWriter, _ := os.Pipe()

	os.Stdout = stdoutWriter
	os.Stderr = stderrWriter

	stdoutChan := make(chan string, 1)
	stderrChan := make(chan string, 1)

	go func() {
		var buf bytes.Buffer
		if _, err := io.Copy(&buf, stdoutReader); err != nil {
			log.Fatalf("Failed to run copy command: %s", err)
		}
		stdoutChan <- buf.String()
	}()

	go func() {
		var buf bytes.Buffer
		if _, err := io.Copy(&buf, stderrReader); err != nil {
			log.Fatalf("Failed to run copy command: %s", err)
		}
		stderrChan <- buf.String()
	}()

	err := fn()

	stdoutWriter.Close()
	stderrWriter.Close()

	os.Stdout = originalStdout
	os.Stderr = originalStderr

	return <-stdoutChan + <-stderrChan, err
}

// runCLI executes the root command with args and returns everything printed.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return captureOutput(func() error {
		resetCommandFlags()
		RootCmd.SetArgs(args)
		return RootCmd.Execute()
	})
}

// resetCommandFlags clears flag values between runs in the same test.
func resetCommandFlags() {
	vaultPath = ""
	verbose = false
	debug = false
	resetInitCommandState()
	resetGetCommandState()
	resetPasswdCommandState()
	resetLogCommandState()
	resetConfigInitState()
	doctorJSONOutput = false
	resetCobraFlagState(RootCmd)
}

// recordingExecutor records targets instead of connecting.
type recordingExecutor struct {
	targets []executor.Target
	err     error
}

func (e *recordingExecutor) Run(_ context.Context, t executor.Target) error {
	e.targets = append(e.targets, t)
	return e.err
}

// useExecutor makes login and run hand credentials to e.
func useExecutor(e executor.Executor) {
	executorFactory = func(*configs.Config) (executor.Executor, error) { return e, nil }
}
