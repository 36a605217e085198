package executor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"

	kerrors "github.com/PolarWolf314/rssh/internal/errors"
)

// SSHPassExecutor delegates to the sshpass and ssh binaries. The password is
// passed through the SSHPASS environment variable, never on the command line.
type SSHPassExecutor struct {
	// Binary defaults to "sshpass".
	Binary    string
	AcceptNew bool

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// NewSSHPassExecutor returns an SSHPassExecutor attached to the process's standard streams.
func NewSSHPassExecutor(acceptNew bool) *SSHPassExecutor {
	return &SSHPassExecutor{
		Binary:    "sshpass",
		AcceptNew: acceptNew,
		Stdin:     os.Stdin,
		Stdout:    os.Stdout,
		Stderr:    os.Stderr,
	}
}

// Args returns the argument list passed to the sshpass binary for t.
func (e *SSHPassExecutor) Args(t Target) []string {
	args := []string{"-e", "ssh"}
	if t.Port != 0 && t.Port != DefaultPort {
		args = append(args, "-p", strconv.Itoa(t.Port))
	}
	if e.AcceptNew {
		args = append(args, "-o", "StrictHostKeyChecking=accept-new")
	}
	args = append(args, t.User+"@"+t.Host)
	if t.Command != "" {
		args = append(args, t.Command)
	}
	return args
}

// Run implements Executor.
func (e *SSHPassExecutor) Run(ctx context.Context, t Target) error {
	binary := e.Binary
	if binary == "" {
		binary = "sshpass"
	}

	cmd := exec.CommandContext(ctx, binary, e.Args(t)...)
	cmd.Env = append(os.Environ(), "SSHPASS="+t.Password)
	cmd.Stdin = e.Stdin
	cmd.Stdout = e.Stdout
	cmd.Stderr = e.Stderr

	err := cmd.Run()
	if err == nil {
		return nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if mapped := FromExitCode(exitErr.ExitCode()); mapped != nil {
			return fmt.Errorf("%w (%s@%s)", mapped, t.User, t.Host)
		}
		return nil
	}

	return fmt.Errorf("%w: failed to run %s: %v", kerrors.ErrRemoteInternal, binary, err)
}
