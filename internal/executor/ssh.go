package executor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"
	"golang.org/x/term"

	kerrors "github.com/PolarWolf314/rssh/internal/errors"
)

// SSHExecutor runs commands with the native SSH client.
type SSHExecutor struct {
	// KnownHostsPath is read to verify host keys and appended to when AcceptNew is set.
	KnownHostsPath string
	AcceptNew      bool
	Timeout        time.Duration

	Stdin  *os.File
	Stdout io.Writer
	Stderr io.Writer
}

// NewSSHExecutor returns an SSHExecutor attached to the process's standard streams.
func NewSSHExecutor(knownHostsPath string, acceptNew bool, timeout time.Duration) *SSHExecutor {
	return &SSHExecutor{
		KnownHostsPath: knownHostsPath,
		AcceptNew:      acceptNew,
		Timeout:        timeout,
		Stdin:          os.Stdin,
		Stdout:         os.Stdout,
		Stderr:         os.Stderr,
	}
}

// Run implements Executor.
func (e *SSHExecutor) Run(ctx context.Context, t Target) error {
	client, err := e.connect(ctx, t)
	if err != nil {
		return err
	}
	defer client.Close()

	session, err := client.NewSession()
	if err != nil {
		return fmt.Errorf("%w: failed to create session: %v", kerrors.ErrRemoteInternal, err)
	}
	defer session.Close()

	session.Stdout = e.Stdout
	session.Stderr = e.Stderr

	if t.Command != "" {
		session.Stdin = e.Stdin
		return exitError(session.Run(t.Command))
	}

	return e.shell(session)
}

func (e *SSHExecutor) connect(ctx context.Context, t Target) (*ssh.Client, error) {
	var hostKeyErr error
	callback, err := e.hostKeyCallback(&hostKeyErr)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", kerrors.ErrRemoteInternal, err)
	}

	config := &ssh.ClientConfig{
		User: t.User,
		Auth: []ssh.AuthMethod{
			ssh.Password(t.Password),
			ssh.KeyboardInteractive(func(_, _ string, questions []string, _ []bool) ([]string, error) {
				answers := make([]string, len(questions))
				for i := range answers {
					answers[i] = t.Password
				}
				return answers, nil
			}),
		},
		HostKeyCallback: callback,
		Timeout:         e.Timeout,
	}

	port := t.Port
	if port == 0 {
		port = DefaultPort
	}
	addr := net.JoinHostPort(t.Host, strconv.Itoa(port))

	dialer := &net.Dialer{Timeout: e.Timeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		if isTimeout(err) {
			return nil, fmt.Errorf("%w: %s: %v", kerrors.ErrRemoteTimeout, addr, err)
		}
		return nil, fmt.Errorf("%w: failed to dial %s: %v", kerrors.ErrRemoteRuntime, addr, err)
	}

	if e.Timeout > 0 {
		conn.SetDeadline(time.Now().Add(e.Timeout))
	}

	sshConn, chans, reqs, err := ssh.NewClientConn(conn, addr, config)
	if err != nil {
		conn.Close()
		switch {
		case hostKeyErr != nil:
			return nil, hostKeyErr
		case strings.Contains(err.Error(), "unable to authenticate"):
			return nil, fmt.Errorf("%w: %s@%s", kerrors.ErrRemoteAuthFailed, t.User, addr)
		case isTimeout(err):
			return nil, fmt.Errorf("%w: %s: %v", kerrors.ErrRemoteTimeout, addr, err)
		default:
			return nil, fmt.Errorf("%w: handshake with %s: %v", kerrors.ErrRemoteRuntime, addr, err)
		}
	}
	conn.SetDeadline(time.Time{})

	return ssh.NewClient(sshConn, chans, reqs), nil
}

// hostKeyCallback verifies keys against KnownHostsPath. The classified
// failure is stored in *failure because the handshake error hides it.
func (e *SSHExecutor) hostKeyCallback(failure *error) (ssh.HostKeyCallback, error) {
	if err := ensureFile(e.KnownHostsPath); err != nil {
		return nil, err
	}

	check, err := knownhosts.New(e.KnownHostsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", e.KnownHostsPath, err)
	}

	return func(hostname string, remote net.Addr, key ssh.PublicKey) error {
		err := check(hostname, remote, key)

		var keyErr *knownhosts.KeyError
		if !errors.As(err, &keyErr) {
			return err
		}

		if len(keyErr.Want) > 0 {
			*failure = fmt.Errorf("%w: %s now presents %s", kerrors.ErrRemoteHostKeyChanged, hostname, ssh.FingerprintSHA256(key))
			return *failure
		}
		if !e.AcceptNew {
			*failure = fmt.Errorf("%w: %s (%s)", kerrors.ErrRemoteUnknownHostKey, hostname, ssh.FingerprintSHA256(key))
			return *failure
		}
		if err := appendKnownHost(e.KnownHostsPath, hostname, key); err != nil {
			*failure = fmt.Errorf("%w: %v", kerrors.ErrRemoteInternal, err)
			return *failure
		}
		return nil
	}, nil
}

func (e *SSHExecutor) shell(session *ssh.Session) error {
	fd := int(e.Stdin.Fd())
	session.Stdin = e.Stdin

	if term.IsTerminal(fd) {
		width, height, err := term.GetSize(fd)
		if err != nil {
			width, height = 80, 24
		}

		modes := ssh.TerminalModes{
			ssh.ECHO:          1,
			ssh.TTY_OP_ISPEED: 14400,
			ssh.TTY_OP_OSPEED: 14400,
		}
		termType := os.Getenv("TERM")
		if termType == "" {
			termType = "xterm-256color"
		}
		if err := session.RequestPty(termType, height, width, modes); err != nil {
			return fmt.Errorf("%w: failed to request pty: %v", kerrors.ErrRemoteRuntime, err)
		}

		state, err := term.MakeRaw(fd)
		if err != nil {
			return fmt.Errorf("%w: failed to set raw mode: %v", kerrors.ErrRemoteInternal, err)
		}
		defer term.Restore(fd, state)
	}

	if err := session.Shell(); err != nil {
		return fmt.Errorf("%w: failed to start shell: %v", kerrors.ErrRemoteRuntime, err)
	}
	return exitError(session.Wait())
}

func exitError(err error) error {
	if err == nil {
		return nil
	}

	var exitErr *ssh.ExitError
	if errors.As(err, &exitErr) {
		return fmt.Errorf("%w: exit status %d", kerrors.ErrRemoteRuntime, exitErr.ExitStatus())
	}

	var missing *ssh.ExitMissingError
	if errors.As(err, &missing) {
		return fmt.Errorf("%w: connection closed without exit status", kerrors.ErrRemoteRuntime)
	}

	return fmt.Errorf("%w: %v", kerrors.ErrRemoteRuntime, err)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func ensureFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDONLY, 0600)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	return f.Close()
}

func appendKnownHost(path, hostname string, key ssh.PublicKey) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	line := knownhosts.Line([]string{knownhosts.Normalize(hostname)}, key)
	if _, err := fmt.Fprintln(f, line); err != nil {
		return fmt.Errorf("failed to append to %s: %w", path, err)
	}
	return nil
}
