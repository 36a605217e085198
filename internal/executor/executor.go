package executor

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"

	kerrors "github.com/PolarWolf314/rssh/internal/errors"
)

// DefaultPort is used when a stored address has no port.
const DefaultPort = 22

// Target is a resolved credential plus what to run on the remote host.
type Target struct {
	User     string
	Host     string
	Port     int
	Password string

	// Command is run non-interactively. Empty opens an interactive shell.
	Command string
}

// Executor connects to a remote host with a password.
type Executor interface {
	Run(ctx context.Context, t Target) error
}

// ParseTarget splits a stored address of the form "host", "host:port" or
// "[v6]:port". A bare IPv6 address is returned as the host.
func ParseTarget(address string) (host string, port int, err error) {
	h, p, err := net.SplitHostPort(address)
	if err != nil {
		var addrErr *net.AddrError
		if errors.As(err, &addrErr) && (strings.Contains(addrErr.Err, "missing port") || strings.Contains(addrErr.Err, "too many colons")) {
			return strings.Trim(address, "[]"), DefaultPort, nil
		}
		return "", 0, fmt.Errorf("%w: %v", kerrors.ErrRemoteBadArguments, err)
	}

	port, err = strconv.Atoi(p)
	if err != nil || port < 1 || port > 65535 {
		return "", 0, fmt.Errorf("%w: invalid port %q in %q", kerrors.ErrRemoteBadArguments, p, address)
	}
	if h == "" {
		return "", 0, fmt.Errorf("%w: missing host in %q", kerrors.ErrRemoteBadArguments, address)
	}

	return h, port, nil
}

// FromExitCode maps an sshpass exit status to a remote error kind. Zero maps to nil.
func FromExitCode(code int) error {
	switch code {
	case 0:
		return nil
	case 1:
		return kerrors.ErrRemoteBadArguments
	case 2:
		return kerrors.ErrRemoteConflictingArguments
	case 3:
		return kerrors.ErrRemoteRuntime
	case 4:
		return kerrors.ErrRemoteParse
	case 5:
		return kerrors.ErrRemoteAuthFailed
	case 6:
		return kerrors.ErrRemoteUnknownHostKey
	case 7:
		return kerrors.ErrRemoteHostKeyChanged
	case 255:
		return kerrors.ErrRemoteTimeout
	default:
		return fmt.Errorf("%w: exit status %d", kerrors.ErrRemoteInternal, code)
	}
}
