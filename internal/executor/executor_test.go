package executor

import (
	"errors"
	"testing"

	kerrors "github.com/PolarWolf314/rssh/internal/errors"
)

func TestParseTarget(t *testing.T) {
	tests := []struct {
		address  string
		wantHost string
		wantPort int
		wantErr  bool
	}{
		{"10.0.0.1", "10.0.0.1", 22, false},
		{"10.0.0.1:2222", "10.0.0.1", 2222, false},
		{"host.example.com", "host.example.com", 22, false},
		{"[::1]:2200", "::1", 2200, false},
		{"fe80::1", "fe80::1", 22, false},
		{"10.0.0.1:ssh", "", 0, true},
		{"10.0.0.1:70000", "", 0, true},
		{":22", "", 0, true},
	}

	for _, tc := range tests {
		t.Run(tc.address, func(t *testing.T) {
			host, port, err := ParseTarget(tc.address)
			if tc.wantErr {
				if !errors.Is(err, kerrors.ErrRemoteBadArguments) {
					t.Fatalf("expected ErrRemoteBadArguments, got %q %d %v", host, port, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if host != tc.wantHost || port != tc.wantPort {
				t.Errorf("ParseTarget(%q) = %q, %d; want %q, %d", tc.address, host, port, tc.wantHost, tc.wantPort)
			}
		})
	}
}

func TestFromExitCode(t *testing.T) {
	tests := []struct {
		code int
		want error
	}{
		{1, kerrors.ErrRemoteBadArguments},
		{2, kerrors.ErrRemoteConflictingArguments},
		{3, kerrors.ErrRemoteRuntime},
		{4, kerrors.ErrRemoteParse},
		{5, kerrors.ErrRemoteAuthFailed},
		{6, kerrors.ErrRemoteUnknownHostKey},
		{7, kerrors.ErrRemoteHostKeyChanged},
		{255, kerrors.ErrRemoteTimeout},
		{8, kerrors.ErrRemoteInternal},
		{-1, kerrors.ErrRemoteInternal},
	}

	if err := FromExitCode(0); err != nil {
		t.Errorf("FromExitCode(0) = %v, want nil", err)
	}
	for _, tc := range tests {
		if err := FromExitCode(tc.code); !errors.Is(err, tc.want) {
			t.Errorf("FromExitCode(%d) = %v, want %v", tc.code, err, tc.want)
		}
	}
}
