package workflows

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"

	"github.com/PolarWolf314/rssh/internal/configs"
	kerrors "github.com/PolarWolf314/rssh/internal/errors"
	"github.com/PolarWolf314/rssh/internal/gatekeeper"
	"github.com/PolarWolf314/rssh/internal/keyring"
	"github.com/PolarWolf314/rssh/internal/vault"
)

// CheckStatus represents the result status of a health check.
type CheckStatus int

const (
	// CheckPass means the check passed.
	CheckPass CheckStatus = iota
	// CheckWarning means the check found a non-critical issue.
	CheckWarning
	// CheckError means the check found a critical issue.
	CheckError
)

// String returns a string representation of CheckStatus.
func (s CheckStatus) String() string {
	switch s {
	case CheckPass:
		return "pass"
	case CheckWarning:
		return "warning"
	case CheckError:
		return "error"
	default:
		return "unknown"
	}
}

// MarshalJSON implements json.Marshaler for CheckStatus.
func (s CheckStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// CheckResult holds the result of a single health check.
type CheckResult struct {
	Name       string      `json:"name"`
	Status     CheckStatus `json:"status"`
	Message    string      `json:"message"`
	Suggestion string      `json:"suggestion,omitempty"`
}

// DoctorResult holds the complete result of the doctor workflow.
type DoctorResult struct {
	Checks      []CheckResult `json:"checks"`
	Summary     DoctorSummary `json:"summary"`
	Suggestions []string      `json:"suggestions,omitempty"`
}

// DoctorSummary holds counts of checks by status.
type DoctorSummary struct {
	Passed   int `json:"passed"`
	Warnings int `json:"warnings"`
	Errors   int `json:"errors"`
}

// DoctorOptions configures the doctor workflow.
type DoctorOptions struct {
	VaultOptions

	// Config is the effective user configuration. Nil means defaults.
	Config *configs.Config
}

type doctorState struct {
	opts  DoctorOptions
	cfg   *configs.Config
	vault *vault.Vault
}

// Doctor runs health checks on the vault and its surroundings. It never
// asks for the passphrase and never writes the vault.
//
// The doctor workflow checks:
//
//   - Vault file presence and permissions
//   - Vault payload decoding
//   - Leftover staging files from an interrupted save
//   - Audit log permissions
//   - Remote executor prerequisites
//   - Keyring entry freshness
func Doctor(ctx context.Context, opts DoctorOptions) (*DoctorResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	st := &doctorState{opts: opts, cfg: opts.Config}
	if st.cfg == nil {
		st.cfg = configs.Defaults()
	}

	checks := []func() CheckResult{
		st.checkVaultFile,
		st.checkVaultPermissions,
		st.checkVaultDecodes,
		st.checkStagingFile,
		st.checkAuditLog,
		st.checkExecutor,
		st.checkKeyring,
	}

	var results []CheckResult
	for _, check := range checks {
		results = append(results, check())
	}

	var suggestions []string
	seen := make(map[string]bool)
	for _, result := range results {
		if result.Suggestion != "" && result.Status != CheckPass && !seen[result.Suggestion] {
			suggestions = append(suggestions, result.Suggestion)
			seen[result.Suggestion] = true
		}
	}

	return &DoctorResult{
		Checks:      results,
		Summary:     calculateDoctorSummary(results),
		Suggestions: suggestions,
	}, nil
}

func (st *doctorState) checkVaultFile() CheckResult {
	const name = "Vault file"
	info, err := os.Stat(st.opts.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return CheckResult{Name: name, Status: CheckError, Message: "No vault at " + st.opts.Path, Suggestion: "Run 'rssh init' to create a vault"}
	}
	if err != nil {
		return CheckResult{Name: name, Status: CheckError, Message: fmt.Sprintf("Cannot stat vault: %v", err)}
	}
	if info.IsDir() {
		return CheckResult{Name: name, Status: CheckError, Message: st.opts.Path + " is a directory", Suggestion: "Point --vault or RSSH_VAULT at a file"}
	}
	return CheckResult{Name: name, Status: CheckPass, Message: "Found " + st.opts.Path}
}

func (st *doctorState) checkVaultPermissions() CheckResult {
	const name = "Vault permissions"
	info, err := os.Stat(st.opts.Path)
	if err != nil {
		return CheckResult{Name: name, Status: CheckPass, Message: "Skipped, no vault"}
	}
	if perm := info.Mode().Perm(); perm&0077 != 0 {
		return CheckResult{
			Name:       name,
			Status:     CheckWarning,
			Message:    fmt.Sprintf("Vault is readable by other users (mode %04o)", perm),
			Suggestion: "Run 'chmod 600 " + st.opts.Path + "'",
		}
	}
	return CheckResult{Name: name, Status: CheckPass, Message: "Vault is private (0600)"}
}

func (st *doctorState) checkVaultDecodes() CheckResult {
	const name = "Vault contents"
	v, err := st.opts.store().Load()
	switch {
	case err == nil:
		st.vault = v
		return CheckResult{Name: name, Status: CheckPass, Message: fmt.Sprintf("%d hosts, %d credentials, policy %d", len(v.Hosts), len(v.Credentials()), v.Policy)}
	case errors.Is(err, kerrors.ErrVaultNotFound):
		return CheckResult{Name: name, Status: CheckPass, Message: "Skipped, no vault"}
	default:
		return CheckResult{Name: name, Status: CheckError, Message: err.Error(), Suggestion: "Restore the vault from an export or run 'rssh init' to start over"}
	}
}

func (st *doctorState) checkStagingFile() CheckResult {
	const name = "Interrupted saves"
	staging := st.opts.writer().StagingPath(st.opts.Path)
	if _, err := os.Stat(staging); err == nil {
		return CheckResult{
			Name:       name,
			Status:     CheckWarning,
			Message:    "Leftover staging file " + staging,
			Suggestion: "Remove " + staging + " once the vault loads correctly",
		}
	}
	return CheckResult{Name: name, Status: CheckPass, Message: "No leftover staging file"}
}

func (st *doctorState) checkAuditLog() CheckResult {
	const name = "Audit log"
	if st.opts.AuditPath == "" {
		return CheckResult{Name: name, Status: CheckPass, Message: "Auditing disabled"}
	}
	info, err := os.Stat(st.opts.AuditPath)
	if err != nil {
		return CheckResult{Name: name, Status: CheckPass, Message: "No entries yet"}
	}
	if perm := info.Mode().Perm(); perm&0077 != 0 {
		return CheckResult{
			Name:       name,
			Status:     CheckWarning,
			Message:    fmt.Sprintf("Audit log is readable by other users (mode %04o)", perm),
			Suggestion: "Run 'chmod 600 " + st.opts.AuditPath + "'",
		}
	}
	return CheckResult{Name: name, Status: CheckPass, Message: "Audit log is private"}
}

func (st *doctorState) checkExecutor() CheckResult {
	const name = "Remote executor"
	if st.cfg.Executor == configs.ExecutorSSHPass {
		if _, err := exec.LookPath("sshpass"); err != nil {
			return CheckResult{
				Name:       name,
				Status:     CheckError,
				Message:    "sshpass executor selected but sshpass is not installed",
				Suggestion: "Install sshpass or set executor = \"native\" in config.toml",
			}
		}
		return CheckResult{Name: name, Status: CheckPass, Message: "sshpass found"}
	}

	path, err := st.cfg.KnownHostsPath()
	if err != nil {
		return CheckResult{Name: name, Status: CheckError, Message: err.Error()}
	}
	if _, err := os.Stat(path); err != nil {
		msg := "known_hosts not found at " + path
		if st.cfg.AcceptNewHostKeys {
			return CheckResult{Name: name, Status: CheckPass, Message: msg + ", it will be created on first login"}
		}
		return CheckResult{
			Name:       name,
			Status:     CheckWarning,
			Message:    msg + ", every host will be rejected as unknown",
			Suggestion: "Set accept_new_host_keys = true or add hosts with ssh-keyscan",
		}
	}
	return CheckResult{Name: name, Status: CheckPass, Message: "Native SSH with " + path}
}

func (st *doctorState) checkKeyring() CheckResult {
	const name = "Keyring"
	cached, err := keyring.GetPassphrase(st.opts.Path)
	if err != nil {
		return CheckResult{Name: name, Status: CheckPass, Message: "No passphrase cached"}
	}
	if st.vault == nil {
		return CheckResult{Name: name, Status: CheckPass, Message: "Passphrase cached, vault not checked"}
	}
	if gatekeeper.Check(st.vault, cached) != nil {
		return CheckResult{
			Name:       name,
			Status:     CheckWarning,
			Message:    "Cached passphrase does not match the vault",
			Suggestion: "Run 'rssh keyring save' to refresh the cached passphrase",
		}
	}
	return CheckResult{Name: name, Status: CheckPass, Message: "Cached passphrase matches"}
}

// calculateDoctorSummary calculates the counts of checks by status.
func calculateDoctorSummary(results []CheckResult) DoctorSummary {
	var summary DoctorSummary
	for _, result := range results {
		switch result.Status {
		case CheckPass:
			summary.Passed++
		case CheckWarning:
			summary.Warnings++
		case CheckError:
			summary.Errors++
		}
	}
	return summary
}
