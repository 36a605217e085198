package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/zalando/go-keyring"

	"github.com/PolarWolf314/rssh/internal/configs"
	kerrors "github.com/PolarWolf314/rssh/internal/errors"
	"github.com/PolarWolf314/rssh/internal/executor"
	"github.com/PolarWolf314/rssh/internal/gatekeeper"
)

func TestMain(m *testing.M) {
	keyring.MockInit()
	os.Exit(m.Run())
}

// initVault runs `rssh init` with passphrase on standard input.
func initVault(t *testing.T, passphrase string, extra ...string) {
	t.Helper()
	withStdin(t, passphrase+"\n")
	output, err := runCLI(t, append([]string{"init"}, extra...)...)
	if err != nil {
		t.Fatalf("init failed: %v\nOutput: %s", err, output)
	}
}

func TestInitSetGetExport(t *testing.T) {
	vault := setupTestEnvironment(t, "secret")

	withStdin(t, "secret\n")
	output, err := runCLI(t, "init")
	if err != nil {
		t.Fatalf("init failed: %v", err)
	}
	if !strings.Contains(output, "Created vault at "+vault) {
		t.Errorf("unexpected init output: %s", output)
	}

	output, err = runCLI(t, "set", "192.168.1.5", "root", "hunter2")
	if err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if !strings.Contains(output, "Added host with 'root@192.168.1.5'") {
		t.Errorf("unexpected set output: %s", output)
	}

	output, err = runCLI(t, "get", "192.168.1.5", "root", "--porcelain")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if output != "root 192.168.1.5 hunter2\n" {
		t.Errorf("get --porcelain = %q", output)
	}

	output, err = runCLI(t, "get", "192.168.1.5")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if output != "'root@192.168.1.5'\nhunter2\n" {
		t.Errorf("get = %q", output)
	}

	output, err = runCLI(t, "export", "-")
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if output != "192.168.1.5 root hunter2\n" {
		t.Errorf("export = %q", output)
	}

	output, err = runCLI(t, "users", "192.168.1.5")
	if err != nil || output != "root\n" {
		t.Errorf("users = %q, %v", output, err)
	}
}

func TestVaultFlag(t *testing.T) {
	setupTestEnvironment(t, "secret")
	custom := filepath.Join(t.TempDir(), "team.vault")

	withStdin(t, "secret\n")
	if _, err := runCLI(t, "--vault", custom, "init"); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	if _, err := os.Stat(custom); err != nil {
		t.Errorf("vault not created at --vault path: %v", err)
	}
}

func TestInitRejectsBadPolicy(t *testing.T) {
	setupTestEnvironment(t, "secret")
	withStdin(t, "secret\n")

	_, err := runCLI(t, "init", "--policy", "2")
	if !errors.Is(err, kerrors.ErrInvalidPolicy) {
		t.Errorf("expected ErrInvalidPolicy, got %v", err)
	}
}

func TestWrongPassphrase(t *testing.T) {
	setupTestEnvironment(t, "secret")
	initVault(t, "secret")

	t.Setenv(gatekeeper.EnvPassphrase, "guess")
	_, err := runCLI(t, "set", "h", "root", "pw")
	if !errors.Is(err, kerrors.ErrWrongPassphrase) {
		t.Fatalf("expected ErrWrongPassphrase, got %v", err)
	}
	if msg := formatError(err); !strings.Contains(msg, "Wrong passphrase") {
		t.Errorf("formatError = %q", msg)
	}
}

func TestUsersWithoutPassphraseUnderPolicyZero(t *testing.T) {
	setupTestEnvironment(t, "secret")
	initVault(t, "secret")
	if _, err := runCLI(t, "add", "h", "root", "pw"); err != nil {
		t.Fatal(err)
	}

	t.Setenv(gatekeeper.EnvPassphrase, "")
	output, err := runCLI(t, "users", "h")
	if err != nil || output != "root\n" {
		t.Errorf("users = %q, %v", output, err)
	}

	if _, err := runCLI(t, "get", "h"); !errors.Is(err, kerrors.ErrPassphraseRequired) {
		t.Errorf("get without passphrase = %v, want ErrPassphraseRequired", err)
	}
}

func TestImportAbortsOnMalformedLine(t *testing.T) {
	setupTestEnvironment(t, "secret")
	initVault(t, "secret")

	file := filepath.Join(t.TempDir(), "hosts.txt")
	if err := os.WriteFile(file, []byte("10.0.0.1 root a\nbroken line\n"), 0600); err != nil {
		t.Fatal(err)
	}

	_, err := runCLI(t, "import", file)
	if !errors.Is(err, kerrors.ErrImportFormat) {
		t.Fatalf("expected ErrImportFormat, got %v", err)
	}

	output, err := runCLI(t, "export", "-")
	if err != nil || output != "" {
		t.Errorf("export after failed import = %q, %v", output, err)
	}
}

func TestRunPassesCommand(t *testing.T) {
	setupTestEnvironment(t, "secret")
	initVault(t, "secret")
	if _, err := runCLI(t, "set", "10.0.0.1:2222", "root", "pw"); err != nil {
		t.Fatal(err)
	}

	exec := &recordingExecutor{}
	useExecutor(exec)

	if _, err := runCLI(t, "run", "10.0.0.1", "root", "ls", "-la", "/var/log"); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	want := executor.Target{User: "root", Host: "10.0.0.1", Port: 2222, Password: "pw", Command: "ls -la /var/log"}
	if len(exec.targets) != 1 || exec.targets[0] != want {
		t.Errorf("targets = %+v, want %+v", exec.targets, want)
	}

	if _, err := runCLI(t, "10.0.0.1"); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if len(exec.targets) != 2 || exec.targets[1].Command != "" {
		t.Errorf("login target = %+v", exec.targets)
	}
}

func TestRunReportsRemoteFailure(t *testing.T) {
	setupTestEnvironment(t, "secret")
	initVault(t, "secret")
	if _, err := runCLI(t, "set", "h", "root", "pw"); err != nil {
		t.Fatal(err)
	}
	useExecutor(&recordingExecutor{err: kerrors.ErrRemoteHostKeyChanged})

	_, err := runCLI(t, "run", "h", "root", "true")
	if !errors.Is(err, kerrors.ErrRemoteHostKeyChanged) {
		t.Errorf("expected ErrRemoteHostKeyChanged, got %v", err)
	}
}

func TestDeleteAlias(t *testing.T) {
	setupTestEnvironment(t, "secret")
	initVault(t, "secret")
	if _, err := runCLI(t, "set", "h", "root", "pw"); err != nil {
		t.Fatal(err)
	}

	output, err := runCLI(t, "rm", "h", "root")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(output, "Removed 'root@h' and its host") {
		t.Errorf("unexpected output: %s", output)
	}

	output, err = runCLI(t, "rm", "h", "root")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(output, "No credential stored for 'root@h'") {
		t.Errorf("unexpected output: %s", output)
	}
}

func TestPasswd(t *testing.T) {
	setupTestEnvironment(t, "secret")
	initVault(t, "secret")

	withStdin(t, "n3w\n")
	output, err := runCLI(t, "passwd", "--policy", "1")
	if err != nil {
		t.Fatalf("passwd failed: %v\nOutput: %s", err, output)
	}
	if !strings.Contains(output, "Passphrase changed, policy 1") {
		t.Errorf("unexpected output: %s", output)
	}

	if _, err := runCLI(t, "users", "h"); !errors.Is(err, kerrors.ErrWrongPassphrase) {
		t.Errorf("old passphrase accepted under policy 1: %v", err)
	}
	t.Setenv(gatekeeper.EnvPassphrase, "n3w")
	if _, err := runCLI(t, "users", "h"); err != nil {
		t.Errorf("new passphrase rejected: %v", err)
	}
}

func TestKeyringCommands(t *testing.T) {
	setupTestEnvironment(t, "secret")
	initVault(t, "secret")

	if _, err := runCLI(t, "keyring", "save"); err != nil {
		t.Fatalf("keyring save failed: %v", err)
	}
	output, _ := runCLI(t, "keyring", "status")
	if !strings.Contains(output, "Passphrase cached") {
		t.Errorf("status after save = %q", output)
	}

	// The cached passphrase is used when the environment has none.
	t.Setenv(gatekeeper.EnvPassphrase, "")
	if _, err := runCLI(t, "set", "h", "root", "pw"); err != nil {
		t.Errorf("set with cached passphrase failed: %v", err)
	}

	if _, err := runCLI(t, "keyring", "forget"); err != nil {
		t.Fatal(err)
	}
	output, _ = runCLI(t, "keyring", "status")
	if !strings.Contains(output, "No passphrase cached") {
		t.Errorf("status after forget = %q", output)
	}
}

func TestLogCommand(t *testing.T) {
	setupTestEnvironment(t, "secret")
	initVault(t, "secret")
	if _, err := runCLI(t, "set", "192.168.1.5", "root", "hunter2"); err != nil {
		t.Fatal(err)
	}

	output, err := runCLI(t, "log", "--operation", "set")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(output, "root@192.168.1.5 added host") {
		t.Errorf("unexpected log output: %s", output)
	}
	if strings.Contains(output, "hunter2") {
		t.Error("log output contains a password")
	}

	if _, err := runCLI(t, "log", "--since", "last week"); !errors.Is(err, kerrors.ErrInvalidDateFormat) {
		t.Errorf("expected ErrInvalidDateFormat, got %v", err)
	}
}

func TestConfigInitAndShow(t *testing.T) {
	setupTestEnvironment(t, "")

	if _, err := runCLI(t, "config", "init"); err != nil {
		t.Fatalf("config init failed: %v", err)
	}
	if _, err := os.Stat(configs.UserRsshSettings.ConfigPath()); err != nil {
		t.Fatalf("config file not written: %v", err)
	}

	output, _ := runCLI(t, "config", "init")
	if !strings.Contains(output, "Config already exists") {
		t.Errorf("second config init = %q", output)
	}

	output, err := runCLI(t, "config", "show")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"default_user", "'root'", "native", "10s"} {
		if !strings.Contains(output, want) {
			t.Errorf("config show missing %q:\n%s", want, output)
		}
	}
}

func TestInvalidConfigIsReported(t *testing.T) {
	setupTestEnvironment(t, "secret")
	path := configs.UserRsshSettings.ConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("executor = \"telnet\"\n"), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := runCLI(t, "users", "h"); !errors.Is(err, kerrors.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestDoctorExitCode(t *testing.T) {
	setupTestEnvironment(t, "")

	code := -1
	SetDoctorExitFunc(func(c int) { code = c })

	output, err := runCLI(t, "doctor")
	if err != nil {
		t.Fatal(err)
	}
	if code != 2 {
		t.Errorf("exit code = %d, want 2", code)
	}
	if !strings.Contains(output, "rssh init") {
		t.Errorf("doctor should suggest rssh init:\n%s", output)
	}
}

func TestFormatErrorIsDistinct(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	kinds := []error{
		kerrors.ErrDecode, kerrors.ErrCrypto, kerrors.ErrSchema,
		kerrors.ErrVaultNotFound, kerrors.ErrPersistence,
		kerrors.ErrCredentialNotFound, kerrors.ErrAmbiguousChoice, kerrors.ErrPromptFailed,
		kerrors.ErrImportFormat, kerrors.ErrInvalidCredential, kerrors.ErrInvalidPolicy,
		kerrors.ErrInvalidConfig, kerrors.ErrFileNotFound, kerrors.ErrInvalidDateFormat,
		kerrors.ErrWrongPassphrase, kerrors.ErrPassphraseRequired,
		kerrors.ErrRemoteBadArguments, kerrors.ErrRemoteConflictingArguments,
		kerrors.ErrRemoteRuntime, kerrors.ErrRemoteParse, kerrors.ErrRemoteAuthFailed,
		kerrors.ErrRemoteUnknownHostKey, kerrors.ErrRemoteHostKeyChanged,
		kerrors.ErrRemoteTimeout, kerrors.ErrRemoteInternal,
	}

	seen := make(map[string]error)
	for _, kind := range kinds {
		msg := formatError(kind)
		if !strings.HasPrefix(msg, "✗ ") {
			t.Errorf("formatError(%v) = %q, want ✗ prefix", kind, msg)
		}
		if other, ok := seen[msg]; ok {
			t.Errorf("%v and %v share the message %q", kind, other, msg)
		}
		seen[msg] = kind
	}
}
