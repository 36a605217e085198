package workflows

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	kerrors "github.com/PolarWolf314/rssh/internal/errors"
	"github.com/PolarWolf314/rssh/internal/executor"
	"github.com/PolarWolf314/rssh/internal/gatekeeper"
	"github.com/PolarWolf314/rssh/internal/keyring"
	"github.com/PolarWolf314/rssh/internal/store"
	"github.com/PolarWolf314/rssh/internal/vault"
)

func TestScenarioInitSetGetExport(t *testing.T) {
	ctx := context.Background()
	opts := newVault(t, vault.PolicyPrivileged)

	mustUpsert(t, opts, "192.168.1.5", "root", "hunter2")

	got, err := Get(ctx, ResolveOptions{VaultOptions: opts, Address: "192.168.1.5", Username: "root"})
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	want := vault.Credential{Host: "192.168.1.5", Username: "root", Password: "hunter2"}
	if got.Credential != want {
		t.Errorf("Get = %+v, want %+v", got.Credential, want)
	}

	var out bytes.Buffer
	res, err := Export(ctx, ExportOptions{VaultOptions: opts, OutputPath: "-", Stdout: &out})
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if out.String() != "192.168.1.5 root hunter2\n" {
		t.Errorf("Export wrote %q", out.String())
	}
	if res.Count != 1 {
		t.Errorf("Export count = %d, want 1", res.Count)
	}
}

func TestInitRequiresNoOldPassphrase(t *testing.T) {
	opts := newVault(t, vault.PolicyAll)
	mustUpsert(t, opts, "10.0.0.1", "root", "a")

	noSources := opts
	noSources.Gatekeeper = &gatekeeper.Gatekeeper{}
	res, err := Init(context.Background(), InitOptions{VaultOptions: noSources, Passphrase: "fresh", Policy: vault.PolicyPrivileged})
	if err != nil {
		t.Fatalf("re-Init failed: %v", err)
	}
	if !res.Replaced {
		t.Error("expected Replaced")
	}

	v := loadVault(t, opts)
	if v.Passphrase != "fresh" || len(v.Hosts) != 0 {
		t.Errorf("re-initialized vault = %+v", v)
	}
}

func TestGetDefaultsUser(t *testing.T) {
	opts := newVault(t, vault.PolicyPrivileged)
	mustUpsert(t, opts, "10.0.0.1", "root", "a")
	mustUpsert(t, opts, "10.0.0.1", "deploy", "d")

	res, err := Get(context.Background(), ResolveOptions{VaultOptions: opts, Address: "10.0.0.1"})
	if err != nil || res.Credential.Username != "root" {
		t.Fatalf("Get without user = %+v, %v", res, err)
	}

	res, err = Get(context.Background(), ResolveOptions{VaultOptions: opts, Address: "10.0.0.1", DefaultUser: "deploy"})
	if err != nil || res.Credential.Password != "d" {
		t.Fatalf("Get with configured default = %+v, %v", res, err)
	}
}

func TestDeleteSingleUserHost(t *testing.T) {
	opts := newVault(t, vault.PolicyPrivileged)
	mustUpsert(t, opts, "192.168.1.5", "root", "hunter2")

	res, err := Delete(context.Background(), DeleteOptions{VaultOptions: opts, Address: "192.168.1.5", Username: "root"})
	if err != nil {
		t.Fatal(err)
	}
	if !res.Removed || !res.HostRemoved {
		t.Errorf("Delete = %+v", res)
	}
	if v := loadVault(t, opts); len(v.Hosts) != 0 {
		t.Errorf("expected zero hosts, got %+v", v.Hosts)
	}
}

func TestDeleteMissingIsNoop(t *testing.T) {
	opts := newVault(t, vault.PolicyPrivileged)
	mustUpsert(t, opts, "10.0.0.1", "root", "a")

	res, err := Delete(context.Background(), DeleteOptions{VaultOptions: opts, Address: "0.0.1", Username: "root"})
	if err != nil {
		t.Fatalf("Delete of a missing pair should not fail: %v", err)
	}
	if res.Removed {
		t.Error("fuzzy address must not delete anything")
	}
	if n := len(loadVault(t, opts).Credentials()); n != 1 {
		t.Errorf("credentials = %d, want 1", n)
	}
}

func TestListUsersExact(t *testing.T) {
	opts := newVault(t, vault.PolicyPrivileged)
	mustUpsert(t, opts, "10.0.0.1", "root", "a")
	mustUpsert(t, opts, "10.0.0.1", "admin", "b")
	mustUpsert(t, opts, "10.0.0.10", "web", "c")

	res, err := ListUsers(context.Background(), UsersOptions{VaultOptions: opts, Address: "10.0.0.1"})
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(res.Usernames, []string{"root", "admin"}) {
		t.Errorf("Usernames = %v", res.Usernames)
	}
}

func TestGatekeeperEnforcement(t *testing.T) {
	ctx := context.Background()

	t.Run("PolicyPrivilegedAllowsReads", func(t *testing.T) {
		opts := newVault(t, vault.PolicyPrivileged)
		opts.Gatekeeper = &gatekeeper.Gatekeeper{}
		if _, err := ListUsers(ctx, UsersOptions{VaultOptions: opts, Address: "x"}); err != nil {
			t.Errorf("read under policy 0 should not need a passphrase: %v", err)
		}
		_, err := Upsert(ctx, UpsertOptions{VaultOptions: opts, Address: "h", Username: "u", Password: "p"})
		if !errors.Is(err, kerrors.ErrPassphraseRequired) {
			t.Errorf("Upsert without passphrase = %v, want ErrPassphraseRequired", err)
		}
	})

	t.Run("PolicyAllGuardsReads", func(t *testing.T) {
		opts := newVault(t, vault.PolicyAll)
		wrong := withPassphrase(opts, "guess")
		if _, err := ListUsers(ctx, UsersOptions{VaultOptions: wrong, Address: "x"}); !errors.Is(err, kerrors.ErrWrongPassphrase) {
			t.Errorf("ListUsers with wrong passphrase = %v", err)
		}
		if _, err := ListUsers(ctx, UsersOptions{VaultOptions: opts, Address: "x"}); err != nil {
			t.Errorf("ListUsers with passphrase = %v", err)
		}
	})

	t.Run("GetIsPrivileged", func(t *testing.T) {
		opts := newVault(t, vault.PolicyPrivileged)
		mustUpsert(t, opts, "h", "root", "p")
		opts.Gatekeeper = &gatekeeper.Gatekeeper{}
		if _, err := Get(ctx, ResolveOptions{VaultOptions: opts, Address: "h"}); !errors.Is(err, kerrors.ErrPassphraseRequired) {
			t.Errorf("Get without passphrase = %v", err)
		}
	})
}

func TestVaultNotFound(t *testing.T) {
	opts := withPassphrase(VaultOptions{Path: filepath.Join(t.TempDir(), "missing")}, "x")
	if _, err := ListUsers(context.Background(), UsersOptions{VaultOptions: opts, Address: "h"}); !errors.Is(err, kerrors.ErrVaultNotFound) {
		t.Errorf("expected ErrVaultNotFound, got %v", err)
	}
}

type brokenWriter struct{ store.FileWriter }

func (brokenWriter) Write(string, []byte) error { return errors.New("read-only filesystem") }

func TestSaveFailureKeepsVault(t *testing.T) {
	opts := newVault(t, vault.PolicyPrivileged)
	mustUpsert(t, opts, "10.0.0.1", "root", "a")
	before, err := os.ReadFile(opts.Path)
	if err != nil {
		t.Fatal(err)
	}

	broken := opts
	broken.Writer = brokenWriter{}
	_, err = Upsert(context.Background(), UpsertOptions{VaultOptions: broken, Address: "10.0.0.2", Username: "root", Password: "b"})
	if !errors.Is(err, kerrors.ErrPersistence) {
		t.Fatalf("expected ErrPersistence, got %v", err)
	}

	after, _ := os.ReadFile(opts.Path)
	if !bytes.Equal(before, after) {
		t.Error("vault changed after failed save")
	}
}

func TestExportToFile(t *testing.T) {
	opts := newVault(t, vault.PolicyPrivileged)
	mustUpsert(t, opts, "10.0.0.1", "root", "a")
	mustUpsert(t, opts, "10.0.0.1", "admin", "c")
	mustUpsert(t, opts, "10.0.0.10", "root", "b")

	out := filepath.Join(t.TempDir(), "export.txt")
	if _, err := Export(context.Background(), ExportOptions{VaultOptions: opts, OutputPath: out}); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	want := "10.0.0.1 root a\n10.0.0.1 admin c\n10.0.0.10 root b\n"
	if string(data) != want {
		t.Errorf("export file = %q, want %q", data, want)
	}
	if info, _ := os.Stat(out); info.Mode().Perm() != 0600 {
		t.Errorf("export mode = %o, want 0600", info.Mode().Perm())
	}
}

func TestExportEmptyVault(t *testing.T) {
	opts := newVault(t, vault.PolicyPrivileged)
	var out bytes.Buffer
	res, err := Export(context.Background(), ExportOptions{VaultOptions: opts, OutputPath: "-", Stdout: &out})
	if err != nil {
		t.Fatal(err)
	}
	if res.Count != 0 || out.Len() != 0 {
		t.Errorf("Export of empty vault = %d, %q", res.Count, out.String())
	}
}

func TestChangeGatekeeper(t *testing.T) {
	ctx := context.Background()
	opts := newVault(t, vault.PolicyPrivileged)
	if err := keyring.SavePassphrase(opts.Path, "secret"); err != nil {
		t.Fatal(err)
	}

	res, err := ChangeGatekeeper(ctx, ChangeGatekeeperOptions{VaultOptions: opts, Passphrase: "n3w", Policy: vault.PolicyAll})
	if err != nil {
		t.Fatal(err)
	}
	if !res.KeyringUpdated {
		t.Error("cached keyring entry should be refreshed")
	}
	if cached, _ := keyring.GetPassphrase(opts.Path); cached != "n3w" {
		t.Errorf("keyring = %q, want n3w", cached)
	}

	if _, err := ListUsers(ctx, UsersOptions{VaultOptions: opts, Address: "h"}); !errors.Is(err, kerrors.ErrWrongPassphrase) {
		t.Errorf("old passphrase should fail under the new policy, got %v", err)
	}
	if _, err := ListUsers(ctx, UsersOptions{VaultOptions: withPassphrase(opts, "n3w"), Address: "h"}); err != nil {
		t.Errorf("new passphrase rejected: %v", err)
	}

	if _, err := ChangeGatekeeper(ctx, ChangeGatekeeperOptions{VaultOptions: withPassphrase(opts, "n3w"), Passphrase: "x", Policy: 4}); !errors.Is(err, kerrors.ErrInvalidPolicy) {
		t.Errorf("expected ErrInvalidPolicy, got %v", err)
	}
}

func TestKeyringWorkflows(t *testing.T) {
	ctx := context.Background()
	opts := newVault(t, vault.PolicyPrivileged)

	if err := KeyringSave(ctx, KeyringSaveOptions{VaultOptions: opts, Passphrase: "wrong"}); !errors.Is(err, kerrors.ErrWrongPassphrase) {
		t.Fatalf("KeyringSave(wrong) = %v", err)
	}
	if cached, _ := KeyringStatus(ctx, opts); cached {
		t.Fatal("wrong passphrase must not be cached")
	}

	if err := KeyringSave(ctx, KeyringSaveOptions{VaultOptions: opts, Passphrase: "secret"}); err != nil {
		t.Fatal(err)
	}
	if cached, _ := KeyringStatus(ctx, opts); !cached {
		t.Error("expected cached passphrase")
	}

	// The default gatekeeper picks up the cached passphrase.
	defaults := opts
	defaults.Gatekeeper = nil
	t.Setenv(gatekeeper.EnvPassphrase, "")
	if _, err := Upsert(ctx, UpsertOptions{VaultOptions: defaults, Address: "h", Username: "u", Password: "p"}); err != nil {
		t.Errorf("Upsert with cached passphrase = %v", err)
	}

	if err := KeyringForget(ctx, opts); err != nil {
		t.Fatal(err)
	}
	if cached, _ := KeyringStatus(ctx, opts); cached {
		t.Error("passphrase still cached after forget")
	}
}

func TestConnectUsesResolvedCredential(t *testing.T) {
	opts := newVault(t, vault.PolicyPrivileged)
	mustUpsert(t, opts, "10.0.0.1:2222", "root", "a")

	exec := &recordingExecutor{}
	res, err := Connect(context.Background(), ConnectOptions{
		ResolveOptions: ResolveOptions{VaultOptions: opts, Address: "10.0.0.1"},
		Command:        "uptime",
		Executor:       exec,
	})
	if err != nil {
		t.Fatal(err)
	}

	want := executor.Target{User: "root", Host: "10.0.0.1", Port: 2222, Password: "a", Command: "uptime"}
	if len(exec.targets) != 1 || exec.targets[0] != want {
		t.Errorf("executor got %+v, want %+v", exec.targets, want)
	}
	if res.Port != 2222 {
		t.Errorf("Port = %d", res.Port)
	}
}

func TestConnectPassesRemoteErrors(t *testing.T) {
	opts := newVault(t, vault.PolicyPrivileged)
	mustUpsert(t, opts, "h", "root", "a")

	exec := &recordingExecutor{err: kerrors.ErrRemoteAuthFailed}
	_, err := Connect(context.Background(), ConnectOptions{ResolveOptions: ResolveOptions{VaultOptions: opts, Address: "h"}, Executor: exec})
	if !errors.Is(err, kerrors.ErrRemoteAuthFailed) {
		t.Errorf("Connect = %v, want ErrRemoteAuthFailed", err)
	}
}

func TestConnectRemembersChoice(t *testing.T) {
	ctx := context.Background()
	opts := newVault(t, vault.PolicyPrivileged)
	mustUpsert(t, opts, "10.0.0.1", "root", "a")
	mustUpsert(t, opts, "10.0.0.10", "root", "b")

	prompter := &answerPrompter{answer: "2"}
	exec := &recordingExecutor{}
	connect := ConnectOptions{
		ResolveOptions: ResolveOptions{VaultOptions: opts, Address: "0.0.1", Prompter: prompter},
		Executor:       exec,
	}

	if _, err := Connect(ctx, connect); err != nil {
		t.Fatal(err)
	}
	if exec.targets[0].Host != "10.0.0.10" {
		t.Errorf("connected to %s, want 10.0.0.10", exec.targets[0].Host)
	}
	if got := loadVault(t, opts).Choice("0.0.1"); got != 2 {
		t.Errorf("remembered choice = %d, want 2", got)
	}

	// An empty answer now picks the remembered default.
	prompter.answer = ""
	if _, err := Connect(ctx, connect); err != nil {
		t.Fatal(err)
	}
	if exec.targets[1].Host != "10.0.0.10" || prompter.asked != 2 {
		t.Errorf("second connect = %+v, asked %d", exec.targets[1], prompter.asked)
	}
}

func TestAuditTrailHasNoSecrets(t *testing.T) {
	ctx := context.Background()
	opts := newVault(t, vault.PolicyPrivileged)
	mustUpsert(t, opts, "192.168.1.5", "root", "hunter2")
	if _, err := Get(ctx, ResolveOptions{VaultOptions: opts, Address: "192.168.1.5"}); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(opts.AuditPath)
	if err != nil {
		t.Fatal(err)
	}
	for _, secret := range []string{"hunter2", "secret"} {
		if strings.Contains(string(data), secret) {
			t.Errorf("audit log contains %q", secret)
		}
	}

	res, err := Log(ctx, LogOptions{AuditPath: opts.AuditPath})
	if err != nil {
		t.Fatal(err)
	}
	var ops []string
	for _, e := range res.Entries {
		ops = append(ops, e.Operation)
	}
	if want := []string{"init", "set", "get"}; !reflect.DeepEqual(ops, want) {
		t.Errorf("operations = %v, want %v", ops, want)
	}
}

func TestChangeGatekeeperKeepsPolicy(t *testing.T) {
	opts := newVault(t, vault.PolicyAll)

	asked := false
	res, err := ChangeGatekeeper(context.Background(), ChangeGatekeeperOptions{
		VaultOptions: opts,
		ReadPassphrase: func() (string, error) {
			asked = true
			return "later", nil
		},
		KeepPolicy: true,
	})
	if err != nil {
		t.Fatal(err)
	}
	if !asked {
		t.Error("ReadPassphrase was not called")
	}
	if res.Policy != vault.PolicyAll {
		t.Errorf("Policy = %v, want all", res.Policy)
	}
	if v := loadVault(t, opts); v.Passphrase != "later" || v.Policy != vault.PolicyAll {
		t.Errorf("vault gatekeeper = %q/%v", v.Passphrase, v.Policy)
	}
}

func TestChangeGatekeeperChecksCurrentFirst(t *testing.T) {
	opts := withPassphrase(newVault(t, vault.PolicyPrivileged), "wrong")

	_, err := ChangeGatekeeper(context.Background(), ChangeGatekeeperOptions{
		VaultOptions: opts,
		ReadPassphrase: func() (string, error) {
			t.Fatal("new passphrase read before the current one was verified")
			return "", nil
		},
	})
	if !errors.Is(err, kerrors.ErrWrongPassphrase) {
		t.Errorf("expected ErrWrongPassphrase, got %v", err)
	}
}

func TestChangeGatekeeperRejectsLatin1Passphrase(t *testing.T) {
	ctx := context.Background()
	opts := newVault(t, vault.PolicyPrivileged)
	mustUpsert(t, opts, "10.0.0.1", "root", "hunter2")

	_, err := ChangeGatekeeper(ctx, ChangeGatekeeperOptions{VaultOptions: opts, Passphrase: "caf\xe9", Policy: vault.PolicyPrivileged})
	if !errors.Is(err, kerrors.ErrInvalidCredential) {
		t.Fatalf("expected ErrInvalidCredential, got %v", err)
	}

	v := loadVault(t, opts)
	if v.Passphrase != "secret" || len(v.Credentials()) != 1 {
		t.Errorf("vault changed after rejected passphrase: %+v", v)
	}
}
