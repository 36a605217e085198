package vault

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	kerrors "github.com/PolarWolf314/rssh/internal/errors"
)

func TestMarshalRoundTrip(t *testing.T) {
	withMemo := sampleVault()
	withMemo.Policy = PolicyAll
	withMemo.Choices = []ChoiceMemo{{"0.0.1", 2}, {"10.0", 1}}

	unusual := New("p\"a'ss\\word", PolicyPrivileged)
	if _, err := unusual.Upsert("host.example.com", "ünïcode", "=#[]{}\"'"); err != nil {
		t.Fatal(err)
	}

	spaced := New("two words \"quoted\" 'x'\ttab\nline\r\x01\x7f", PolicyAll)

	nonASCII := sampleVault()
	if _, err := nonASCII.Upsert("café1.lan", "root", "é"); err != nil {
		t.Fatal(err)
	}
	nonASCII.Passphrase = "pässwörd"
	nonASCII.Choices = []ChoiceMemo{{"é1", 1}}

	tests := []struct {
		name  string
		vault *Vault
	}{
		{"Empty", New("secret", PolicyPrivileged)},
		{"Hosts", sampleVault()},
		{"WithMemo", withMemo},
		{"UnusualCharacters", unusual},
		{"PassphraseWithSpacesAndControls", spaced},
		{"NonASCII", nonASCII},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			data, err := Marshal(tc.vault)
			if err != nil {
				t.Fatalf("Marshal failed: %v", err)
			}
			got, err := Unmarshal(data)
			if err != nil {
				t.Fatalf("Unmarshal failed: %v\n%s", err, data)
			}
			if !reflect.DeepEqual(got, tc.vault) {
				t.Errorf("round trip mismatch:\ngot  %+v\nwant %+v", got, tc.vault)
			}
		})
	}
}

func TestMarshalRejectsInvalidVault(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(v *Vault)
		want   error
	}{
		{"HostWithoutUsers", func(v *Vault) { v.Hosts[0].Users = []User{} }, kerrors.ErrInvalidCredential},
		{"Latin1Passphrase", func(v *Vault) { v.Passphrase = "caf\xe9" }, kerrors.ErrInvalidCredential},
		{"InvalidUTF8Memo", func(v *Vault) { v.Choices = []ChoiceMemo{{"\xa9", 1}} }, kerrors.ErrSchema},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			v := sampleVault()
			tc.mutate(v)
			data, err := Marshal(v)
			if !errors.Is(err, tc.want) {
				t.Errorf("Marshal() = %v, want %v\n%s", err, tc.want, data)
			}
		})
	}
}

func TestMarshalLayout(t *testing.T) {
	data, err := Marshal(sampleVault())
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{`passphrase = "secret"`, "policy = 0", "[[hosts]]", "[[hosts.users]]", `address = "10.0.0.10"`} {
		if !strings.Contains(string(data), want) {
			t.Errorf("encoded vault missing %q:\n%s", want, data)
		}
	}
}

func TestUnmarshalSchemaErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"NotTOML", "\x00\x01garbage"},
		{"MissingPassphrase", "policy = 0\n"},
		{"MissingPolicy", "passphrase = \"x\"\n"},
		{"UnknownKey", "passphrase = \"x\"\npolicy = 0\ncolour = \"red\"\n"},
		{"WrongType", "passphrase = \"x\"\npolicy = \"zero\"\n"},
		{"BadPolicy", "passphrase = \"x\"\npolicy = 7\n"},
		{"EmptyHost", "passphrase = \"x\"\npolicy = 0\n[[hosts]]\naddress = \"h\"\n"},
		{"JSON", `{"passphrase":"x","policy":0}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Unmarshal([]byte(tc.data))
			if !errors.Is(err, kerrors.ErrSchema) {
				t.Errorf("Unmarshal(%q) = %v, want ErrSchema", tc.data, err)
			}
		})
	}
}

func TestUnmarshalNormalizes(t *testing.T) {
	v, err := Unmarshal([]byte("passphrase = \"x\"\npolicy = 1\n"))
	if err != nil {
		t.Fatal(err)
	}
	if v.Hosts == nil || v.Choices == nil {
		t.Error("expected non-nil empty slices")
	}
	if v.Policy != PolicyAll {
		t.Errorf("Policy = %v, want %v", v.Policy, PolicyAll)
	}
}
