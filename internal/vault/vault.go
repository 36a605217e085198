package vault

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	kerrors "github.com/PolarWolf314/rssh/internal/errors"
)

// Policy controls which operations require the gatekeeper passphrase.
type Policy int

const (
	// PolicyPrivileged requires the passphrase for privileged operations only.
	PolicyPrivileged Policy = 0

	// PolicyAll requires the passphrase for every operation, including login.
	PolicyAll Policy = 1
)

// ParsePolicy converts a numeric policy level.
func ParsePolicy(level int) (Policy, error) {
	p := Policy(level)
	if !p.Valid() {
		return 0, fmt.Errorf("%w: got %d", kerrors.ErrInvalidPolicy, level)
	}
	return p, nil
}

// Valid reports whether p is a known policy level.
func (p Policy) Valid() bool {
	return p == PolicyPrivileged || p == PolicyAll
}

func (p Policy) String() string {
	switch p {
	case PolicyPrivileged:
		return "privileged operations only"
	case PolicyAll:
		return "all operations"
	default:
		return fmt.Sprintf("unknown policy %d", int(p))
	}
}

// Credential is a resolved host, username and password.
type Credential struct {
	Host     string
	Username string
	Password string
}

// Line renders the credential as "address username password", the format
// shared by export and import.
func (c Credential) Line() string {
	return c.Host + " " + c.Username + " " + c.Password
}

// User is a username/password pair stored under a Host.
type User struct {
	Username string `toml:"username"`
	Password string `toml:"password"`
}

// Host groups the users stored for one address.
type Host struct {
	Address string `toml:"address"`
	Users   []User `toml:"users"`
}

// ChoiceMemo remembers the candidate picked for a disambiguation query.
// Index is 1-based.
type ChoiceMemo struct {
	Query string `toml:"query"`
	Index int    `toml:"index"`
}

// Vault is the full decrypted vault.
type Vault struct {
	Passphrase string       `toml:"passphrase"`
	Policy     Policy       `toml:"policy"`
	Hosts      []Host       `toml:"hosts,omitempty"`
	Choices    []ChoiceMemo `toml:"choices,omitempty"`
}

// New returns an empty vault guarded by passphrase.
func New(passphrase string, policy Policy) *Vault {
	return &Vault{
		Passphrase: passphrase,
		Policy:     policy,
		Hosts:      []Host{},
		Choices:    []ChoiceMemo{},
	}
}

// Normalize replaces nil slices with empty ones so that a decoded vault
// compares equal to the one that was encoded.
func (v *Vault) Normalize() {
	if v.Hosts == nil {
		v.Hosts = []Host{}
	}
	if v.Choices == nil {
		v.Choices = []ChoiceMemo{}
	}
	for i := range v.Hosts {
		if v.Hosts[i].Users == nil {
			v.Hosts[i].Users = []User{}
		}
	}
}

// Validate checks the structural invariants every persisted vault must hold.
func (v *Vault) Validate() error {
	if !v.Policy.Valid() {
		return fmt.Errorf("%w: got %d", kerrors.ErrInvalidPolicy, int(v.Policy))
	}
	if !utf8.ValidString(v.Passphrase) {
		return fmt.Errorf("%w: passphrase is not valid UTF-8", kerrors.ErrInvalidCredential)
	}

	addresses := make(map[string]struct{}, len(v.Hosts))
	for _, h := range v.Hosts {
		if err := ValidateField("address", h.Address); err != nil {
			return err
		}
		if _, dup := addresses[h.Address]; dup {
			return fmt.Errorf("%w: duplicate host %q", kerrors.ErrInvalidCredential, h.Address)
		}
		addresses[h.Address] = struct{}{}

		if len(h.Users) == 0 {
			return fmt.Errorf("%w: host %q has no users", kerrors.ErrInvalidCredential, h.Address)
		}

		usernames := make(map[string]struct{}, len(h.Users))
		for _, u := range h.Users {
			if err := ValidateField("username", u.Username); err != nil {
				return err
			}
			if err := ValidateField("password", u.Password); err != nil {
				return err
			}
			if _, dup := usernames[u.Username]; dup {
				return fmt.Errorf("%w: duplicate user %q on host %q", kerrors.ErrInvalidCredential, u.Username, h.Address)
			}
			usernames[u.Username] = struct{}{}
		}
	}

	queries := make(map[string]struct{}, len(v.Choices))
	for _, c := range v.Choices {
		if !utf8.ValidString(c.Query) {
			return fmt.Errorf("%w: remembered choice for %q is not valid UTF-8", kerrors.ErrSchema, c.Query)
		}
		if c.Index < 1 {
			return fmt.Errorf("%w: remembered choice for %q has index %d", kerrors.ErrSchema, c.Query, c.Index)
		}
		if _, dup := queries[c.Query]; dup {
			return fmt.Errorf("%w: duplicate remembered choice for %q", kerrors.ErrSchema, c.Query)
		}
		queries[c.Query] = struct{}{}
	}

	return nil
}

// ValidateField checks that a credential field is non-empty UTF-8 without
// whitespace. name is used in the error message only.
func ValidateField(name, value string) error {
	if value == "" {
		return fmt.Errorf("%w: %s is empty", kerrors.ErrInvalidCredential, name)
	}
	if !utf8.ValidString(value) {
		return fmt.Errorf("%w: %s is not valid UTF-8", kerrors.ErrInvalidCredential, name)
	}
	if strings.IndexFunc(value, unicode.IsSpace) >= 0 {
		return fmt.Errorf("%w: %s contains whitespace", kerrors.ErrInvalidCredential, name)
	}
	return nil
}
