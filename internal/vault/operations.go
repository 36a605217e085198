package vault

import (
	"fmt"
	"unicode/utf8"

	kerrors "github.com/PolarWolf314/rssh/internal/errors"
)

// Change describes what Upsert did to the vault.
type Change int

const (
	// Unchanged means the stored password already matched.
	Unchanged Change = iota
	// PasswordUpdated means an existing user got a new password.
	PasswordUpdated
	// UserAdded means a new user was appended to an existing host.
	UserAdded
	// HostAdded means a new host was created with a single user.
	HostAdded
)

func (c Change) String() string {
	switch c {
	case PasswordUpdated:
		return "updated"
	case UserAdded:
		return "added user"
	case HostAdded:
		return "added host"
	default:
		return "unchanged"
	}
}

// Upsert stores a password for address/username. An existing user has its
// password replaced; otherwise the user is appended to the host, or a new
// host is created.
func (v *Vault) Upsert(address, username, password string) (Change, error) {
	for _, f := range [][2]string{{"address", address}, {"username", username}, {"password", password}} {
		if err := ValidateField(f[0], f[1]); err != nil {
			return Unchanged, err
		}
	}

	hi := v.hostIndex(address)
	if hi < 0 {
		v.Hosts = append(v.Hosts, Host{
			Address: address,
			Users:   []User{{Username: username, Password: password}},
		})
		return HostAdded, nil
	}

	host := &v.Hosts[hi]
	for i := range host.Users {
		if host.Users[i].Username != username {
			continue
		}
		if host.Users[i].Password == password {
			return Unchanged, nil
		}
		host.Users[i].Password = password
		return PasswordUpdated, nil
	}

	host.Users = append(host.Users, User{Username: username, Password: password})
	return UserAdded, nil
}

// Delete removes address/username using exact matching. A host left without
// users is removed entirely. It reports whether anything was removed.
func (v *Vault) Delete(address, username string) bool {
	hi := v.hostIndex(address)
	if hi < 0 {
		return false
	}

	host := &v.Hosts[hi]
	for i, u := range host.Users {
		if u.Username != username {
			continue
		}
		if len(host.Users) == 1 {
			v.Hosts = append(v.Hosts[:hi], v.Hosts[hi+1:]...)
		} else {
			host.Users = append(host.Users[:i], host.Users[i+1:]...)
		}
		return true
	}

	return false
}

// Users returns the usernames stored for address, matched exactly.
func (v *Vault) Users(address string) []string {
	hi := v.hostIndex(address)
	if hi < 0 {
		return []string{}
	}

	names := make([]string, 0, len(v.Hosts[hi].Users))
	for _, u := range v.Hosts[hi].Users {
		names = append(names, u.Username)
	}
	return names
}

// Credentials returns every stored credential, hosts and users in stored order.
func (v *Vault) Credentials() []Credential {
	var creds []Credential
	for _, h := range v.Hosts {
		for _, u := range h.Users {
			creds = append(creds, Credential{Host: h.Address, Username: u.Username, Password: u.Password})
		}
	}
	return creds
}

// SetGatekeeper replaces the passphrase and policy.
func (v *Vault) SetGatekeeper(passphrase string, policy Policy) error {
	if !policy.Valid() {
		return fmt.Errorf("%w: got %d", kerrors.ErrInvalidPolicy, int(policy))
	}
	if passphrase == "" {
		return fmt.Errorf("%w: passphrase cannot be empty", kerrors.ErrPassphraseRequired)
	}
	if !utf8.ValidString(passphrase) {
		return fmt.Errorf("%w: passphrase is not valid UTF-8", kerrors.ErrInvalidCredential)
	}
	v.Passphrase = passphrase
	v.Policy = policy
	return nil
}

// Choice returns the remembered index for query, or 0 when there is none.
func (v *Vault) Choice(query string) int {
	for _, c := range v.Choices {
		if c.Query == query {
			return c.Index
		}
	}
	return 0
}

// Remember records index as the choice for query. It reports whether the
// stored memo changed.
func (v *Vault) Remember(query string, index int) bool {
	for i := range v.Choices {
		if v.Choices[i].Query != query {
			continue
		}
		if v.Choices[i].Index == index {
			return false
		}
		v.Choices[i].Index = index
		return true
	}

	v.Choices = append(v.Choices, ChoiceMemo{Query: query, Index: index})
	return true
}

func (v *Vault) hostIndex(address string) int {
	for i, h := range v.Hosts {
		if h.Address == address {
			return i
		}
	}
	return -1
}
