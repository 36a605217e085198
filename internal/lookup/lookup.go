package lookup

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	kerrors "github.com/PolarWolf314/rssh/internal/errors"
	"github.com/PolarWolf314/rssh/internal/vault"
)

// Query identifies the credential to resolve.
type Query struct {
	Address  string
	Username string
}

// Resolution is the outcome of Resolve. Exactly one of Credential and
// Ambiguity is meaningful: Ambiguity is nil when a single credential matched.
type Resolution struct {
	Credential vault.Credential
	Exact      bool
	Ambiguity  *Ambiguity
}

// Ambiguity lists the credentials a fuzzy query matched.
type Ambiguity struct {
	Query Query

	// Candidates are sorted by their "address username password" line and
	// numbered from 1 when presented.
	Candidates []vault.Credential

	// Default is the remembered 1-based choice for the query, or 0.
	Default int
}

// Resolve matches q against v without side effects.
//
// An exact address and username match wins. Otherwise every host whose
// address contains q.Address and that has a user named q.Username is a
// candidate. One candidate resolves directly; several produce an Ambiguity.
// A query that is not valid UTF-8 is rejected, since it could not be
// remembered.
func Resolve(v *vault.Vault, q Query) (*Resolution, error) {
	if !utf8.ValidString(q.Address) {
		return nil, fmt.Errorf("%w: address %q is not valid UTF-8", kerrors.ErrInvalidCredential, q.Address)
	}

	for _, h := range v.Hosts {
		if h.Address != q.Address {
			continue
		}
		for _, u := range h.Users {
			if u.Username == q.Username {
				return &Resolution{
					Credential: vault.Credential{Host: h.Address, Username: u.Username, Password: u.Password},
					Exact:      true,
				}, nil
			}
		}
	}

	var candidates []vault.Credential
	for _, h := range v.Hosts {
		if !strings.Contains(h.Address, q.Address) {
			continue
		}
		for _, u := range h.Users {
			if u.Username == q.Username {
				candidates = append(candidates, vault.Credential{Host: h.Address, Username: u.Username, Password: u.Password})
			}
		}
	}

	switch len(candidates) {
	case 0:
		return nil, fmt.Errorf("%w: %s@%s", kerrors.ErrCredentialNotFound, q.Username, q.Address)
	case 1:
		return &Resolution{Credential: candidates[0]}, nil
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].Line() < candidates[j].Line()
	})

	def := v.Choice(q.Address)
	if def > len(candidates) {
		def = 0
	}

	return &Resolution{Ambiguity: &Ambiguity{Query: q, Candidates: candidates, Default: def}}, nil
}

// Decide turns the user's answer into a 1-based candidate index. An empty
// answer selects the default when there is one.
func (a *Ambiguity) Decide(input string) (int, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		if a.Default == 0 {
			return 0, fmt.Errorf("%w: no choice entered", kerrors.ErrAmbiguousChoice)
		}
		return a.Default, nil
	}

	n, err := strconv.Atoi(input)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", kerrors.ErrAmbiguousChoice, input)
	}
	if n < 1 || n > len(a.Candidates) {
		return 0, fmt.Errorf("%w: %d is not between 1 and %d", kerrors.ErrAmbiguousChoice, n, len(a.Candidates))
	}

	return n, nil
}

// Commit records choice as the remembered answer for the query and returns
// the chosen credential. changed reports whether v's memos were modified.
// choice must come from Decide.
func (a *Ambiguity) Commit(v *vault.Vault, choice int) (cred vault.Credential, changed bool) {
	changed = v.Remember(a.Query.Address, choice)
	return a.Candidates[choice-1], changed
}
