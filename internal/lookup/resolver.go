package lookup

import (
	"fmt"

	kerrors "github.com/PolarWolf314/rssh/internal/errors"
	"github.com/PolarWolf314/rssh/internal/vault"
)

// Prompter asks the user to pick one of several candidates.
type Prompter interface {
	Choose(a *Ambiguity) (string, error)
}

// Saver persists the vault after a remembered choice changes.
type Saver interface {
	Save(v *vault.Vault) error
}

// Resolver runs the full lookup: match, prompt when ambiguous, remember the
// answer and save it.
type Resolver struct {
	Prompter Prompter
	Saver    Saver
}

// Resolve returns the single credential q refers to. When the user's choice
// changes the remembered answer, the vault is saved before returning.
func (r Resolver) Resolve(v *vault.Vault, q Query) (vault.Credential, error) {
	res, err := Resolve(v, q)
	if err != nil {
		return vault.Credential{}, err
	}
	if res.Ambiguity == nil {
		return res.Credential, nil
	}

	if r.Prompter == nil {
		return vault.Credential{}, fmt.Errorf("%w: %d hosts match %q", kerrors.ErrAmbiguousChoice, len(res.Ambiguity.Candidates), q.Address)
	}

	answer, err := r.Prompter.Choose(res.Ambiguity)
	if err != nil {
		return vault.Credential{}, fmt.Errorf("%w: %w", kerrors.ErrPromptFailed, err)
	}

	choice, err := res.Ambiguity.Decide(answer)
	if err != nil {
		return vault.Credential{}, err
	}

	cred, changed := res.Ambiguity.Commit(v, choice)
	if changed && r.Saver != nil {
		if err := r.Saver.Save(v); err != nil {
			return vault.Credential{}, err
		}
	}

	return cred, nil
}
