// Package lookup resolves an address/username query to one credential.
//
// Resolution is split into steps that can be exercised on their own:
//
//	res, err := lookup.Resolve(v, q)   // exact match, then substring match
//	choice, err := res.Ambiguity.Decide(answer)
//	cred, changed := res.Ambiguity.Commit(v, choice)
//
// Resolver chains the steps with a Prompter and saves the vault when the
// remembered choice for the query changes, so a login can write the vault.
package lookup
