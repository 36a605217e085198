// Package vault holds the rssh data model and its TOML serialization.
//
// A Vault stores Hosts, each with an ordered list of Users, plus the
// gatekeeper passphrase, the policy level and the remembered disambiguation
// choices. Mutators (Upsert, Delete, SetGatekeeper, Remember) change the
// vault in memory only; persisting it is the store package's job.
//
// Invariants enforced by Validate:
//
//   - host addresses are unique, usernames are unique within a host
//   - every host has at least one user
//   - policy is 0 or 1
//   - remembered choice indices are at least 1 and queries are unique
//   - address, username and password are non-empty and contain no whitespace
//   - the passphrase and remembered queries are valid UTF-8
//
// Lookups that delete or list use exact address matching. Fuzzy matching is
// only done by the lookup package when logging in.
package vault
