// Package audit records rssh operations in a JSON Lines file next to the vault.
//
// # Log Format
//
// The log lives at "<vault>.audit.jsonl" with mode 0600. Each line is one
// Entry:
//
//	{"id":"5b0c...","ts":"2026-01-02T15:04:05.000000Z","op":"set","address":"10.0.0.1","username":"root","change":"added host"}
//
// Entries name hosts and users but never passwords or the gatekeeper
// passphrase.
//
// # Failure Handling
//
// Audit logging is best-effort. If the file cannot be written the operation
// still succeeds. Passing an empty log path turns auditing off.
//
// # Reading Logs
//
// ReadEntries parses the log for `rssh log`. Malformed lines are skipped so
// that a partial write does not hide the rest of the history.
package audit
