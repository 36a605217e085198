// Package gatekeeper decides whether an operation may run.
//
// Every vault carries a passphrase and a policy. Privileged operations
// (anything that reveals or changes stored passwords) always need the
// passphrase. Read operations such as login need it only when the policy is 1.
//
// The passphrase is looked up in order from RSSH_PASSPHRASE, the OS keyring
// and a masked terminal prompt. The first source that has one decides.
package gatekeeper
