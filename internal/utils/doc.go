// Package utils provides shared helpers for rssh.
//
// # Filesystem Utilities
//
//   - ExpandHome: resolves a leading "~" in configured paths
//   - FileExists: reports whether a regular file exists
//   - FormatPaths: formats file paths for human-readable output
//
// # I/O Utilities
//
//   - ReadLine: reads one line from a reader, used by interactive prompts
//
// # Terminal Utilities
//
//   - ReadPassphrase: reads a passphrase without echo
//   - ReadPassphraseConfirm: reads a new passphrase twice
//   - IsTerminal: checks whether stdin is a terminal
package utils
