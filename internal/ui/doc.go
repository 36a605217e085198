// Package ui provides semantic text formatting for rssh output.
//
// Formatters render content according to its meaning (command, path,
// success marker, user value) and adapt to the terminal. With colors
// available the text is colorized; when NO_COLOR is set or the terminal
// doesn't support colors, text decorations are used instead:
//
//   - Code: `backticks`
//   - Highlight: 'single quotes'
//   - Muted: (parentheses)
//   - Others: no decoration
//
//	ui.Code.Sprint("rssh init")           // Commands
//	ui.Path.Sprint("~/.local/share/rssh") // File paths
//	ui.Highlight.Sprint("root@10.0.0.1")  // User values
//	ui.Done("Saved credential")           // ✓ line
//	ui.Failed("Vault not found", hint)    // ✗ line with → hints
//
// Stored passwords are printed only by commands whose purpose is to reveal
// them (get, export), never through a formatter decoration.
package ui
