// Package store persists a vault to a single file.
//
// Save goes vault -> TOML -> sealed text -> AtomicWriter. The default
// FileWriter stages the new content in "<path>.bak" and renames it over the
// vault, so a reader sees either the old file or the new one. If the writer
// fails, Store removes the staging file and returns ErrPersistence.
//
// There is no locking between processes. The last writer wins.
package store
