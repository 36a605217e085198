package workflows

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/PolarWolf314/rssh/internal/audit"
	kerrors "github.com/PolarWolf314/rssh/internal/errors"
	"github.com/PolarWolf314/rssh/internal/gatekeeper"
	"github.com/PolarWolf314/rssh/internal/vault"
)

// ImportOptions configures the import workflow.
type ImportOptions struct {
	VaultOptions

	// Patterns are file paths or doublestar globs such as "hosts/**/*.txt".
	Patterns []string
}

// ImportResult contains the outcome of an import operation.
type ImportResult struct {
	// Files are the files that were read, in import order.
	Files []string

	// Count is the number of credential lines imported.
	Count int

	HostsAdded int
	UsersAdded int
	Updated    int
	Unchanged  int
}

// Import reads "address username password" lines from every matched file
// and upserts them with a single save.
//
// Every line is parsed before the vault is touched: blank lines are skipped
// and any other line must have exactly three fields. A malformed line fails
// the whole import with ErrImportFormat naming the file and line, and
// nothing is stored. Returns ErrFileNotFound when a pattern matches nothing.
func Import(ctx context.Context, opts ImportOptions) (*ImportResult, error) {
	files, err := expandImportPatterns(opts.Patterns)
	if err != nil {
		return nil, err
	}

	var creds []vault.Credential
	for _, file := range files {
		parsed, err := parseImportFile(file)
		if err != nil {
			return nil, err
		}
		opts.Logger.Debugf("parsed %d credentials from %s", len(parsed), file)
		creds = append(creds, parsed...)
	}

	s, v, err := openVault(ctx, opts.VaultOptions, gatekeeper.Privileged)
	if err != nil {
		return nil, err
	}

	result := &ImportResult{Files: files, Count: len(creds)}
	for _, c := range creds {
		change, err := v.Upsert(c.Host, c.Username, c.Password)
		if err != nil {
			// Fields were validated while parsing.
			return nil, err
		}
		switch change {
		case vault.HostAdded:
			result.HostsAdded++
		case vault.UserAdded:
			result.UsersAdded++
		case vault.PasswordUpdated:
			result.Updated++
		default:
			result.Unchanged++
		}
	}

	if err := s.Save(v); err != nil {
		return nil, err
	}

	opts.record(audit.Entry{Operation: "import", Count: result.Count, Files: files})

	return result, nil
}

// expandImportPatterns resolves each pattern to files. Literal paths must
// exist; globs must match at least one regular file. Duplicates are dropped.
func expandImportPatterns(patterns []string) ([]string, error) {
	if len(patterns) == 0 {
		return nil, fmt.Errorf("%w: no import files given", kerrors.ErrFileNotFound)
	}

	var files []string
	seen := make(map[string]bool)
	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}

	for _, pattern := range patterns {
		if !hasGlobMeta(pattern) {
			info, err := os.Stat(pattern)
			if errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("%w: %s", kerrors.ErrFileNotFound, pattern)
			}
			if err != nil {
				return nil, fmt.Errorf("reading %s: %w", pattern, err)
			}
			if info.IsDir() {
				return nil, fmt.Errorf("%w: %s is a directory", kerrors.ErrFileNotFound, pattern)
			}
			add(pattern)
			continue
		}

		if !doublestar.ValidatePathPattern(pattern) {
			return nil, fmt.Errorf("%w: invalid pattern %q", kerrors.ErrFileNotFound, pattern)
		}
		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("expanding %s: %w", pattern, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("%w: no files match %s", kerrors.ErrFileNotFound, pattern)
		}
		for _, m := range matches {
			add(m)
		}
	}

	return files, nil
}

func hasGlobMeta(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[{")
}

// maxImportLine bounds a single import line.
const maxImportLine = 1024 * 1024

// parseImportFile parses every line of path without touching the vault.
func parseImportFile(path string) ([]vault.Credential, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var creds []vault.Credential
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxImportLine)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		cred, err := parseImportLine(line)
		if err != nil {
			return nil, fmt.Errorf("%w: %s line %d: %v", kerrors.ErrImportFormat, path, lineNo, err)
		}
		creds = append(creds, cred)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s line %d: %v", kerrors.ErrImportFormat, path, lineNo+1, err)
	}

	return creds, nil
}

func parseImportLine(line string) (vault.Credential, error) {
	fields := strings.Fields(line)
	if len(fields) != 3 {
		return vault.Credential{}, fmt.Errorf("expected \"address username password\", got %d fields", len(fields))
	}

	c := vault.Credential{Host: fields[0], Username: fields[1], Password: fields[2]}
	for _, f := range [][2]string{{"address", c.Host}, {"username", c.Username}, {"password", c.Password}} {
		if err := vault.ValidateField(f[0], f[1]); err != nil {
			return vault.Credential{}, err
		}
	}
	return c, nil
}
