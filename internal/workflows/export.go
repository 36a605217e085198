package workflows

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/PolarWolf314/rssh/internal/audit"
	kerrors "github.com/PolarWolf314/rssh/internal/errors"
	"github.com/PolarWolf314/rssh/internal/gatekeeper"
	"github.com/PolarWolf314/rssh/internal/vault"
)

// StdoutPath selects standard output as the export destination.
const StdoutPath = "-"

// ExportOptions configures the export workflow.
type ExportOptions struct {
	VaultOptions

	// OutputPath is the file to write, or "-" for Stdout.
	OutputPath string

	// Stdout defaults to os.Stdout.
	Stdout io.Writer
}

// ExportResult contains the outcome of an export operation.
type ExportResult struct {
	Count      int
	OutputPath string
}

// Export writes one "address username password" line per credential, in
// stored order. A file destination is replaced atomically with mode 0600.
// The vault itself is not saved.
func Export(ctx context.Context, opts ExportOptions) (*ExportResult, error) {
	_, v, err := openVault(ctx, opts.VaultOptions, gatekeeper.Privileged)
	if err != nil {
		return nil, err
	}

	lines := ExportLines(v)
	content := strings.Join(lines, "\n")
	if len(lines) > 0 {
		content += "\n"
	}

	if opts.OutputPath == "" || opts.OutputPath == StdoutPath {
		out := opts.Stdout
		if out == nil {
			out = os.Stdout
		}
		if _, err := io.WriteString(out, content); err != nil {
			return nil, err
		}
	} else {
		w := opts.writer()
		if err := w.Write(opts.OutputPath, []byte(content)); err != nil {
			_ = os.Remove(w.StagingPath(opts.OutputPath))
			return nil, opts.Logger.ErrorfAndReturn("%w: export to %s: %w", kerrors.ErrPersistence, opts.OutputPath, err)
		}
	}

	opts.record(audit.Entry{Operation: "export", Count: len(lines), OutputPath: opts.OutputPath})

	return &ExportResult{Count: len(lines), OutputPath: opts.OutputPath}, nil
}

// ExportLines renders every credential in stored order.
func ExportLines(v *vault.Vault) []string {
	creds := v.Credentials()
	lines := make([]string, 0, len(creds))
	for _, c := range creds {
		lines = append(lines, c.Line())
	}
	return lines
}
