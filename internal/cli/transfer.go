package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/vaultkeeper/internal/backup"
	"github.com/dmitrijs2005/vaultkeeper/internal/cryptox"
	"github.com/dmitrijs2005/vaultkeeper/internal/filex"
	"github.com/dmitrijs2005/vaultkeeper/internal/models"
	"github.com/dmitrijs2005/vaultkeeper/internal/snapshot"
)

// formatFor picks the snapshot format: an explicit argument wins, then the
// file extension (ignoring a trailing .sealed), then the configured default.
func (a *App) formatFor(path string, args []string) (snapshot.Format, error) {
	if len(args) > 0 {
		return snapshot.ParseFormat(args[0])
	}
	ext := strings.TrimPrefix(filepath.Ext(strings.TrimSuffix(path, backup.SealedExt)), ".")
	if f, err := snapshot.ParseFormat(ext); err == nil && ext != "" {
		return f, nil
	}
	return snapshot.ParseFormat(a.config.ExportFormat)
}

// writeOut prints data for "-" and writes a 0600 file otherwise.
func (a *App) writeOut(path string, data []byte) error {
	if path == "-" {
		a.printf("%s\n", data)
		return nil
	}
	if err := filex.WriteFileAtomic(path, data, 0o600); err != nil {
		return err
	}
	a.printf("Wrote %s.\n", path)
	return nil
}

func (a *App) Export(ctx context.Context, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return usage("export <file|-> [json|yaml]")
	}
	format, err := a.formatFor(args[0], args[1:])
	if err != nil {
		return err
	}
	data, err := a.vault.ExportCredentials(ctx, format)
	if err != nil {
		return err
	}
	a.printf("Warning: the export contains plaintext passwords.\n")
	return a.writeOut(args[0], data)
}

func (a *App) Import(ctx context.Context, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return usage("import <file> [json|yaml]")
	}
	format, err := a.formatFor(args[0], args[1:])
	if err != nil {
		return err
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	report, err := a.vault.ImportCredentials(ctx, data, format)
	if err != nil {
		return err
	}
	a.printImport(report.Imported, report.Failed)
	return nil
}

func (a *App) Backup(ctx context.Context, args []string) error {
	if len(args) > 1 {
		return usage("backup [dir|s3]")
	}
	target := "dir"
	if len(args) == 1 {
		target = strings.ToLower(args[0])
	}

	var sink backup.Sink
	switch target {
	case "dir":
		sink = a.dirSink
	case "s3":
		if !a.config.S3.Enabled() {
			return fmt.Errorf("s3 backups are not configured (set -s3-bucket)")
		}
		s, err := newS3Sink(ctx, a.config.S3)
		if err != nil {
			return err
		}
		sink = s
	default:
		return usage("backup [dir|s3]")
	}

	format, err := snapshot.ParseFormat(a.config.ExportFormat)
	if err != nil {
		return err
	}
	pass, err := a.readSecret("Backup passphrase (empty for none)")
	if err != nil {
		return err
	}

	loc, err := a.vault.Backup(ctx, sink, format, []byte(pass))
	if err != nil {
		return err
	}
	a.printf("Backup written to %s.\n", loc)
	return nil
}

func (a *App) Restore(ctx context.Context, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return usage("restore <file> [json|yaml]")
	}
	format, err := a.formatFor(args[0], args[1:])
	if err != nil {
		return err
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}

	var pass string
	if cryptox.IsSealed(data) {
		if pass, err = a.readSecret("Backup passphrase"); err != nil {
			return err
		}
	}
	report, err := a.vault.Restore(ctx, data, format, []byte(pass))
	if err != nil {
		return err
	}
	a.printImport(report.Imported, report.Failed)
	return nil
}

func (a *App) printImport(imported int, failed []models.ImportFailure) {
	a.printf("Imported %d credential(s).\n", imported)
	for _, f := range failed {
		a.printf("  entry %d (%q) skipped: %s\n", f.Index, f.Website, f.Reason)
	}
}
