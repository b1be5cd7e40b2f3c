package vault

import (
	"context"

	"github.com/dmitrijs2005/vaultkeeper/internal/backup"
	"github.com/dmitrijs2005/vaultkeeper/internal/models"
	"github.com/dmitrijs2005/vaultkeeper/internal/session"
	"github.com/dmitrijs2005/vaultkeeper/internal/snapshot"
)

// Backup exports every active credential to sink, sealed with passphrase
// when one is given, and returns where the backup was written.
func (v *Vault) Backup(ctx context.Context, sink backup.Sink, format snapshot.Format, passphrase []byte) (string, error) {
	var loc string
	err := v.guarded(ctx, models.ActionBackup, "backup written",
		func(_ session.Info, e *models.AuditEvent) error {
			data, err := v.creds.Export(ctx, format)
			if err != nil {
				return err
			}
			loc, err = backup.Write(ctx, sink, v.clock.Now(), format, data, passphrase)
			if err == nil {
				*e = e.WithTarget(loc)
			}
			if len(passphrase) > 0 {
				*e = e.WithExtra("sealed", "true")
			}
			return err
		})
	return loc, err
}

// Restore imports a backup produced by Backup.
func (v *Vault) Restore(ctx context.Context, data []byte, format snapshot.Format, passphrase []byte) (models.ImportReport, error) {
	if err := v.sessions.Check(); err != nil {
		return models.ImportReport{}, err
	}
	plain, err := backup.Unwrap(data, passphrase)
	if err != nil {
		return models.ImportReport{}, err
	}
	return v.ImportCredentials(ctx, plain, format)
}
