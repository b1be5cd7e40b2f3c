package vault

import (
	"context"
	"strconv"
	"time"

	"github.com/dmitrijs2005/vaultkeeper/internal/models"
	"github.com/dmitrijs2005/vaultkeeper/internal/session"
	"github.com/dmitrijs2005/vaultkeeper/internal/snapshot"
)

func (v *Vault) AuditQuery(ctx context.Context, f models.AuditFilter) ([]models.AuditEvent, error) {
	var events []models.AuditEvent
	err := v.guarded(ctx, "", "", func(session.Info, *models.AuditEvent) error {
		var err error
		events, err = v.audit.Query(ctx, f)
		return err
	})
	return events, err
}

// AuditStats covers the session identity; windowDays counts back from now.
func (v *Vault) AuditStats(ctx context.Context, windowDays int) (models.AuditStats, error) {
	var stats models.AuditStats
	err := v.guarded(ctx, "", "", func(s session.Info, _ *models.AuditEvent) error {
		var err error
		stats, err = v.audit.Stats(ctx, s.Identity, windowDays)
		return err
	})
	return stats, err
}

// AuditCleanup deletes old events. The cleanup event itself is written
// afterwards and survives.
func (v *Vault) AuditCleanup(ctx context.Context, retentionDays int) (int64, error) {
	var n int64
	err := v.guarded(ctx, models.ActionAuditCleanup, "audit log cleaned up",
		func(_ session.Info, e *models.AuditEvent) error {
			var err error
			n, err = v.audit.Cleanup(ctx, retentionDays)
			*e = e.WithExtra("retention_days", strconv.Itoa(retentionDays)).
				WithExtra("deleted", strconv.FormatInt(n, 10))
			return err
		})
	return n, err
}

// AuditExport renders the trail of every identity in [from, to].
func (v *Vault) AuditExport(ctx context.Context, from, to *time.Time, format snapshot.Format) ([]byte, error) {
	var data []byte
	err := v.guarded(ctx, models.ActionAuditExport, "audit log exported",
		func(_ session.Info, e *models.AuditEvent) error {
			*e = e.WithExtra("format", string(format))
			var err error
			data, err = v.audit.Export(ctx, "", from, to, format)
			return err
		})
	return data, err
}
