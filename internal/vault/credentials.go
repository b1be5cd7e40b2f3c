package vault

import (
	"context"
	"strconv"

	"github.com/dmitrijs2005/vaultkeeper/internal/models"
	"github.com/dmitrijs2005/vaultkeeper/internal/session"
	"github.com/dmitrijs2005/vaultkeeper/internal/snapshot"
)

// AddCredential stores or overwrites the credential for website.
func (v *Vault) AddCredential(ctx context.Context, website, username, password string) (created bool, err error) {
	err = v.guarded(ctx, models.ActionCredentialAdd, "credential saved",
		func(_ session.Info, e *models.AuditEvent) error {
			*e = e.WithTarget(website)
			var err error
			created, err = v.creds.Upsert(ctx, website, username, password)
			if err == nil && !created {
				e.ActionType = models.ActionCredentialUpdate
			}
			return err
		})
	return created, err
}

func (v *Vault) GetCredential(ctx context.Context, website string) (*models.Record, error) {
	var r *models.Record
	err := v.guarded(ctx, models.ActionCredentialView, "credential viewed",
		func(_ session.Info, e *models.AuditEvent) error {
			*e = e.WithTarget(website)
			var err error
			r, err = v.creds.Get(ctx, website)
			return err
		})
	return r, err
}

func (v *Vault) UpdatePassword(ctx context.Context, website, password string) error {
	return v.guarded(ctx, models.ActionCredentialUpdate, "credential password changed",
		func(_ session.Info, e *models.AuditEvent) error {
			*e = e.WithTarget(website)
			return v.creds.UpdatePassword(ctx, website, password)
		})
}

func (v *Vault) DeleteCredential(ctx context.Context, website string) error {
	return v.guarded(ctx, models.ActionCredentialDelete, "credential deleted",
		func(_ session.Info, e *models.AuditEvent) error {
			*e = e.WithTarget(website)
			return v.creds.SoftDelete(ctx, website)
		})
}

// Websites lists active websites. Listing names is not audited.
func (v *Vault) Websites(ctx context.Context) ([]string, error) {
	var sites []string
	err := v.guarded(ctx, "", "", func(session.Info, *models.AuditEvent) error {
		var err error
		sites, err = v.creds.Websites(ctx)
		return err
	})
	return sites, err
}

func (v *Vault) CountCredentials(ctx context.Context) (int, error) {
	var n int
	err := v.guarded(ctx, "", "", func(session.Info, *models.AuditEvent) error {
		var err error
		n, err = v.creds.CountActive(ctx)
		return err
	})
	return n, err
}

func (v *Vault) ExportCredentials(ctx context.Context, format snapshot.Format) ([]byte, error) {
	var data []byte
	err := v.guarded(ctx, models.ActionCredentialExport, "credentials exported",
		func(_ session.Info, e *models.AuditEvent) error {
			*e = e.WithExtra("format", string(format))
			var err error
			data, err = v.creds.Export(ctx, format)
			return err
		})
	return data, err
}

func (v *Vault) ImportCredentials(ctx context.Context, data []byte, format snapshot.Format) (models.ImportReport, error) {
	var report models.ImportReport
	err := v.guarded(ctx, models.ActionCredentialImport, "credentials imported",
		func(_ session.Info, e *models.AuditEvent) error {
			var err error
			report, err = v.creds.Import(ctx, data, format)
			*e = e.WithExtra("imported", strconv.Itoa(report.Imported)).
				WithExtra("failed", strconv.Itoa(len(report.Failed)))
			return err
		})
	return report, err
}

func (v *Vault) HygieneReport(ctx context.Context) (models.HygieneReport, error) {
	var r models.HygieneReport
	err := v.guarded(ctx, "", "", func(session.Info, *models.AuditEvent) error {
		var err error
		r, err = v.creds.HygieneReport(ctx)
		return err
	})
	return r, err
}
