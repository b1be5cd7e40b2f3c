package vault

import (
	"context"
	"strconv"

	"github.com/dmitrijs2005/vaultkeeper/internal/models"
	"github.com/dmitrijs2005/vaultkeeper/internal/session"
)

func (v *Vault) Preferences(ctx context.Context) (models.Preferences, error) {
	var p models.Preferences
	err := v.guarded(ctx, "", "", func(s session.Info, _ *models.AuditEvent) error {
		var err error
		p, err = v.prefs.Get(ctx, s.Identity)
		return err
	})
	return p, err
}

// UpdatePreferences stores u; a new timeout also applies to the running
// session.
func (v *Vault) UpdatePreferences(ctx context.Context, u models.PreferencesUpdate) (models.Preferences, error) {
	var p models.Preferences
	err := v.guarded(ctx, models.ActionPreferencesUpdate, "preferences updated",
		func(s session.Info, e *models.AuditEvent) error {
			var err error
			p, err = v.prefs.Update(ctx, s.Identity, u)
			if err != nil {
				return err
			}
			if u.SessionTimeoutSeconds != nil {
				*e = e.WithExtra("session_timeout", strconv.Itoa(p.SessionTimeoutSeconds))
				return v.sessions.UpdateTimeout(p.SessionTimeoutSeconds)
			}
			return nil
		})
	return p, err
}
