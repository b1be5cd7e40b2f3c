package cli

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/vaultkeeper/internal/models"
)

func (a *App) printPrefs(p models.Preferences) {
	a.printf("session_timeout:             %ds\n", p.SessionTimeoutSeconds)
	a.printf("auto_lock_enabled:           %t\n", p.AutoLockEnabled)
	a.printf("lock_on_tab_inactive:        %t\n", p.LockOnTabInactive)
	a.printf("lock_on_suspicious_activity: %t\n", p.LockOnSuspiciousActivity)
	a.printf("lock_on_window_blur:         %t\n", p.LockOnWindowBlur)
}

func (a *App) Prefs(ctx context.Context, _ []string) error {
	p, err := a.vault.Preferences(ctx)
	if err != nil {
		return err
	}
	a.printPrefs(p)
	return nil
}

// SetPrefs takes a JSON object, inline or typed on following lines, e.g.
// setprefs {"session_timeout": 600}.
func (a *App) SetPrefs(ctx context.Context, args []string) error {
	raw := strings.Join(args, " ")
	if raw == "" {
		var err error
		raw, err = GetMultiline(a.reader, "Enter preference changes as JSON", a.out)
		if err != nil {
			return err
		}
	}

	u, err := models.ParsePreferencesUpdate([]byte(raw))
	if err != nil {
		return err
	}
	p, err := a.vault.UpdatePreferences(ctx, u)
	if err != nil {
		return err
	}
	a.printPrefs(p)
	return nil
}
