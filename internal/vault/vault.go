// Package vault is the entry point front-ends talk to. It authenticates
// the master identity, gates every operation on the session, refreshes the
// session on success and writes an audit event for each sensitive call.
package vault

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/vaultkeeper/internal/common"
	"github.com/dmitrijs2005/vaultkeeper/internal/logging"
	"github.com/dmitrijs2005/vaultkeeper/internal/models"
	"github.com/dmitrijs2005/vaultkeeper/internal/passwords"
	"github.com/dmitrijs2005/vaultkeeper/internal/services"
	"github.com/dmitrijs2005/vaultkeeper/internal/session"
	"github.com/dmitrijs2005/vaultkeeper/internal/timex"
)

// OriginAddress marks events produced by a local front-end.
const OriginAddress = "local"

type Deps struct {
	Credentials services.CredentialService
	Auth        services.AuthService
	Preferences services.PreferenceService
	Audit       services.AuditService
	Sessions    *session.Manager
	Clock       timex.Clock
	Log         logging.Logger

	// Agent identifies the front-end in audit events, e.g. "vaultkeeper-cli/1.0".
	Agent string
}

type Vault struct {
	creds    services.CredentialService
	auth     services.AuthService
	prefs    services.PreferenceService
	audit    services.AuditService
	sessions *session.Manager
	gen      *passwords.Generator
	clock    timex.Clock
	log      logging.Logger
	agent    string
}

// New wires the services together and registers the session expiry hook.
func New(d Deps) *Vault {
	v := &Vault{
		creds:    d.Credentials,
		auth:     d.Auth,
		prefs:    d.Preferences,
		audit:    d.Audit,
		sessions: d.Sessions,
		gen:      passwords.NewGenerator(),
		clock:    d.Clock,
		log:      d.Log,
		agent:    d.Agent,
	}
	v.sessions.OnExpire(v.onExpire)
	return v
}

func (v *Vault) onExpire(info session.Info) {
	ctx := context.Background()
	v.record(ctx, models.NewAuditEvent(info.Identity, models.ActionSessionExpired, "session expired").
		WithSession(info.ID))
}

func (v *Vault) record(ctx context.Context, e models.AuditEvent) {
	v.audit.Record(ctx, e.WithOrigin(OriginAddress, v.agent))
}

// guarded runs fn inside the current session. fn may adjust the audit
// event; a nil event pointer after fn means nothing is recorded.
func (v *Vault) guarded(ctx context.Context, action models.ActionType, description string,
	fn func(s session.Info, e *models.AuditEvent) error) error {

	s, err := v.sessions.CheckInfo()
	if err != nil {
		return err
	}

	e := models.NewAuditEvent(s.Identity, action, description).WithSession(s.ID)
	err = fn(s, &e)
	if err == nil {
		if rerr := v.sessions.Refresh(); rerr != nil {
			v.log.Debug(ctx, "session refresh after call", "error", rerr)
		}
	}
	if action != "" {
		v.record(ctx, e.WithError(err))
	}
	return err
}

// NeedsSignup reports whether the master account is still missing.
func (v *Vault) NeedsSignup(ctx context.Context) (bool, error) {
	ok, err := v.auth.Exists(ctx)
	return !ok, err
}

func (v *Vault) Signup(ctx context.Context, username, password string) error {
	err := v.auth.Signup(ctx, username, password)
	v.record(ctx, models.NewAuditEvent(username, models.ActionSignup, "master account created").WithError(err))
	return err
}

// Login verifies the master credentials and starts a session. A wrong
// pair yields ErrorUnauthorized.
func (v *Vault) Login(ctx context.Context, username, password string) (session.Info, error) {
	ok, err := v.auth.Verify(ctx, username, password)
	if err == nil && !ok {
		err = common.ErrorUnauthorized
	}
	if err != nil {
		v.record(ctx, models.NewAuditEvent(username, models.ActionLoginFailure, "login failed").WithError(err))
		return session.Info{}, err
	}

	info, err := v.sessions.Start(ctx, username)
	if err != nil {
		return session.Info{}, err
	}
	v.record(ctx, models.NewAuditEvent(username, models.ActionLoginSuccess, "login").WithSession(info.ID))
	v.record(ctx, models.NewAuditEvent(username, models.ActionSessionStart, "session started").
		WithSession(info.ID).
		WithExtra("timeout_seconds", fmt.Sprint(int(info.Timeout.Seconds()))))
	return info, nil
}

// Logout ends the session in any state. It is a no-op without a session.
func (v *Vault) Logout(ctx context.Context) {
	prev, ok := v.sessions.End()
	if !ok {
		return
	}
	v.record(ctx, models.NewAuditEvent(prev.Identity, models.ActionLogout, "logout").WithSession(prev.ID))
}

// Session returns the current session state without touching it.
func (v *Vault) Session() session.Info {
	return v.sessions.Snapshot()
}

func (v *Vault) RefreshSession(ctx context.Context) error {
	return v.guarded(ctx, models.ActionSessionRefresh, "session refreshed",
		func(session.Info, *models.AuditEvent) error { return nil })
}

// ChangeMasterPassword requires the current password again.
func (v *Vault) ChangeMasterPassword(ctx context.Context, current, next string) error {
	return v.guarded(ctx, models.ActionMasterPasswordChange, "master password changed",
		func(s session.Info, _ *models.AuditEvent) error {
			ok, err := v.auth.Verify(ctx, s.Identity, current)
			if err != nil {
				return err
			}
			if !ok {
				return common.ErrorUnauthorized
			}
			return v.auth.ChangePassword(ctx, next)
		})
}

// IsAuthError reports whether err means the caller must log in again.
func IsAuthError(err error) bool {
	return errors.Is(err, common.ErrNoActiveSession) ||
		errors.Is(err, common.ErrSessionExpired) ||
		errors.Is(err, common.ErrorUnauthorized)
}
