package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dmitrijs2005/vaultkeeper/internal/common"
)

const (
	DefaultSessionTimeoutSeconds = 300
	MinSessionTimeoutSeconds     = 30
	MaxSessionTimeoutSeconds     = 86400
)

// Preferences are the per-identity lock settings.
type Preferences struct {
	Identity                 string
	SessionTimeoutSeconds    int
	LockOnTabInactive        bool
	LockOnSuspiciousActivity bool
	AutoLockEnabled          bool
	LockOnWindowBlur         bool
	CreatedAt                time.Time
	UpdatedAt                time.Time
}

// DefaultPreferences returns the settings a new identity starts with.
func DefaultPreferences(identity string, now time.Time) Preferences {
	return Preferences{
		Identity:                 identity,
		SessionTimeoutSeconds:    DefaultSessionTimeoutSeconds,
		LockOnTabInactive:        true,
		LockOnSuspiciousActivity: true,
		AutoLockEnabled:          true,
		LockOnWindowBlur:         true,
		CreatedAt:                now,
		UpdatedAt:                now,
	}
}

// PreferencesUpdate is a partial update; nil fields are left unchanged.
type PreferencesUpdate struct {
	SessionTimeoutSeconds    *int  `json:"session_timeout"`
	LockOnTabInactive        *bool `json:"lock_on_tab_inactive"`
	LockOnSuspiciousActivity *bool `json:"lock_on_suspicious_activity"`
	AutoLockEnabled          *bool `json:"auto_lock_enabled"`
	LockOnWindowBlur         *bool `json:"lock_on_window_blur"`
}

// Empty reports whether the update changes nothing.
func (u PreferencesUpdate) Empty() bool {
	return u.SessionTimeoutSeconds == nil && u.LockOnTabInactive == nil &&
		u.LockOnSuspiciousActivity == nil && u.AutoLockEnabled == nil && u.LockOnWindowBlur == nil
}

// Validate checks the timeout range.
func (u PreferencesUpdate) Validate() error {
	if t := u.SessionTimeoutSeconds; t != nil && (*t < MinSessionTimeoutSeconds || *t > MaxSessionTimeoutSeconds) {
		return fmt.Errorf("%w: session timeout %ds outside [%d, %d]",
			common.ErrInvalidOptions, *t, MinSessionTimeoutSeconds, MaxSessionTimeoutSeconds)
	}
	return nil
}

// Apply copies the set fields onto p.
func (u PreferencesUpdate) Apply(p *Preferences) {
	if u.SessionTimeoutSeconds != nil {
		p.SessionTimeoutSeconds = *u.SessionTimeoutSeconds
	}
	if u.LockOnTabInactive != nil {
		p.LockOnTabInactive = *u.LockOnTabInactive
	}
	if u.LockOnSuspiciousActivity != nil {
		p.LockOnSuspiciousActivity = *u.LockOnSuspiciousActivity
	}
	if u.AutoLockEnabled != nil {
		p.AutoLockEnabled = *u.AutoLockEnabled
	}
	if u.LockOnWindowBlur != nil {
		p.LockOnWindowBlur = *u.LockOnWindowBlur
	}
}

// ParsePreferencesUpdate decodes a JSON object of preference changes.
// Unknown keys are rejected rather than ignored.
func ParsePreferencesUpdate(data []byte) (PreferencesUpdate, error) {
	var u PreferencesUpdate
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&u); err != nil {
		return PreferencesUpdate{}, fmt.Errorf("%w: %v", common.ErrInvalidOptions, err)
	}
	if err := u.Validate(); err != nil {
		return PreferencesUpdate{}, err
	}
	return u, nil
}
