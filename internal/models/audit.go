package models

import "time"

// ActionType classifies an audit event.
type ActionType string

const (
	ActionLoginSuccess         ActionType = "login_success"
	ActionLoginFailure         ActionType = "login_failure"
	ActionLogout               ActionType = "logout"
	ActionSignup               ActionType = "signup"
	ActionMasterPasswordChange ActionType = "master_password_change"
	ActionCredentialAdd        ActionType = "credential_add"
	ActionCredentialView       ActionType = "credential_view"
	ActionCredentialUpdate     ActionType = "credential_update"
	ActionCredentialDelete     ActionType = "credential_delete"
	ActionCredentialExport     ActionType = "credential_export"
	ActionCredentialImport     ActionType = "credential_import"
	ActionSessionStart         ActionType = "session_start"
	ActionSessionExpired       ActionType = "session_expired"
	ActionSessionRefresh       ActionType = "session_refresh"
	ActionPreferencesUpdate    ActionType = "preferences_update"
	ActionAuditCleanup         ActionType = "audit_cleanup"
	ActionAuditExport          ActionType = "audit_export"
	ActionPasswordGenerate     ActionType = "password_generate"
	ActionBackup               ActionType = "backup"
)

// AuditEvent is one append-only audit row. ID and CreatedAt are assigned
// on insert.
type AuditEvent struct {
	ID             int64
	Identity       string
	ActionType     ActionType
	Description    string
	TargetResource *string
	OriginAddress  string
	OriginAgent    string
	Success        bool
	ErrorMessage   *string
	SessionID      *string
	Extra          map[string]string
	CreatedAt      time.Time
}

// NewAuditEvent starts a successful event.
func NewAuditEvent(identity string, action ActionType, description string) AuditEvent {
	return AuditEvent{
		Identity:    identity,
		ActionType:  action,
		Description: description,
		Success:     true,
	}
}

func (e AuditEvent) WithTarget(target string) AuditEvent {
	e.TargetResource = &target
	return e
}

func (e AuditEvent) WithSession(id string) AuditEvent {
	if id != "" {
		e.SessionID = &id
	}
	return e
}

// WithError marks the event failed. A nil err keeps it successful.
func (e AuditEvent) WithError(err error) AuditEvent {
	if err == nil {
		return e
	}
	msg := err.Error()
	e.Success = false
	e.ErrorMessage = &msg
	return e
}

func (e AuditEvent) WithOrigin(address, agent string) AuditEvent {
	e.OriginAddress = address
	e.OriginAgent = agent
	return e
}

func (e AuditEvent) WithExtra(key, value string) AuditEvent {
	extra := make(map[string]string, len(e.Extra)+1)
	for k, v := range e.Extra {
		extra[k] = v
	}
	extra[key] = value
	e.Extra = extra
	return e
}

// AuditFilter narrows a query. Zero values mean "no constraint"; Limit 0
// means the default page size.
type AuditFilter struct {
	Identity   string
	ActionType ActionType
	From       *time.Time
	To         *time.Time
	Success    *bool
	Limit      int
	Offset     int
}

// AuditStats summarises events for one identity over a window.
type AuditStats struct {
	Total     int
	ByAction  map[ActionType]int
	Successes int
	Failures  int
	Since     time.Time
}

// AuditRecord is the export shape of an event.
type AuditRecord struct {
	ID             int64             `json:"id" yaml:"id"`
	Identity       string            `json:"identity" yaml:"identity"`
	ActionType     string            `json:"action_type" yaml:"action_type"`
	Description    string            `json:"description" yaml:"description"`
	TargetResource *string           `json:"target_resource" yaml:"target_resource"`
	OriginAddress  string            `json:"origin_address" yaml:"origin_address"`
	OriginAgent    string            `json:"origin_agent" yaml:"origin_agent"`
	Success        bool              `json:"success" yaml:"success"`
	ErrorMessage   *string           `json:"error_message" yaml:"error_message"`
	SessionID      *string           `json:"session_id" yaml:"session_id"`
	Extra          map[string]string `json:"extra,omitempty" yaml:"extra,omitempty"`
	CreatedAt      string            `json:"created_at" yaml:"created_at"`
}

// ToRecord renders e for export with an RFC 3339 timestamp.
func (e AuditEvent) ToRecord() AuditRecord {
	return AuditRecord{
		ID:             e.ID,
		Identity:       e.Identity,
		ActionType:     string(e.ActionType),
		Description:    e.Description,
		TargetResource: e.TargetResource,
		OriginAddress:  e.OriginAddress,
		OriginAgent:    e.OriginAgent,
		Success:        e.Success,
		ErrorMessage:   e.ErrorMessage,
		SessionID:      e.SessionID,
		Extra:          e.Extra,
		CreatedAt:      e.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}
