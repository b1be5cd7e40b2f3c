package models

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditEventBuilders(t *testing.T) {
	base := NewAuditEvent("alice", ActionCredentialAdd, "added credential")
	assert.True(t, base.Success)

	e := base.WithTarget("example.com").
		WithSession("sid-1").
		WithOrigin("local", "vault-cli").
		WithExtra("source", "import").
		WithError(errors.New("boom"))

	require.NotNil(t, e.TargetResource)
	assert.Equal(t, "example.com", *e.TargetResource)
	require.NotNil(t, e.SessionID)
	assert.Equal(t, "sid-1", *e.SessionID)
	assert.False(t, e.Success)
	require.NotNil(t, e.ErrorMessage)
	assert.Equal(t, "boom", *e.ErrorMessage)
	assert.Equal(t, map[string]string{"source": "import"}, e.Extra)

	// Builders copy, the base event stays untouched.
	assert.Nil(t, base.TargetResource)
	assert.Nil(t, base.Extra)
	assert.True(t, base.WithError(nil).Success)
	assert.Nil(t, base.WithSession("").SessionID)
}

func TestAuditEvent_ToRecord(t *testing.T) {
	e := NewAuditEvent("alice", ActionLogout, "bye")
	e.ID = 7
	e.CreatedAt = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	r := e.ToRecord()
	assert.Equal(t, int64(7), r.ID)
	assert.Equal(t, "logout", r.ActionType)
	assert.Equal(t, "2024-05-01T12:00:00Z", r.CreatedAt)
}
