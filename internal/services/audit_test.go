package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/vaultkeeper/internal/common"
	"github.com/dmitrijs2005/vaultkeeper/internal/logging"
	"github.com/dmitrijs2005/vaultkeeper/internal/models"
	"github.com/dmitrijs2005/vaultkeeper/internal/snapshot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func newAudit(t *testing.T) (*env, AuditService) {
	e := newEnv(t)
	return e, NewAuditService(e.db, e.repos, e.clock, logging.NewNopLogger())
}

func TestAudit_RecordAndQueryNewestFirst(t *testing.T) {
	e, s := newAudit(t)
	ctx := context.Background()

	s.Record(ctx, models.NewAuditEvent("alice", models.ActionLoginSuccess, "login"))
	e.clock.Advance(time.Second)
	s.Record(ctx, models.NewAuditEvent("alice", models.ActionCredentialAdd, "add").WithTarget("a.com"))
	e.clock.Advance(time.Second)
	s.Record(ctx, models.NewAuditEvent("bob", models.ActionLoginFailure, "login").WithError(errors.New("bad password")))

	events, err := s.Query(ctx, models.AuditFilter{Identity: "alice"})
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, models.ActionCredentialAdd, events[0].ActionType)
	assert.Equal(t, t0.Add(time.Second), events[0].CreatedAt)
	assert.Equal(t, models.ActionLoginSuccess, events[1].ActionType)

	failed := false
	events, err = s.Query(ctx, models.AuditFilter{Success: &failed})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "bob", events[0].Identity)
	require.NotNil(t, events[0].ErrorMessage)
	assert.Equal(t, "bad password", *events[0].ErrorMessage)
}

func TestAudit_RecordSwallowsStorageErrors(t *testing.T) {
	e, s := newAudit(t)
	require.NoError(t, e.db.Close())

	assert.NotPanics(t, func() {
		s.Record(context.Background(), models.NewAuditEvent("alice", models.ActionLogout, "logout"))
	})
}

func TestAudit_Stats(t *testing.T) {
	e, s := newAudit(t)
	ctx := context.Background()

	s.Record(ctx, models.NewAuditEvent("alice", models.ActionLoginSuccess, "old"))
	e.clock.Advance(10 * 24 * time.Hour)
	s.Record(ctx, models.NewAuditEvent("alice", models.ActionLoginSuccess, "recent"))
	s.Record(ctx, models.NewAuditEvent("alice", models.ActionLoginFailure, "recent").WithError(common.ErrorUnauthorized))

	stats, err := s.Stats(ctx, "alice", 7)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 1, stats.Successes)
	assert.Equal(t, 1, stats.Failures)
	assert.Equal(t, e.clock.Now().AddDate(0, 0, -7), stats.Since)

	_, err = s.Stats(ctx, "alice", -1)
	assert.ErrorIs(t, err, common.ErrInvalidOptions)
}

func TestAudit_Cleanup(t *testing.T) {
	e, s := newAudit(t)
	ctx := context.Background()

	s.Record(ctx, models.NewAuditEvent("alice", models.ActionLoginSuccess, "old"))
	e.clock.Advance(100 * 24 * time.Hour)
	s.Record(ctx, models.NewAuditEvent("alice", models.ActionLoginSuccess, "new"))

	n, err := s.Cleanup(ctx, 90)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	n, err = s.Cleanup(ctx, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	events, err := s.Query(ctx, models.AuditFilter{})
	require.NoError(t, err)
	assert.Empty(t, events)

	_, err = s.Cleanup(ctx, -1)
	assert.ErrorIs(t, err, common.ErrInvalidOptions)
}

func TestAudit_ExportOldestFirst(t *testing.T) {
	e, s := newAudit(t)
	ctx := context.Background()

	s.Record(ctx, models.NewAuditEvent("alice", models.ActionSignup, "signup"))
	e.clock.Advance(time.Hour)
	s.Record(ctx, models.NewAuditEvent("alice", models.ActionLoginSuccess, "login").WithSession("sid-1"))
	e.clock.Advance(time.Hour)
	s.Record(ctx, models.NewAuditEvent("bob", models.ActionLoginSuccess, "login"))

	data, err := s.Export(ctx, "alice", nil, nil, snapshot.JSON)
	require.NoError(t, err)

	var records []models.AuditRecord
	require.NoError(t, json.Unmarshal(data, &records))
	require.Len(t, records, 2)
	assert.Equal(t, "signup", records[0].ActionType)
	assert.Equal(t, t0.Format(time.RFC3339Nano), records[0].CreatedAt)
	require.NotNil(t, records[1].SessionID)
	assert.Equal(t, "sid-1", *records[1].SessionID)

	from := t0.Add(30 * time.Minute)
	data, err = s.Export(ctx, "", &from, nil, snapshot.YAML)
	require.NoError(t, err)
	records = nil
	require.NoError(t, yaml.Unmarshal(data, &records))
	require.Len(t, records, 2)
	assert.Equal(t, "alice", records[0].Identity)
	assert.Equal(t, "bob", records[1].Identity)
}
