package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmitrijs2005/vaultkeeper/internal/common"
	"github.com/dmitrijs2005/vaultkeeper/internal/logging"
	"github.com/dmitrijs2005/vaultkeeper/internal/models"
	"github.com/dmitrijs2005/vaultkeeper/internal/repositories/repomanager"
	"github.com/dmitrijs2005/vaultkeeper/internal/snapshot"
	"github.com/dmitrijs2005/vaultkeeper/internal/timex"
)

// AuditService records and reads the audit trail. Record never fails the
// caller: storage problems are logged at WARN and dropped.
type AuditService interface {
	Record(ctx context.Context, e models.AuditEvent)
	Query(ctx context.Context, f models.AuditFilter) ([]models.AuditEvent, error)
	Stats(ctx context.Context, identity string, windowDays int) (models.AuditStats, error)
	Cleanup(ctx context.Context, retentionDays int) (int64, error)
	Export(ctx context.Context, identity string, from, to *time.Time, format snapshot.Format) ([]byte, error)
}

type auditService struct {
	db    *sql.DB
	repos repomanager.RepositoryManager
	clock timex.Clock
	log   logging.Logger
}

func NewAuditService(db *sql.DB, repos repomanager.RepositoryManager, clock timex.Clock, log logging.Logger) AuditService {
	return &auditService{db: db, repos: repos, clock: clock, log: log}
}

func (s *auditService) Record(ctx context.Context, e models.AuditEvent) {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = s.clock.Now()
	}
	err := retry(ctx, func() error {
		_, err := s.repos.Audit(s.db).Insert(ctx, &e)
		return err
	})
	if err != nil {
		s.log.Warn(ctx, "audit record dropped", "action", string(e.ActionType), "identity", e.Identity, "error", err)
	}
}

func (s *auditService) Query(ctx context.Context, f models.AuditFilter) ([]models.AuditEvent, error) {
	var events []models.AuditEvent
	err := retry(ctx, func() error {
		var err error
		events, err = s.repos.Audit(s.db).Query(ctx, f)
		return err
	})
	return events, err
}

func (s *auditService) Stats(ctx context.Context, identity string, windowDays int) (models.AuditStats, error) {
	if windowDays < 0 {
		return models.AuditStats{}, fmt.Errorf("%w: window of %d days", common.ErrInvalidOptions, windowDays)
	}
	since := s.clock.Now().AddDate(0, 0, -windowDays)

	var stats models.AuditStats
	err := retry(ctx, func() error {
		var err error
		stats, err = s.repos.Audit(s.db).Stats(ctx, identity, since)
		return err
	})
	return stats, err
}

// Cleanup deletes events created at or before now minus retentionDays, so a
// retention of zero empties the log.
func (s *auditService) Cleanup(ctx context.Context, retentionDays int) (int64, error) {
	if retentionDays < 0 {
		return 0, fmt.Errorf("%w: retention of %d days", common.ErrInvalidOptions, retentionDays)
	}
	cutoff := s.clock.Now().AddDate(0, 0, -retentionDays)

	var n int64
	err := retry(ctx, func() error {
		var err error
		n, err = s.repos.Audit(s.db).DeleteUpTo(ctx, cutoff)
		return err
	})
	if err != nil {
		return 0, err
	}
	s.log.Info(ctx, "audit cleanup", "retention_days", retentionDays, "deleted", n)
	return n, nil
}

// Export renders events oldest first for archival.
func (s *auditService) Export(ctx context.Context, identity string, from, to *time.Time, format snapshot.Format) ([]byte, error) {
	var events []models.AuditEvent
	err := retry(ctx, func() error {
		var err error
		events, err = s.repos.Audit(s.db).Range(ctx, identity, from, to)
		return err
	})
	if err != nil {
		return nil, err
	}

	records := make([]models.AuditRecord, 0, len(events))
	for _, e := range events {
		records = append(records, e.ToRecord())
	}
	return snapshot.Encode(records, format)
}
