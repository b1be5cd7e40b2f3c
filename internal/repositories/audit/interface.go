package audit

import (
	"context"
	"time"

	"github.com/dmitrijs2005/vaultkeeper/internal/models"
)

const DefaultQueryLimit = 100

type Repository interface {
	// Insert appends e and returns its id.
	Insert(ctx context.Context, e *models.AuditEvent) (int64, error)

	// Query returns matching events newest first (created_at DESC, id DESC).
	Query(ctx context.Context, f models.AuditFilter) ([]models.AuditEvent, error)

	// Range returns events in [from, to] oldest first. Nil bounds are open
	// and an empty identity matches everyone.
	Range(ctx context.Context, identity string, from, to *time.Time) ([]models.AuditEvent, error)

	// Stats aggregates events created at or after since; an empty identity
	// covers all identities.
	Stats(ctx context.Context, identity string, since time.Time) (models.AuditStats, error)

	// DeleteUpTo removes events created at or before cutoff.
	DeleteUpTo(ctx context.Context, cutoff time.Time) (int64, error)
}
