package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"github.com/dmitrijs2005/vaultkeeper/internal/dbx"
	"github.com/dmitrijs2005/vaultkeeper/internal/models"
	"github.com/dmitrijs2005/vaultkeeper/internal/timex"
)

const selectColumns = `SELECT id, identity, action_type, description, target_resource, origin_address,
	origin_agent, success, error_message, session_id, extra, created_at FROM audit_events`

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Insert(ctx context.Context, e *models.AuditEvent) (int64, error) {
	var extra *string
	if len(e.Extra) > 0 {
		b, err := json.Marshal(e.Extra)
		if err != nil {
			return 0, dbx.Wrap("encode extra", err)
		}
		s := string(b)
		extra = &s
	}

	res, err := r.db.ExecContext(ctx, `INSERT INTO audit_events (identity, action_type, description,
			target_resource, origin_address, origin_agent, success, error_message, session_id, extra, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.Identity, string(e.ActionType), e.Description, e.TargetResource, e.OriginAddress, e.OriginAgent,
		e.Success, e.ErrorMessage, e.SessionID, extra, timex.ToUnix(e.CreatedAt))
	if err != nil {
		return 0, dbx.Wrap("insert audit event", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, dbx.Wrap("last insert id", err)
	}
	return id, nil
}

type where struct {
	clauses []string
	args    []any
}

func (w *where) add(clause string, arg any) {
	w.clauses = append(w.clauses, clause)
	w.args = append(w.args, arg)
}

func (w *where) String() string {
	if len(w.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.clauses, " AND ")
}

func (r *SQLiteRepository) Query(ctx context.Context, f models.AuditFilter) ([]models.AuditEvent, error) {
	var w where
	if f.Identity != "" {
		w.add("identity = ?", f.Identity)
	}
	if f.ActionType != "" {
		w.add("action_type = ?", string(f.ActionType))
	}
	if f.From != nil {
		w.add("created_at >= ?", timex.ToUnix(*f.From))
	}
	if f.To != nil {
		w.add("created_at <= ?", timex.ToUnix(*f.To))
	}
	if f.Success != nil {
		w.add("success = ?", *f.Success)
	}

	limit := f.Limit
	if limit <= 0 {
		limit = DefaultQueryLimit
	}
	offset := f.Offset
	if offset < 0 {
		offset = 0
	}

	q := selectColumns + w.String() + " ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?"
	return r.list(ctx, q, append(w.args, limit, offset)...)
}

func (r *SQLiteRepository) Range(ctx context.Context, identity string, from, to *time.Time) ([]models.AuditEvent, error) {
	var w where
	if identity != "" {
		w.add("identity = ?", identity)
	}
	if from != nil {
		w.add("created_at >= ?", timex.ToUnix(*from))
	}
	if to != nil {
		w.add("created_at <= ?", timex.ToUnix(*to))
	}
	return r.list(ctx, selectColumns+w.String()+" ORDER BY created_at ASC, id ASC", w.args...)
}

func (r *SQLiteRepository) Stats(ctx context.Context, identity string, since time.Time) (models.AuditStats, error) {
	stats := models.AuditStats{ByAction: map[models.ActionType]int{}, Since: since}

	var w where
	if identity != "" {
		w.add("identity = ?", identity)
	}
	w.add("created_at >= ?", timex.ToUnix(since))

	rows, err := r.db.QueryContext(ctx,
		`SELECT action_type, success, COUNT(*) FROM audit_events`+w.String()+` GROUP BY action_type, success`,
		w.args...)
	if err != nil {
		return stats, dbx.Wrap("audit stats", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			action  string
			success bool
			n       int
		)
		if err := rows.Scan(&action, &success, &n); err != nil {
			return stats, dbx.Wrap("scan audit stats", err)
		}
		stats.ByAction[models.ActionType(action)] += n
		stats.Total += n
		if success {
			stats.Successes += n
		} else {
			stats.Failures += n
		}
	}
	if err := rows.Err(); err != nil {
		return stats, dbx.Wrap("iterate audit stats", err)
	}
	return stats, nil
}

func (r *SQLiteRepository) DeleteUpTo(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM audit_events WHERE created_at <= ?`, timex.ToUnix(cutoff))
	if err != nil {
		return 0, dbx.Wrap("delete audit events", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, dbx.Wrap("rows affected", err)
	}
	return n, nil
}

func (r *SQLiteRepository) list(ctx context.Context, query string, args ...any) ([]models.AuditEvent, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, dbx.Wrap("select audit events", err)
	}
	defer rows.Close()

	events := []models.AuditEvent{}
	for rows.Next() {
		var (
			e         models.AuditEvent
			action    string
			target    sql.NullString
			errMsg    sql.NullString
			sessionID sql.NullString
			extra     sql.NullString
			created   int64
		)
		if err := rows.Scan(&e.ID, &e.Identity, &action, &e.Description, &target, &e.OriginAddress,
			&e.OriginAgent, &e.Success, &errMsg, &sessionID, &extra, &created); err != nil {
			return nil, dbx.Wrap("scan audit event", err)
		}
		e.ActionType = models.ActionType(action)
		e.TargetResource = nullable(target)
		e.ErrorMessage = nullable(errMsg)
		e.SessionID = nullable(sessionID)
		e.CreatedAt = timex.FromUnix(created)
		if extra.Valid && extra.String != "" {
			if err := json.Unmarshal([]byte(extra.String), &e.Extra); err != nil {
				e.Extra = map[string]string{"raw": extra.String}
			}
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, dbx.Wrap("iterate audit events", err)
	}
	return events, nil
}

func nullable(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}
