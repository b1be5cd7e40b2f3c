package migrations

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddNamedMigrationContext("00002_add_timestamps.go", upAddTimestamps, downAddTimestamps)
}

type columnSpec struct {
	name     string
	ddl      string
	backfill bool
}

var timestampColumns = map[string][]columnSpec{
	"credentials": {
		{name: "created_at", ddl: "INTEGER NOT NULL DEFAULT 0", backfill: true},
		{name: "updated_at", ddl: "INTEGER NOT NULL DEFAULT 0", backfill: true},
		{name: "deleted_at", ddl: "INTEGER"},
	},
	"master_account": {
		{name: "created_at", ddl: "INTEGER NOT NULL DEFAULT 0", backfill: true},
		{name: "updated_at", ddl: "INTEGER NOT NULL DEFAULT 0", backfill: true},
	},
}

// upAddTimestamps adds whichever lifecycle columns a table lacks. Rows that
// predate the columns get the migration time.
func upAddTimestamps(ctx context.Context, tx *sql.Tx) error {
	now := time.Now().UTC().UnixNano()

	for _, table := range []string{"credentials", "master_account"} {
		have, err := TableColumns(ctx, tx, table)
		if err != nil {
			return err
		}
		for _, col := range timestampColumns[table] {
			if _, ok := have[col.name]; ok {
				continue
			}
			if _, err := tx.ExecContext(ctx, fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", table, col.name, col.ddl)); err != nil {
				return fmt.Errorf("add %s.%s: %w", table, col.name, err)
			}
			if col.backfill {
				q := fmt.Sprintf("UPDATE %s SET %s = ? WHERE %s = 0", table, col.name, col.name)
				if _, err := tx.ExecContext(ctx, q, now); err != nil {
					return fmt.Errorf("backfill %s.%s: %w", table, col.name, err)
				}
			}
		}
	}
	return nil
}

// downAddTimestamps is a no-op: SQLite before 3.35 cannot drop columns and
// the extra columns are harmless to older readers.
func downAddTimestamps(ctx context.Context, tx *sql.Tx) error {
	return nil
}

// Querier is satisfied by *sql.DB and *sql.Tx.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// TableColumns returns the column names of table (empty when the table does
// not exist).
func TableColumns(ctx context.Context, q Querier, table string) (map[string]struct{}, error) {
	rows, err := q.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return nil, fmt.Errorf("table_info %s: %w", table, err)
	}
	defer rows.Close()

	cols := make(map[string]struct{})
	for rows.Next() {
		var (
			cid     int
			name    string
			ctype   string
			notnull int
			dflt    sql.NullString
			pk      int
		)
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dflt, &pk); err != nil {
			return nil, err
		}
		cols[name] = struct{}{}
	}
	return cols, rows.Err()
}
