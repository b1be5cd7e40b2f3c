// Package audit stores the append-only audit trail. Rows are only ever
// inserted, read, or purged by age; there is no update path.
package audit
