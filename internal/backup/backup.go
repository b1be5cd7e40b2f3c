// Package backup writes vault snapshots to a local directory or to an
// S3-compatible bucket, optionally sealed with a passphrase.
package backup

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/vaultkeeper/internal/cryptox"
	"github.com/dmitrijs2005/vaultkeeper/internal/snapshot"
)

// SealedExt is appended to the name of passphrase-protected backups.
const SealedExt = ".sealed"

// Sink stores a finished backup and reports where it went.
type Sink interface {
	Put(ctx context.Context, name string, data []byte) (location string, err error)
}

// FileName builds a sortable backup name such as
// vault-backup-20240501T090000Z.json.sealed.
func FileName(now time.Time, format snapshot.Format, sealed bool) string {
	name := fmt.Sprintf("vault-backup-%s.%s", now.UTC().Format("20060102T150405Z"), format.Ext())
	if sealed {
		name += SealedExt
	}
	return name
}

// Write seals data when passphrase is non-empty and hands it to sink.
func Write(ctx context.Context, sink Sink, now time.Time, format snapshot.Format, data, passphrase []byte) (string, error) {
	sealed := len(passphrase) > 0
	if sealed {
		var err error
		data, err = cryptox.Seal(passphrase, data)
		if err != nil {
			return "", fmt.Errorf("seal backup: %w", err)
		}
	}
	return sink.Put(ctx, FileName(now, format, sealed), data)
}

// Unwrap reverses Write's sealing. Plain data is returned as is.
func Unwrap(data, passphrase []byte) ([]byte, error) {
	if !cryptox.IsSealed(data) {
		return data, nil
	}
	return cryptox.Open(passphrase, data)
}
