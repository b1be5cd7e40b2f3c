package backup

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/vaultkeeper/internal/common"
	"github.com/dmitrijs2005/vaultkeeper/internal/cryptox"
	"github.com/dmitrijs2005/vaultkeeper/internal/snapshot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 5, 1, 9, 30, 15, 0, time.UTC)

func TestFileName(t *testing.T) {
	assert.Equal(t, "vault-backup-20240501T093015Z.json", FileName(t0, snapshot.JSON, false))
	assert.Equal(t, "vault-backup-20240501T093015Z.yaml.sealed", FileName(t0, snapshot.YAML, true))
}

func TestWrite_DirSinkPlain(t *testing.T) {
	dataDir := t.TempDir()
	sink := NewDirSink(dataDir)

	loc, err := Write(context.Background(), sink, t0, snapshot.JSON, []byte(`[]`), nil)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dataDir, DirName, "vault-backup-20240501T093015Z.json"), loc)

	got, err := os.ReadFile(loc)
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(got))

	fi, err := os.Stat(loc)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), fi.Mode().Perm())
}

func TestWrite_SealedRoundTrip(t *testing.T) {
	sink := NewDirSink(t.TempDir())
	pass := []byte("correct horse")

	loc, err := Write(context.Background(), sink, t0, snapshot.JSON, []byte(`[{"website":"a.com"}]`), pass)
	require.NoError(t, err)
	assert.Equal(t, SealedExt, filepath.Ext(loc))

	raw, err := os.ReadFile(loc)
	require.NoError(t, err)
	assert.True(t, cryptox.IsSealed(raw))

	plain, err := Unwrap(raw, pass)
	require.NoError(t, err)
	assert.Equal(t, `[{"website":"a.com"}]`, string(plain))

	_, err = Unwrap(raw, []byte("wrong"))
	assert.ErrorIs(t, err, common.ErrDecryptionFailed)
}

func TestUnwrap_PlainPassesThrough(t *testing.T) {
	got, err := Unwrap([]byte("[]"), nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(got))
}

func TestDirSink_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewDirSink(t.TempDir()).Put(ctx, "x.json", nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDirSink_StripsDirectories(t *testing.T) {
	dataDir := t.TempDir()
	loc, err := NewDirSink(dataDir).Put(context.Background(), "../../escape.json", []byte("x"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dataDir, DirName, "escape.json"), loc)
}
