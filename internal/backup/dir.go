package backup

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/dmitrijs2005/vaultkeeper/internal/filex"
)

// DirName is the backup directory inside the data dir.
const DirName = "backups"

// DirSink writes backups as 0600 files in one directory.
type DirSink struct {
	dir string
}

func NewDirSink(dataDir string) *DirSink {
	return &DirSink{dir: filepath.Join(dataDir, DirName)}
}

func (s *DirSink) Put(ctx context.Context, name string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	dir, err := filex.EnsureDir(s.dir)
	if err != nil {
		return "", fmt.Errorf("backup dir: %w", err)
	}
	path := filepath.Join(dir, filepath.Base(name))
	if err := filex.WriteFileAtomic(path, data, 0o600); err != nil {
		return "", fmt.Errorf("write backup: %w", err)
	}
	return path, nil
}
