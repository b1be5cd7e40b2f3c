package cryptox

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/awnumar/memguard"
	"github.com/dmitrijs2005/vaultkeeper/internal/common"
	"github.com/dmitrijs2005/vaultkeeper/internal/filex"
	"github.com/gofrs/flock"
)

// KeyFileName is the key file name inside the data directory.
const KeyFileName = "vault.key"

// KeyManager loads the data key once per process and keeps it sealed in a
// memguard enclave between uses.
type KeyManager struct {
	path string

	mu      sync.Mutex
	enclave *memguard.Enclave
}

func NewKeyManager(path string) *KeyManager {
	return &KeyManager{path: path}
}

func (m *KeyManager) Path() string { return m.path }

// LoadOrCreate reads the key file, creating it when absent. An existing file
// that does not decode to exactly 32 bytes yields ErrKeyUnavailable and is
// left untouched. Creation runs under an exclusive lock on <path>.lock so
// concurrent first starts agree on one key.
func (m *KeyManager) LoadOrCreate() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.enclave != nil {
		return nil
	}

	if _, err := filex.EnsureDir(filepath.Dir(m.path)); err != nil {
		return fmt.Errorf("%w: %v", common.ErrKeyUnavailable, err)
	}

	lock := flock.New(m.path + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("%w: lock key file: %v", common.ErrKeyUnavailable, err)
	}
	defer func() { _ = lock.Unlock() }()

	key, err := m.readKey()
	switch {
	case errors.Is(err, fs.ErrNotExist):
		key, err = m.createKey()
		if err != nil {
			return err
		}
	case err != nil:
		return err
	}

	// NewEnclave wipes key.
	m.enclave = memguard.NewEnclave(key)
	return nil
}

func (m *KeyManager) readKey() ([]byte, error) {
	data, err := os.ReadFile(m.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: read key file: %v", common.ErrKeyUnavailable, err)
	}

	key, err := hex.DecodeString(strings.TrimSpace(string(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: key file is not hex", common.ErrKeyUnavailable)
	}
	if len(key) != common.KeySize {
		common.WipeByteArray(key)
		return nil, fmt.Errorf("%w: key file holds %d bytes, want %d", common.ErrKeyUnavailable, len(key), common.KeySize)
	}
	return key, nil
}

func (m *KeyManager) createKey() ([]byte, error) {
	key := common.GenerateRandByteArray(common.KeySize)
	encoded := []byte(hex.EncodeToString(key))
	defer common.WipeByteArray(encoded)

	if err := filex.WriteFileAtomic(m.path, encoded, 0o600); err != nil {
		common.WipeByteArray(key)
		return nil, fmt.Errorf("%w: write key file: %v", common.ErrKeyUnavailable, err)
	}
	return key, nil
}

// WithKey opens the enclave and passes the raw key to fn. The slice is
// destroyed when fn returns and must not be retained.
func (m *KeyManager) WithKey(fn func(key []byte) error) error {
	if err := m.LoadOrCreate(); err != nil {
		return err
	}

	m.mu.Lock()
	enclave := m.enclave
	m.mu.Unlock()

	buf, err := enclave.Open()
	if err != nil {
		return fmt.Errorf("%w: open enclave: %v", common.ErrKeyUnavailable, err)
	}
	defer buf.Destroy()

	return fn(buf.Bytes())
}
