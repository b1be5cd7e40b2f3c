package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/base64"
	"fmt"

	"github.com/dmitrijs2005/vaultkeeper/internal/common"
)

const (
	tokenVersion = 0x01
	nonceSize    = 12
	tagSize      = 16
)

// KeyProvider lends the data key for the duration of fn.
type KeyProvider interface {
	WithKey(fn func(key []byte) error) error
}

// Cipher encrypts strings with AES-256-GCM under the vault data key.
type Cipher struct {
	keys KeyProvider
}

func NewCipher(keys KeyProvider) *Cipher {
	return &Cipher{keys: keys}
}

// Encrypt returns a token for plaintext. A fresh nonce is drawn per call so
// equal plaintexts produce different tokens.
func (c *Cipher) Encrypt(plaintext string) (string, error) {
	var token string
	err := c.keys.WithKey(func(key []byte) error {
		aead, err := newGCM(key)
		if err != nil {
			return err
		}

		nonce := common.GenerateRandByteArray(nonceSize)
		out := make([]byte, 0, 1+nonceSize+len(plaintext)+tagSize)
		out = append(out, tokenVersion)
		out = append(out, nonce...)
		out = aead.Seal(out, nonce, []byte(plaintext), nil)

		token = base64.RawURLEncoding.EncodeToString(out)
		return nil
	})
	if err != nil {
		return "", err
	}
	return token, nil
}

// Decrypt reverses Encrypt. Anything that is not a well-formed token
// authenticated under the current key yields ErrDecryptionFailed.
func (c *Cipher) Decrypt(token string) (string, error) {
	raw, err := base64.RawURLEncoding.Strict().DecodeString(token)
	if err != nil {
		return "", fmt.Errorf("%w: bad encoding", common.ErrDecryptionFailed)
	}
	if len(raw) < 1+nonceSize+tagSize {
		return "", fmt.Errorf("%w: token too short", common.ErrDecryptionFailed)
	}
	if raw[0] != tokenVersion {
		return "", fmt.Errorf("%w: unknown token version %d", common.ErrDecryptionFailed, raw[0])
	}

	var plaintext []byte
	err = c.keys.WithKey(func(key []byte) error {
		aead, err := newGCM(key)
		if err != nil {
			return err
		}
		nonce, ct := raw[1:1+nonceSize], raw[1+nonceSize:]
		plaintext, err = aead.Open(nil, nonce, ct, nil)
		if err != nil {
			return fmt.Errorf("%w: authentication failed", common.ErrDecryptionFailed)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrKeyUnavailable, err)
	}
	return cipher.NewGCM(block)
}
