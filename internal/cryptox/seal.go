package cryptox

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"fmt"

	"github.com/dmitrijs2005/vaultkeeper/internal/common"
	"golang.org/x/crypto/argon2"
)

var sealMagic = []byte("VKB1")

const saltSize = 16

// DeriveMasterKey stretches a passphrase into a 32-byte AES key (argon2id).
func DeriveMasterKey(password []byte, salt []byte) []byte {
	return argon2.IDKey(password, salt, 1, 64*1024, 4, 32)
}

// Seal encrypts data under a key derived from passphrase. Output layout:
// "VKB1" | salt[16] | nonce[12] | ciphertext+tag.
func Seal(passphrase, data []byte) ([]byte, error) {
	salt := common.GenerateRandByteArray(saltSize)
	key := DeriveMasterKey(passphrase, salt)
	defer common.WipeByteArray(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	nonce := common.GenerateRandByteArray(aead.NonceSize())

	out := make([]byte, 0, len(sealMagic)+saltSize+len(nonce)+len(data)+aead.Overhead())
	out = append(out, sealMagic...)
	out = append(out, salt...)
	out = append(out, nonce...)
	return aead.Seal(out, nonce, data, sealMagic), nil
}

// Open reverses Seal. A wrong passphrase or damaged input yields
// ErrDecryptionFailed.
func Open(passphrase, sealed []byte) ([]byte, error) {
	head := len(sealMagic) + saltSize + nonceSize
	if len(sealed) < head+tagSize || !bytes.Equal(sealed[:len(sealMagic)], sealMagic) {
		return nil, fmt.Errorf("%w: not a sealed backup", common.ErrDecryptionFailed)
	}
	salt := sealed[len(sealMagic) : len(sealMagic)+saltSize]
	nonce := sealed[len(sealMagic)+saltSize : head]

	key := DeriveMasterKey(passphrase, salt)
	defer common.WipeByteArray(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	plain, err := aead.Open(nil, nonce, sealed[head:], sealMagic)
	if err != nil {
		return nil, fmt.Errorf("%w: wrong passphrase or corrupted backup", common.ErrDecryptionFailed)
	}
	return plain, nil
}

// IsSealed reports whether data starts with the backup header.
func IsSealed(data []byte) bool {
	return bytes.HasPrefix(data, sealMagic)
}
