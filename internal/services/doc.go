// Package services contains the vault's application services: credential
// storage with encryption and soft-delete, master account authentication,
// per-identity preferences and the audit log.
//
// Services own transactions. Every mutation runs in one dbx.WithTxRetry
// call; reads go through dbx.Retry. Both retry once on SQLite BUSY/LOCKED.
package services

import (
	"github.com/dmitrijs2005/vaultkeeper/internal/dbx"
)

// Encryptor turns secrets into cipher tokens and back. *cryptox.Cipher
// implements it.
type Encryptor interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(token string) (string, error)
}

// seams for tests
var (
	withTx = dbx.WithTxRetry
	retry  = dbx.Retry
)
