// Package common contains shared constants and sentinel errors used across
// vaultkeeper components.
package common

// AppName names the per-user data directory and the log/user-agent prefix.
const AppName = "vaultkeeper"

// KeySize is the length in bytes of the vault encryption key (AES-256).
const KeySize = 32
