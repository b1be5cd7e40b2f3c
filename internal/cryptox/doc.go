// Package cryptox owns the vault's key material and the authenticated
// encryption built on it.
//
// KeyManager loads or creates the single 32-byte data key stored hex-encoded
// next to the database. Cipher turns strings into self-describing tokens:
//
//	base64url( 0x01 | nonce[12] | ciphertext | tag[16] )
//
// Seal and Open protect exported backups with a key derived from a
// passphrase (argon2id), independent of the data key.
package cryptox
