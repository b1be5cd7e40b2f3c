// Package passwords analyses password strength and generates new passwords.
//
// Analyze is pure and deterministic. The generators draw every random choice
// from crypto/rand.
package passwords
