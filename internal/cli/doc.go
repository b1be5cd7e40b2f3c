// Package cli provides the interactive vault command-line front-end.
//
// NewApp wires configuration, logging, the key manager, storage and the
// vault services; App.Run starts a REPL that blocks until the user exits.
// Every command past login goes through vault.Vault, so session checks and
// auditing happen there rather than here.
package cli
