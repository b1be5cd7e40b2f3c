// Package models defines the vault's domain types shared between
// repositories, services and the CLI.
package models
