package credentials

import (
	"context"
	"time"

	"github.com/dmitrijs2005/vaultkeeper/internal/models"
)

// Repository describes the storage operations on credentials. Username and
// password arguments are cipher tokens.
type Repository interface {
	// Upsert stores the values for website, reviving a soft-deleted row if
	// one exists. created is true when a new row was inserted.
	Upsert(ctx context.Context, website, encUsername, encPassword string, now time.Time) (created bool, err error)

	// GetActive returns the active credential for website or ErrorNotFound.
	GetActive(ctx context.Context, website string) (*models.Credential, error)

	// UpdatePassword replaces the password of an active credential.
	UpdatePassword(ctx context.Context, website, encPassword string, now time.Time) error

	// SoftDelete marks the active credential deleted.
	SoftDelete(ctx context.Context, website string, now time.Time) error

	// ListActive returns active credentials ordered by website.
	ListActive(ctx context.Context) ([]models.Credential, error)

	// CountActive returns the number of active credentials.
	CountActive(ctx context.Context) (int, error)

	// Websites returns the sorted names of active credentials.
	Websites(ctx context.Context) ([]string, error)
}
