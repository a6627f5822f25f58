// internal/store/store.go
package store

import (
	"context"

	"loan-workflow/internal/models"
)

// Store persists loan applications. Commit applies a patch to the
// current record as a single atomic write so a failed remote call never
// leaves a half-updated application behind.
type Store interface {
	// Get returns the application or a NOT_FOUND error.
	Get(ctx context.Context, id string) (*models.Application, error)

	// List returns all applications, optionally filtered by status.
	List(ctx context.Context, status *models.ApplicationStatus) ([]*models.Application, error)

	// Create inserts a new application.
	Create(ctx context.Context, app *models.Application) error

	// Commit applies the patch to the stored application atomically and
	// returns the updated record.
	Commit(ctx context.Context, id string, patch models.Patch) (*models.Application, error)

	// Remove deletes the application or returns a NOT_FOUND error.
	Remove(ctx context.Context, id string) error
}
