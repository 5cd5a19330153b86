// Package recordings provides the PostgreSQL-backed repository for remote
// recording metadata documents.
package recordings

import (
	"context"

	"github.com/dmitrijs2005/voicevault/internal/server/models"
)

// Repository describes storage operations for metadata documents. The sync
// contract only requires writes and owner-scoped reads; there is no update
// or delete path.
type Repository interface {
	// CreateOrUpdate upserts a document keyed by (user_id, storage_key) so
	// retried client writes stay idempotent.
	CreateOrUpdate(ctx context.Context, rec *models.Recording) error

	// GetByOwner returns all documents for the owner, newest first.
	GetByOwner(ctx context.Context, userID string) ([]*models.Recording, error)
}
