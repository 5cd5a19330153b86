package recordings

import (
	"context"

	"github.com/dmitrijs2005/voicevault/internal/client/models"
)

// Repository describes the durable local store for Recording rows.
// Implementations are backed by a local SQLite database and must survive
// process restarts.
type Repository interface {
	// Add persists a new recording atomically, assigns its id and stamps
	// created_at/updated_at. The returned id is unique and monotonically
	// increasing.
	Add(ctx context.Context, rec *models.Recording) (int64, error)

	// GetByOwner returns all rows for the owner as a finite snapshot,
	// unordered. Audio payloads are not loaded; use GetByID for those.
	GetByOwner(ctx context.Context, userID string) ([]models.Recording, error)

	// GetPending returns the owner's rows with status=pending, payloads
	// included, ready for upload.
	GetPending(ctx context.Context, userID string) ([]*models.Recording, error)

	// GetByID returns a single row including its audio payload.
	// Returns common.ErrNotFound if the id does not exist.
	GetByID(ctx context.Context, id int64) (*models.Recording, error)

	// Update applies the partial fields to an existing row and refreshes
	// updated_at. The read-modify-write is atomic with respect to concurrent
	// updates of the same id. Returns common.ErrNotFound if the id does not
	// exist.
	Update(ctx context.Context, id int64, upd models.RecordingUpdate) (*models.Recording, error)

	// Delete removes the row and its payload. Deleting a missing id is a
	// no-op, treated as already deleted.
	Delete(ctx context.Context, id int64) error
}
