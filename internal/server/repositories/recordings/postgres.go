package recordings

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/voicevault/internal/dbx"
	"github.com/dmitrijs2005/voicevault/internal/server/models"
	"github.com/google/uuid"
)

// PostgresRepository implements Repository over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// CreateOrUpdate upserts a document by (user_id, storage_key). A fresh row
// gets a generated id; a conflicting retry refreshes the mutable fields and
// updated_at, leaving id and created_at alone.
func (r *PostgresRepository) CreateOrUpdate(ctx context.Context, rec *models.Recording) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	now := time.Now().UTC()

	query := `
		INSERT INTO recordings
			(id, user_id, storage_key, prompt, transcript, notes, duration, recorder_type, audio_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)
		ON CONFLICT (user_id, storage_key)
		DO UPDATE SET
			prompt = EXCLUDED.prompt,
			transcript = EXCLUDED.transcript,
			notes = EXCLUDED.notes,
			duration = EXCLUDED.duration,
			recorder_type = EXCLUDED.recorder_type,
			audio_url = EXCLUDED.audio_url,
			updated_at = EXCLUDED.updated_at;
	`
	_, err := r.db.ExecContext(ctx, query,
		rec.ID, rec.UserID, rec.StorageKey, rec.Prompt, rec.Transcript, rec.Notes,
		rec.Duration, rec.RecorderType, rec.AudioURL, now)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// GetByOwner returns the owner's documents, newest first.
func (r *PostgresRepository) GetByOwner(ctx context.Context, userID string) ([]*models.Recording, error) {
	query := `SELECT id, user_id, storage_key, prompt, transcript, notes, duration, recorder_type, audio_url, created_at, updated_at
		FROM recordings WHERE user_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to select recordings: %w", err)
	}
	defer rows.Close()

	var result []*models.Recording
	for rows.Next() {
		rec := &models.Recording{}
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.StorageKey, &rec.Prompt, &rec.Transcript,
			&rec.Notes, &rec.Duration, &rec.RecorderType, &rec.AudioURL, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
