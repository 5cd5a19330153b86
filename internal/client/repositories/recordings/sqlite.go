package recordings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/voicevault/internal/client/models"
	"github.com/dmitrijs2005/voicevault/internal/common"
	"github.com/dmitrijs2005/voicevault/internal/dbx"
)

// SQLiteRepository implements Repository over a local SQLite database.
// Updates run inside a transaction so the read-modify-write of a single
// row is atomic.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository returns a repository bound to the given database.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Add inserts a new row and returns the assigned auto-increment id.
// created_at is stamped once here; updated_at starts equal to it.
func (r *SQLiteRepository) Add(ctx context.Context, rec *models.Recording) (int64, error) {
	now := time.Now().UTC()
	rec.CreatedAt = now
	rec.UpdatedAt = now
	if rec.Status == "" {
		rec.Status = models.StatusPending
	}

	query := `INSERT INTO recordings
		(user_id, prompt, transcript, notes, duration, recorder_type,
		 audio_payload, storage_key, remote_audio_ref, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	res, err := r.db.ExecContext(ctx, query,
		rec.UserID, rec.Prompt, rec.Transcript, rec.Notes, rec.Duration, rec.RecorderType,
		rec.AudioPayload, rec.StorageKey, rec.RemoteAudioRef, rec.Status, rec.CreatedAt, rec.UpdatedAt)
	if err != nil {
		return 0, fmt.Errorf("failed to insert recording: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get inserted id: %w", err)
	}
	rec.ID = id
	return id, nil
}

// GetByOwner lists the owner's rows without payloads. The result is a
// snapshot; ordering is left to the caller.
func (r *SQLiteRepository) GetByOwner(ctx context.Context, userID string) ([]models.Recording, error) {
	query := `SELECT id, user_id, prompt, transcript, notes, duration, recorder_type,
		storage_key, remote_audio_ref, status, created_at, updated_at
		FROM recordings WHERE user_id = ?`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to select recordings: %w", err)
	}
	defer rows.Close()

	var result []models.Recording
	for rows.Next() {
		var item models.Recording
		if err := scanRecording(rows, &item, false); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// GetPending returns the owner's pending rows with payloads included.
func (r *SQLiteRepository) GetPending(ctx context.Context, userID string) ([]*models.Recording, error) {
	query := `SELECT id, user_id, prompt, transcript, notes, duration, recorder_type,
		storage_key, remote_audio_ref, status, created_at, updated_at, audio_payload
		FROM recordings WHERE user_id = ? AND status = ?`
	rows, err := r.db.QueryContext(ctx, query, userID, models.StatusPending)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to select pending recordings: %w", err)
	}
	defer rows.Close()

	var pending []*models.Recording
	for rows.Next() {
		item := &models.Recording{}
		if err := scanRecording(rows, item, true); err != nil {
			return nil, err
		}
		pending = append(pending, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return pending, nil
}

// GetByID returns a single row including its payload.
func (r *SQLiteRepository) GetByID(ctx context.Context, id int64) (*models.Recording, error) {
	query := `SELECT id, user_id, prompt, transcript, notes, duration, recorder_type,
		storage_key, remote_audio_ref, status, created_at, updated_at, audio_payload
		FROM recordings WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)

	rec := &models.Recording{}
	err := row.Scan(&rec.ID, &rec.UserID, &rec.Prompt, &rec.Transcript, &rec.Notes,
		&rec.Duration, &rec.RecorderType, &rec.StorageKey, &rec.RemoteAudioRef,
		&rec.Status, &rec.CreatedAt, &rec.UpdatedAt, &rec.AudioPayload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select recording: %w", err)
	}
	return rec, nil
}

// Update applies the partial fields inside a transaction and refreshes
// updated_at. The audio payload is never touched here.
func (r *SQLiteRepository) Update(ctx context.Context, id int64, upd models.RecordingUpdate) (*models.Recording, error) {
	var updated *models.Recording

	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		query := `SELECT id, user_id, prompt, transcript, notes, duration, recorder_type,
			storage_key, remote_audio_ref, status, created_at, updated_at
			FROM recordings WHERE id = ?`
		row := tx.QueryRowContext(ctx, query, id)

		rec := &models.Recording{}
		err := row.Scan(&rec.ID, &rec.UserID, &rec.Prompt, &rec.Transcript, &rec.Notes,
			&rec.Duration, &rec.RecorderType, &rec.StorageKey, &rec.RemoteAudioRef,
			&rec.Status, &rec.CreatedAt, &rec.UpdatedAt)
		if errors.Is(err, sql.ErrNoRows) {
			return common.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to select recording: %w", err)
		}

		if upd.Status != nil {
			rec.Status = *upd.Status
		}
		if upd.RemoteAudioRef != nil {
			rec.RemoteAudioRef = *upd.RemoteAudioRef
		}
		if upd.Transcript != nil {
			rec.Transcript = *upd.Transcript
		}
		if upd.Notes != nil {
			rec.Notes = *upd.Notes
		}
		rec.UpdatedAt = time.Now().UTC()

		_, err = tx.ExecContext(ctx,
			`UPDATE recordings SET transcript=?, notes=?, remote_audio_ref=?, status=?, updated_at=? WHERE id=?`,
			rec.Transcript, rec.Notes, rec.RemoteAudioRef, rec.Status, rec.UpdatedAt, rec.ID)
		if err != nil {
			return fmt.Errorf("failed to update recording: %w", err)
		}

		updated = rec
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes the row and its payload. A missing id is not an error.
func (r *SQLiteRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM recordings WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete recording: %w", err)
	}
	return nil
}

// scanRecording reads one row in column order, optionally including the
// payload column at the end.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecording(row rowScanner, rec *models.Recording, withPayload bool) error {
	dest := []any{&rec.ID, &rec.UserID, &rec.Prompt, &rec.Transcript, &rec.Notes,
		&rec.Duration, &rec.RecorderType, &rec.StorageKey, &rec.RemoteAudioRef,
		&rec.Status, &rec.CreatedAt, &rec.UpdatedAt}
	if withPayload {
		dest = append(dest, &rec.AudioPayload)
	}
	return row.Scan(dest...)
}
