package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/dmitrijs2005/voicevault/internal/client/models"
	"github.com/dmitrijs2005/voicevault/internal/client/playback"
	"github.com/dmitrijs2005/voicevault/internal/client/repositories/recordings"
	"github.com/dmitrijs2005/voicevault/internal/logging"
)

// RecordingService is the read/delete/playback surface over the local store.
type RecordingService interface {
	// List returns the owner's rows sorted by creation time, newest first.
	List(ctx context.Context, userID string) ([]models.Recording, error)

	// Get returns a single row including its payload.
	Get(ctx context.Context, id int64) (*models.Recording, error)

	// Play opens a playback handle over the row's payload. The handle is
	// tracked in the ownership table until released or the row is deleted.
	Play(ctx context.Context, id int64) (*playback.Handle, error)

	// Delete releases any open playback handle, then removes the row and
	// its payload. Deleting a missing id is a no-op.
	Delete(ctx context.Context, id int64) error

	// Close releases all playback handles. Called on teardown.
	Close()
}

type recordingService struct {
	repo    recordings.Repository
	handles *playback.Table
	logger  logging.Logger
}

// NewRecordingService wires the service to the local repository.
func NewRecordingService(repo recordings.Repository, logger logging.Logger) RecordingService {
	return &recordingService{
		repo:    repo,
		handles: playback.NewTable(),
		logger:  logger,
	}
}

func (s *recordingService) List(ctx context.Context, userID string) ([]models.Recording, error) {
	rows, err := s.repo.GetByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error retrieving recordings: %w", err)
	}

	// The store returns an unordered snapshot; display order is ours.
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].CreatedAt.After(rows[j].CreatedAt)
	})
	return rows, nil
}

func (s *recordingService) Get(ctx context.Context, id int64) (*models.Recording, error) {
	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error retrieving recording: %w", err)
	}
	return rec, nil
}

func (s *recordingService) Play(ctx context.Context, id int64) (*playback.Handle, error) {
	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error retrieving recording: %w", err)
	}
	return s.handles.Open(id, rec.AudioPayload), nil
}

func (s *recordingService) Delete(ctx context.Context, id int64) error {
	// Release before removal so a mid-playback delete cannot leave a live
	// handle over a dead row.
	s.handles.Release(id)

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("error deleting recording: %w", err)
	}
	s.logger.Info(ctx, "recording deleted", "id", id)
	return nil
}

func (s *recordingService) Close() {
	s.handles.ReleaseAll()
}
