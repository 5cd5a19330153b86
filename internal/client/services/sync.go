package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/voicevault/internal/client/bus"
	"github.com/dmitrijs2005/voicevault/internal/client/client"
	"github.com/dmitrijs2005/voicevault/internal/client/models"
	"github.com/dmitrijs2005/voicevault/internal/client/repositories/recordings"
	"github.com/dmitrijs2005/voicevault/internal/logging"
	"golang.org/x/sync/errgroup"
)

// UploadTimeout bounds one object-storage upload attempt. A hung call is
// aborted and treated as a failed attempt; the row stays pending.
const UploadTimeout = 30 * time.Second

// audioContentType is the MIME type of finalized payloads.
const audioContentType = "audio/wav"

// syncConcurrency bounds how many pending rows are uploaded at once.
const syncConcurrency = 4

// SyncService reconciles local pending rows with the remote object storage
// and metadata store. It never runs on the capture path and its failures
// never escalate past the event bus.
type SyncService interface {
	// SyncOne makes exactly one attempt to drive the recording to synced.
	// On any failure the local row is left pending with its payload intact,
	// a failure event is published, and the error is returned for logging
	// only.
	SyncOne(ctx context.Context, rec *models.Recording) error

	// SyncPending re-scans the owner's pending rows and syncs each once,
	// concurrently.
	SyncPending(ctx context.Context, userID string) error

	// Run periodically re-scans pending rows until ctx is cancelled.
	Run(ctx context.Context, userID string, interval time.Duration)
}

type syncService struct {
	storage  client.ObjectStorage
	metadata client.MetadataStore
	repo     recordings.Repository
	events   *bus.Bus
	logger   logging.Logger

	uploadTimeout time.Duration

	mu       sync.Mutex
	inFlight map[int64]struct{}
}

// NewSyncService wires the worker to its collaborators.
func NewSyncService(storage client.ObjectStorage, metadata client.MetadataStore,
	repo recordings.Repository, events *bus.Bus, logger logging.Logger) SyncService {
	return &syncService{
		storage:       storage,
		metadata:      metadata,
		repo:          repo,
		events:        events,
		logger:        logger,
		uploadTimeout: UploadTimeout,
		inFlight:      make(map[int64]struct{}),
	}
}

// acquire marks the row as being synced; a second trigger for the same row
// while one is running is skipped instead of racing it.
func (s *syncService) acquire(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inFlight[id]; busy {
		return false
	}
	s.inFlight[id] = struct{}{}
	return true
}

func (s *syncService) release(id int64) {
	s.mu.Lock()
	delete(s.inFlight, id)
	s.mu.Unlock()
}

func (s *syncService) SyncOne(ctx context.Context, rec *models.Recording) error {
	if !s.acquire(rec.ID) {
		s.logger.Debug(ctx, "sync already in flight, skipping", "id", rec.ID)
		return nil
	}
	defer s.release(rec.ID)

	if rec.Status == models.StatusSynced {
		return nil
	}

	locator, err := s.upload(ctx, rec)
	if err != nil {
		return s.fail(ctx, rec.ID, fmt.Errorf("upload %s: %w", rec.StorageKey, err))
	}

	doc := *rec
	doc.RemoteAudioRef = locator
	doc.Status = models.StatusSynced
	if err := s.metadata.Write(ctx, &doc); err != nil {
		return s.fail(ctx, rec.ID, err)
	}

	synced := models.StatusSynced
	if _, err := s.repo.Update(ctx, rec.ID, models.RecordingUpdate{
		Status:         &synced,
		RemoteAudioRef: &locator,
	}); err != nil {
		return s.fail(ctx, rec.ID, fmt.Errorf("local status update: %w", err))
	}

	s.logger.Info(ctx, "recording synced", "id", rec.ID, "key", rec.StorageKey)
	s.events.Publish(bus.Event{
		Kind: bus.KindRecordingUpdated,
		ID:   rec.ID,
		Fields: bus.UpdatedFields{
			Status:         string(models.StatusSynced),
			RemoteAudioRef: locator,
		},
	})
	return nil
}

// upload makes the single bounded upload attempt against the stored key.
// The key was assigned at save time, so a retried attempt overwrites the
// same object instead of duplicating it.
func (s *syncService) upload(ctx context.Context, rec *models.Recording) (string, error) {
	upCtx, cancel := context.WithTimeout(ctx, s.uploadTimeout)
	defer cancel()
	return s.storage.Put(upCtx, rec.StorageKey, rec.AudioPayload, audioContentType)
}

// fail publishes the failure notification and hands the error back for
// logging. The row is intentionally left pending with its payload retained.
func (s *syncService) fail(ctx context.Context, id int64, err error) error {
	s.logger.Warn(ctx, "sync attempt failed", "id", id, "error", err)
	s.events.Publish(bus.Event{
		Kind: bus.KindRecordingUpdated,
		ID:   id,
		Fields: bus.UpdatedFields{
			Status:    string(models.StatusPending),
			SyncError: err.Error(),
		},
	})
	return err
}

func (s *syncService) SyncPending(ctx context.Context, userID string) error {
	pending, err := s.repo.GetPending(ctx, userID)
	if err != nil {
		return fmt.Errorf("error retrieving pending recordings: %w", err)
	}

	var g errgroup.Group
	g.SetLimit(syncConcurrency)
	for _, rec := range pending {
		g.Go(func() error {
			return s.SyncOne(ctx, rec)
		})
	}
	return g.Wait()
}

// Run is the optional recovery path: it re-triggers pending rows on a fixed
// interval. There is no per-row backoff; each tick makes one attempt per
// pending row.
func (s *syncService) Run(ctx context.Context, userID string, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := s.SyncPending(ctx, userID); err != nil {
				s.logger.Warn(ctx, "periodic sync pass finished with errors", "error", err)
			}
		case <-ctx.Done():
			return
		}
	}
}
