// Package pipeline sequences capture, local persistence and sync hand-off.
// The user-visible save returns as soon as the local write succeeds; remote
// sync never sits on that path.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/voicevault/internal/client/bus"
	"github.com/dmitrijs2005/voicevault/internal/client/capture"
	"github.com/dmitrijs2005/voicevault/internal/client/models"
	"github.com/dmitrijs2005/voicevault/internal/client/repositories/recordings"
	"github.com/dmitrijs2005/voicevault/internal/client/services"
	"github.com/dmitrijs2005/voicevault/internal/client/transcript"
	"github.com/dmitrijs2005/voicevault/internal/common"
	"github.com/dmitrijs2005/voicevault/internal/logging"
)

// ErrNothingToSave is returned when save is requested before capture has
// produced a non-empty payload. No row is ever created in that case.
var ErrNothingToSave = errors.New("no finalized recording to save")

// SaveParams carries the user-provided fields of a save.
type SaveParams struct {
	UserID string
	Prompt string
	Notes  string
}

// Coordinator owns the one-active-capture-session invariant and the save
// sequence: finalized payload → local row → created event → async sync.
type Coordinator struct {
	device  capture.Device
	engine  transcript.Engine
	repo    recordings.Repository
	events  *bus.Bus
	syncer  services.SyncService
	logger  logging.Logger
	nowFunc func() time.Time

	mu         sync.Mutex
	session    *capture.Session
	transcript *transcript.Session
	mode       models.RecorderType
}

// NewCoordinator wires the pipeline. engine may be nil when no speech
// backend is available; with-transcript captures then degrade to audio only.
func NewCoordinator(device capture.Device, engine transcript.Engine,
	repo recordings.Repository, events *bus.Bus, syncer services.SyncService,
	logger logging.Logger) *Coordinator {
	return &Coordinator{
		device:  device,
		engine:  engine,
		repo:    repo,
		events:  events,
		syncer:  syncer,
		logger:  logger,
		nowFunc: time.Now,
	}
}

// RequestPermission probes the device without recording.
func (c *Coordinator) RequestPermission(ctx context.Context) capture.Capability {
	probe := capture.NewSession(c.device, c.logger)
	return probe.RequestPermission(ctx)
}

// StartCapture begins a new session in the given mode. A second start while
// one session is recording fails with common.ErrAlreadyActive and leaves
// the running session untouched.
func (c *Coordinator) StartCapture(ctx context.Context, mode models.RecorderType) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session != nil && c.session.State() == capture.StateRecording {
		return common.ErrAlreadyActive
	}

	session := capture.NewSession(c.device, c.logger)
	if err := session.Start(ctx); err != nil {
		return err
	}
	c.session = session
	c.mode = mode
	c.transcript = nil

	if mode == models.RecorderWithTranscript && c.engine != nil {
		ts := transcript.NewSession(c.engine, c.logger)
		if err := ts.Start(ctx); err != nil {
			// Transcript is optional: capture continues without it.
			c.logger.Warn(ctx, "continuing capture without transcript", "error", err)
		} else {
			c.transcript = ts
		}
	}

	c.logger.Info(ctx, "capture started", "mode", mode)
	return nil
}

// StopCapture finalizes the running session and the transcript. A stop with
// no running session is a no-op.
func (c *Coordinator) StopCapture() error {
	c.mu.Lock()
	session := c.session
	ts := c.transcript
	c.mu.Unlock()

	if ts != nil {
		ts.Stop()
	}
	if session == nil {
		return nil
	}
	return session.Stop()
}

// Elapsed returns whole seconds recorded by the current session.
func (c *Coordinator) Elapsed() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return 0
	}
	return c.session.Elapsed()
}

// State returns the current session state, or idle when none exists.
func (c *Coordinator) State() capture.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return capture.StateIdle
	}
	return c.session.State()
}

// LiveTranscript returns the committed-plus-interim text of the running
// transcript session, empty when none is active.
func (c *Coordinator) LiveTranscript() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.transcript == nil {
		return ""
	}
	return c.transcript.Text()
}

// SaveAndSync persists the finalized capture locally, announces it and hands
// it to the sync worker on a separate goroutine. It returns once the local
// write has succeeded.
func (c *Coordinator) SaveAndSync(ctx context.Context, p SaveParams) (*models.Recording, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session == nil {
		return nil, ErrNothingToSave
	}
	if c.session.State() == capture.StateRecording {
		if err := c.session.Stop(); err != nil {
			return nil, err
		}
	}

	payload := c.session.Payload()
	if len(payload) == 0 {
		return nil, ErrNothingToSave
	}

	var text string
	if c.transcript != nil {
		c.transcript.Stop()
		text = c.transcript.Final()
	}

	userID := p.UserID
	if userID == "" {
		userID = common.LocalUserID
	}

	rec := &models.Recording{
		UserID:       userID,
		Prompt:       p.Prompt,
		Transcript:   text,
		Notes:        p.Notes,
		Duration:     c.session.Elapsed(),
		RecorderType: c.mode,
		AudioPayload: payload,
		StorageKey:   models.NewStorageKey(userID, c.mode, c.nowFunc()),
		Status:       models.StatusPending,
	}

	id, err := c.repo.Add(ctx, rec)
	if err != nil {
		return nil, fmt.Errorf("saving error: %w", err)
	}

	c.events.Publish(bus.Event{Kind: bus.KindRecordingCreated, Recording: rec})
	c.logger.Info(ctx, "recording saved", "id", id, "duration", rec.Duration, "mode", rec.RecorderType)

	c.session.Reset()
	if c.transcript != nil {
		c.transcript.Reset()
		c.transcript = nil
	}
	c.session = nil

	// Sync runs detached from the save call; its lifetime must not end with
	// this request.
	go func(r models.Recording) {
		_ = c.syncer.SyncOne(context.Background(), &r)
	}(*rec)

	return rec, nil
}

// Discard throws away the current capture and transcript without saving.
func (c *Coordinator) Discard() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.transcript != nil {
		c.transcript.Reset()
		c.transcript = nil
	}
	if c.session != nil {
		c.session.Reset()
		c.session = nil
	}
}
