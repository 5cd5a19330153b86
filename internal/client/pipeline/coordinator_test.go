package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/voicevault/internal/client/bus"
	"github.com/dmitrijs2005/voicevault/internal/client/capture"
	"github.com/dmitrijs2005/voicevault/internal/client/models"
	"github.com/dmitrijs2005/voicevault/internal/client/transcript"
	"github.com/dmitrijs2005/voicevault/internal/common"
	"github.com/dmitrijs2005/voicevault/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// fakeDevice feeds chunks pushed by the test.
type fakeDevice struct {
	mu     sync.Mutex
	busy   bool
	stream *fakeStream
}

func (d *fakeDevice) Acquire(ctx context.Context) (capture.Stream, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.busy {
		return nil, common.ErrDeviceBusy
	}
	d.busy = true
	d.stream = &fakeStream{device: d, chunks: make(chan []byte, 16)}
	return d.stream, nil
}

func (d *fakeDevice) isBusy() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.busy
}

type fakeStream struct {
	device    *fakeDevice
	chunks    chan []byte
	closeOnce sync.Once
}

func (s *fakeStream) Chunks() <-chan []byte { return s.chunks }
func (s *fakeStream) Err() error            { return nil }

func (s *fakeStream) Close() error {
	s.closeOnce.Do(func() {
		close(s.chunks)
		s.device.mu.Lock()
		s.device.busy = false
		s.device.mu.Unlock()
	})
	return nil
}

func (s *fakeStream) feedChunks(chunks ...string) {
	for _, c := range chunks {
		s.chunks <- []byte(c)
	}
}

// fakeEngine emits one final segment and stops on demand.
type fakeEngine struct {
	startErr error
	final    string

	mu     sync.Mutex
	events chan transcript.Event
}

func (e *fakeEngine) Start(ctx context.Context) (<-chan transcript.Event, error) {
	if e.startErr != nil {
		return nil, e.startErr
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = make(chan transcript.Event, 4)
	if e.final != "" {
		e.events <- transcript.Event{Kind: transcript.KindFinal, Text: e.final}
	}
	return e.events, nil
}

func (e *fakeEngine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.events != nil {
		close(e.events)
		e.events = nil
	}
}

func (e *fakeEngine) Err() error { return nil }

// fakeRepo keeps rows in memory; only the paths the coordinator hits.
type fakeRepo struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]models.Recording
	addErr error
}

func newFakeRepo() *fakeRepo { return &fakeRepo{rows: make(map[int64]models.Recording)} }

func (r *fakeRepo) Add(ctx context.Context, rec *models.Recording) (int64, error) {
	if r.addErr != nil {
		return 0, r.addErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	rec.ID = r.nextID
	now := time.Now().UTC()
	rec.CreatedAt = now
	rec.UpdatedAt = now
	r.rows[rec.ID] = *rec
	return rec.ID, nil
}

func (r *fakeRepo) GetByOwner(ctx context.Context, userID string) ([]models.Recording, error) {
	return nil, nil
}

func (r *fakeRepo) GetPending(ctx context.Context, userID string) ([]*models.Recording, error) {
	return nil, nil
}

func (r *fakeRepo) GetByID(ctx context.Context, id int64) (*models.Recording, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.rows[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return &rec, nil
}

func (r *fakeRepo) Update(ctx context.Context, id int64, upd models.RecordingUpdate) (*models.Recording, error) {
	return nil, common.ErrNotFound
}

func (r *fakeRepo) Delete(ctx context.Context, id int64) error { return nil }

// fakeSyncer records which rows were handed off.
type fakeSyncer struct {
	synced chan int64
}

func newFakeSyncer() *fakeSyncer { return &fakeSyncer{synced: make(chan int64, 8)} }

func (s *fakeSyncer) SyncOne(ctx context.Context, rec *models.Recording) error {
	s.synced <- rec.ID
	return nil
}

func (s *fakeSyncer) SyncPending(ctx context.Context, userID string) error { return nil }

func (s *fakeSyncer) Run(ctx context.Context, userID string, interval time.Duration) {}

type fixture struct {
	device *fakeDevice
	repo   *fakeRepo
	events *bus.Bus
	syncer *fakeSyncer
	coord  *Coordinator
}

func newFixture(t *testing.T, engine transcript.Engine) *fixture {
	t.Helper()
	f := &fixture{
		device: &fakeDevice{},
		repo:   newFakeRepo(),
		events: bus.New(16),
		syncer: newFakeSyncer(),
	}
	t.Cleanup(f.events.Close)
	f.coord = NewCoordinator(f.device, engine, f.repo, f.events, f.syncer, testLogger())
	return f
}

func TestSaveAndSync_PersistsThenHandsOff(t *testing.T) {
	f := newFixture(t, nil)
	ch, cancel := f.events.Subscribe()
	defer cancel()

	ctx := context.Background()
	require.NoError(t, f.coord.StartCapture(ctx, models.RecorderAudioOnly))
	f.device.stream.feedChunks("abcd", "efgh")

	rec, err := f.coord.SaveAndSync(ctx, SaveParams{UserID: "u1", Prompt: "daily practice", Notes: "n"})
	require.NoError(t, err)
	require.NotZero(t, rec.ID)

	// the save already returned; the row is durable and pending
	row, err := f.repo.GetByID(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "u1", row.UserID)
	assert.Equal(t, "daily practice", row.Prompt)
	assert.Equal(t, models.RecorderAudioOnly, row.RecorderType)
	assert.Equal(t, models.StatusPending, row.Status)
	want := capture.EncodeWAV([]byte("abcdefgh"), capture.DefaultSampleRate, capture.DefaultChannels)
	assert.Equal(t, want, row.AudioPayload)
	assert.True(t, strings.HasPrefix(row.StorageKey, "recordings/u1/"), "key %q", row.StorageKey)

	// created event carries the full recording
	select {
	case ev := <-ch:
		assert.Equal(t, bus.KindRecordingCreated, ev.Kind)
		created, ok := ev.Recording.(*models.Recording)
		require.True(t, ok)
		assert.Equal(t, rec.ID, created.ID)
	case <-time.After(time.Second):
		t.Fatal("no created event")
	}

	// sync starts after the save, detached from it
	select {
	case id := <-f.syncer.synced:
		assert.Equal(t, rec.ID, id)
	case <-time.After(time.Second):
		t.Fatal("recording never handed to the sync worker")
	}

	// coordinator is ready for the next capture
	assert.Equal(t, capture.StateIdle, f.coord.State())
	assert.False(t, f.device.isBusy())
}

func TestSaveAndSync_ImplicitStop(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	require.NoError(t, f.coord.StartCapture(ctx, models.RecorderAudioOnly))
	f.device.stream.feedChunks("abcd")

	// no explicit StopCapture: save finalizes the session itself
	rec, err := f.coord.SaveAndSync(ctx, SaveParams{UserID: "u1"})
	require.NoError(t, err)
	assert.NotEmpty(t, rec.AudioPayload)
}

func TestSaveAndSync_NoSession_ReturnsNothingToSave(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.coord.SaveAndSync(context.Background(), SaveParams{UserID: "u1"})
	assert.True(t, errors.Is(err, ErrNothingToSave))
}

func TestSaveAndSync_EmptyCapture_ReturnsNothingToSave(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	require.NoError(t, f.coord.StartCapture(ctx, models.RecorderAudioOnly))
	require.NoError(t, f.coord.StopCapture())

	_, err := f.coord.SaveAndSync(ctx, SaveParams{UserID: "u1"})
	assert.True(t, errors.Is(err, ErrNothingToSave))

	// no row, no sync hand-off
	assert.Empty(t, f.repo.rows)
	select {
	case id := <-f.syncer.synced:
		t.Fatalf("unexpected sync for id %d", id)
	default:
	}
}

func TestSaveAndSync_DefaultsOwnerToLocalUser(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	require.NoError(t, f.coord.StartCapture(ctx, models.RecorderAudioOnly))
	f.device.stream.feedChunks("abcd")

	rec, err := f.coord.SaveAndSync(ctx, SaveParams{})
	require.NoError(t, err)
	assert.Equal(t, common.LocalUserID, rec.UserID)
}

func TestStartCapture_SecondStart_ReturnsAlreadyActive(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	require.NoError(t, f.coord.StartCapture(ctx, models.RecorderAudioOnly))

	err := f.coord.StartCapture(ctx, models.RecorderAudioOnly)
	assert.True(t, errors.Is(err, common.ErrAlreadyActive))

	// the running session is untouched
	assert.Equal(t, capture.StateRecording, f.coord.State())
	require.NoError(t, f.coord.StopCapture())
}

func TestStartCapture_TranscriptEngineFails_DegradesToAudioOnly(t *testing.T) {
	engine := &fakeEngine{startErr: errors.New("speech backend down")}
	f := newFixture(t, engine)
	ctx := context.Background()

	require.NoError(t, f.coord.StartCapture(ctx, models.RecorderWithTranscript))
	assert.Equal(t, capture.StateRecording, f.coord.State())
	assert.Empty(t, f.coord.LiveTranscript())

	f.device.stream.feedChunks("abcd")
	rec, err := f.coord.SaveAndSync(ctx, SaveParams{UserID: "u1"})
	require.NoError(t, err)

	// mode is preserved even though no transcript was produced
	assert.Equal(t, models.RecorderWithTranscript, rec.RecorderType)
	assert.Empty(t, rec.Transcript)
}

func TestSaveAndSync_WithTranscript_StoresFinalText(t *testing.T) {
	engine := &fakeEngine{final: "hello world"}
	f := newFixture(t, engine)
	ctx := context.Background()

	require.NoError(t, f.coord.StartCapture(ctx, models.RecorderWithTranscript))
	f.device.stream.feedChunks("abcd")

	require.Eventually(t, func() bool {
		return f.coord.LiveTranscript() == "hello world"
	}, time.Second, 5*time.Millisecond)

	rec, err := f.coord.SaveAndSync(ctx, SaveParams{UserID: "u1"})
	require.NoError(t, err)
	assert.Equal(t, "hello world", rec.Transcript)
}

func TestDiscard_DropsCaptureAndReleasesDevice(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	require.NoError(t, f.coord.StartCapture(ctx, models.RecorderAudioOnly))
	f.device.stream.feedChunks("abcd")

	f.coord.Discard()

	assert.Equal(t, capture.StateIdle, f.coord.State())
	assert.False(t, f.device.isBusy())

	_, err := f.coord.SaveAndSync(ctx, SaveParams{UserID: "u1"})
	assert.True(t, errors.Is(err, ErrNothingToSave))
	assert.Empty(t, f.repo.rows)
}

func TestSaveAndSync_RepoFailure_NoEventNoSync(t *testing.T) {
	f := newFixture(t, nil)
	f.repo.addErr = errors.New("disk full")
	ch, cancel := f.events.Subscribe()
	defer cancel()

	ctx := context.Background()
	require.NoError(t, f.coord.StartCapture(ctx, models.RecorderAudioOnly))
	f.device.stream.feedChunks("abcd")

	_, err := f.coord.SaveAndSync(ctx, SaveParams{UserID: "u1"})
	require.Error(t, err)

	select {
	case ev := <-ch:
		t.Fatalf("unexpected event %+v after failed save", ev)
	case <-time.After(20 * time.Millisecond):
	}
	select {
	case id := <-f.syncer.synced:
		t.Fatalf("unexpected sync for id %d", id)
	default:
	}
}
