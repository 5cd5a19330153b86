package capture

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/voicevault/internal/common"
	"github.com/dmitrijs2005/voicevault/internal/logging"
)

// State is the capture session lifecycle state.
type State string

const (
	StateIdle      State = "idle"
	StateAcquiring State = "acquiring-permission"
	StateRecording State = "recording"
	StateStopped   State = "stopped"
	StateError     State = "error"
)

// Session drives one microphone acquisition from start to finalized payload.
// The device is held only between a successful Start and the matching Stop
// or Reset; every exit path releases it.
type Session struct {
	device Device
	logger logging.Logger

	mu            sync.Mutex
	state         State
	stream        Stream
	chunks        [][]byte
	payload       []byte
	elapsed       int
	collectorDone chan struct{}
}

// NewSession returns an idle session bound to the given device.
func NewSession(device Device, logger logging.Logger) *Session {
	return &Session{
		device: device,
		logger: logger,
		state:  StateIdle,
	}
}

// RequestPermission probes device availability without recording. The test
// acquisition is released immediately, never held.
func (s *Session) RequestPermission(ctx context.Context) Capability {
	stream, err := s.device.Acquire(ctx)
	if err == nil {
		_ = stream.Close()
		return CapabilityGranted
	}

	switch {
	case errors.Is(err, common.ErrPermissionDenied):
		return CapabilityDenied
	case errors.Is(err, common.ErrDeviceBusy):
		return CapabilityBusy
	case errors.Is(err, common.ErrUnsupported):
		return CapabilityUnsupported
	default:
		return CapabilityNoDevice
	}
}

// Start acquires the device and begins accumulating chunks. It fails with
// common.ErrAlreadyActive if the session is already recording, and with the
// device's own sentinel error if acquisition fails.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateRecording {
		return common.ErrAlreadyActive
	}

	s.state = StateAcquiring
	stream, err := s.device.Acquire(ctx)
	if err != nil {
		s.state = StateIdle
		return fmt.Errorf("failed to acquire device: %w", err)
	}

	s.stream = stream
	s.chunks = nil
	s.payload = nil
	s.elapsed = 0
	s.state = StateRecording
	s.collectorDone = make(chan struct{})

	go s.collect(stream, s.collectorDone)
	return nil
}

// collect drains the stream and ticks the elapsed-time counter at 1-second
// resolution until the stream is closed.
func (s *Session) collect(stream Stream, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case chunk, ok := <-stream.Chunks():
			if !ok {
				if err := stream.Err(); err != nil {
					s.logger.Error(context.Background(), "capture stream failed", "error", err)
					s.mu.Lock()
					s.state = StateError
					s.mu.Unlock()
				}
				return
			}
			s.mu.Lock()
			s.chunks = append(s.chunks, chunk)
			s.mu.Unlock()
		case <-ticker.C:
			s.mu.Lock()
			s.elapsed++
			s.mu.Unlock()
		}
	}
}

// Stop releases the device, finalizes the payload as a single WAV blob and
// freezes the elapsed counter. Calling Stop when not recording is a no-op.
func (s *Session) Stop() error {
	s.mu.Lock()
	if s.state != StateRecording {
		s.mu.Unlock()
		return nil
	}
	stream := s.stream
	done := s.collectorDone
	s.mu.Unlock()

	_ = stream.Close()
	<-done

	s.mu.Lock()
	defer s.mu.Unlock()

	s.stream = nil
	if s.state == StateError {
		return common.ErrDeviceUnavailable
	}

	var total int
	for _, c := range s.chunks {
		total += len(c)
	}
	if total > 0 {
		pcm := make([]byte, 0, total)
		for _, c := range s.chunks {
			pcm = append(pcm, c...)
		}
		s.payload = EncodeWAV(pcm, DefaultSampleRate, DefaultChannels)
	}
	s.chunks = nil
	s.state = StateStopped
	return nil
}

// Reset discards any finalized payload and returns to idle. Safe from any
// state; resetting mid-recording implies a Stop first.
func (s *Session) Reset() {
	s.mu.Lock()
	recording := s.state == StateRecording
	s.mu.Unlock()

	if recording {
		_ = s.Stop()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.chunks = nil
	s.payload = nil
	s.elapsed = 0
	s.state = StateIdle
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Elapsed returns whole seconds recorded so far.
func (s *Session) Elapsed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.elapsed
}

// Payload returns the finalized WAV blob, or nil if the session produced no
// audio or has not been stopped.
func (s *Session) Payload() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.payload
}
