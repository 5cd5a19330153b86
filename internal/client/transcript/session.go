// Package transcript runs an optional speech-to-text session alongside
// capture. It is an independent lifecycle: starting or failing here never
// blocks the capture pipeline.
package transcript

import (
	"context"
	"strings"
	"sync"

	"github.com/dmitrijs2005/voicevault/internal/logging"
)

// Kind identifies whether an event carries volatile interim text or a
// committed final segment.
type Kind string

const (
	KindInterim Kind = "interim"
	KindFinal   Kind = "final"
)

// Event is one incremental result from a speech engine.
type Event struct {
	Kind Kind   `json:"kind"`
	Text string `json:"text"`
}

// Engine is the external producer of transcript events. Events closes when
// the engine stops, normally or not; Err reports an irrecoverable engine
// failure afterwards.
type Engine interface {
	Start(ctx context.Context) (<-chan Event, error)
	Stop()
	Err() error
}

// Session accumulates engine output. Final segments are appended and
// immutable once committed; interim text is overwritten by each interim
// event. On engine error the session degrades to a stopped state with
// whatever final text was committed.
type Session struct {
	engine Engine
	logger logging.Logger

	mu        sync.Mutex
	listening bool
	finals    []string
	interim   string
	done      chan struct{}
}

// NewSession returns a stopped session bound to the engine.
func NewSession(engine Engine, logger logging.Logger) *Session {
	return &Session{engine: engine, logger: logger}
}

// Start begins consuming engine events. Starting an already listening
// session is a no-op.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listening {
		return nil
	}

	events, err := s.engine.Start(ctx)
	if err != nil {
		// Degrade: capture continues without a transcript.
		s.logger.Warn(ctx, "transcript engine failed to start", "error", err)
		return err
	}

	s.listening = true
	s.done = make(chan struct{})
	go s.consume(events, s.done)
	return nil
}

func (s *Session) consume(events <-chan Event, done chan struct{}) {
	defer close(done)

	for ev := range events {
		s.mu.Lock()
		switch ev.Kind {
		case KindFinal:
			if ev.Text != "" {
				s.finals = append(s.finals, ev.Text)
			}
			s.interim = ""
		case KindInterim:
			s.interim = ev.Text
		}
		s.mu.Unlock()
	}

	s.mu.Lock()
	s.listening = false
	s.interim = ""
	s.mu.Unlock()

	if err := s.engine.Err(); err != nil {
		s.logger.Warn(context.Background(), "transcript engine stopped with error", "error", err)
	}
}

// Stop ends the engine session and waits for the last committed segment.
// Safe to call when not listening.
func (s *Session) Stop() {
	s.mu.Lock()
	listening := s.listening
	done := s.done
	s.mu.Unlock()

	if !listening {
		return
	}
	s.engine.Stop()
	<-done
}

// Text returns committed text plus the current interim tail, the way a live
// view displays it.
func (s *Session) Text() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	parts := append(append([]string{}, s.finals...), s.interim)
	return strings.TrimSpace(strings.Join(parts, " "))
}

// Final returns only the committed segments.
func (s *Session) Final() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return strings.TrimSpace(strings.Join(s.finals, " "))
}

// Reset discards all accumulated text. Safe from any state.
func (s *Session) Reset() {
	s.Stop()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.finals = nil
	s.interim = ""
}

// Listening reports whether the engine is currently producing events.
func (s *Session) Listening() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listening
}
