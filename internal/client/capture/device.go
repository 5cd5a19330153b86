// Package capture owns the microphone: exclusive device acquisition, chunk
// accumulation and payload finalization for one recording session.
package capture

import (
	"context"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/voicevault/internal/common"
)

// Capability is the result of a permission probe.
type Capability string

const (
	CapabilityGranted     Capability = "granted"
	CapabilityDenied      Capability = "denied"
	CapabilityUnsupported Capability = "unsupported"
	CapabilityNoDevice    Capability = "no-device"
	CapabilityBusy        Capability = "busy"
)

// Stream is one exclusive acquisition of an input device. Chunks delivers
// encoded audio until Close is called or the device fails, after which the
// channel is closed. Close releases the device and is safe to call twice.
type Stream interface {
	Chunks() <-chan []byte
	// Err reports the device failure that ended the stream, if any. Valid
	// once Chunks is closed.
	Err() error
	Close() error
}

// Device abstracts an audio input. Acquire grants exclusive access or fails
// with one of the capture sentinel errors (common.ErrDeviceBusy,
// common.ErrPermissionDenied, common.ErrDeviceUnavailable,
// common.ErrUnsupported).
type Device interface {
	Acquire(ctx context.Context) (Stream, error)
}

// FileDevice emulates a microphone by replaying PCM data from a reader at a
// fixed chunk rate. It enforces the same exclusivity a hardware device
// would: a second Acquire while a stream is open fails with ErrDeviceBusy.
type FileDevice struct {
	mu       sync.Mutex
	open     func() (io.ReadCloser, error)
	active   bool
	chunkLen int
	interval time.Duration
}

// NewFileDevice replays the file at path. Chunk size and interval control
// the delivery pacing; zero values pick mic-like defaults.
func NewFileDevice(path string, chunkLen int, interval time.Duration) *FileDevice {
	if chunkLen <= 0 {
		chunkLen = 8192
	}
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}
	return &FileDevice{
		open: func() (io.ReadCloser, error) {
			f, err := os.Open(path)
			if err != nil {
				if os.IsNotExist(err) {
					return nil, common.ErrDeviceUnavailable
				}
				if os.IsPermission(err) {
					return nil, common.ErrPermissionDenied
				}
				return nil, err
			}
			return f, nil
		},
		chunkLen: chunkLen,
		interval: interval,
	}
}

// Acquire opens the source and starts delivering chunks. The stream keeps
// the device marked busy until Close.
func (d *FileDevice) Acquire(ctx context.Context) (Stream, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.active {
		return nil, common.ErrDeviceBusy
	}

	src, err := d.open()
	if err != nil {
		return nil, err
	}
	d.active = true

	s := &fileStream{
		device: d,
		src:    src,
		chunks: make(chan []byte, 8),
		done:   make(chan struct{}),
	}
	go s.run(d.chunkLen, d.interval)
	return s, nil
}

func (d *FileDevice) release() {
	d.mu.Lock()
	d.active = false
	d.mu.Unlock()
}

type fileStream struct {
	device *FileDevice
	src    io.ReadCloser
	chunks chan []byte

	closeOnce sync.Once
	done      chan struct{}

	mu  sync.Mutex
	err error
}

func (s *fileStream) Chunks() <-chan []byte { return s.chunks }

func (s *fileStream) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Close stops delivery and releases the device. Idempotent.
func (s *fileStream) Close() error {
	s.closeOnce.Do(func() { close(s.done) })
	return nil
}

func (s *fileStream) run(chunkLen int, interval time.Duration) {
	defer func() {
		_ = s.src.Close()
		s.device.release()
		close(s.chunks)
	}()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			buf := make([]byte, chunkLen)
			n, err := s.src.Read(buf)
			if n > 0 {
				select {
				case s.chunks <- buf[:n]:
				case <-s.done:
					return
				}
			}
			if err == io.EOF {
				// Source exhausted: keep the stream open, delivering
				// silence-free idle time until the caller stops, like a
				// muted microphone.
				continue
			}
			if err != nil {
				s.mu.Lock()
				s.err = err
				s.mu.Unlock()
				return
			}
		}
	}
}
