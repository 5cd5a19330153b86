// Package models defines client-side data models used by the VoiceVault agent.
package models

import "time"

// RecorderType describes the capture mode a recording was produced with.
type RecorderType string

const (
	// RecorderAudioOnly is plain microphone capture.
	RecorderAudioOnly RecorderType = "audio_only"
	// RecorderWithTranscript is capture with a concurrent live transcript.
	RecorderWithTranscript RecorderType = "with_transcript"
)

// SyncStatus is the replication state of a locally persisted recording.
type SyncStatus string

const (
	// StatusPending means the row is durable locally but not yet confirmed
	// present in remote storage.
	StatusPending SyncStatus = "pending"
	// StatusSynced means both the object-storage upload and the remote
	// metadata write have succeeded.
	StatusSynced SyncStatus = "synced"
)

// Recording is the persisted unit of capture: audio payload plus metadata
// plus sync status. Rows are append-only except for the status/remote-ref
// update performed by the sync worker.
type Recording struct {
	// ID is the locally-assigned, monotonically increasing identity.
	// It is the only stable identity before remote sync.
	ID int64 `json:"id"`

	// UserID is the owner scope. common.LocalUserID marks a local-only owner.
	UserID string `json:"userId"`

	// Prompt is the text the user was speaking to. May be empty.
	Prompt string `json:"prompt"`

	// Transcript is the final speech-to-text result. May be empty.
	Transcript string `json:"transcript"`

	// Notes is free-form user text. May be empty.
	Notes string `json:"notes"`

	// Duration is elapsed capture time in whole seconds.
	Duration int `json:"duration"`

	// RecorderType is the capture mode.
	RecorderType RecorderType `json:"recorderType"`

	// AudioPayload is the finalized audio blob. Owned by the local store
	// once written; never mutated, only read or deleted.
	AudioPayload []byte `json:"-"`

	// StorageKey is the deterministic remote object key, assigned once at
	// save time. Retried uploads reuse it so they overwrite, not duplicate.
	StorageKey string `json:"storageKey"`

	// RemoteAudioRef is empty until upload succeeds; thereafter an
	// immutable locator string.
	RemoteAudioRef string `json:"remoteAudioRef,omitempty"`

	// Status is pending until both remote writes succeed.
	Status SyncStatus `json:"status"`

	// CreatedAt is set once at creation and never changes.
	CreatedAt time.Time `json:"createdAt"`

	// UpdatedAt is refreshed on every mutation.
	UpdatedAt time.Time `json:"updatedAt"`
}

// RecordingUpdate carries the partial fields the sync worker is allowed to
// change on an existing row. Nil fields are left untouched.
type RecordingUpdate struct {
	Status         *SyncStatus
	RemoteAudioRef *string
	Transcript     *string
	Notes          *string
}
