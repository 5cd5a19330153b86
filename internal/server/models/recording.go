// Package models defines server-side documents persisted by the metadata
// service.
package models

import "time"

// Recording is the remote metadata document for one uploaded recording.
// Documents are keyed by (user_id, storage_key) so a retried write after a
// lost response lands on the same document.
type Recording struct {
	// ID is the server-assigned document id.
	ID string `json:"id"`

	// UserID is the owner, taken from the device token, never the body.
	UserID string `json:"userId"`

	// StorageKey is the client-assigned deterministic object key.
	StorageKey string `json:"storageKey"`

	Prompt     string `json:"prompt"`
	Transcript string `json:"transcript"`
	Notes      string `json:"notes"`

	// Duration is capture length in whole seconds.
	Duration int `json:"duration"`

	// RecorderType is the capture mode the client reported.
	RecorderType string `json:"recorderType"`

	// AudioURL is the resolvable locator returned by object storage.
	AudioURL string `json:"audioUrl"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
