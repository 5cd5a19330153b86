package client

import (
	"context"

	"github.com/dmitrijs2005/voicevault/internal/client/models"
)

// ObjectStorage is the remote object-storage collaborator. It accepts a
// binary payload under a caller-chosen key and returns a publicly resolvable
// locator string. Uploading the same key twice is a safe overwrite.
type ObjectStorage interface {
	Put(ctx context.Context, key string, payload []byte, contentType string) (string, error)
}

// MetadataStore is the remote metadata collaborator. It accepts a write of a
// full recording document keyed by owner and storage key. No update or
// delete contract is required.
type MetadataStore interface {
	Write(ctx context.Context, rec *models.Recording) error
	Ping(ctx context.Context) error
}
