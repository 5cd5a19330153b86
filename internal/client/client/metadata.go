package client

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/voicevault/internal/client/models"
	"github.com/dmitrijs2005/voicevault/internal/common"
	"github.com/go-resty/resty/v2"
)

// HTTPMetadataStore implements MetadataStore against the VoiceVault metadata
// service (HTTP/JSON). Failures are surfaced as common.ErrMetadataWriteFailed
// wrapping the HTTP status or transport error, never swallowed.
type HTTPMetadataStore struct {
	http *resty.Client
}

// NewHTTPMetadataStore builds a client for the given base URL using the
// static device token for authentication.
func NewHTTPMetadataStore(baseURL, deviceToken string, timeout time.Duration) *HTTPMetadataStore {
	c := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetAuthToken(deviceToken)
	return &HTTPMetadataStore{http: c}
}

// Write posts the full recording document. The server upserts on
// (user_id, storage_key), so a retried write after a lost response does not
// create a duplicate document.
func (s *HTTPMetadataStore) Write(ctx context.Context, rec *models.Recording) error {
	resp, err := s.http.R().
		SetContext(ctx).
		SetBody(rec).
		Post("/api/recordings")
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrMetadataWriteFailed, err)
	}
	if resp.IsError() {
		return fmt.Errorf("%w: %s: %s", common.ErrMetadataWriteFailed, resp.Status(), resp.String())
	}
	return nil
}

// Ping probes service reachability.
func (s *HTTPMetadataStore) Ping(ctx context.Context) error {
	resp, err := s.http.R().SetContext(ctx).Get("/healthz")
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("metadata service unhealthy: %s", resp.Status())
	}
	return nil
}
