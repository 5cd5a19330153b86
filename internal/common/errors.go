// Package common defines shared constants and sentinel errors used across
// client and server layers of VoiceVault. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Capture device errors.
	ErrPermissionDenied  = errors.New("permission denied")
	ErrDeviceUnavailable = errors.New("device unavailable")
	ErrDeviceBusy        = errors.New("device busy")
	ErrUnsupported       = errors.New("capture not supported")
	ErrAlreadyActive     = errors.New("capture session already active")

	// Local store errors.
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrNotFound         = errors.New("not found")

	// Sync errors. Terminal for a single sync attempt only; the local row
	// stays pending and retryable.
	ErrUploadTimeout       = errors.New("upload timeout")
	ErrUploadFailed        = errors.New("upload failed")
	ErrMetadataWriteFailed = errors.New("metadata write failed")

	// Auth errors (invalid or malformed device token).
	ErrInvalidToken = errors.New("invalid token")
)
