package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// NewStorageKey builds the remote object key for a recording. The key is
// assigned once at save time and stored on the row, so a retried upload
// lands on the same object instead of creating a duplicate. The UUID suffix
// disambiguates two saves in the same millisecond for the same owner and mode.
func NewStorageKey(userID string, rt RecorderType, at time.Time) string {
	return fmt.Sprintf("recordings/%s/%d_%s_%s.wav", userID, at.UnixMilli(), rt, uuid.NewString())
}
