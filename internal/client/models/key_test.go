package models

import (
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewStorageKey_Format(t *testing.T) {
	at := time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC)
	key := NewStorageKey("u1", RecorderAudioOnly, at)

	pattern := fmt.Sprintf(`^recordings/u1/%d_audio_only_[0-9a-f-]{36}\.wav$`, at.UnixMilli())
	assert.Regexp(t, regexp.MustCompile(pattern), key)
}

func TestNewStorageKey_UniquePerCall(t *testing.T) {
	at := time.Now()
	k1 := NewStorageKey("u1", RecorderWithTranscript, at)
	k2 := NewStorageKey("u1", RecorderWithTranscript, at)

	assert.NotEqual(t, k1, k2, "same owner, mode and instant must still yield distinct keys")
}
