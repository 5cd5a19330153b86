package capture

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeWAV_Header(t *testing.T) {
	pcm := []byte{1, 2, 3, 4, 5, 6}
	out := EncodeWAV(pcm, DefaultSampleRate, DefaultChannels)

	require.Len(t, out, 44+len(pcm))

	assert.Equal(t, "RIFF", string(out[0:4]))
	assert.Equal(t, uint32(36+len(pcm)), binary.LittleEndian.Uint32(out[4:8]))
	assert.Equal(t, "WAVE", string(out[8:12]))
	assert.Equal(t, "fmt ", string(out[12:16]))
	assert.Equal(t, uint16(1), binary.LittleEndian.Uint16(out[20:22]), "PCM format tag")
	assert.Equal(t, uint16(DefaultChannels), binary.LittleEndian.Uint16(out[22:24]))
	assert.Equal(t, uint32(DefaultSampleRate), binary.LittleEndian.Uint32(out[24:28]))
	assert.Equal(t, uint16(16), binary.LittleEndian.Uint16(out[34:36]), "bits per sample")
	assert.Equal(t, "data", string(out[36:40]))
	assert.Equal(t, uint32(len(pcm)), binary.LittleEndian.Uint32(out[40:44]))
	assert.Equal(t, pcm, out[44:])
}

func TestEncodeWAV_EmptyPayload(t *testing.T) {
	out := EncodeWAV(nil, DefaultSampleRate, DefaultChannels)

	require.Len(t, out, 44)
	assert.Equal(t, uint32(0), binary.LittleEndian.Uint32(out[40:44]))
}
