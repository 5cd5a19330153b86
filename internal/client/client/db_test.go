package client

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/voicevault/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func TestInitDatabase_MigratesAndServesRepositories(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "voicevault.db")

	repos, err := InitDatabase(context.Background(), dsn)
	require.NoError(t, err)
	require.NotNil(t, repos.Recordings)

	rec := &models.Recording{
		UserID:       "u1",
		Duration:     12,
		RecorderType: models.RecorderAudioOnly,
		AudioPayload: []byte("RIFF"),
		StorageKey:   models.NewStorageKey("u1", models.RecorderAudioOnly, time.Now()),
	}
	id, err := repos.Recordings.Add(context.Background(), rec)
	require.NoError(t, err)
	assert.Positive(t, id)
}

func TestInitDatabase_SurvivesReopen(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "voicevault.db")

	repos, err := InitDatabase(context.Background(), dsn)
	require.NoError(t, err)

	rec := &models.Recording{
		UserID:       "u1",
		RecorderType: models.RecorderAudioOnly,
		AudioPayload: []byte("RIFF"),
		StorageKey:   models.NewStorageKey("u1", models.RecorderAudioOnly, time.Now()),
	}
	id, err := repos.Recordings.Add(context.Background(), rec)
	require.NoError(t, err)

	// migrations are idempotent; data persists across a reopen
	repos, err = InitDatabase(context.Background(), dsn)
	require.NoError(t, err)

	row, err := repos.Recordings.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "u1", row.UserID)
	assert.Equal(t, []byte("RIFF"), row.AudioPayload)
}
