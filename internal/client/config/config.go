package config

import (
	"time"

	"github.com/dmitrijs2005/voicevault/internal/client/client"
)

// Config holds runtime settings for the VoiceVault capture agent.
//
// Overlay order is defaults -> JSON file -> command-line flags, later
// sources taking precedence.
type Config struct {
	// DatabaseDSN is the local SQLite database location.
	DatabaseDSN string

	// UserID scopes saved recordings. Empty means the local-only owner.
	UserID string

	// AudioSourcePath is the PCM source replayed by the file-backed device.
	AudioSourcePath string

	// MetadataBaseURL is the base URL of the metadata service.
	MetadataBaseURL string

	// DeviceToken authenticates requests to the metadata service.
	DeviceToken string

	// MetadataTimeout bounds a single metadata service call.
	MetadataTimeout time.Duration

	// SyncRescanInterval re-triggers pending rows periodically when > 0.
	// Zero disables the periodic pass; the sync command stays available.
	SyncRescanInterval time.Duration

	// S3 is the object-storage endpoint configuration.
	S3 client.S3Config
}

// LoadDefaults populates c with sensible defaults for a local dev setup.
func (c *Config) LoadDefaults() {
	c.DatabaseDSN = "voicevault.db"
	c.UserID = ""
	c.AudioSourcePath = ""
	c.MetadataBaseURL = "http://127.0.0.1:8080"
	c.DeviceToken = ""
	c.MetadataTimeout = 10 * time.Second
	c.SyncRescanInterval = 0
	c.S3 = client.S3Config{
		Region:       "us-east-1",
		BaseEndpoint: "http://127.0.0.1:9000",
		Bucket:       "voicevault",
	}
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from JSON (if present) and command-line flags (if present).
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
