package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/voicevault/internal/flagx"
	"github.com/dmitrijs2005/voicevault/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Durations can
// be given either as strings like "30s" or as integer nanoseconds.
type JsonConfig struct {
	DatabaseDSN        string         `json:"database_dsn"`
	UserID             string         `json:"user_id"`
	AudioSourcePath    string         `json:"audio_source_path"`
	MetadataBaseURL    string         `json:"metadata_base_url"`
	DeviceToken        string         `json:"device_token"`
	MetadataTimeout    timex.Duration `json:"metadata_timeout"`
	SyncRescanInterval timex.Duration `json:"sync_rescan_interval"`
	S3Region           string         `json:"s3_region"`
	S3BaseEndpoint     string         `json:"s3_base_endpoint"`
	S3Bucket           string         `json:"s3_bucket"`
	S3RootUser         string         `json:"s3_root_user"`
	S3RootPassword     string         `json:"s3_root_password"`
}

// parseJson overlays cfg with values loaded from the JSON file named by the
// -c/-config flags. Missing file path means no JSON overlay. Read or parse
// errors panic; config is resolved once at startup.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.DatabaseDSN != "" {
		cfg.DatabaseDSN = jc.DatabaseDSN
	}
	if jc.UserID != "" {
		cfg.UserID = jc.UserID
	}
	if jc.AudioSourcePath != "" {
		cfg.AudioSourcePath = jc.AudioSourcePath
	}
	if jc.MetadataBaseURL != "" {
		cfg.MetadataBaseURL = jc.MetadataBaseURL
	}
	if jc.DeviceToken != "" {
		cfg.DeviceToken = jc.DeviceToken
	}
	if jc.MetadataTimeout.Duration != 0 {
		cfg.MetadataTimeout = time.Duration(jc.MetadataTimeout.Duration)
	}
	if jc.SyncRescanInterval.Duration != 0 {
		cfg.SyncRescanInterval = time.Duration(jc.SyncRescanInterval.Duration)
	}
	if jc.S3Region != "" {
		cfg.S3.Region = jc.S3Region
	}
	if jc.S3BaseEndpoint != "" {
		cfg.S3.BaseEndpoint = jc.S3BaseEndpoint
	}
	if jc.S3Bucket != "" {
		cfg.S3.Bucket = jc.S3Bucket
	}
	if jc.S3RootUser != "" {
		cfg.S3.RootUser = jc.S3RootUser
	}
	if jc.S3RootPassword != "" {
		cfg.S3.RootPassword = jc.S3RootPassword
	}
}
