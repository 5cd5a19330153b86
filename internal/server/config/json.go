package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/voicevault/internal/flagx"
	"github.com/dmitrijs2005/voicevault/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
type JsonConfig struct {
	HTTPAddr      string         `json:"http_addr"`
	DatabaseDSN   string         `json:"database_dsn"`
	JWTSecret     string         `json:"jwt_secret"`
	TokenValidity timex.Duration `json:"token_validity"`
}

// parseJson overlays cfg with values loaded from the JSON file named by the
// -c/-config flags. Missing file path means no JSON overlay.
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

	if jc.HTTPAddr != "" {
		cfg.HTTPAddr = jc.HTTPAddr
	}
	if jc.DatabaseDSN != "" {
		cfg.DatabaseDSN = jc.DatabaseDSN
	}
	if jc.JWTSecret != "" {
		cfg.JWTSecret = jc.JWTSecret
	}
	if jc.TokenValidity.Duration != 0 {
		cfg.TokenValidity = time.Duration(jc.TokenValidity.Duration)
	}
}
