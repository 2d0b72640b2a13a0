package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/passguard/passguardctl/internal/flagx"
	"github.com/passguard/passguardctl/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies
// on timex.Duration so JSON can specify the timeout either as a string
// like "15s" or as integer nanoseconds.
type JsonConfig struct {
	ServerEndpointURL string         `json:"server_endpoint_url"`
	RequestTimeout    timex.Duration `json:"request_timeout"`
	TokenStorePath    string         `json:"token_store_path"`
}

// parseJson overlays Config with values loaded from the JSON file selected
// via the -c/-config flags. Missing file selection means no JSON is
// loaded; read or unmarshal errors panic (the config is unusable anyway).
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

	if jc.ServerEndpointURL != "" {
		cfg.ServerEndpointURL = jc.ServerEndpointURL
	}
	if jc.RequestTimeout.Duration != 0 {
		cfg.RequestTimeout = time.Duration(jc.RequestTimeout.Duration)
	}
	if jc.TokenStorePath != "" {
		cfg.TokenStorePath = jc.TokenStorePath
	}
}
