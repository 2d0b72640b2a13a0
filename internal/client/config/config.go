package config

import "time"

// Config holds runtime settings for the passguardctl client.
//
// Fields:
//   - ServerEndpointURL: base URL of the backend REST API, including the
//     /api prefix.
//   - RequestTimeout: per-request timeout for backend calls.
//   - TokenStorePath: path of the local sqlite file holding the persisted
//     session token.
type Config struct {
	ServerEndpointURL string
	RequestTimeout    time.Duration
	TokenStorePath    string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointURL = "http://localhost:8080/api"
	c.RequestTimeout = 15 * time.Second
	c.TokenStorePath = "passguard.db"
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from JSON (if present) and command-line flags (if present). Later
// sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
