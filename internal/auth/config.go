package auth

import (
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config controls magic link timing and the link base URL.
//
// These values are read at startup so operator-controlled defaults can be
// tuned without changing runtime code paths.
type Config struct {
	BaseURL string        `env:"DEBTFLY_MAGIC_LINK_BASE_URL" envDefault:"http://localhost:8080/verify"`
	TTL     time.Duration `env:"DEBTFLY_MAGIC_LINK_TTL"      envDefault:"1h"`
}

// LoadConfigFromEnv loads magic-link configuration from the environment.
// Malformed values are logged and the whole block falls back to the tag
// defaults; a partially-applied config could leave the TTL at zero, expiring
// every link on arrival.
func LoadConfigFromEnv() Config {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		slog.Warn("ignoring invalid magic link environment config", "error", err)
		cfg = Config{}
		_ = env.ParseWithOptions(&cfg, env.Options{Environment: map[string]string{}})
	}
	return cfg
}
