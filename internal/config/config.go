// internal/config/config.go
//
// Server configuration, read from the environment. main loads `.env` with
// godotenv first, so values there behave like real environment variables.

package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds every tunable the server reads at startup.
type Config struct {
	Port         string `env:"PORT" envDefault:"5175"`
	LogLevel     string `env:"LOG_LEVEL" envDefault:"info"`
	DBPath       string `env:"DB_PATH" envDefault:"./data/picklescore.db"`
	ClientOrigin string `env:"CLIENT_ORIGIN" envDefault:"http://localhost:5173"`

	JWTSecret string        `env:"JWT_SECRET" envDefault:"dev_secret_change_me"`
	TokenTTL  time.Duration `env:"SCOREKEEPER_TOKEN_TTL" envDefault:"12h"`
	// Empty disables clearing history over HTTP.
	AdminPINHash string `env:"ADMIN_PIN_HASH"`

	SideOutDelay        time.Duration `env:"SIDE_OUT_DELAY" envDefault:"2500ms"`
	WinRevealDelay      time.Duration `env:"WIN_REVEAL_DELAY" envDefault:"2500ms"`
	WinnerAnnounceDelay time.Duration `env:"WINNER_ANNOUNCE_DELAY" envDefault:"500ms"`
	RequestTimeout      time.Duration `env:"REQUEST_TIMEOUT" envDefault:"10s"`

	// Games with no input for SessionIdleTTL, and finished games after
	// FinishedGameGrace, are dropped by the sweeper.
	SessionIdleTTL    time.Duration `env:"SESSION_IDLE_TTL" envDefault:"2h"`
	FinishedGameGrace time.Duration `env:"FINISHED_GAME_GRACE" envDefault:"15m"`
	SweepInterval     time.Duration `env:"SWEEP_INTERVAL" envDefault:"1m"`
}

// Load parses the environment into a Config.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.TokenTTL <= 0 {
		return Config{}, fmt.Errorf("SCOREKEEPER_TOKEN_TTL must be positive, got %s", cfg.TokenTTL)
	}
	return cfg, nil
}
