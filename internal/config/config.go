package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/kiliankoe/tvquiz/internal/engine"
)

type Config struct {
	Port          string `env:"PORT" envDefault:"8080"`
	GMUser        string `env:"GM_USER"`
	GMPass        string `env:"GM_PASS"`
	SingleSession bool   `env:"SINGLE_SESSION" envDefault:"true"`
	PackagesDir   string `env:"PACKAGES_DIR" envDefault:"./packages"`
	ExportEnabled bool   `env:"EXPORT_ENABLED" envDefault:"true"`
	ExportFile    string `env:"EXPORT_FILE" envDefault:"./tvquiz-results.txt"`
	LogLevel      string `env:"LOG_LEVEL" envDefault:"info"`

	// Session defaults, overridable per session.
	ShowRightAnswer bool          `env:"SHOW_RIGHT_ANSWER" envDefault:"true"`
	PlaySpecials    bool          `env:"PLAY_SPECIALS" envDefault:"true"`
	RoundTime       time.Duration `env:"ROUND_TIME" envDefault:"0s"`

	Pacing engine.Pacing `envPrefix:"PACE_"`
}

func FromEnv() (Config, error) {
	var c Config
	if err := env.Parse(&c); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return c, nil
}

// HasHostAuth reports whether host routes are enabled.
func (c Config) HasHostAuth() bool {
	return c.GMUser != "" && c.GMPass != ""
}
