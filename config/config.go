// Package config loads service configuration from the environment (with
// .env support for local development) and validates it at startup with an
// explicit fatal/degraded split: a missing database is fatal, a missing
// geocoding key only disables that feature.
package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds everything the service reads from the environment.
type Config struct {
	Port        string
	DatabaseURL string
	MapboxKey   string

	LogLevel  string
	LogFormat string

	AllowedOrigins  []string
	RefreshInterval time.Duration
}

// Load reads configuration from .env (if present) and the process
// environment, applying defaults.
func Load() Config {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "3003")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("REFRESH_INTERVAL", "5m")
	v.SetDefault("ALLOWED_ORIGINS", []string{
		"http://localhost:3000",
		"http://localhost:5173",
		"http://localhost:5174",
	})

	return Config{
		Port:            v.GetString("PORT"),
		DatabaseURL:     v.GetString("DATABASE_URL"),
		MapboxKey:       v.GetString("MAPBOX_KEY"),
		LogLevel:        v.GetString("LOG_LEVEL"),
		LogFormat:       v.GetString("LOG_FORMAT"),
		AllowedOrigins:  v.GetStringSlice("ALLOWED_ORIGINS"),
		RefreshInterval: v.GetDuration("REFRESH_INTERVAL"),
	}
}

// Validate returns a fatal error for configuration the service cannot run
// without, and a list of warnings for optional features that will be
// degraded.
func (c Config) Validate() (warnings []string, err error) {
	if c.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if c.MapboxKey == "" {
		warnings = append(warnings, "MAPBOX_KEY not set, geocoding endpoints disabled")
	}
	if c.RefreshInterval <= 0 {
		warnings = append(warnings, "REFRESH_INTERVAL invalid, using 5m")
	}
	return warnings, nil
}

// EffectiveRefreshInterval guards against a zero or negative interval.
func (c Config) EffectiveRefreshInterval() time.Duration {
	if c.RefreshInterval <= 0 {
		return 5 * time.Minute
	}
	return c.RefreshInterval
}
