// Package config reads server configuration from the environment.
package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds every tunable of the bakerysim server.
type Config struct {
	// BakeryName names a freshly created session.
	BakeryName string `env:"BAKERY_NAME" envDefault:"My Bakery"`

	// DBPath locates the SQLite session store.
	DBPath string `env:"BAKERY_DB" envDefault:"data/bakery.db"`

	// Port is the HTTP API listen port.
	Port int `env:"BAKERY_PORT" envDefault:"8080"`

	// AdminKey is the bearer token required by action endpoints.
	// Empty disables POST endpoints.
	AdminKey string `env:"BAKERY_ADMIN_KEY"`

	// DayInterval is the real time per game day when the clock runs.
	DayInterval time.Duration `env:"BAKERY_DAY_INTERVAL" envDefault:"5m"`

	// AutoDay starts the day clock; when false, days advance only via the
	// API.
	AutoDay bool `env:"BAKERY_AUTO_DAY" envDefault:"true"`
}

// Load parses the configuration from environment variables.
func Load() (Config, error) {
	return env.ParseAs[Config]()
}
