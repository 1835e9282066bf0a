package e2e

import (
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// RELAY_ADDR points at a running relay; the suite is skipped when unset.
	RelayAddr string `envconfig:"RELAY_ADDR"`
	// E2E_COLOURS enables colorized output for better log readability
	Colours bool `envconfig:"E2E_COLOURS" default:"true"`
	// The two seeded user ids the scenario converses with
	// (see cmd/tools/seed_users).
	UserA int64 `envconfig:"E2E_USER_A" default:"1"`
	UserB int64 `envconfig:"E2E_USER_B" default:"2"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	return cfg, err
}
