package e2e

import (
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// RELAY_ADDR is the HTTP address of a running relay, e.g. http://localhost:8080.
	// The suite is skipped when it is empty.
	RelayAddr  string `envconfig:"RELAY_ADDR"`
	HealthAddr string `envconfig:"HEALTH_ADDR" default:"localhost:8090"`
	// E2E_DEBUG_JSON dumps full HTTP response bodies
	DebugJSON bool `envconfig:"E2E_DEBUG_JSON" default:"false"`
	// E2E_COLOURS enables colorized output for better log readability
	Colours bool `envconfig:"E2E_COLOURS" default:"true"`
	// The admin account must be listed in the relay's ADMIN_USERNAMES
	AdminUsername string `envconfig:"E2E_ADMIN_USERNAME" default:"hqadmin"`
	AdminPassword string `envconfig:"E2E_ADMIN_PASSWORD" default:"Correct-horse-battery-9"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	return cfg, err
}
