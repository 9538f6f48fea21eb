package e2e

import (
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// E2E_SERVER_URL points the suite at a running portal-chat server.
	// Leaving it empty skips the end-to-end scenarios.
	ServerURL string `envconfig:"E2E_SERVER_URL"`
	ProjectID string `envconfig:"E2E_PROJECT_ID" default:"e2e-project"`
	// E2E_COLOURS enables colorized output for better log readability
	Colours bool `envconfig:"E2E_COLOURS" default:"true"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	return cfg, err
}
