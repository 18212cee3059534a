package app

import (
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
)

// Config holds the complete application configuration, loadable from
// environment variables (KIOSK_ prefix), flags, or YAML config files.
type Config struct {
	StorePath string `default:"kiosk.db" usage:"Path to the local store file (seeded by seed-store)" flag:"store-path"`
	Currency  string `default:"₹" usage:"Currency symbol for formatted amounts"`
	Checkout  CheckoutConfig
}

// CheckoutConfig controls the order workflow timing.
type CheckoutConfig struct {
	SettleDelay    time.Duration `default:"2s" usage:"Simulated payment settlement delay" flag:"settle-delay"`
	SuccessDisplay time.Duration `default:"4s" usage:"How long the success state is held before returning to idle" flag:"success-display"`
}

// LoadConfig loads configuration from environment variables, flags, and
// YAML config files.
func LoadConfig() (*Config, error) {
	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix: "KIOSK",
		Files:     []string{"config.yaml", "/etc/kiosk/config.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	return &cfg, nil
}
