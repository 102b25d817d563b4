// Package config loads the process configuration from BLINKRELAY_* environment
// variables.
package config

import (
	"fmt"
	"time"

	"github.com/gabapcia/blinkrelay/internal/pkg/validator"

	"github.com/kelseyhightower/envconfig"
)

// Prefix is prepended to every variable name, e.g. BLINKRELAY_REDIS_ADDR.
const Prefix = "BLINKRELAY"

type Redis struct {
	// Addr selects the Redis bus. Empty keeps relay and adapters in process.
	Addr     string `envconfig:"ADDR" validate:"omitempty,hostname_port"`
	Username string `envconfig:"USERNAME"`
	Password string `envconfig:"PASSWORD"`
	DB       int    `envconfig:"DB" default:"0" validate:"gte=0"`
	Channel  string `envconfig:"CHANNEL" default:"blinkrelay" validate:"required"`
}

type Ethereum struct {
	// ProviderURL is the EIP-1193 wallet endpoint reached over JSON-RPC.
	ProviderURL string `envconfig:"PROVIDER_URL" validate:"omitempty,http_url"`
	ChainID     string `envconfig:"CHAIN_ID"`
}

type Solana struct {
	// KeypairPath points to a solana-keygen JSON file.
	KeypairPath string `envconfig:"KEYPAIR_PATH" validate:"omitempty,filepath"`
}

type Starknet struct {
	ProviderURL string `envconfig:"PROVIDER_URL" validate:"omitempty,http_url"`
}

type Timeouts struct {
	SolanaConnect time.Duration `envconfig:"SOLANA_CONNECT" default:"30s" validate:"gt=0"`
	Connect       time.Duration `envconfig:"CONNECT" default:"60s" validate:"gt=0"`
	Sign          time.Duration `envconfig:"SIGN" default:"60s" validate:"gt=0"`
}

type Config struct {
	LogLevel         string `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=debug info warn error"`
	ServiceName      string `envconfig:"SERVICE_NAME" default:"blinkrelay" validate:"required"`
	TelemetryEnabled bool   `envconfig:"TELEMETRY_ENABLED" default:"false"`

	// AnnounceInterval re-broadcasts readiness periodically. Zero announces once.
	AnnounceInterval time.Duration `envconfig:"ANNOUNCE_INTERVAL" default:"0s" validate:"gte=0"`

	Redis    Redis    `envconfig:"REDIS"`
	Ethereum Ethereum `envconfig:"ETHEREUM"`
	Solana   Solana   `envconfig:"SOLANA"`
	Starknet Starknet `envconfig:"STARKNET"`
	Timeouts Timeouts `envconfig:"TIMEOUT"`
}

// Load reads and validates the configuration.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	if err := validator.Validate(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// InProcess reports whether relay and adapters share the in-memory bus.
func (c Config) InProcess() bool {
	return c.Redis.Addr == ""
}
