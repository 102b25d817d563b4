package config

import (
	"testing"
	"time"

	"github.com/gabapcia/blinkrelay/internal/pkg/validator"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("applies defaults", func(t *testing.T) {
		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "info", cfg.LogLevel)
		assert.Equal(t, "blinkrelay", cfg.ServiceName)
		assert.Equal(t, "blinkrelay", cfg.Redis.Channel)
		assert.Equal(t, 30*time.Second, cfg.Timeouts.SolanaConnect)
		assert.Equal(t, 60*time.Second, cfg.Timeouts.Connect)
		assert.Equal(t, 60*time.Second, cfg.Timeouts.Sign)
		assert.Zero(t, cfg.AnnounceInterval)
		assert.True(t, cfg.InProcess())
	})

	t.Run("reads prefixed variables", func(t *testing.T) {
		t.Setenv("BLINKRELAY_LOG_LEVEL", "debug")
		t.Setenv("BLINKRELAY_REDIS_ADDR", "localhost:6379")
		t.Setenv("BLINKRELAY_REDIS_DB", "2")
		t.Setenv("BLINKRELAY_ETHEREUM_PROVIDER_URL", "http://localhost:8545")
		t.Setenv("BLINKRELAY_ETHEREUM_CHAIN_ID", "8453")
		t.Setenv("BLINKRELAY_STARKNET_PROVIDER_URL", "http://localhost:5050")
		t.Setenv("BLINKRELAY_TIMEOUT_SIGN", "5s")
		t.Setenv("BLINKRELAY_ANNOUNCE_INTERVAL", "10s")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "debug", cfg.LogLevel)
		assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
		assert.Equal(t, 2, cfg.Redis.DB)
		assert.Equal(t, "http://localhost:8545", cfg.Ethereum.ProviderURL)
		assert.Equal(t, "8453", cfg.Ethereum.ChainID)
		assert.Equal(t, "http://localhost:5050", cfg.Starknet.ProviderURL)
		assert.Equal(t, 5*time.Second, cfg.Timeouts.Sign)
		assert.Equal(t, 10*time.Second, cfg.AnnounceInterval)
		assert.False(t, cfg.InProcess())
	})

	t.Run("rejects an unparsable value", func(t *testing.T) {
		t.Setenv("BLINKRELAY_TIMEOUT_CONNECT", "soon")

		_, err := Load()
		assert.ErrorContains(t, err, "load config")
	})

	t.Run("rejects an invalid provider url", func(t *testing.T) {
		t.Setenv("BLINKRELAY_ETHEREUM_PROVIDER_URL", "localhost")

		_, err := Load()
		assert.ErrorIs(t, err, validator.ErrValidationFailed)
	})

	t.Run("rejects an unknown log level", func(t *testing.T) {
		t.Setenv("BLINKRELAY_LOG_LEVEL", "loud")

		_, err := Load()
		assert.ErrorIs(t, err, validator.ErrValidationFailed)
	})

	t.Run("rejects a zero timeout", func(t *testing.T) {
		t.Setenv("BLINKRELAY_TIMEOUT_CONNECT", "0s")

		_, err := Load()
		assert.ErrorIs(t, err, validator.ErrValidationFailed)
	})
}
