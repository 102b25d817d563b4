// Package wallet defines the contract between the page relay and the
// per-family wallet drivers, and the error kinds drivers report.
package wallet

import (
	"context"
	"errors"
)

var (
	// ErrProviderUnavailable means no provider is configured for the family.
	ErrProviderUnavailable = errors.New("provider unavailable")

	// ErrUserRejected means the user declined the request in the wallet.
	ErrUserRejected = errors.New("user rejected")

	// ErrProviderError covers every other provider failure.
	ErrProviderError = errors.New("provider error")

	// ErrChainNotConfigured means the wallet does not know the requested
	// Ethereum chain and cannot switch to it.
	ErrChainNotConfigured = errors.New("chain not configured")

	// ErrInvalidTransaction means the serialized transaction could not be
	// decoded for the family.
	ErrInvalidTransaction = errors.New("invalid transaction")
)

// ConnectOptions tunes a connect call.
type ConnectOptions struct {
	// ChainID is the Ethereum chain the wallet must be on, in decimal or
	// 0x-prefixed hex. Empty means any chain. Other families ignore it.
	ChainID string
}

// Driver talks to one chain family's wallet provider.
type Driver interface {
	// Available reports whether a provider is configured.
	Available() bool

	// Connect asks the wallet for access and returns its primary account.
	Connect(ctx context.Context, opts ConnectOptions) (string, error)

	// Sign decodes serializedTx, sends it to the wallet as from, and returns
	// the transaction hash or signature the wallet produced.
	Sign(ctx context.Context, from, serializedTx string) (string, error)
}
