// Package solana drives a Solana wallet provider. Transactions travel as
// base64 wire bytes, legacy or versioned.
package solana

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/gabapcia/blinkrelay/internal/wallet"
	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

// Provider is the native API of a Solana wallet.
type Provider interface {
	// Connect asks the wallet for access and returns its public key.
	Connect(ctx context.Context) (solana.PublicKey, error)

	// SignTransaction returns tx with the wallet's signature added.
	SignTransaction(ctx context.Context, tx *solana.Transaction) (*solana.Transaction, error)
}

type driver struct {
	provider Provider
}

var _ wallet.Driver = (*driver)(nil)

// New returns a driver for provider. A nil provider yields a driver whose
// calls fail with wallet.ErrProviderUnavailable.
func New(provider Provider) *driver {
	return &driver{provider: provider}
}

func (d *driver) Available() bool {
	return d.provider != nil
}

func unavailable() error {
	return wallet.Errorf(wallet.ErrProviderUnavailable, "No Solana provider found")
}

// providerError keeps errors the provider already classified and marks the
// rest as provider errors.
func providerError(err error) error {
	var werr *wallet.Error
	if errors.As(err, &werr) {
		return err
	}
	return wallet.NewError(wallet.ErrProviderError, err)
}

func (d *driver) Connect(ctx context.Context, _ wallet.ConnectOptions) (string, error) {
	if !d.Available() {
		return "", unavailable()
	}

	pub, err := d.provider.Connect(ctx)
	if err != nil {
		return "", providerError(err)
	}

	return pub.String(), nil
}

// DecodeTransaction parses base64 wire bytes into a transaction.
func DecodeTransaction(serialized string) (*solana.Transaction, error) {
	data, err := base64.StdEncoding.DecodeString(serialized)
	if err != nil {
		return nil, err
	}

	tx, err := solana.TransactionFromDecoder(bin.NewBinDecoder(data))
	if err != nil {
		return nil, err
	}

	return tx, nil
}

// Sign has the wallet sign the transaction and returns its first signature
// in base58. The signer is fixed by the transaction itself, so from is not
// consulted.
func (d *driver) Sign(ctx context.Context, _ string, serializedTx string) (string, error) {
	if !d.Available() {
		return "", unavailable()
	}

	tx, err := DecodeTransaction(serializedTx)
	if err != nil {
		return "", wallet.NewError(wallet.ErrInvalidTransaction, err)
	}

	signed, err := d.provider.SignTransaction(ctx, tx)
	if err != nil {
		return "", providerError(err)
	}

	if len(signed.Signatures) == 0 || signed.Signatures[0] == (solana.Signature{}) {
		return "", wallet.NewError(wallet.ErrProviderError, fmt.Errorf("wallet returned an unsigned transaction"))
	}

	return signed.Signatures[0].String(), nil
}
