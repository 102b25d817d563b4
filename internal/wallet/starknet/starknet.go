// Package starknet drives a Starknet wallet through its JSON-RPC wallet API.
package starknet

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gabapcia/blinkrelay/internal/pkg/transport/jsonrpc"
	"github.com/gabapcia/blinkrelay/internal/wallet"
)

const codeUserRefused = 113

const (
	methodRequestAccounts      = "wallet_requestAccounts"
	methodAddInvokeTransaction = "wallet_addInvokeTransaction"
)

type driver struct {
	provider jsonrpc.Client
}

var _ wallet.Driver = (*driver)(nil)

// New returns a driver for provider. A nil provider yields a driver whose
// calls fail with wallet.ErrProviderUnavailable.
func New(provider jsonrpc.Client) *driver {
	return &driver{provider: provider}
}

func (d *driver) Available() bool {
	return d.provider != nil
}

func unavailable() error {
	return wallet.Errorf(wallet.ErrProviderUnavailable, "No Starknet provider found")
}

func classify(err error) error {
	var perr *jsonrpc.ProviderError
	if errors.As(err, &perr) && perr.Code == codeUserRefused {
		return wallet.NewError(wallet.ErrUserRejected, err)
	}
	return wallet.NewError(wallet.ErrProviderError, err)
}

func (d *driver) Connect(ctx context.Context, _ wallet.ConnectOptions) (string, error) {
	if !d.Available() {
		return "", unavailable()
	}

	raw, err := d.provider.Request(ctx, methodRequestAccounts, nil)
	if err != nil {
		return "", classify(err)
	}

	var accounts []string
	if err := json.Unmarshal(raw, &accounts); err != nil {
		return "", wallet.NewError(wallet.ErrProviderError, fmt.Errorf("%s: %w", methodRequestAccounts, err))
	}
	if len(accounts) == 0 || accounts[0] == "" {
		return "", wallet.Errorf(wallet.ErrProviderError, "No Starknet account found")
	}

	return accounts[0], nil
}

type invokeParams struct {
	Calls []Call `json:"calls"`
}

type invokeResult struct {
	TransactionHash string `json:"transaction_hash"`
}

// Sign submits the calls as an invoke transaction from the wallet's
// selected account and returns its hash. from is not consulted.
func (d *driver) Sign(ctx context.Context, _ string, serializedTx string) (string, error) {
	if !d.Available() {
		return "", unavailable()
	}

	calls, err := decodeCalls(serializedTx)
	if err != nil {
		return "", wallet.NewError(wallet.ErrInvalidTransaction, err)
	}

	raw, err := d.provider.Request(ctx, methodAddInvokeTransaction, invokeParams{Calls: calls})
	if err != nil {
		return "", classify(err)
	}

	var result invokeResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return "", wallet.NewError(wallet.ErrProviderError, fmt.Errorf("%s: %w", methodAddInvokeTransaction, err))
	}
	if result.TransactionHash == "" {
		return "", wallet.Errorf(wallet.ErrProviderError, "wallet returned no transaction hash")
	}

	return result.TransactionHash, nil
}
