// Package ethereum drives an EIP-1193 style wallet provider reached over
// JSON-RPC.
package ethereum

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/gabapcia/blinkrelay/internal/pkg/transport/jsonrpc"
	"github.com/gabapcia/blinkrelay/internal/wallet"
)

// EIP-1193 provider error codes.
const (
	codeUserRejected      = 4001
	codeUnrecognizedChain = 4902
)

const (
	methodChainID         = "eth_chainId"
	methodSwitchChain     = "wallet_switchEthereumChain"
	methodRequestAccounts = "eth_requestAccounts"
	methodSendTransaction = "eth_sendTransaction"
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
	return wallet.Errorf(wallet.ErrProviderUnavailable, "No Ethereum provider found")
}

// classify maps a provider failure to its wallet error kind.
func classify(err error) error {
	var perr *jsonrpc.ProviderError
	if errors.As(err, &perr) {
		switch perr.Code {
		case codeUserRejected:
			return wallet.NewError(wallet.ErrUserRejected, err)
		case codeUnrecognizedChain:
			return wallet.NewError(wallet.ErrChainNotConfigured, err)
		}
	}

	return wallet.NewError(wallet.ErrProviderError, err)
}

func (d *driver) call(ctx context.Context, method string, params, result any) error {
	raw, err := d.provider.Request(ctx, method, params)
	if err != nil {
		return classify(err)
	}

	if err := json.Unmarshal(raw, result); err != nil {
		return wallet.NewError(wallet.ErrProviderError, fmt.Errorf("%s: %w", method, err))
	}

	return nil
}

// parseChainID reads a 0x-prefixed hex or a plain decimal chain id.
func parseChainID(s string) (uint64, error) {
	base := 10
	digits := s
	if rest, ok := strings.CutPrefix(strings.ToLower(s), "0x"); ok {
		base, digits = 16, rest
	}

	id, err := strconv.ParseUint(digits, base, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid chain id %q", s)
	}
	return id, nil
}

// ensureChain switches the wallet to chainID unless it is already there.
func (d *driver) ensureChain(ctx context.Context, chainID string) error {
	want, err := parseChainID(chainID)
	if err != nil {
		return wallet.NewError(wallet.ErrChainNotConfigured, err)
	}

	var current string
	if err := d.call(ctx, methodChainID, nil, &current); err != nil {
		return err
	}

	if got, err := parseChainID(current); err == nil && got == want {
		return nil
	}

	params := []any{map[string]string{"chainId": hexutil.EncodeUint64(want)}}
	if _, err := d.provider.Request(ctx, methodSwitchChain, params); err != nil {
		return classify(err)
	}

	return nil
}

func (d *driver) Connect(ctx context.Context, opts wallet.ConnectOptions) (string, error) {
	if !d.Available() {
		return "", unavailable()
	}

	if opts.ChainID != "" {
		if err := d.ensureChain(ctx, opts.ChainID); err != nil {
			return "", err
		}
	}

	var accounts []string
	if err := d.call(ctx, methodRequestAccounts, nil, &accounts); err != nil {
		return "", err
	}
	if len(accounts) == 0 || accounts[0] == "" {
		return "", wallet.Errorf(wallet.ErrProviderError, "No Ethereum account found")
	}

	return accounts[0], nil
}

func (d *driver) Sign(ctx context.Context, from, serializedTx string) (string, error) {
	if !d.Available() {
		return "", unavailable()
	}

	params, err := decodeTransaction(serializedTx)
	if err != nil {
		return "", wallet.NewError(wallet.ErrInvalidTransaction, err)
	}
	params.From = from

	var txHash string
	if err := d.call(ctx, methodSendTransaction, []any{params}, &txHash); err != nil {
		return "", err
	}

	return txHash, nil
}
