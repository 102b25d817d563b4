package starknet

import (
	"encoding/json"
	"testing"

	"github.com/gabapcia/blinkrelay/internal/pkg/transport/jsonrpc"
	jsonrpcMocks "github.com/gabapcia/blinkrelay/internal/pkg/transport/jsonrpc/mocks"
	"github.com/gabapcia/blinkrelay/internal/wallet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestDriver_Connect(t *testing.T) {
	t.Run("returns the selected account", func(t *testing.T) {
		provider := jsonrpcMocks.NewClient(t)
		provider.EXPECT().Request(mock.Anything, "wallet_requestAccounts", nil).
			Return(json.RawMessage(`["0x0123"]`), nil).Once()

		account, err := New(provider).Connect(t.Context(), wallet.ConnectOptions{})

		require.NoError(t, err)
		assert.Equal(t, "0x0123", account)
	})

	t.Run("fails without a provider", func(t *testing.T) {
		_, err := New(nil).Connect(t.Context(), wallet.ConnectOptions{})

		assert.ErrorIs(t, err, wallet.ErrProviderUnavailable)
		assert.EqualError(t, err, "No Starknet provider found")
	})

	t.Run("fails without an account", func(t *testing.T) {
		provider := jsonrpcMocks.NewClient(t)
		provider.EXPECT().Request(mock.Anything, "wallet_requestAccounts", nil).
			Return(json.RawMessage(`[]`), nil).Once()

		_, err := New(provider).Connect(t.Context(), wallet.ConnectOptions{})

		assert.EqualError(t, err, "No Starknet account found")
	})

	t.Run("classifies a refusal", func(t *testing.T) {
		provider := jsonrpcMocks.NewClient(t)
		provider.EXPECT().Request(mock.Anything, "wallet_requestAccounts", nil).
			Return(nil, &jsonrpc.ProviderError{Code: 113, Message: "An error occurred (USER_REFUSED_OP)"}).Once()

		_, err := New(provider).Connect(t.Context(), wallet.ConnectOptions{})

		assert.ErrorIs(t, err, wallet.ErrUserRejected)
		assert.EqualError(t, err, "An error occurred (USER_REFUSED_OP)")
	})
}

func TestDriver_Sign(t *testing.T) {
	const tx = `{"contractAddress":"` + token + `","entrypoint":"transfer","calldata":["0x1","0x2"]}`

	t.Run("submits the calls and returns the transaction hash", func(t *testing.T) {
		provider := jsonrpcMocks.NewClient(t)
		provider.EXPECT().Request(mock.Anything, "wallet_addInvokeTransaction", invokeParams{Calls: []Call{{
			ContractAddress: token,
			EntryPoint:      "transfer",
			Calldata:        []string{"0x1", "0x2"},
		}}}).Return(json.RawMessage(`{"transaction_hash":"0xfeed"}`), nil).Once()

		txHash, err := New(provider).Sign(t.Context(), "0x0123", tx)

		require.NoError(t, err)
		assert.Equal(t, "0xfeed", txHash)
	})

	t.Run("fails without a provider", func(t *testing.T) {
		_, err := New(nil).Sign(t.Context(), "", tx)

		assert.ErrorIs(t, err, wallet.ErrProviderUnavailable)
	})

	t.Run("rejects an invalid transaction", func(t *testing.T) {
		_, err := New(jsonrpcMocks.NewClient(t)).Sign(t.Context(), "", "not json")

		assert.ErrorIs(t, err, wallet.ErrInvalidTransaction)
	})

	t.Run("fails without a transaction hash", func(t *testing.T) {
		provider := jsonrpcMocks.NewClient(t)
		provider.EXPECT().Request(mock.Anything, "wallet_addInvokeTransaction", mock.Anything).
			Return(json.RawMessage(`{}`), nil).Once()

		_, err := New(provider).Sign(t.Context(), "", tx)

		assert.ErrorIs(t, err, wallet.ErrProviderError)
	})

	t.Run("passes the provider message through", func(t *testing.T) {
		provider := jsonrpcMocks.NewClient(t)
		provider.EXPECT().Request(mock.Anything, "wallet_addInvokeTransaction", mock.Anything).
			Return(nil, &jsonrpc.ProviderError{Code: 163, Message: "Unknown error"}).Once()

		_, err := New(provider).Sign(t.Context(), "", tx)

		assert.ErrorIs(t, err, wallet.ErrProviderError)
		assert.EqualError(t, err, "Unknown error")
	})
}
