package wallet

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError(t *testing.T) {
	t.Run("keeps the provider message verbatim", func(t *testing.T) {
		cause := errors.New("User rejected the request.")
		err := NewError(ErrUserRejected, cause)

		assert.EqualError(t, err, "User rejected the request.")
		assert.ErrorIs(t, err, ErrUserRejected)
		assert.ErrorIs(t, err, cause)
		assert.NotErrorIs(t, err, ErrProviderError)
	})

	t.Run("builds from a plain message", func(t *testing.T) {
		err := Errorf(ErrProviderUnavailable, "No Solana provider found")

		assert.EqualError(t, err, "No Solana provider found")
		assert.ErrorIs(t, err, ErrProviderUnavailable)
	})

	t.Run("falls back to the kind without a cause", func(t *testing.T) {
		err := &Error{Kind: ErrChainNotConfigured}

		assert.EqualError(t, err, "chain not configured")
		assert.ErrorIs(t, err, ErrChainNotConfigured)
	})

	t.Run("survives wrapping", func(t *testing.T) {
		err := fmt.Errorf("connect: %w", Errorf(ErrProviderError, "boom"))

		var werr *Error
		assert.ErrorAs(t, err, &werr)
		assert.ErrorIs(t, err, ErrProviderError)
	})
}
