package validator

import (
	"errors"
	"testing"

	gvalidator "github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatError(t *testing.T) {
	t.Run("transforms validation errors into a joined chain", func(t *testing.T) {
		type signRequest struct {
			ID          string `validate:"required"`
			Transaction string `validate:"required"`
		}

		err := gvalidator.New().Struct(signRequest{})
		require.Error(t, err)

		formatted := formatError(err)

		assert.ErrorIs(t, formatted, ErrValidationFailed)
		assert.Contains(t, formatted.Error(), "'ID': value '' does not meet the requirements for the 'required' validation")
		assert.Contains(t, formatted.Error(), "'Transaction': value '' does not meet the requirements for the 'required' validation")
	})

	t.Run("returns other errors unchanged", func(t *testing.T) {
		original := errors.New("redis: connection refused")
		assert.Equal(t, original, formatError(original))
	})
}

func TestValidate(t *testing.T) {
	type connected struct {
		ID      string `validate:"required"`
		Account string `validate:"required"`
	}

	t.Run("passes a complete struct", func(t *testing.T) {
		assert.NoError(t, Validate(connected{ID: "1", Account: "Abc123"}))
	})

	t.Run("fails on a missing field", func(t *testing.T) {
		err := Validate(connected{ID: "1"})
		assert.ErrorIs(t, err, ErrValidationFailed)
		assert.Contains(t, err.Error(), "'Account'")
	})

	t.Run("returns the raw error for non struct input", func(t *testing.T) {
		err := Validate("not a struct")
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrValidationFailed)
	})
}

func TestVar(t *testing.T) {
	t.Run("accepts an http url", func(t *testing.T) {
		assert.NoError(t, Var("https://dial.to/api/donate", "required,http_url"))
	})

	t.Run("rejects a non http url", func(t *testing.T) {
		err := Var("solana-action:https://x", "required,http_url")
		assert.ErrorIs(t, err, ErrValidationFailed)
	})

	t.Run("rejects an empty value", func(t *testing.T) {
		assert.ErrorIs(t, Var("", "required"), ErrValidationFailed)
	})
}
