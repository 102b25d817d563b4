// Package validator wraps go-playground/validator with a process-wide instance
// and a uniform error shape: ErrValidationFailed first, then one error per
// violated rule, joined with errors.Join.
package validator

import (
	"errors"
	"fmt"

	gvalidator "github.com/go-playground/validator/v10"
)

// ErrValidationFailed heads every error chain produced by this package.
var ErrValidationFailed = errors.New("validation failed")

var validator = gvalidator.New(gvalidator.WithRequiredStructEnabled())

// errStringFormat describes one violated rule.
//
// Example: "'Transaction': value '' does not meet the requirements for the 'required' validation"
const errStringFormat = "'%s': value '%v' does not meet the requirements for the '%s' validation"

// formatError converts validator.ValidationErrors into the package error
// shape. Any other error is returned unchanged.
func formatError(err error) error {
	var validationErrors gvalidator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}

	errs := []error{ErrValidationFailed}
	for _, fieldErr := range validationErrors {
		errs = append(errs, fmt.Errorf(errStringFormat,
			fieldErr.Field(),
			fieldErr.Value(),
			fieldErr.Tag(),
		))
	}

	return errors.Join(errs...)
}

// Validate checks a struct against its `validate` tags.
//
//	type signRequest struct {
//	    Transaction string `validate:"required"`
//	}
//
//	if err := validator.Validate(req); errors.Is(err, validator.ErrValidationFailed) {
//	    // reject the frame
//	}
func Validate(v any) error {
	if err := validator.Struct(v); err != nil {
		return formatError(err)
	}

	return nil
}

// Var checks a single value against a tag expression, e.g. "required,http_url".
func Var(v any, tag string) error {
	if err := validator.Var(v, tag); err != nil {
		return formatError(err)
	}

	return nil
}
