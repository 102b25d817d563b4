package wallet

import "errors"

// Error pairs an error kind with the provider error that caused it. Its
// message is the provider's message, unchanged, because that is the only
// thing that crosses the relay.
type Error struct {
	Kind error
	Err  error
}

// NewError wraps err with kind.
func NewError(kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

// Errorf wraps a plain message with kind.
func Errorf(kind error, msg string) *Error {
	return &Error{Kind: kind, Err: errors.New(msg)}
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Kind.Error()
	}
	return e.Err.Error()
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}
