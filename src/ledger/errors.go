package ledger

import "errors"

var (
	// ErrInvalidArgument reports a violated precondition on input values.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrInvalidState reports an operation the transaction's lifecycle forbids.
	ErrInvalidState = errors.New("invalid state")
)
