package ledger

import "errors"

var (
	ErrNotFound = errors.New("not found")
	ErrInvalid  = errors.New("invalid input")
	ErrCorrupt  = errors.New("data file corrupt")
)
