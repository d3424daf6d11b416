package domain

import "errors"

// Request validation and configuration errors. Handlers map these to the
// right HTTP status; anything else from the builder is an opaque 500.
var (
	ErrMissingReference = errors.New("no reference provided")
	ErrMissingAccount   = errors.New("no account provided")
	ErrShopKeyMissing   = errors.New("shop private key not available")
)
