package auth

import "errors"

// Auth service specific errors
var (
	ErrNotAdmin       = errors.New("email is not on the admin allowlist")
	ErrInvalidSession = errors.New("invalid or expired session")
	ErrInvalidState   = errors.New("invalid or expired oauth state")
)
