package auth

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountPending     = errors.New("account awaiting approval")
	ErrAccountBlocked     = errors.New("account blocked")
)
