package auth

import "errors"

var (
	// ErrInvalidCredentials covers both unknown email and wrong password,
	// so login failures don't reveal which accounts exist.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidRefresh     = errors.New("invalid refresh token")
)
