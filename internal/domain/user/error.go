package user

import "errors"

var (
	ErrNotFound    = errors.New("user not found")
	ErrInvalidAuth = errors.New("invalid credentials")
	ErrEmailTaken  = errors.New("email already registered")
)
