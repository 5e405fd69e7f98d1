package service

import "errors"

// Every error returned by this package either wraps one of these sentinels
// or is a storage failure.
var (
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
)
