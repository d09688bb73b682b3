package store

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrTokenNotFound = errors.New("magic link token not found")
)
