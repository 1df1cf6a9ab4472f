package apperr

import "errors"

var (
	ErrUsage         = errors.New("invalid usage")
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrInvalidJSON   = errors.New("invalid JSON")
	ErrNotUTF8       = errors.New("not valid UTF-8")
)
