package service

import "errors"

// Sentinel errors shared by all services. Handlers map these onto HTTP
// statuses; anything unwrapped is treated as internal.
var (
	ErrInvalidRequest = errors.New("invalid request")
	ErrForbidden      = errors.New("forbidden")
	ErrNotFound       = errors.New("not found")
	ErrConflict       = errors.New("conflict")
)
