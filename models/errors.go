package models

import "errors"

// Service-layer error taxonomy. Controllers and the websocket handler map
// these onto HTTP statuses or connection-level rejections.
var (
	ErrAuthenticationRequired = errors.New("authentication required")
	ErrAuthenticationFailed   = errors.New("authentication failed")
	// ErrNotFound covers both absent rows and rows owned by another user,
	// so callers cannot probe for existence.
	ErrNotFound         = errors.New("not found")
	ErrValidationFailed = errors.New("validation failed")
	ErrAccessDenied     = errors.New("access denied")
)
