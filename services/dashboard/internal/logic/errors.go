package logic

import "errors"

var (
	ErrInvalidRequest   = errors.New("invalid request")
	ErrProjectNotFound  = errors.New("project not found")
	ErrStoreUnavailable = errors.New("event store unavailable")
)
