package util

import "errors"

var (
	ErrSessionNotFound = errors.New("survey session not found")
	ErrSessionMissing  = errors.New("survey session id is required")
)
