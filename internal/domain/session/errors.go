package session

import "errors"

var (
	// ErrAuthFailed indicates the credentials were rejected.
	ErrAuthFailed = errors.New("authentication failed")
	// ErrNoSession indicates no user is logged in.
	ErrNoSession = errors.New("no active session")
)
