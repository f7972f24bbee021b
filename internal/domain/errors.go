package domain

import "errors"

// Sentinel errors for domain operations
var (
	// ErrSessionExpired indicates the access token was rejected (401/expired)
	ErrSessionExpired = errors.New("session expired")

	// ErrServerOffline indicates the backend is unreachable
	ErrServerOffline = errors.New("server is unreachable")

	// ErrItemNotFound indicates the requested entity does not exist
	ErrItemNotFound = errors.New("item not found")

	// ErrNotAuthenticated indicates no credentials are configured
	ErrNotAuthenticated = errors.New("not logged in")
)
