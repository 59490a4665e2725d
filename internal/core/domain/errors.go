package domain

import "errors"

// Domain errors - used across all layers
var (
	// ErrNotFound indicates the requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates the input is invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthorized indicates authentication failed or missing
	ErrUnauthorized = errors.New("unauthorized")

	// ErrTokenExpired indicates the auth token has expired
	ErrTokenExpired = errors.New("token expired")

	// ErrTokenInvalid indicates the auth token is malformed or invalid
	ErrTokenInvalid = errors.New("token invalid")

	// ErrInvalidProvider indicates an unknown AI or index provider was specified
	ErrInvalidProvider = errors.New("invalid provider")

	// ErrServiceUnavailable indicates a provider could not be reached
	ErrServiceUnavailable = errors.New("service unavailable")

	// ErrConfigurationMissing indicates a required configuration value is absent
	ErrConfigurationMissing = errors.New("configuration missing")

	// ErrFetch indicates a source document could not be retrieved
	ErrFetch = errors.New("fetch failed")

	// ErrEmbedding indicates the embedding provider call failed
	ErrEmbedding = errors.New("embedding failed")

	// ErrIndex indicates a vector index upsert or query failed
	ErrIndex = errors.New("vector index operation failed")

	// ErrCompletion indicates the chat completion call failed
	ErrCompletion = errors.New("chat completion failed")

	// ErrLockNotAcquired indicates another process holds the ingestion lock
	ErrLockNotAcquired = errors.New("lock not acquired")
)
