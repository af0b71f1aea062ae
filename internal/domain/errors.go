package domain

import "errors"

var (
	// ErrProductNotFound is returned when a detail lookup has no matching hit
	ErrProductNotFound = errors.New("product not found")

	// ErrDocumentStoreUnavailable is returned when the document store cannot be reached
	ErrDocumentStoreUnavailable = errors.New("document store unavailable")

	// ErrSearchIndexFailure is returned when a search index read or write fails
	ErrSearchIndexFailure = errors.New("search index request failed")

	// ErrMalformedRecord is returned when a raw record cannot be decoded
	ErrMalformedRecord = errors.New("malformed catalog record")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrRateLimited is returned when rate limit is exceeded
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrCacheUnavailable is returned when cache service is unavailable
	ErrCacheUnavailable = errors.New("cache service unavailable")
)
