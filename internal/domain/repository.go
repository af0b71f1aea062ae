package domain

import (
	"context"
	"time"
)

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) (interface{}, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Clear(ctx context.Context) error
}

// ProductSource streams qualifying import records from the document store
type ProductSource interface {
	// Ping verifies the document store is reachable
	Ping(ctx context.Context) error
	// StreamQualifying opens a cursor over the vegan, German-market records,
	// returning at most limit documents.
	StreamQualifying(ctx context.Context, limit int64) (RecordCursor, error)
}

// RecordCursor iterates over raw records in document-store order
type RecordCursor interface {
	Next(ctx context.Context) bool
	Decode(record *RawCatalogRecord) error
	Err() error
	Close(ctx context.Context) error
}

// SearchOptions tunes a single free-text query
type SearchOptions struct {
	Limit               int64
	ShowMatchesPosition bool
}

// SearchIndex defines the interface for the product search engine
type SearchIndex interface {
	DeleteIndex(ctx context.Context) error
	CreateIndex(ctx context.Context) error
	SetSearchableAttributes(ctx context.Context, attributes []string) error
	UpsertDocument(ctx context.Context, product *NormalizedProduct) error
	Search(ctx context.Context, query string, opts SearchOptions) ([]IndexHit, error)
}

// Translator resolves UI label keys for a locale
type Translator interface {
	Translate(key string, locale Locale) string
}
