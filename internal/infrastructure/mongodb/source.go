package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/veganlens/backend/internal/domain"
)

// DefaultCollection is the Open Food Facts products collection
const DefaultCollection = "products"

// batchSize bounds the documents fetched per cursor round trip
const batchSize = 100

// QualifyingFilter selects vegan products whose first country tag is Germany
func QualifyingFilter() bson.D {
	return bson.D{
		{Key: "ingredients_analysis_tags", Value: "en:vegan"},
		{Key: "countries_tags.0", Value: "en:germany"},
	}
}

// Source reads raw catalog records from MongoDB
type Source struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// Connect creates a client for uri. The driver connects lazily; use Ping to
// verify the server is reachable.
func Connect(ctx context.Context, uri, database, collection string) (*Source, error) {
	if collection == "" {
		collection = DefaultCollection
	}

	opts := options.Client().
		ApplyURI(uri).
		SetConnectTimeout(10 * time.Second).
		SetServerSelectionTimeout(10 * time.Second)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDocumentStoreUnavailable, err)
	}

	return &Source{
		client:     client,
		collection: client.Database(database).Collection(collection),
	}, nil
}

// Ping verifies the primary is reachable
func (s *Source) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

// StreamQualifying opens a cursor over qualifying records, capped at limit
func (s *Source) StreamQualifying(ctx context.Context, limit int64) (domain.RecordCursor, error) {
	opts := options.Find().
		SetLimit(limit).
		SetBatchSize(batchSize)

	cursor, err := s.collection.Find(ctx, QualifyingFilter(), opts)
	if err != nil {
		return nil, fmt.Errorf("find qualifying products: %w", err)
	}
	return &recordCursor{cursor: cursor}, nil
}

// Close disconnects the client
func (s *Source) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// recordCursor adapts mongo.Cursor to domain.RecordCursor
type recordCursor struct {
	cursor *mongo.Cursor
}

func (c *recordCursor) Next(ctx context.Context) bool {
	return c.cursor.Next(ctx)
}

func (c *recordCursor) Decode(record *domain.RawCatalogRecord) error {
	return c.cursor.Decode(record)
}

func (c *recordCursor) Err() error {
	return c.cursor.Err()
}

func (c *recordCursor) Close(ctx context.Context) error {
	return c.cursor.Close(ctx)
}
