package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/veganlens/backend/internal/domain"
	"github.com/veganlens/backend/internal/infrastructure/logger"
)

// DefaultReindexLimit caps the number of documents ingested per run
const DefaultReindexLimit = 1000

// SearchableAttributes is the ordered attribute weighting of the product index
var SearchableAttributes = []string{
	"id",
	"name_de",
	"name_en",
	"stores",
	"brand",
	"ingredients_de",
	"ingredients_en",
}

// ReindexServiceConfig holds configuration for the reindex service
type ReindexServiceConfig struct {
	Limit int64
}

// ReindexService rebuilds the search index from the document store
type ReindexService struct {
	source     domain.ProductSource
	index      domain.SearchIndex
	cache      domain.CacheRepository
	normalizer *Normalizer
	limit      int64
	log        *logger.Logger
}

// NewReindexService creates a new reindex service with dependencies.
// cache may be nil when detail views are not cached.
func NewReindexService(
	source domain.ProductSource,
	index domain.SearchIndex,
	cache domain.CacheRepository,
	normalizer *Normalizer,
	log *logger.Logger,
	config ReindexServiceConfig,
) *ReindexService {
	limit := config.Limit
	if limit <= 0 {
		limit = DefaultReindexLimit
	}
	if log == nil {
		log = logger.NewNop()
	}

	return &ReindexService{
		source:     source,
		index:      index,
		cache:      cache,
		normalizer: normalizer,
		limit:      limit,
		log:        log.With("service", "ReindexService"),
	}
}

// Reindex drops and rebuilds the product index and returns the number of
// documents written. The first failing upsert aborts the run; documents
// written before it stay in the index.
func (s *ReindexService) Reindex(ctx context.Context) (int, error) {
	start := time.Now()
	s.log.Info("reindex started", "limit", s.limit)

	count, err := s.run(ctx)
	if err != nil {
		s.log.Error("reindex aborted", "indexed", count, "duration", time.Since(start), "error", err)
		return count, err
	}

	s.log.Info("reindex finished", "indexed", count, "duration", time.Since(start))
	return count, nil
}

func (s *ReindexService) run(ctx context.Context) (int, error) {
	if err := s.source.Ping(ctx); err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrDocumentStoreUnavailable, err)
	}

	cursor, err := s.source.StreamQualifying(ctx, s.limit)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrDocumentStoreUnavailable, err)
	}
	defer func() {
		// ctx may already be cancelled here; the cursor still has to release its server side
		if err := cursor.Close(context.WithoutCancel(ctx)); err != nil {
			s.log.Warn("failed to close record cursor", "error", err)
		}
	}()

	if err := s.resetIndex(ctx); err != nil {
		return 0, err
	}

	count := 0
	for cursor.Next(ctx) {
		var record domain.RawCatalogRecord
		if err := cursor.Decode(&record); err != nil {
			return count, fmt.Errorf("%w: %v", domain.ErrMalformedRecord, err)
		}

		product := s.normalizer.Normalize(&record)
		if err := s.index.UpsertDocument(ctx, product); err != nil {
			return count, fmt.Errorf("%w: upsert %q: %v", domain.ErrSearchIndexFailure, product.ID, err)
		}
		count++
	}
	if err := cursor.Err(); err != nil {
		return count, fmt.Errorf("%w: %v", domain.ErrDocumentStoreUnavailable, err)
	}

	return count, nil
}

// resetIndex recreates an empty index with the searchable attributes declared
func (s *ReindexService) resetIndex(ctx context.Context) error {
	if err := s.index.DeleteIndex(ctx); err != nil {
		return fmt.Errorf("%w: delete index: %v", domain.ErrSearchIndexFailure, err)
	}
	if err := s.index.CreateIndex(ctx); err != nil {
		return fmt.Errorf("%w: create index: %v", domain.ErrSearchIndexFailure, err)
	}
	if err := s.index.SetSearchableAttributes(ctx, SearchableAttributes); err != nil {
		return fmt.Errorf("%w: searchable attributes: %v", domain.ErrSearchIndexFailure, err)
	}

	if s.cache != nil {
		if err := s.cache.Clear(ctx); err != nil {
			s.log.Warn("failed to clear detail cache", "error", err)
		}
	}
	return nil
}
