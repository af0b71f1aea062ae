// Package app wires configuration into the catalog services shared by the
// HTTP server and the admin CLI.
package app

import (
	"context"
	"fmt"

	"github.com/veganlens/backend/config"
	"github.com/veganlens/backend/internal/domain"
	"github.com/veganlens/backend/internal/infrastructure/cache"
	"github.com/veganlens/backend/internal/infrastructure/i18n"
	"github.com/veganlens/backend/internal/infrastructure/logger"
	"github.com/veganlens/backend/internal/infrastructure/meili"
	"github.com/veganlens/backend/internal/infrastructure/mongodb"
	"github.com/veganlens/backend/internal/usecase"
)

// App holds the process-wide clients and the services built on them
type App struct {
	Source     *mongodb.Source
	Index      *meili.Index
	Cache      domain.CacheRepository
	Translator *i18n.Translator

	Reindex *usecase.ReindexService
	Search  *usecase.SearchService
	Detail  *usecase.DetailService

	closeCache func() error
	log        *logger.Logger
}

// New connects the backing services once and builds every usecase
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*App, error) {
	translator, err := i18n.New()
	if err != nil {
		return nil, fmt.Errorf("load translations: %w", err)
	}

	detailCache, closeCache, err := newCache(ctx, cfg.Cache)
	if err != nil {
		return nil, err
	}

	source, err := mongodb.Connect(ctx, cfg.Mongo.URI, cfg.Mongo.Database, cfg.Mongo.Collection)
	if err != nil {
		_ = closeCache()
		return nil, err
	}

	index := meili.NewIndex(meili.Config{
		URL:          cfg.Meili.URL,
		APIKey:       cfg.Meili.APIKey,
		Index:        cfg.Meili.Index,
		PollInterval: cfg.Meili.TaskPollInterval,
	}, log)

	normalizer := usecase.NewNormalizer(usecase.NewImageResolver(cfg.Catalog.ImageBaseURL))
	reindexConfig := usecase.ReindexServiceConfig{Limit: cfg.Catalog.ReindexLimit}
	searchConfig := usecase.SearchServiceConfig{Limit: cfg.Catalog.SearchLimit}
	detailConfig := usecase.DetailServiceConfig{CacheTTL: cfg.Cache.TTL}

	log.Info("catalog services ready",
		"mongo_database", cfg.Mongo.Database,
		"mongo_collection", cfg.Mongo.Collection,
		"meili_url", cfg.Meili.URL,
		"meili_index", cfg.Meili.Index,
		"meili_api_key", cfg.Meili.APIKey,
		"cache", cfg.Cache.Type,
	)

	return &App{
		Source:     source,
		Index:      index,
		Cache:      detailCache,
		Translator: translator,
		Reindex:    usecase.NewReindexService(source, index, detailCache, normalizer, log, reindexConfig),
		Search:     usecase.NewSearchService(index, translator, searchConfig),
		Detail:     usecase.NewDetailService(index, detailCache, log, detailConfig),
		closeCache: closeCache,
		log:        log,
	}, nil
}

// newCache builds the detail cache selected by cfg.Type
func newCache(ctx context.Context, cfg config.CacheConfig) (domain.CacheRepository, func() error, error) {
	switch cfg.Type {
	case "redis":
		rc, err := cache.NewRedisCache(ctx, cfg.RedisURL, cache.DefaultRedisPrefix)
		if err != nil {
			return nil, nil, err
		}
		return rc, rc.Close, nil
	default:
		mc := cache.NewMemoryCache(cache.DefaultCleanupInterval)
		return mc, mc.Close, nil
	}
}

// Close releases the shared clients
func (a *App) Close(ctx context.Context) {
	if err := a.Source.Close(ctx); err != nil {
		a.log.Warn("mongo disconnect failed", "error", err)
	}
	a.Index.Close()
	if err := a.closeCache(); err != nil {
		a.log.Warn("cache close failed", "error", err)
	}
}
