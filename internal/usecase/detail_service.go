package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/veganlens/backend/internal/domain"
	"github.com/veganlens/backend/internal/infrastructure/logger"
)

// Nutriment display labels of the detail view
const (
	LabelEnergyKcal    = "Energy (kcal)"
	LabelEnergyKJ      = "Energy (kJ)"
	LabelFat           = "Fat"
	LabelSaturatedFat  = "Saturated fat"
	LabelCarbohydrates = "Carbohydrates"
	LabelSugar         = "Sugar"
	LabelFiber         = "Fiber"
	LabelProtein       = "Protein"
	LabelSalt          = "Salt"
)

// DefaultDetailCacheTTL is used when no cache TTL is configured
const DefaultDetailCacheTTL = 10 * time.Minute

// DetailServiceConfig holds configuration for the detail service
type DetailServiceConfig struct {
	CacheTTL time.Duration
}

// DetailService projects a single indexed product into a detail view
type DetailService struct {
	index    domain.SearchIndex
	cache    domain.CacheRepository
	cacheTTL time.Duration
	log      *logger.Logger
}

// NewDetailService creates a new detail service. cache may be nil.
func NewDetailService(
	index domain.SearchIndex,
	cache domain.CacheRepository,
	log *logger.Logger,
	config DetailServiceConfig,
) *DetailService {
	cacheTTL := config.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = DefaultDetailCacheTTL
	}
	if log == nil {
		log = logger.NewNop()
	}

	return &DetailService{
		index:    index,
		cache:    cache,
		cacheTTL: cacheTTL,
		log:      log.With("service", "DetailService"),
	}
}

// Detail looks up a product by identifier. The identifier is issued as a
// free-text query and the first hit is used.
func (s *DetailService) Detail(ctx context.Context, id string) (*domain.DetailView, error) {
	if id == "" {
		return nil, domain.ErrInvalidRequest
	}

	cacheKey := detailCacheKey(id)
	if view, ok := s.getFromCache(ctx, cacheKey); ok {
		return view, nil
	}

	hits, err := s.index.Search(ctx, id, domain.SearchOptions{Limit: 1})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSearchIndexFailure, err)
	}
	if len(hits) == 0 {
		return nil, domain.ErrProductNotFound
	}

	view := NewDetailView(&hits[0].Product)

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, view, s.cacheTTL); err != nil {
			s.log.Warn("failed to cache detail view", "id", id, "error", err)
		}
	}

	return view, nil
}

// NewDetailView builds the display-ready projection of a normalized product
func NewDetailView(product *domain.NormalizedProduct) *domain.DetailView {
	stores := product.Stores
	if stores == nil {
		stores = []string{}
	}

	return &domain.DetailView{
		ID:          product.ID,
		Name:        domain.FallbackLocalized(product.NameDE, product.NameEN),
		Brand:       product.Brand,
		Ingredients: domain.FallbackLocalized(product.IngredientsDE, product.IngredientsEN),
		ImageURL:    product.ImageURL,
		Nutriments:  nutrimentLabels(product.Nutriments),
		Stores:      stores,
	}
}

func nutrimentLabels(n domain.NutrimentDisplay) map[string]string {
	return map[string]string{
		LabelEnergyKcal:    n.EnergyKcal,
		LabelEnergyKJ:      n.EnergyKJ,
		LabelFat:           n.Fat,
		LabelSaturatedFat:  n.SaturatedFat,
		LabelCarbohydrates: n.Carbohydrates,
		LabelSugar:         n.Sugars,
		LabelFiber:         n.Fiber,
		LabelProtein:       n.Proteins,
		LabelSalt:          n.Salt,
	}
}

func detailCacheKey(id string) string {
	return "detail:" + id
}

// getFromCache returns a cached view; any cache error counts as a miss
func (s *DetailService) getFromCache(ctx context.Context, key string) (*domain.DetailView, bool) {
	if s.cache == nil {
		return nil, false
	}

	value, err := s.cache.Get(ctx, key)
	if err != nil {
		return nil, false
	}

	switch v := value.(type) {
	case *domain.DetailView:
		return v, true
	case map[string]interface{}:
		return mapToDetailView(v), true
	default:
		return nil, false
	}
}

// mapToDetailView converts a map (from JSON cache) to DetailView
func mapToDetailView(data map[string]interface{}) *domain.DetailView {
	view := &domain.DetailView{
		Nutriments: map[string]string{},
		Stores:     []string{},
	}

	if v, ok := data["id"].(string); ok {
		view.ID = v
	}
	if v, ok := data["name"].(string); ok {
		view.Name = v
	}
	if v, ok := data["brand"].(string); ok {
		view.Brand = v
	}
	if v, ok := data["ingredients"].(string); ok {
		view.Ingredients = v
	}
	if v, ok := data["imageUrl"].(string); ok {
		view.ImageURL = v
	}
	if nutriments, ok := data["nutriments"].(map[string]interface{}); ok {
		for label, value := range nutriments {
			if s, ok := value.(string); ok {
				view.Nutriments[label] = s
			}
		}
	}
	if stores, ok := data["stores"].([]interface{}); ok {
		for _, store := range stores {
			if s, ok := store.(string); ok {
				view.Stores = append(view.Stores, s)
			}
		}
	}

	return view
}
