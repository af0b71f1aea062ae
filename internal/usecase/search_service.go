package usecase

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/veganlens/backend/internal/domain"
)

// MinQueryLength is the shortest trimmed query that reaches the search index
const MinQueryLength = 3

// DefaultSearchLimit is the number of hits requested per query
const DefaultSearchLimit = 20

// Translation keys used by the query composer
const (
	KeyMatchesWith = "matches_with"
	KeySearch      = "search"
)

// localeSuffixes are stripped from matched index fields to get a label key
var localeSuffixes = []string{"_de", "_en"}

// SearchServiceConfig holds configuration for the search service
type SearchServiceConfig struct {
	Limit int64
}

// SearchService turns free-text queries into locale-aware result rows
type SearchService struct {
	index      domain.SearchIndex
	translator domain.Translator
	limit      int64
}

// NewSearchService creates a new search service with dependencies
func NewSearchService(
	index domain.SearchIndex,
	translator domain.Translator,
	config SearchServiceConfig,
) *SearchService {
	limit := config.Limit
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	return &SearchService{
		index:      index,
		translator: translator,
		limit:      limit,
	}
}

// Search runs a free-text query. Queries shorter than MinQueryLength after
// trimming return an empty list without touching the index.
func (s *SearchService) Search(ctx context.Context, query string, locale domain.Locale) (*domain.ResultList, error) {
	query = strings.TrimSpace(query)

	result := &domain.ResultList{
		Query:       query,
		Locale:      locale,
		MatchesWith: s.translator.Translate(KeyMatchesWith, locale),
		Hits:        []domain.SearchHit{},
	}

	if utf8.RuneCountInString(query) < MinQueryLength {
		return result, nil
	}

	hits, err := s.index.Search(ctx, query, domain.SearchOptions{
		Limit:               s.limit,
		ShowMatchesPosition: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSearchIndexFailure, err)
	}

	for _, hit := range hits {
		result.Hits = append(result.Hits, domain.SearchHit{
			ID:         hit.Product.ID,
			Name:       domain.FallbackLocalized(hit.Product.NameDE, hit.Product.NameEN),
			ImageURL:   hit.Product.ImageURL,
			Highlights: s.highlights(hit.MatchedFields, locale),
			Locale:     locale,
		})
	}

	return result, nil
}

// highlights maps each matched field onto its translated, locale-agnostic label
func (s *SearchService) highlights(fields []string, locale domain.Locale) map[string]string {
	labels := make(map[string]string, len(fields))
	for _, field := range fields {
		label := fieldLabel(field)
		labels[label] = s.translator.Translate(label, locale)
	}
	return labels
}

// fieldLabel strips a trailing locale suffix, e.g. "name_de" becomes "name"
func fieldLabel(field string) string {
	for _, suffix := range localeSuffixes {
		if strings.HasSuffix(field, suffix) {
			return strings.TrimSuffix(field, suffix)
		}
	}
	return field
}
