package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/veganlens/backend/internal/domain"
	"github.com/veganlens/backend/internal/infrastructure/logger"
	"github.com/veganlens/backend/internal/usecase"
)

// ProductSearcher runs free-text catalog searches
type ProductSearcher interface {
	Search(ctx context.Context, query string, locale domain.Locale) (*domain.ResultList, error)
}

// ProductDetailer builds single product views
type ProductDetailer interface {
	Detail(ctx context.Context, id string) (*domain.DetailView, error)
}

// CatalogReindexer rebuilds the search index
type CatalogReindexer interface {
	Reindex(ctx context.Context) (int, error)
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	search     ProductSearcher
	detail     ProductDetailer
	reindex    CatalogReindexer
	translator domain.Translator
	log        *logger.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(
	search ProductSearcher,
	detail ProductDetailer,
	reindex CatalogReindexer,
	translator domain.Translator,
	log *logger.Logger,
) *Handler {
	if log == nil {
		log = logger.NewNop()
	}
	return &Handler{
		search:     search,
		detail:     detail,
		reindex:    reindex,
		translator: translator,
		log:        log,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "veganlens-backend",
		"version": "1.0.0",
	})
}

// SearchProducts handles GET /api/v1/products/search?q=&locale=
func (h *Handler) SearchProducts(c *gin.Context) {
	locale := domain.ParseLocale(c.Query("locale"))

	result, err := h.search.Search(c.Request.Context(), c.Query("q"), locale)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetProduct handles GET /api/v1/products/:id
func (h *Handler) GetProduct(c *gin.Context) {
	view, err := h.detail.Detail(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// Reindex handles POST /api/v1/admin/reindex. It blocks until the run ends.
func (h *Handler) Reindex(c *gin.Context) {
	count, err := h.reindex.Reindex(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, domain.ReindexReport{
		Status:       "completed",
		IndexedCount: count,
	})
}

// GetLocaleStrings handles GET /api/v1/locales/:locale
func (h *Handler) GetLocaleStrings(c *gin.Context) {
	locale := domain.ParseLocale(c.Param("locale"))

	c.JSON(http.StatusOK, gin.H{
		"locale":               locale,
		usecase.KeySearch:      h.translator.Translate(usecase.KeySearch, locale),
		usecase.KeyMatchesWith: h.translator.Translate(usecase.KeyMatchesWith, locale),
	})
}

// respondError writes the mapped status for err. Backend details are
// logged, never returned.
func (h *Handler) respondError(c *gin.Context, err error) {
	status, message := errorStatus(err)
	if status == http.StatusInternalServerError {
		h.log.Error("request failed", "path", c.FullPath(), "request_id", requestID(c), "error", err)
	}
	c.JSON(status, gin.H{"error": message})
}

// abortWithError stops the chain with the mapped status for err
func abortWithError(c *gin.Context, err error) {
	status, message := errorStatus(err)
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}

// errorStatus maps domain errors onto an HTTP status and a public message
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrProductNotFound):
		return http.StatusNotFound, "product not found"
	case errors.Is(err, domain.ErrInvalidRequest):
		return http.StatusBadRequest, "invalid request"
	case errors.Is(err, domain.ErrRateLimited):
		return http.StatusTooManyRequests, "rate limit exceeded"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}
