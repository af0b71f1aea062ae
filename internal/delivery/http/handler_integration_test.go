package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veganlens/backend/config"
	"github.com/veganlens/backend/internal/domain"
	"github.com/veganlens/backend/internal/infrastructure/cache"
	"github.com/veganlens/backend/internal/infrastructure/i18n"
	"github.com/veganlens/backend/internal/usecase"
)

// TestMain sets up test environment before running tests
func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// fakeIndex answers searches with canned hits
type fakeIndex struct {
	hits      []domain.IndexHit
	err       error
	queries   []string
	deadlines []bool
}

func (f *fakeIndex) DeleteIndex(context.Context) error { return nil }

func (f *fakeIndex) CreateIndex(context.Context) error { return nil }

func (f *fakeIndex) SetSearchableAttributes(context.Context, []string) error { return nil }

func (f *fakeIndex) UpsertDocument(context.Context, *domain.NormalizedProduct) error { return nil }

func (f *fakeIndex) Search(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.IndexHit, error) {
	f.queries = append(f.queries, query)
	_, hasDeadline := ctx.Deadline()
	f.deadlines = append(f.deadlines, hasDeadline)
	if f.err != nil {
		return nil, f.err
	}
	hits := f.hits
	if opts.Limit > 0 && int64(len(hits)) > opts.Limit {
		hits = hits[:opts.Limit]
	}
	return hits, nil
}

// stubReindexer returns a fixed outcome
type stubReindexer struct {
	count int
	err   error
	calls int
}

func (s *stubReindexer) Reindex(context.Context) (int, error) {
	s.calls++
	return s.count, s.err
}

// sliceSource streams a fixed record list
type sliceSource struct {
	records []domain.RawCatalogRecord
}

func (s *sliceSource) Ping(context.Context) error { return nil }

func (s *sliceSource) StreamQualifying(context.Context, int64) (domain.RecordCursor, error) {
	return &sliceCursor{records: s.records}, nil
}

type sliceCursor struct {
	records []domain.RawCatalogRecord
	pos     int
}

func (c *sliceCursor) Next(context.Context) bool {
	if c.pos >= len(c.records) {
		return false
	}
	c.pos++
	return true
}

func (c *sliceCursor) Decode(record *domain.RawCatalogRecord) error {
	*record = c.records[c.pos-1]
	return nil
}

func (c *sliceCursor) Err() error { return nil }

func (c *sliceCursor) Close(context.Context) error { return nil }

// slowIndex takes delay per upsert and honors context cancellation
type slowIndex struct {
	fakeIndex
	delay   time.Duration
	written int
}

func (s *slowIndex) UpsertDocument(ctx context.Context, _ *domain.NormalizedProduct) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(s.delay):
	}
	s.written++
	return nil
}

type testEnv struct {
	router    *gin.Engine
	index     *fakeIndex
	reindexer *stubReindexer
}

func oatMilk() domain.NormalizedProduct {
	return domain.NormalizedProduct{
		ID:            "4001234567890",
		NameDE:        "Haferdrink",
		NameEN:        "Oat drink",
		Brand:         "Oatly",
		IngredientsDE: "Wasser, Hafer",
		ImageURL:      "https://images.openfoodfacts.org/images/products/400/123/456/7890/1.400.jpg",
		Nutriments: domain.NutrimentDisplay{
			EnergyKcal:    "46",
			EnergyKJ:      "192",
			Fat:           "1.5",
			SaturatedFat:  "0.2",
			Carbohydrates: "6.7",
			Sugars:        "4",
			Fiber:         "0.8",
			Proteins:      "1",
			Salt:          "0.1",
		},
		Stores: []string{"edeka", "rewe"},
	}
}

// setupTestRouter wires the real services over a fake search index
func setupTestRouter(t *testing.T) *testEnv {
	t.Helper()

	cfg := &config.Config{
		Server: config.ServerConfig{
			Port:           "8080",
			Environment:    "test",
			AllowedOrigins: []string{"http://localhost:3000"},
			RequestTimeout: 5 * time.Second,
		},
		Cache:     config.CacheConfig{Type: "memory", TTL: time.Minute},
		RateLimit: config.RateLimitConfig{PerIP: 1000},
	}

	translator, err := i18n.New()
	require.NoError(t, err)

	memCache := cache.NewMemoryCache(time.Minute)
	t.Cleanup(func() { _ = memCache.Close() })

	index := &fakeIndex{}
	reindexer := &stubReindexer{}

	handler := NewHandler(
		usecase.NewSearchService(index, translator, usecase.SearchServiceConfig{}),
		usecase.NewDetailService(index, memCache, nil, usecase.DetailServiceConfig{CacheTTL: time.Minute}),
		reindexer,
		translator,
		nil,
	)

	return &testEnv{
		router:    SetupRouter(cfg, handler, nil),
		index:     index,
		reindexer: reindexer,
	}
}

func (e *testEnv) do(method, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func TestHealthCheckEndpoint(t *testing.T) {
	t.Run("returns healthy status", func(t *testing.T) {
		env := setupTestRouter(t)

		w := env.do(http.MethodGet, "/health")
		require.Equal(t, http.StatusOK, w.Code)

		var response map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "healthy", response["status"])
		assert.Equal(t, "veganlens-backend", response["service"])
		version, _ := response["version"].(string)
		assert.NotEmpty(t, strings.TrimSpace(version))
		assert.NotEmpty(t, w.Header().Get(HeaderRequestID))
	})

	t.Run("accepts GET requests only", func(t *testing.T) {
		env := setupTestRouter(t)

		for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch} {
			w := env.do(method, "/health")
			assert.Equal(t, http.StatusNotFound, w.Code, method)
		}
	})
}

func TestSearchEndpoint(t *testing.T) {
	t.Run("returns localized rows with highlights", func(t *testing.T) {
		env := setupTestRouter(t)
		env.index.hits = []domain.IndexHit{{
			Product:       oatMilk(),
			MatchedFields: []string{"brand", "name_de", "name_en"},
		}}

		w := env.do(http.MethodGet, "/api/v1/products/search?q=oat&locale=en")
		require.Equal(t, http.StatusOK, w.Code)

		assert.JSONEq(t, `{
			"query": "oat",
			"locale": "en",
			"matchesWith": "Matches with:",
			"hits": [{
				"id": "4001234567890",
				"name": "Haferdrink",
				"imageUrl": "https://images.openfoodfacts.org/images/products/400/123/456/7890/1.400.jpg",
				"highlights": {"brand": "Brand", "name": "Name"},
				"locale": "en"
			}]
		}`, w.Body.String())
		assert.Equal(t, []string{"oat"}, env.index.queries)
	})

	t.Run("runs under the request timeout", func(t *testing.T) {
		env := setupTestRouter(t)

		w := env.do(http.MethodGet, "/api/v1/products/search?q=tofu")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, []bool{true}, env.index.deadlines)
	})

	t.Run("defaults to German", func(t *testing.T) {
		env := setupTestRouter(t)
		env.index.hits = []domain.IndexHit{{Product: oatMilk(), MatchedFields: []string{"ingredients_de"}}}

		w := env.do(http.MethodGet, "/api/v1/products/search?q=hafer&locale=fr")
		require.Equal(t, http.StatusOK, w.Code)

		var result domain.ResultList
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
		assert.Equal(t, domain.LocaleDE, result.Locale)
		assert.Equal(t, "Treffer in:", result.MatchesWith)
		require.Len(t, result.Hits, 1)
		assert.Equal(t, map[string]string{"ingredients": "Zutaten"}, result.Hits[0].Highlights)
	})

	t.Run("short query skips the index", func(t *testing.T) {
		env := setupTestRouter(t)

		w := env.do(http.MethodGet, "/api/v1/products/search?q=%20ab%20")
		require.Equal(t, http.StatusOK, w.Code)

		assert.JSONEq(t, `{"query":"ab","locale":"de","matchesWith":"Treffer in:","hits":[]}`, w.Body.String())
		assert.Empty(t, env.index.queries)
	})

	t.Run("index failure is a generic 500", func(t *testing.T) {
		env := setupTestRouter(t)
		env.index.err = errors.New("dial tcp 10.0.0.5:7700: connection refused")

		w := env.do(http.MethodGet, "/api/v1/products/search?q=tofu")
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.JSONEq(t, `{"error":"internal server error"}`, w.Body.String())
		assert.NotContains(t, w.Body.String(), "10.0.0.5")
	})
}

func TestProductDetailEndpoint(t *testing.T) {
	t.Run("returns the detail view", func(t *testing.T) {
		env := setupTestRouter(t)
		env.index.hits = []domain.IndexHit{{Product: oatMilk()}}

		w := env.do(http.MethodGet, "/api/v1/products/4001234567890")
		require.Equal(t, http.StatusOK, w.Code)

		var view domain.DetailView
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
		assert.Equal(t, "4001234567890", view.ID)
		assert.Equal(t, "Haferdrink", view.Name)
		assert.Equal(t, "Oatly", view.Brand)
		assert.Equal(t, "Wasser, Hafer", view.Ingredients)
		assert.Equal(t, "1.5", view.Nutriments[usecase.LabelFat])
		assert.Len(t, view.Nutriments, 9)
		assert.Equal(t, []string{"edeka", "rewe"}, view.Stores)
		assert.Equal(t, []string{"4001234567890"}, env.index.queries)
	})

	t.Run("second lookup is served from cache", func(t *testing.T) {
		env := setupTestRouter(t)
		env.index.hits = []domain.IndexHit{{Product: oatMilk()}}

		first := env.do(http.MethodGet, "/api/v1/products/4001234567890")
		second := env.do(http.MethodGet, "/api/v1/products/4001234567890")

		require.Equal(t, http.StatusOK, first.Code)
		require.Equal(t, http.StatusOK, second.Code)
		assert.JSONEq(t, first.Body.String(), second.Body.String())
		assert.Len(t, env.index.queries, 1)
	})

	t.Run("unknown product is 404", func(t *testing.T) {
		env := setupTestRouter(t)

		w := env.do(http.MethodGet, "/api/v1/products/0000000000000")
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.JSONEq(t, `{"error":"product not found"}`, w.Body.String())
	})

	t.Run("index failure is 500", func(t *testing.T) {
		env := setupTestRouter(t)
		env.index.err = errors.New("timeout")

		w := env.do(http.MethodGet, "/api/v1/products/4001234567890")
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestReindexEndpoint(t *testing.T) {
	t.Run("reports the indexed count", func(t *testing.T) {
		env := setupTestRouter(t)
		env.reindexer.count = 42

		w := env.do(http.MethodPost, "/api/v1/admin/reindex")
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"status":"completed","indexed_count":42}`, w.Body.String())
		assert.Equal(t, 1, env.reindexer.calls)
	})

	t.Run("document store outage is 500", func(t *testing.T) {
		env := setupTestRouter(t)
		env.reindexer.err = domain.ErrDocumentStoreUnavailable

		w := env.do(http.MethodPost, "/api/v1/admin/reindex")
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})

	t.Run("full run is not cut off by the request timeout", func(t *testing.T) {
		records := make([]domain.RawCatalogRecord, 40)
		for i := range records {
			records[i] = domain.RawCatalogRecord{ID: fmt.Sprintf("40000000000%02d", i)}
		}
		source := &sliceSource{records: records}
		index := &slowIndex{delay: 5 * time.Millisecond}

		cfg := &config.Config{Server: config.ServerConfig{RequestTimeout: 50 * time.Millisecond}}
		reindexer := usecase.NewReindexService(source, index, nil, usecase.NewNormalizer(nil), nil, usecase.ReindexServiceConfig{})
		router := SetupRouter(cfg, NewHandler(nil, nil, reindexer, nil, nil), nil)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/admin/reindex", nil))

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.JSONEq(t, `{"status":"completed","indexed_count":40}`, w.Body.String())
		assert.Equal(t, 40, index.written)
	})

	t.Run("GET is not routed", func(t *testing.T) {
		env := setupTestRouter(t)

		w := env.do(http.MethodGet, "/api/v1/admin/reindex")
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Zero(t, env.reindexer.calls)
	})
}

func TestLocaleStringsEndpoint(t *testing.T) {
	env := setupTestRouter(t)

	tests := []struct {
		path string
		want string
	}{
		{"/api/v1/locales/de", `{"locale":"de","search":"Suche","matches_with":"Treffer in:"}`},
		{"/api/v1/locales/en", `{"locale":"en","search":"Search","matches_with":"Matches with:"}`},
		{"/api/v1/locales/xx", `{"locale":"de","search":"Suche","matches_with":"Treffer in:"}`},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := env.do(http.MethodGet, tt.path)
			require.Equal(t, http.StatusOK, w.Code)
			assert.JSONEq(t, tt.want, w.Body.String())
		})
	}
}

func TestCORSIntegration(t *testing.T) {
	env := setupTestRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/products/search", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, HeaderRequestID, w.Header().Get("Access-Control-Expose-Headers"))
}
