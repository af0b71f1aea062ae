package usecase

import (
	"context"
	"time"

	"github.com/veganlens/backend/internal/domain"
)

// MockCacheRepository is a mock implementation of domain.CacheRepository
type MockCacheRepository struct {
	data        map[string]interface{}
	getError    error
	setError    error
	clearError  error
	setCalled   bool
	clearCalled bool
}

func NewMockCacheRepository() *MockCacheRepository {
	return &MockCacheRepository{
		data: make(map[string]interface{}),
	}
}

func (m *MockCacheRepository) Get(ctx context.Context, key string) (interface{}, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	if value, ok := m.data[key]; ok {
		return value, nil
	}
	return nil, domain.ErrCacheMiss
}

func (m *MockCacheRepository) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	m.setCalled = true
	if m.setError != nil {
		return m.setError
	}
	m.data[key] = value
	return nil
}

func (m *MockCacheRepository) Clear(ctx context.Context) error {
	m.clearCalled = true
	if m.clearError != nil {
		return m.clearError
	}
	m.data = make(map[string]interface{})
	return nil
}

// MockRecordCursor replays a fixed list of records
type MockRecordCursor struct {
	records     []domain.RawCatalogRecord
	decodeErrAt int // 1-based position whose Decode fails; 0 disables
	decodeError error
	err         error
	pos         int
	closed      bool
	closeCtxErr error
}

func (c *MockRecordCursor) Next(ctx context.Context) bool {
	if c.pos >= len(c.records) {
		return false
	}
	c.pos++
	return true
}

func (c *MockRecordCursor) Decode(record *domain.RawCatalogRecord) error {
	if c.decodeErrAt != 0 && c.pos == c.decodeErrAt {
		return c.decodeError
	}
	*record = c.records[c.pos-1]
	return nil
}

func (c *MockRecordCursor) Err() error {
	return c.err
}

func (c *MockRecordCursor) Close(ctx context.Context) error {
	c.closed = true
	c.closeCtxErr = ctx.Err()
	return nil
}

// MockProductSource is a mock implementation of domain.ProductSource
type MockProductSource struct {
	cursor      *MockRecordCursor
	pingError   error
	streamError error
	gotLimit    int64
	calls       *[]string
}

func (m *MockProductSource) Ping(ctx context.Context) error {
	m.record("ping")
	return m.pingError
}

func (m *MockProductSource) StreamQualifying(ctx context.Context, limit int64) (domain.RecordCursor, error) {
	m.record("stream")
	m.gotLimit = limit
	if m.streamError != nil {
		return nil, m.streamError
	}
	if m.cursor == nil {
		m.cursor = &MockRecordCursor{}
	}
	return m.cursor, nil
}

func (m *MockProductSource) record(call string) {
	if m.calls != nil {
		*m.calls = append(*m.calls, call)
	}
}

// MockSearchIndex is a mock implementation of domain.SearchIndex
type MockSearchIndex struct {
	documents      []*domain.NormalizedProduct
	searchable     []string
	searchResult   []domain.IndexHit
	searchError    error
	deleteError    error
	createError    error
	settingsError  error
	upsertError    error
	failUpsertAt   int // 1-based upsert that fails; 0 means every upsert fails when upsertError is set
	searchCalls    int
	lastQuery      string
	lastOptions    domain.SearchOptions
	upsertAttempts int
	calls          *[]string
}

func (m *MockSearchIndex) DeleteIndex(ctx context.Context) error {
	m.record("delete")
	if m.deleteError != nil {
		return m.deleteError
	}
	m.documents = nil
	return nil
}

func (m *MockSearchIndex) CreateIndex(ctx context.Context) error {
	m.record("create")
	return m.createError
}

func (m *MockSearchIndex) SetSearchableAttributes(ctx context.Context, attributes []string) error {
	m.record("settings")
	if m.settingsError != nil {
		return m.settingsError
	}
	m.searchable = append([]string(nil), attributes...)
	return nil
}

func (m *MockSearchIndex) UpsertDocument(ctx context.Context, product *domain.NormalizedProduct) error {
	m.record("upsert")
	m.upsertAttempts++
	if m.upsertError != nil && (m.failUpsertAt == 0 || m.failUpsertAt == m.upsertAttempts) {
		return m.upsertError
	}
	m.documents = append(m.documents, product)
	return nil
}

func (m *MockSearchIndex) Search(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.IndexHit, error) {
	m.searchCalls++
	m.lastQuery = query
	m.lastOptions = opts
	if m.searchError != nil {
		return nil, m.searchError
	}
	return m.searchResult, nil
}

func (m *MockSearchIndex) record(call string) {
	if m.calls != nil {
		*m.calls = append(*m.calls, call)
	}
}

// MockTranslator resolves keys from a fixed table per locale
type MockTranslator struct {
	table map[domain.Locale]map[string]string
}

func NewMockTranslator() *MockTranslator {
	return &MockTranslator{
		table: map[domain.Locale]map[string]string{
			domain.LocaleDE: {
				"matches_with": "Treffer in",
				"name":         "Name",
				"ingredients":  "Zutaten",
				"brand":        "Marke",
				"stores":       "Geschäfte",
			},
			domain.LocaleEN: {
				"matches_with": "Matches with",
				"name":         "Name",
				"ingredients":  "Ingredients",
				"brand":        "Brand",
				"stores":       "Stores",
			},
		},
	}
}

func (m *MockTranslator) Translate(key string, locale domain.Locale) string {
	if v, ok := m.table[locale][key]; ok {
		return v
	}
	return key
}
