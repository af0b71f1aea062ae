package meili

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/meilisearch/meilisearch-go"

	"github.com/veganlens/backend/internal/domain"
	"github.com/veganlens/backend/internal/infrastructure/logger"
)

// DefaultIndex is the uid of the product index
const DefaultIndex = "products"

// primaryKey is the document field the index is keyed by
const primaryKey = "id"

// defaultPollInterval is how often enqueued tasks are polled
const defaultPollInterval = 50 * time.Millisecond

// Config holds Meilisearch connection settings
type Config struct {
	URL          string
	APIKey       string
	Index        string
	PollInterval time.Duration
}

// Index is a domain.SearchIndex backed by a Meilisearch index
type Index struct {
	client       meilisearch.ServiceManager
	uid          string
	pollInterval time.Duration
	log          *logger.Logger
}

// NewIndex creates the shared Meilisearch client for the product index
func NewIndex(cfg Config, log *logger.Logger) *Index {
	uid := cfg.Index
	if uid == "" {
		uid = DefaultIndex
	}
	interval := cfg.PollInterval
	if interval <= 0 {
		interval = defaultPollInterval
	}
	if log == nil {
		log = logger.NewNop()
	}

	return &Index{
		client:       meilisearch.New(cfg.URL, meilisearch.WithAPIKey(cfg.APIKey)),
		uid:          uid,
		pollInterval: interval,
		log:          log.With("component", "meili", "index", uid),
	}
}

// Close releases idle connections of the client
func (i *Index) Close() {
	i.client.Close()
}

// DeleteIndex drops the index. A missing index is not an error.
func (i *Index) DeleteIndex(ctx context.Context) error {
	info, err := i.client.DeleteIndexWithContext(ctx, i.uid)
	if err != nil {
		return err
	}

	task, err := i.client.WaitForTaskWithContext(ctx, info.TaskUID, i.pollInterval)
	if err != nil {
		return err
	}
	if task.Status == meilisearch.TaskStatusFailed {
		i.log.Debug("index delete task failed, assuming it did not exist", "task", info.TaskUID, "reason", task.Error)
	}
	return nil
}

// CreateIndex creates an empty index keyed by product id
func (i *Index) CreateIndex(ctx context.Context) error {
	info, err := i.client.CreateIndexWithContext(ctx, &meilisearch.IndexConfig{
		Uid:        i.uid,
		PrimaryKey: primaryKey,
	})
	if err != nil {
		return err
	}
	return i.wait(ctx, info)
}

// SetSearchableAttributes declares the ordered searchable attributes
func (i *Index) SetSearchableAttributes(ctx context.Context, attributes []string) error {
	attrs := append([]string(nil), attributes...)
	info, err := i.client.Index(i.uid).UpdateSearchableAttributesWithContext(ctx, &attrs)
	if err != nil {
		return err
	}
	return i.wait(ctx, info)
}

// UpsertDocument adds or replaces one product keyed by its id
func (i *Index) UpsertDocument(ctx context.Context, product *domain.NormalizedProduct) error {
	info, err := i.client.Index(i.uid).AddDocumentsWithContext(ctx, []*domain.NormalizedProduct{product}, primaryKey)
	if err != nil {
		return err
	}
	return i.wait(ctx, info)
}

// Search runs a free-text query against the index
func (i *Index) Search(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.IndexHit, error) {
	req := &meilisearch.SearchRequest{
		Limit:               opts.Limit,
		ShowMatchesPosition: opts.ShowMatchesPosition,
	}

	res, err := i.client.Index(i.uid).SearchWithContext(ctx, query, req)
	if err != nil {
		return nil, err
	}

	// Hits are re-decoded through JSON into the index document shape
	b, err := json.Marshal(res.Hits)
	if err != nil {
		return nil, fmt.Errorf("encode hits: %w", err)
	}
	var raw []indexDocument
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, fmt.Errorf("decode hits: %w", err)
	}

	hits := make([]domain.IndexHit, 0, len(raw))
	for _, doc := range raw {
		hits = append(hits, doc.toHit())
	}
	return hits, nil
}

// wait blocks until an enqueued task finishes and reports failed tasks
func (i *Index) wait(ctx context.Context, info *meilisearch.TaskInfo) error {
	task, err := i.client.WaitForTaskWithContext(ctx, info.TaskUID, i.pollInterval)
	if err != nil {
		return err
	}
	if task.Status == meilisearch.TaskStatusFailed {
		return fmt.Errorf("task %d failed: %v", info.TaskUID, task.Error)
	}
	return nil
}

// indexDocument is a stored product plus search metadata
type indexDocument struct {
	domain.NormalizedProduct
	MatchesPosition map[string]json.RawMessage `json:"_matchesPosition,omitempty"`
}

func (d indexDocument) toHit() domain.IndexHit {
	fields := make([]string, 0, len(d.MatchesPosition))
	for field := range d.MatchesPosition {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	product := d.NormalizedProduct
	if product.Stores == nil {
		product.Stores = []string{}
	}
	return domain.IndexHit{Product: product, MatchedFields: fields}
}
