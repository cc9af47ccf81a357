package pipeline

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"fourtumon/internal/api"
	"fourtumon/internal/cache"
	"fourtumon/internal/model"
)

// dummyClient returns fixed payloads and counts calls.
type dummyClient struct {
	groups       []model.RawRecord
	articles     []model.RawRecord
	groupsErr    error
	groupCalls   int
	articleCalls int
}

func (c *dummyClient) Groups(ctx context.Context) ([]model.RawRecord, error) {
	c.groupCalls++
	if c.groupsErr != nil {
		return nil, c.groupsErr
	}
	return c.groups, nil
}

func (c *dummyClient) Articles(ctx context.Context, q api.ArticleQuery) ([]model.RawRecord, error) {
	c.articleCalls++
	return c.articles, nil
}

// recordingStore wraps a memory store and records every save name.
type recordingStore struct {
	cache.Store
	saved []string
}

func (s *recordingStore) Save(name string, data []byte) error {
	s.saved = append(s.saved, name)
	return s.Store.Save(name, data)
}

func testPipelineConfig() *model.Config {
	cfg := model.DefaultConfig()
	cfg.Fetch.PageSize = 100
	cfg.Fetch.MaxPages = 3
	return cfg
}

func TestLoadOrFetchArticles_CacheNameIncludesItemType(t *testing.T) {
	client := &dummyClient{articles: []model.RawRecord{{"id": "x", "title": "t"}}}
	store := &recordingStore{Store: cache.NewMemoryStore()}
	p := New(client, store, testPipelineConfig())

	if _, _, err := p.LoadOrFetchArticles(context.Background(), 3); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if _, _, err := p.LoadOrFetchArticles(context.Background(), 9); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	var saw3, saw9 bool
	for _, name := range store.saved {
		if strings.Contains(name, "item_type_3") {
			saw3 = true
		}
		if strings.Contains(name, "item_type_9") {
			saw9 = true
		}
	}
	if !saw3 || !saw9 {
		t.Errorf("Expected distinct item_type markers in save names, got %v", store.saved)
	}
}

func TestLoadOrFetchArticles_ServesFromCache(t *testing.T) {
	client := &dummyClient{articles: []model.RawRecord{{"id": "fresh"}}}
	store := cache.NewMemoryStore()

	cached, _ := json.Marshal([]model.RawRecord{{"id": "cached"}})
	if err := store.Save(cache.ArticlesKey(3), cached); err != nil {
		t.Fatalf("Seed failed: %v", err)
	}

	p := New(client, store, testPipelineConfig())
	articles, _, err := p.LoadOrFetchArticles(context.Background(), 3)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if client.articleCalls != 0 {
		t.Errorf("Expected no network calls on cache hit, got %d", client.articleCalls)
	}
	if len(articles) != 1 || articles[0]["id"] != "cached" {
		t.Errorf("Expected cached payload, got %v", articles)
	}
}

func TestLoadOrFetchArticles_CacheDisabledBypassesStore(t *testing.T) {
	client := &dummyClient{articles: []model.RawRecord{{"id": "fresh"}}}
	store := &recordingStore{Store: cache.NewMemoryStore()}
	cfg := testPipelineConfig()
	cfg.Cache.Enabled = false

	p := New(client, store, cfg)
	if _, _, err := p.LoadOrFetchArticles(context.Background(), 3); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if client.articleCalls == 0 {
		t.Error("Expected a network fetch with cache disabled")
	}
	if len(store.saved) != 0 {
		t.Errorf("Expected no cache writes with cache disabled, got %v", store.saved)
	}
}

// truncatingClient reuses pageStub for articles and serves no groups.
type truncatingClient struct {
	*pageStub
}

func (truncatingClient) Groups(ctx context.Context) ([]model.RawRecord, error) {
	return nil, nil
}

func TestLoadOrFetchArticles_TruncatedResultIsNotCached(t *testing.T) {
	stub := &pageStub{err: &model.HTTPError{StatusCode: 503, URL: "x"}, errOn: 1}
	store := &recordingStore{Store: cache.NewMemoryStore()}
	p := New(truncatingClient{stub}, store, testPipelineConfig())

	articles, truncated, err := p.LoadOrFetchArticles(context.Background(), 3)
	if err != nil {
		t.Fatalf("Lenient mode must swallow the error, got %v", err)
	}
	if !truncated {
		t.Error("Expected truncation after the mid-loop failure")
	}
	if len(articles) != 100 {
		t.Errorf("Expected the first page only, got %d records", len(articles))
	}
	if len(store.saved) != 0 {
		t.Errorf("Truncated results must not be cached, saved %v", store.saved)
	}

	// The next call must hit the network again, not a cache entry.
	if _, _, err := p.LoadOrFetchArticles(context.Background(), 3); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if stub.calls <= 2 {
		t.Errorf("Expected a refetch on the second call, got %d total calls", stub.calls)
	}
}

func TestLoadOrFetchGroups_ShapeErrorYieldsEmpty(t *testing.T) {
	client := &dummyClient{groupsErr: &model.ShapeError{URL: "x"}}
	p := New(client, cache.NewMemoryStore(), testPipelineConfig())

	groups, err := p.LoadOrFetchGroups(context.Background())
	if err != nil {
		t.Fatalf("Shape failures must degrade to empty, got %v", err)
	}
	if len(groups) != 0 {
		t.Errorf("Expected empty groups, got %v", groups)
	}
}

func TestLoadOrFetchGroups_TransportErrorPropagates(t *testing.T) {
	client := &dummyClient{groupsErr: &model.HTTPError{StatusCode: 500, URL: "x"}}
	p := New(client, cache.NewMemoryStore(), testPipelineConfig())

	if _, err := p.LoadOrFetchGroups(context.Background()); err == nil {
		t.Fatal("Expected transport error to propagate")
	}
}

func TestLoadOrFetch_CorruptCacheEntryIsIgnored(t *testing.T) {
	client := &dummyClient{groups: []model.RawRecord{{"id": float64(1), "name": "TU Delft"}}}
	store := cache.NewMemoryStore()
	if err := store.Save(cache.GroupsKey(), []byte(`{"not":"an array"}`)); err != nil {
		t.Fatalf("Seed failed: %v", err)
	}

	p := New(client, store, testPipelineConfig())
	groups, err := p.LoadOrFetchGroups(context.Background())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if client.groupCalls != 1 {
		t.Errorf("Expected refetch past the corrupt entry, got %d calls", client.groupCalls)
	}
	if len(groups) != 1 {
		t.Errorf("Expected the fresh payload, got %v", groups)
	}
}

func TestBuildTable_EndToEnd(t *testing.T) {
	client := &dummyClient{
		groups: []model.RawRecord{{"id": float64(1), "name": "TU Delft"}},
		articles: []model.RawRecord{{
			"id":             "a1",
			"title":          "Foo",
			"published_date": "2025-01-02 10:00:00",
			"group_id":       float64(1),
			"doi":            "10.x/1",
		}},
	}
	p := New(client, cache.NewMemoryStore(), testPipelineConfig())

	table, err := p.BuildTable(context.Background(), model.ItemTypeDataset)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(table.Rows) != 1 {
		t.Fatalf("Expected 1 row, got %d", len(table.Rows))
	}

	row := table.Rows[0]
	if row.ID != "a1" || row.Title != "Foo" || row.GroupName != "TU Delft" || row.DOI != "10.x/1" {
		t.Errorf("Unexpected row: %+v", row)
	}
	if row.GroupID == nil || *row.GroupID != 1 {
		t.Errorf("Expected group id 1, got %v", row.GroupID)
	}
	if row.PublishedDate == nil || row.PublishedDate.Format("2006-01-02") != "2025-01-02" {
		t.Errorf("Expected published date 2025-01-02, got %v", row.PublishedDate)
	}
	if table.Truncated {
		t.Error("Expected a complete table")
	}
}

func TestClearCache(t *testing.T) {
	store := cache.NewMemoryStore()
	if err := store.Save(cache.GroupsKey(), []byte(`[]`)); err != nil {
		t.Fatalf("Seed failed: %v", err)
	}

	p := New(&dummyClient{}, store, testPipelineConfig())
	if err := p.ClearCache(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if _, found := store.Load(cache.GroupsKey()); found {
		t.Error("Expected empty store after clear")
	}
}
