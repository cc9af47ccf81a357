// Package pipeline orchestrates the fetch, cache and normalize steps
// that produce the monitoring table.
package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"fourtumon/internal/cache"
	"fourtumon/internal/model"
	"fourtumon/internal/normalize"
)

// Client is the slice of the API client the pipeline needs.
type Client interface {
	ArticleLister
	Groups(ctx context.Context) ([]model.RawRecord, error)
}

// Pipeline wires the API client, the injected cache store and the
// normalizer into the cache-or-fetch query path.
type Pipeline struct {
	client Client
	store  cache.Store
	cfg    *model.Config
}

// New creates a pipeline. The store is injected so callers and tests
// choose where (or whether) results persist.
func New(client Client, store cache.Store, cfg *model.Config) *Pipeline {
	return &Pipeline{client: client, store: store, cfg: cfg}
}

// LoadOrFetchGroups returns the group list from cache when available,
// falling back to the network. A response that is not a JSON array is
// treated as an empty list rather than an error.
func (p *Pipeline) LoadOrFetchGroups(ctx context.Context) ([]model.RawRecord, error) {
	if p.cfg.Cache.Enabled {
		if cached, ok := p.loadRecords(cache.GroupsKey()); ok {
			return cached, nil
		}
	}

	groups, err := p.client.Groups(ctx)
	if err != nil {
		var shapeErr *model.ShapeError
		if errors.As(err, &shapeErr) {
			return []model.RawRecord{}, nil
		}
		return nil, fmt.Errorf("fetch groups: %w", err)
	}

	if p.cfg.Cache.Enabled {
		p.saveRecords(cache.GroupsKey(), groups)
	}
	return groups, nil
}

// LoadOrFetchArticles returns article records for one item type, from
// cache when available. The cache name is parameterized by item type so
// dataset and software queries never share an entry. The returned flag
// reports whether pagination was cut short by a request failure.
func (p *Pipeline) LoadOrFetchArticles(ctx context.Context, itemType int) ([]model.RawRecord, bool, error) {
	key := cache.ArticlesKey(itemType)
	if p.cfg.Cache.Enabled {
		if cached, ok := p.loadRecords(key); ok {
			return cached, false, nil
		}
	}

	pager := NewPager(p.client, p.cfg.Fetch)
	articles, truncated, err := pager.FetchRecent(ctx, itemType)
	if err != nil {
		return articles, truncated, fmt.Errorf("fetch articles: %w", err)
	}

	// Partial page sets are never cached: a later run must not serve
	// truncated data as if it were complete.
	if p.cfg.Cache.Enabled && !truncated {
		p.saveRecords(key, articles)
	}
	return articles, truncated, nil
}

// BuildTable runs the full query path for one item type: groups, group
// map, paginated articles, normalization.
func (p *Pipeline) BuildTable(ctx context.Context, itemType int) (*model.Table, error) {
	groups, err := p.LoadOrFetchGroups(ctx)
	if err != nil {
		return nil, err
	}
	groupMap, dropped := normalize.BuildGroupMap(groups)

	articles, truncated, err := p.LoadOrFetchArticles(ctx, itemType)
	if err != nil {
		return nil, err
	}

	rows, stats := normalize.Rows(articles, groupMap)
	return &model.Table{
		ItemType:        itemType,
		Rows:            rows,
		FetchedAt:       time.Now().UTC(),
		DroppedGroups:   dropped,
		UnparsableDates: stats.UnparsableDates,
		Truncated:       truncated,
	}, nil
}

// ClearCache drops every cached entry so the next query re-fetches.
func (p *Pipeline) ClearCache() error {
	return p.store.Clear()
}

// loadRecords decodes a cached entry. Entries that do not decode as a
// JSON array are ignored, which falls through to a fresh fetch.
func (p *Pipeline) loadRecords(name string) ([]model.RawRecord, bool) {
	data, ok := p.store.Load(name)
	if !ok {
		return nil, false
	}
	var records []model.RawRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, false
	}
	return records, true
}

// saveRecords persists records best-effort: a failing cache write never
// fails the query that produced the data.
func (p *Pipeline) saveRecords(name string, records []model.RawRecord) {
	if records == nil {
		records = []model.RawRecord{}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return
	}
	_ = p.store.Save(name, data)
}
