package api

import (
	"context"
	"encoding/json"
	"strconv"

	"fourtumon/internal/model"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"
)

// ArticleQuery holds the query parameters of an article list request.
type ArticleQuery struct {
	ItemType       int
	PublishedSince string
	Limit          int
	Offset         int
}

// Client talks to the repository API. All calls are synchronous and
// bounded by the configured request timeout; a shared rate limiter
// throttles requests to keep load on the public API low.
type Client struct {
	httpClient *resty.Client
	endpoints  Endpoints
	limiter    *rate.Limiter
}

// NewClient creates a client for the given API configuration.
func NewClient(cfg model.APIConfig) *Client {
	httpClient := resty.New()
	httpClient.SetTimeout(cfg.Timeout)
	httpClient.SetHeader("Accept", "application/json")
	if cfg.Token != "" {
		httpClient.SetHeader("Authorization", "token "+cfg.Token)
	}

	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 2
	}

	return &Client{
		httpClient: httpClient,
		endpoints:  Endpoints{BaseURL: cfg.BaseURL},
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
	}
}

// Endpoints exposes the resolver the client was built with.
func (c *Client) Endpoints() Endpoints {
	return c.endpoints
}

// Groups fetches the full list of organizational groups.
func (c *Client) Groups(ctx context.Context) ([]model.RawRecord, error) {
	return c.getList(ctx, c.endpoints.Groups(), nil)
}

// Articles fetches one page of article records matching the query.
func (c *Client) Articles(ctx context.Context, q ArticleQuery) ([]model.RawRecord, error) {
	params := map[string]string{
		"item_type":       strconv.Itoa(q.ItemType),
		"published_since": q.PublishedSince,
		"limit":           strconv.Itoa(q.Limit),
		"offset":          strconv.Itoa(q.Offset),
	}
	return c.getList(ctx, c.endpoints.Articles(), params)
}

// ArticleDetail fetches the full record of a single article.
func (c *Client) ArticleDetail(ctx context.Context, articleID string) (model.RawRecord, error) {
	url := c.endpoints.ArticleDetail(articleID)
	body, err := c.get(ctx, url, nil)
	if err != nil {
		return nil, err
	}

	var record model.RawRecord
	if err := json.Unmarshal(body, &record); err != nil {
		return nil, &model.ShapeError{URL: url}
	}
	return record, nil
}

func (c *Client) getList(ctx context.Context, url string, params map[string]string) ([]model.RawRecord, error) {
	body, err := c.get(ctx, url, params)
	if err != nil {
		return nil, err
	}

	var records []model.RawRecord
	if err := json.Unmarshal(body, &records); err != nil {
		// Some API deployments answer list routes with an object
		// (e.g. an error envelope). Callers treat this as empty.
		return nil, &model.ShapeError{URL: url}
	}
	return records, nil
}

func (c *Client) get(ctx context.Context, url string, params map[string]string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req := c.httpClient.R().SetContext(ctx)
	if params != nil {
		req.SetQueryParams(params)
	}

	resp, err := req.Get(url)
	if err != nil {
		// DNS failures, refused connections and timeouts get the same
		// typed transport error as bad statuses.
		return nil, &model.HTTPError{URL: url, Err: err}
	}
	if !resp.IsSuccess() {
		return nil, &model.HTTPError{StatusCode: resp.StatusCode(), URL: url}
	}
	return resp.Body(), nil
}
