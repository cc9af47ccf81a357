package pipeline

import (
	"context"

	"fourtumon/internal/api"
	"fourtumon/internal/model"
)

// ArticleLister is the slice of the API client the pager needs.
type ArticleLister interface {
	Articles(ctx context.Context, q api.ArticleQuery) ([]model.RawRecord, error)
}

// Pager drives the offset-based pagination of the article endpoint.
// Pages are fetched strictly sequentially: the short-page termination
// signal requires knowing each page's size before requesting the next,
// and sequential requests keep load on the public API bounded.
type Pager struct {
	client ArticleLister
	cfg    model.FetchConfig
}

// NewPager creates a pager over client with the given fetch settings.
func NewPager(client ArticleLister, cfg model.FetchConfig) *Pager {
	return &Pager{client: client, cfg: cfg}
}

// FetchRecent pulls up to MaxPages pages of articles of the given item
// type. Pagination stops early when a page comes back shorter than
// PageSize: a short page guarantees the server has no more matches.
//
// A request failure mid-loop stops pagination. By default the pages
// accumulated so far are returned with truncated set and a nil error;
// with Strict the failure is returned alongside the partial result.
func (p *Pager) FetchRecent(ctx context.Context, itemType int) (articles []model.RawRecord, truncated bool, err error) {
	for page := 0; page < p.cfg.MaxPages; page++ {
		batch, err := p.client.Articles(ctx, api.ArticleQuery{
			ItemType:       itemType,
			PublishedSince: p.cfg.PublishedSince,
			Limit:          p.cfg.PageSize,
			Offset:         page * p.cfg.PageSize,
		})
		if err != nil {
			if p.cfg.Strict {
				return articles, true, err
			}
			return articles, true, nil
		}

		articles = append(articles, batch...)
		if len(batch) < p.cfg.PageSize {
			break
		}
	}
	return articles, false, nil
}
