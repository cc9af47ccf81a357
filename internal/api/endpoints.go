package api

import "strings"

// Endpoints resolves the three remote resources against a base URL.
// Pure: no I/O, no validation beyond trailing-slash handling.
type Endpoints struct {
	BaseURL string
}

// Groups returns the URL of the groups collection.
func (e Endpoints) Groups() string {
	return e.base() + "/v3/groups"
}

// Articles returns the URL of the article collection.
func (e Endpoints) Articles() string {
	return e.base() + "/v2/articles"
}

// ArticleDetail returns the URL of a single article's detail resource.
func (e Endpoints) ArticleDetail(articleID string) string {
	return e.base() + "/v2/articles/" + articleID
}

func (e Endpoints) base() string {
	return strings.TrimRight(e.BaseURL, "/")
}
