package cache

import "strconv"

// Store persists fetched JSON blobs under logical names. Implementations
// are injected into the pipeline so tests can run without a filesystem.
type Store interface {
	Load(name string) ([]byte, bool)
	Save(name string, data []byte) error
	Clear() error
}

// GroupsKey is the single cache name for the groups collection.
func GroupsKey() string {
	return "groups"
}

// ArticlesKey builds the cache name for an article query. The name must
// be distinct per item type: datasets and software share the article
// endpoint but must never share a cache entry.
func ArticlesKey(itemType int) string {
	return "articles_recent_item_type_" + strconv.Itoa(itemType)
}
