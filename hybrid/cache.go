package hybrid

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/outfield/retriever/core"
)

// responseCache is an expiring LRU over complete hybrid responses,
// keyed by a digest of the query and every option that influences the
// result set.
type responseCache struct {
	entries *expirable.LRU[string, *core.HybridResponse]
}

func newResponseCache(size int, ttl time.Duration) *responseCache {
	return &responseCache{
		entries: expirable.NewLRU[string, *core.HybridResponse](size, nil, ttl),
	}
}

// key digests the query together with the merge and lexical options.
// Two requests share a cache entry only when every option matches.
func (c *responseCache) key(query string, opts Options) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s\x00%s\x00%g\x00%g\x00%g\x00%d\x00%+v",
		query, opts.Strategy, opts.TraditionalWeight, opts.VectorWeight,
		opts.MinCombinedScore, opts.MaxResults, opts.Lexical)
	return hex.EncodeToString(h.Sum(nil))
}

func (c *responseCache) get(key string) (*core.HybridResponse, bool) {
	return c.entries.Get(key)
}

func (c *responseCache) put(key string, response *core.HybridResponse) {
	c.entries.Add(key, response)
}
