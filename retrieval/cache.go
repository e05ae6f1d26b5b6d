package retrieval

import (
	"time"

	"github.com/archiva-systems/docbase/core"
	"github.com/dgraph-io/ristretto/v2"
)

// answerCache retains recent successful answers so a rate-limited generator
// degrades to serving slightly stale answers instead of failing queries.
// The retention bound is a tunable, not a contract.
type answerCache struct {
	cache *ristretto.Cache[string, core.Answer]
	ttl   time.Duration
}

func newAnswerCache(ttl time.Duration) (*answerCache, error) {
	cache, err := ristretto.NewCache(&ristretto.Config[string, core.Answer]{
		NumCounters: 10_000,
		MaxCost:     1 << 24, // 16 MiB of answer text
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return &answerCache{cache: cache, ttl: ttl}, nil
}

// key builds the cache key from the normalized query, the owner and the
// scope filter. Owner is part of the key so cached answers never cross
// owner boundaries.
func (c *answerCache) key(owner core.OwnerID, query, scope string) string {
	return string(owner) + "\x00" + scope + "\x00" + normalizeQuery(query)
}

func (c *answerCache) get(owner core.OwnerID, query, scope string) (core.Answer, bool) {
	return c.cache.Get(c.key(owner, query, scope))
}

func (c *answerCache) put(owner core.OwnerID, query, scope string, answer core.Answer) {
	cost := int64(len(answer.Text)) + 64
	c.cache.SetWithTTL(c.key(owner, query, scope), answer, cost, c.ttl)
	c.cache.Wait()
}

func (c *answerCache) close() {
	c.cache.Close()
}
