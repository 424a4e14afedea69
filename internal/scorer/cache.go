package scorer

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"maps"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/sells-group/water-intel/internal/model"
)

// cacheKey identifies one scoring call: the model plus every attribute the
// prompt embeds. A changed attribute yields a new key.
func cacheKey(modelID string, a model.DistrictAttributes) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s\x00%s\x00%d\x00%d\x00%s\x00%d\x00%s",
		modelID, a.Name, a.Budget, a.CitiesServed, a.APLAlignment, a.ProjectActivity, a.InternalSupport)
	return hex.EncodeToString(h.Sum(nil))
}

// scoreCache is a thread-safe LRU of successful results with a TTL. It keeps
// at most one entry per district name: storing a result under a new key
// evicts the district's stale entry.
type scoreCache struct {
	maxEntries int
	ttl        time.Duration
	clock      clockwork.Clock

	mu      sync.Mutex
	entries map[string]*cacheEntry
	byName  map[string]*cacheEntry
	head    *cacheEntry // most recently used
	tail    *cacheEntry // least recently used
}

type cacheEntry struct {
	key      string
	district string
	value    model.ScoreResult
	expires  time.Time
	prev     *cacheEntry
	next     *cacheEntry
}

func newScoreCache(maxEntries int, ttl time.Duration, clock clockwork.Clock) *scoreCache {
	return &scoreCache{
		maxEntries: maxEntries,
		ttl:        ttl,
		clock:      clock,
		entries:    make(map[string]*cacheEntry),
		byName:     make(map[string]*cacheEntry),
	}
}

func (c *scoreCache) enabled() bool {
	return c != nil && c.maxEntries > 0 && c.ttl > 0
}

func (c *scoreCache) get(key string) (model.ScoreResult, bool) {
	if !c.enabled() {
		return model.ScoreResult{}, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return model.ScoreResult{}, false
	}
	if !c.clock.Now().Before(e.expires) {
		c.drop(e)
		return model.ScoreResult{}, false
	}
	c.moveToFront(e)
	return cloneResult(e.value), true
}

func (c *scoreCache) put(key, district string, value model.ScoreResult) {
	if !c.enabled() {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if stale, ok := c.byName[district]; ok && stale.key != key {
		c.drop(stale)
	}

	expires := c.clock.Now().Add(c.ttl)
	if e, ok := c.entries[key]; ok {
		e.value = cloneResult(value)
		e.expires = expires
		c.moveToFront(e)
		return
	}

	e := &cacheEntry{key: key, district: district, value: cloneResult(value), expires: expires}
	c.entries[key] = e
	c.byName[district] = e
	c.addToFront(e)

	if len(c.entries) > c.maxEntries {
		c.drop(c.tail)
	}
}

// evictStale drops the district's entry when it was stored under a key other
// than key, i.e. for an older attribute bundle.
func (c *scoreCache) evictStale(district, key string) {
	if !c.enabled() {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.byName[district]; ok && e.key != key {
		c.drop(e)
	}
}

// invalidate removes the cached result for a district, if any.
func (c *scoreCache) invalidate(district string) {
	if !c.enabled() {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.byName[district]; ok {
		c.drop(e)
	}
}

func (c *scoreCache) len() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *scoreCache) drop(e *cacheEntry) {
	if e == nil {
		return
	}
	delete(c.entries, e.key)
	if c.byName[e.district] == e {
		delete(c.byName, e.district)
	}
	c.remove(e)
}

func (c *scoreCache) moveToFront(e *cacheEntry) {
	if e == c.head {
		return
	}
	c.remove(e)
	c.addToFront(e)
}

func (c *scoreCache) addToFront(e *cacheEntry) {
	e.next = c.head
	e.prev = nil
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *scoreCache) remove(e *cacheEntry) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
	e.prev, e.next = nil, nil
}

func cloneResult(r model.ScoreResult) model.ScoreResult {
	r.Breakdown = maps.Clone(r.Breakdown)
	return r
}
