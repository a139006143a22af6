package cache

import "sync"

// ShardedCache is the L2 component: an array of shards indexed by the top
// bits of a 32-bit hash, implementing Cache. It is the Go port of LevelDB's
// ShardedLRUCache (original_source/util/cache.cc).
type ShardedCache struct {
	shards    []*shard
	shardBits int

	idMu   sync.Mutex
	lastID uint64

	capMu    sync.Mutex
	capacity int64

	metrics Metrics
	hash    func(data []byte, seed uint32) uint32
}

// NewLRUCache constructs a sharded LRU cache with the given nominal total
// capacity (in charge units, typically bytes).
func NewLRUCache(capacity int64, opts ...Option) *ShardedCache {
	cfg := resolve(opts)
	n := 1 << cfg.shardBits

	c := &ShardedCache{
		shardBits: cfg.shardBits,
		shards:    make([]*shard, n),
		capacity:  capacity,
		metrics:   cfg.metrics,
		hash:      cfg.hash,
	}
	perShard := int(ceilDiv(capacity, int64(n)))
	for i := range c.shards {
		c.shards[i] = newShard(perShard, cfg.metrics)
	}
	return c
}

func ceilDiv(a, b int64) int64 {
	if b == 0 {
		return 0
	}
	return (a + b - 1) / b
}

func (c *ShardedCache) hashKey(key []byte) uint32 {
	return c.hash(key, 0)
}

func (c *ShardedCache) shardIndex(hash uint32) int {
	return int(hash >> (32 - uint(c.shardBits)))
}

func (c *ShardedCache) shardFor(hash uint32) *shard {
	return c.shards[c.shardIndex(hash)]
}

// Insert implements Cache.Insert.
func (c *ShardedCache) Insert(key []byte, value interface{}, charge int, deleter func([]byte, interface{})) *Handle {
	hash := c.hashKey(key)
	return c.shardFor(hash).insert(key, hash, value, charge, nil, deleter)
}

// InsertWithGhost implements Cache.InsertWithGhost: entries evicted to make
// room are recorded into ghost before being finish-erased locally.
func (c *ShardedCache) InsertWithGhost(key []byte, value interface{}, charge int, ghost *ShardedCache, deleter func([]byte, interface{})) *Handle {
	hash := c.hashKey(key)
	return c.shardFor(hash).insert(key, hash, value, charge, ghost, deleter)
}

// Lookup implements Cache.Lookup.
func (c *ShardedCache) Lookup(key []byte) *Handle {
	hash := c.hashKey(key)
	return c.shardFor(hash).lookup(key, hash)
}

// Release implements Cache.Release. The handle must have come from this
// same ShardedCache (releasing a foreign handle is a precondition
// violation; the hash recomputation below would route it to the wrong
// shard and corrupt that shard's bookkeeping, matching spec §7's
// "programmer error, not recovered" stance).
func (c *ShardedCache) Release(h *Handle) {
	hash := c.hash([]byte(h.e.key), 0)
	c.shardFor(hash).release(h)
}

// Value returns the value held by a handle obtained from this cache.
func (c *ShardedCache) Value(h *Handle) interface{} {
	return h.Value()
}

// Erase implements Cache.Erase.
func (c *ShardedCache) Erase(key []byte) {
	hash := c.hashKey(key)
	c.shardFor(hash).erase(key, hash)
}

// NewID implements Cache.NewID: a monotone counter behind its own mutex,
// independent of every shard lock.
func (c *ShardedCache) NewID() uint64 {
	c.idMu.Lock()
	defer c.idMu.Unlock()
	c.lastID++
	id := c.lastID
	c.metrics.NewID(id)
	return id
}

// Prune implements Cache.Prune.
func (c *ShardedCache) Prune() {
	for _, s := range c.shards {
		s.prune()
	}
}

// TotalCharge implements Cache.TotalCharge: a non-atomic sum across shards,
// which may observe concurrent updates mid-flight and is explicitly an
// estimate per spec §5.
func (c *ShardedCache) TotalCharge() int64 {
	var total int64
	for _, s := range c.shards {
		total += int64(s.totalCharge())
	}
	return total
}

// AdjustCapacity implements Cache.AdjustCapacity. On shrink, it refuses to
// take effect while the cache's current nominal capacity is already below
// minCapacity, guarding against pathological collapse under aggressive
// adaptive rebalancing (spec §4.3).
func (c *ShardedCache) AdjustCapacity(delta int64) {
	c.capMu.Lock()
	defer c.capMu.Unlock()
	if delta < 0 && c.capacity < minCapacity {
		return
	}
	perShard := int(delta / int64(len(c.shards)))
	for _, s := range c.shards {
		s.adjustCapacity(perShard)
	}
	c.capacity += delta
}

// GetCapacity returns the cache's current nominal capacity.
func (c *ShardedCache) GetCapacity() int64 {
	c.capMu.Lock()
	defer c.capMu.Unlock()
	return c.capacity
}

var _ Cache = (*ShardedCache)(nil)
