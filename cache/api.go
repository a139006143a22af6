// Package cache provides a sharded, reference-counted LRU cache with an
// adaptive ghost-list extension (ARC-style), plus two compound cache types
// (BlockCache and PointCache) that split a capacity budget between
// cooperating workloads. It is the core of an embedded key-value storage
// engine's in-memory cache.
//
// Design
//
//   - Concurrency: ShardedCache splits its capacity across 16 independent
//     shards, each protected by its own sync.Mutex. Shard selection uses
//     the top 4 bits of a 32-bit hash, not the usual low-bit mask, so that
//     hash-table bucket placement (low bits) and shard placement (high
//     bits) draw on independent entropy from the same hash value.
//
//   - Reference counting: every entry tracks refs and inCache. An entry
//     the cache itself is holding moves between an lru list (refs==1) and
//     an inUse list (refs>=2) as clients acquire and release handles.
//     Erasing a key, or evicting it for space, detaches the entry from the
//     cache's own bookkeeping but leaves it alive for as long as any
//     client handle remains outstanding.
//
//   - Ghost cache / ARC: AdaptiveCache wraps two ShardedCaches of equal
//     capacity, real and ghost. Evictions from real are recorded into
//     ghost (key only, value is the evicted charge). A Lookup that misses
//     real but hits ghost reports a "ghost hit" carrying that charge,
//     which is the adaptive policy's signal to rebalance capacity toward
//     whichever side is currently fuller.
//
//   - BlockCache is a thin façade over one AdaptiveCache; PointCache holds
//     two (key->value and key->pointer) and rebalances between them.
//
// Basic usage
//
//	c := cache.NewLRUCache(64 << 20) // 64 MiB
//	h := c.Insert([]byte("a"), []byte("1"), 1, nil)
//	defer c.Release(h)
//	if got := c.Lookup([]byte("a")); got != nil {
//	    defer c.Release(got)
//	    _ = got.Value()
//	}
//
// See DESIGN.md for the grounding ledger and Open-Question decisions.
package cache

// EvictReason explains why an entry left a shard's bookkeeping.
type EvictReason int

const (
	// EvictCapacity — removed by the LRU eviction loop to satisfy capacity.
	EvictCapacity EvictReason = iota
	// EvictErase — removed by an explicit Erase call.
	EvictErase
	// EvictPrune — removed by Prune, which clears the whole lru list.
	EvictPrune
)

// Cache is the base contract every cache variant in this package satisfies
// (directly, for ShardedCache; transitively, for the compound types). It
// mirrors spec §6's external interface verbatim.
type Cache interface {
	// Insert adds key->value with the given charge against capacity.
	// Returns a handle the caller must Release exactly once. When the
	// entry is no longer needed by anyone, deleter (if non-nil) runs
	// with the original key and value.
	Insert(key []byte, value interface{}, charge int, deleter func(key []byte, value interface{})) *Handle

	// InsertWithGhost behaves like Insert, except that any entry evicted
	// to make room is first recorded into ghost (see AdaptiveCache).
	InsertWithGhost(key []byte, value interface{}, charge int, ghost *ShardedCache, deleter func(key []byte, value interface{})) *Handle

	// Lookup returns a handle for key, or nil if key is absent.
	Lookup(key []byte) *Handle

	// Release gives back a handle obtained from Insert or Lookup on this
	// cache. Calling Release twice on the same handle is a precondition
	// violation and is not guarded against.
	Release(h *Handle)

	// Value returns the value encapsulated in a handle returned by a
	// successful Insert or Lookup on this cache. Equivalent to h.Value();
	// kept on the interface so callers coding against Cache never need to
	// reach into the concrete handle type.
	Value(h *Handle) interface{}

	// Erase removes key's entry from the cache immediately, though the
	// underlying entry survives until every outstanding handle to it is
	// released.
	Erase(key []byte)

	// NewID returns a process-scoped monotonically increasing id, useful
	// for namespacing keys shared by multiple collaborators.
	NewID() uint64

	// Prune evicts every entry that is not currently referenced by a
	// client handle.
	Prune()

	// TotalCharge is a non-atomic estimate of the combined charge of all
	// resident entries.
	TotalCharge() int64

	// AdjustCapacity changes capacity by delta, which may be negative.
	AdjustCapacity(delta int64)
}
