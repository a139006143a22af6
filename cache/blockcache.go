package cache

// BlockCache is the L4 façade LevelDB calls "BlockCache": a single
// AdaptiveCache dedicated to one workload (typically decoded blocks keyed
// by file-offset). It exists mainly to give that workload a distinct,
// clearly-named type instead of a bare *AdaptiveCache, per spec §4.5.
type BlockCache struct {
	adaptive *AdaptiveCache
}

// NewBlockCache constructs a BlockCache with the given total capacity,
// split evenly between its real and ghost sides.
func NewBlockCache(capacity int64, opts ...Option) *BlockCache {
	return &BlockCache{adaptive: NewAdaptiveCache(capacity, opts...)}
}

// Insert records block into the cache under key, evicting into the ghost
// side as needed.
func (b *BlockCache) Insert(key []byte, value interface{}, charge int, deleter func([]byte, interface{})) *Handle {
	return b.adaptive.Insert(key, value, charge, deleter)
}

// InsertWithGhost exists to satisfy Cache; BlockCache always uses its own
// ghost side, so the supplied ghost is ignored.
func (b *BlockCache) InsertWithGhost(key []byte, value interface{}, charge int, ghost *ShardedCache, deleter func([]byte, interface{})) *Handle {
	return b.adaptive.InsertWithGhost(key, value, charge, ghost, deleter)
}

// Lookup is unsupported; see AdaptiveCache.Lookup. Use LookupGhost.
func (b *BlockCache) Lookup(key []byte) *Handle {
	return b.adaptive.Lookup(key)
}

// LookupGhost looks up key, reporting a ghost-hit charge on a ghost hit.
func (b *BlockCache) LookupGhost(key []byte) (h *Handle, ghostHit int) {
	return b.adaptive.LookupGhost(key)
}

// Release gives back a handle obtained from Insert or LookupGhost.
func (b *BlockCache) Release(h *Handle) {
	b.adaptive.Release(h)
}

// Value returns the value held by h.
func (b *BlockCache) Value(h *Handle) interface{} {
	return b.adaptive.Value(h)
}

// Erase is unsupported; see AdaptiveCache.Erase.
func (b *BlockCache) Erase(key []byte) {
	b.adaptive.Erase(key)
}

// NewID returns a process-scoped monotone id from the real side.
func (b *BlockCache) NewID() uint64 {
	return b.adaptive.NewID()
}

// Prune is unsupported; see AdaptiveCache.Prune.
func (b *BlockCache) Prune() {
	b.adaptive.Prune()
}

// TotalCharge is the combined real+ghost charge.
func (b *BlockCache) TotalCharge() int64 {
	return b.adaptive.TotalCharge()
}

// AdjustCapacity rebalances real vs ghost capacity, biased by the current
// ghost/real charge ratio; see AdaptiveCache.AdjustCapacity.
func (b *BlockCache) AdjustCapacity(delta int64) {
	b.adaptive.AdjustCapacity(delta)
}

// GetCapacity returns the real side's nominal capacity.
func (b *BlockCache) GetCapacity() int64 {
	return b.adaptive.GetCapacity()
}

// Adaptive exposes the underlying AdaptiveCache for collaborators that need
// direct access (e.g. a metrics exporter walking real/ghost charge).
func (b *BlockCache) Adaptive() *AdaptiveCache { return b.adaptive }

var _ Cache = (*BlockCache)(nil)
