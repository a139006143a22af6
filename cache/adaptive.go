package cache

import (
	"fmt"
	"sync"
)

// AdaptiveCache is the L3 component: a real ShardedCache backed by a ghost
// ShardedCache of equal initial capacity. Lookups that miss real but hit
// ghost report a ghost-hit charge, which AdjustCapacity's caller uses to
// bias capacity toward whichever side the working set has shifted to.
//
// Erase, Prune, and the ghost-hit-less Lookup are unsupported here — they
// panic, matching spec §4.4 and §7 ("programmer error, abort").
type AdaptiveCache struct {
	real, ghost *ShardedCache
	metrics     Metrics

	mu          sync.Mutex
	accumulated int64
}

// NewAdaptiveCache constructs an AdaptiveCache with capacity split evenly
// between the real and ghost sides.
func NewAdaptiveCache(capacity int64, opts ...Option) *AdaptiveCache {
	cfg := resolve(opts)
	half := capacity / 2
	return &AdaptiveCache{
		real:    NewLRUCache(half, opts...),
		ghost:   NewLRUCache(half, opts...),
		metrics: cfg.metrics,
	}
}

// Insert delegates to real.InsertWithGhost(..., a.ghost, ...): anything
// evicted from real to make room is recorded into ghost.
func (a *AdaptiveCache) Insert(key []byte, value interface{}, charge int, deleter func([]byte, interface{})) *Handle {
	return a.real.InsertWithGhost(key, value, charge, a.ghost, deleter)
}

// InsertWithGhost is not meaningful on an AdaptiveCache — it already always
// inserts with its own ghost. Present only to satisfy the Cache interface;
// it forwards to Insert and ignores the supplied ghost.
func (a *AdaptiveCache) InsertWithGhost(key []byte, value interface{}, charge int, _ *ShardedCache, deleter func([]byte, interface{})) *Handle {
	return a.Insert(key, value, charge, deleter)
}

// LookupGhost probes real first; on a miss it probes ghost and, if found,
// returns (nil, chargeRecordedAtEviction). On a real hit it returns
// (handle, 0). This is the ARC-aware lookup named `Lookup(key, &ghostHit)`
// in spec §4.4 and §6 — renamed to avoid colliding with the single-value
// Lookup the Cache interface requires (and which this type deliberately
// does not support; see Lookup below).
func (a *AdaptiveCache) LookupGhost(key []byte) (h *Handle, ghostHit int) {
	if h := a.real.Lookup(key); h != nil {
		return h, 0
	}
	if gh := a.ghost.Lookup(key); gh != nil {
		charge := gh.Value().(int)
		a.ghost.Release(gh)
		a.metrics.GhostHit(charge)
		return nil, charge
	}
	return nil, 0
}

// Release forwards to the real cache, which owns the handle's shard.
func (a *AdaptiveCache) Release(h *Handle) {
	a.real.Release(h)
}

// Value forwards to the real cache.
func (a *AdaptiveCache) Value(h *Handle) interface{} {
	return a.real.Value(h)
}

// NewID forwards to the real cache's id counter.
func (a *AdaptiveCache) NewID() uint64 {
	return a.real.NewID()
}

// TotalCharge is the combined charge of both the real and ghost sides.
func (a *AdaptiveCache) TotalCharge() int64 {
	return a.real.TotalCharge() + a.ghost.TotalCharge()
}

// TotalRealCharge is the real side's charge alone.
func (a *AdaptiveCache) TotalRealCharge() int64 { return a.real.TotalCharge() }

// TotalGhostCharge is the ghost side's charge alone.
func (a *AdaptiveCache) TotalGhostCharge() int64 { return a.ghost.TotalCharge() }

// AdjustCapacity accumulates delta under a.mu; once the accumulated
// magnitude crosses adaptiveThreshold, it resets the accumulator and splits
// it between ghost and real in proportion to how full the ghost side
// currently is relative to real (ratio = ghost/real), which biases growth
// toward whichever side the working set has shifted into. The two pieces
// always sum to exactly the accumulated delta (realDelta is the exact
// remainder, not a second rounded division), resolving the "modulo
// rounding" ambiguity spec §8 leaves open.
func (a *AdaptiveCache) AdjustCapacity(delta int64) {
	a.mu.Lock()
	a.accumulated += delta
	if a.accumulated <= adaptiveThreshold && a.accumulated >= -adaptiveThreshold {
		a.mu.Unlock()
		return
	}
	acc := a.accumulated
	a.accumulated = 0
	a.mu.Unlock()

	realCharge := a.real.TotalCharge()
	ghostCharge := a.ghost.TotalCharge()
	if realCharge == 0 {
		// Nothing real to compare against yet; give everything to real so
		// it has a chance to warm up rather than dividing by zero.
		a.real.AdjustCapacity(acc)
		return
	}
	ratio := float64(ghostCharge) / float64(realCharge)
	ghostDelta := int64(float64(acc) * ratio / (ratio + 1.0))
	realDelta := acc - ghostDelta
	a.ghost.AdjustCapacity(ghostDelta)
	a.real.AdjustCapacity(realDelta)
}

// GetCapacity returns the real side's nominal capacity.
func (a *AdaptiveCache) GetCapacity() int64 { return a.real.GetCapacity() }

// RealCache exposes the underlying real ShardedCache, e.g. for a
// collaborator that wants to bypass the ghost mechanism entirely.
func (a *AdaptiveCache) RealCache() *ShardedCache { return a.real }

// GhostCache exposes the underlying ghost ShardedCache.
func (a *AdaptiveCache) GhostCache() *ShardedCache { return a.ghost }

// Lookup is unsupported on AdaptiveCache: per spec §4.4, a plain
// single-return Lookup throws away the ghost-hit signal the adaptive
// policy depends on, and is therefore a programming error here. Use
// LookupGhost instead.
func (a *AdaptiveCache) Lookup(key []byte) *Handle {
	panic("cache: AdaptiveCache.Lookup is unsupported; use LookupGhost")
}

// Erase is unsupported on AdaptiveCache (spec §4.4, §7).
func (a *AdaptiveCache) Erase(key []byte) {
	panic(fmt.Sprintf("cache: AdaptiveCache.Erase is unsupported (key %q)", key))
}

// Prune is unsupported on AdaptiveCache (spec §4.4, §7).
func (a *AdaptiveCache) Prune() {
	panic("cache: AdaptiveCache.Prune is unsupported")
}

var _ Cache = (*AdaptiveCache)(nil)
