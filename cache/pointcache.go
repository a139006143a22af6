package cache

import "sync"

// PointCache is the L4 compound type holding two AdaptiveCaches that share
// one capacity budget: kv (key -> value) and kp (key -> pointer/index
// entry). It rebalances the split between them by the ratio of their total
// charges, gated by the same accumulate-then-threshold mechanism
// AdaptiveCache uses internally for real/ghost.
type PointCache struct {
	kv, kp *AdaptiveCache

	mu          sync.Mutex
	accumulated int64
}

// NewPointCache constructs a PointCache with capacity split evenly between
// the kv and kp sides.
func NewPointCache(capacity int64, opts ...Option) *PointCache {
	half := capacity / 2
	return &PointCache{
		kv: NewAdaptiveCache(half, opts...),
		kp: NewAdaptiveCache(half, opts...),
	}
}

// InsertKV inserts into the key->value side.
func (p *PointCache) InsertKV(key []byte, value interface{}, charge int, deleter func([]byte, interface{})) *Handle {
	return p.kv.Insert(key, value, charge, deleter)
}

// InsertKP inserts into the key->pointer side.
func (p *PointCache) InsertKP(key []byte, value interface{}, charge int, deleter func([]byte, interface{})) *Handle {
	return p.kp.Insert(key, value, charge, deleter)
}

// LookupKV looks up key on the key->value side, reporting a ghost-hit
// charge on a ghost hit.
func (p *PointCache) LookupKV(key []byte) (h *Handle, ghostHit int) {
	return p.kv.LookupGhost(key)
}

// LookupKP looks up key on the key->pointer side, reporting a ghost-hit
// charge on a ghost hit.
func (p *PointCache) LookupKP(key []byte) (h *Handle, ghostHit int) {
	return p.kp.LookupGhost(key)
}

// ReleaseKV gives back a handle obtained from InsertKV or LookupKV.
func (p *PointCache) ReleaseKV(h *Handle) { p.kv.Release(h) }

// ReleaseKP gives back a handle obtained from InsertKP or LookupKP.
func (p *PointCache) ReleaseKP(h *Handle) { p.kp.Release(h) }

// ValueKV returns the value held by a kv-side handle.
func (p *PointCache) ValueKV(h *Handle) interface{} { return p.kv.Value(h) }

// ValueKP returns the value held by a kp-side handle.
func (p *PointCache) ValueKP(h *Handle) interface{} { return p.kp.Value(h) }

// TotalCharge is the combined charge across both sides (each side's
// real+ghost charge included).
func (p *PointCache) TotalCharge() int64 {
	return p.kv.TotalCharge() + p.kp.TotalCharge()
}

// TotalKVCharge is the kv side's combined real+ghost charge.
func (p *PointCache) TotalKVCharge() int64 { return p.kv.TotalCharge() }

// TotalKPCharge is the kp side's combined real+ghost charge.
func (p *PointCache) TotalKPCharge() int64 { return p.kp.TotalCharge() }

// AdjustCapacity accumulates delta and, once its magnitude crosses
// adaptiveThreshold, splits it between kv and kp in proportion to
// TotalKVCharge()/TotalKPCharge(). When kp is empty the split defaults to
// even, since a zero denominator carries no signal about which side needs
// more room. As with AdaptiveCache.AdjustCapacity, kpDelta is computed from
// the float ratio and kvDelta takes the exact remainder, so the two always
// sum to the accumulated delta.
func (p *PointCache) AdjustCapacity(delta int64) {
	p.mu.Lock()
	p.accumulated += delta
	if p.accumulated <= adaptiveThreshold && p.accumulated >= -adaptiveThreshold {
		p.mu.Unlock()
		return
	}
	acc := p.accumulated
	p.accumulated = 0
	p.mu.Unlock()

	kvCharge := p.kv.TotalCharge()
	kpCharge := p.kp.TotalCharge()
	if kpCharge == 0 {
		half := acc / 2
		p.kv.AdjustCapacity(acc - half)
		p.kp.AdjustCapacity(half)
		return
	}
	ratio := float64(kvCharge) / float64(kpCharge)
	kpDelta := int64(float64(acc) / (ratio + 1.0))
	kvDelta := acc - kpDelta
	p.kv.AdjustCapacity(kvDelta)
	p.kp.AdjustCapacity(kpDelta)
}

// AdjustKVCapacity adjusts only the kv side's capacity, bypassing the
// accumulated-rebalance mechanism. Useful for tests and for a caller that
// wants to set up an initial asymmetric split before any traffic arrives.
func (p *PointCache) AdjustKVCapacity(delta int64) { p.kv.AdjustCapacity(delta) }

// AdjustKPCapacity adjusts only the kp side's capacity.
func (p *PointCache) AdjustKPCapacity(delta int64) { p.kp.AdjustCapacity(delta) }

// GetKVCapacity returns the kv side's nominal capacity.
func (p *PointCache) GetKVCapacity() int64 { return p.kv.GetCapacity() }

// GetKPCapacity returns the kp side's nominal capacity.
func (p *PointCache) GetKPCapacity() int64 { return p.kp.GetCapacity() }

// KVCache exposes the underlying kv AdaptiveCache.
func (p *PointCache) KVCache() *AdaptiveCache { return p.kv }

// KPCache exposes the underlying kp AdaptiveCache.
func (p *PointCache) KPCache() *AdaptiveCache { return p.kp }
