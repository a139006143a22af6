package cache

import "testing"

// Scenario 1: hit/miss basic.
func TestScenario_HitMissBasic(t *testing.T) {
	t.Parallel()

	c := NewLRUCache(1000)
	h := c.Insert([]byte("a"), "v1", 100, nil)
	c.Release(h)

	got := c.Lookup([]byte("a"))
	if got == nil {
		t.Fatal("expected hit for a")
	}
	if got.Value() != "v1" {
		t.Fatalf("value = %v, want v1", got.Value())
	}
	c.Release(got)

	if tc := c.TotalCharge(); tc != 100 {
		t.Fatalf("TotalCharge = %d, want 100", tc)
	}
}

// Scenario 2: eviction. capacity=200, three 100-charge entries inserted and
// released immediately; the oldest (a) is evicted, its deleter runs exactly
// once, and the remaining two entries sum to the full capacity.
func TestScenario_Eviction(t *testing.T) {
	t.Parallel()

	c := NewLRUCache(200, WithShardBits(0)) // single shard: deterministic LRU order

	var aDeletes int
	ha := c.Insert([]byte("a"), 1, 100, func(key []byte, value interface{}) { aDeletes++ })
	c.Release(ha)
	hb := c.Insert([]byte("b"), 2, 100, nil)
	c.Release(hb)
	hc := c.Insert([]byte("c"), 3, 100, nil)
	c.Release(hc)

	if got := c.Lookup([]byte("a")); got != nil {
		t.Fatal("a should have been evicted")
		c.Release(got)
	}
	if got := c.Lookup([]byte("b")); got == nil {
		t.Fatal("b should still hit")
	} else {
		c.Release(got)
	}
	if got := c.Lookup([]byte("c")); got == nil {
		t.Fatal("c should still hit")
	} else {
		c.Release(got)
	}
	if tc := c.TotalCharge(); tc != 200 {
		t.Fatalf("TotalCharge = %d, want 200", tc)
	}
	if aDeletes != 1 {
		t.Fatalf("a's deleter ran %d times, want 1", aDeletes)
	}
}

// Scenario 3: pinning prevents eviction. An outstanding handle (refs>=2)
// keeps its entry off the LRU list, so it survives inserts that would
// otherwise have evicted it, and usage may briefly overshoot capacity.
func TestScenario_PinningPreventsEviction(t *testing.T) {
	t.Parallel()

	c := NewLRUCache(200, WithShardBits(0))

	ha := c.Insert([]byte("a"), 1, 100, nil) // keep ha outstanding: refs=2
	hb := c.Insert([]byte("b"), 2, 100, nil) // hb and hc stay outstanding too,
	hc := c.Insert([]byte("c"), 3, 100, nil) // so the LRU list stays empty

	if got := c.Lookup([]byte("a")); got == nil {
		t.Fatal("a must survive while pinned")
	} else {
		c.Release(got)
	}
	if tc := c.TotalCharge(); tc != 300 {
		t.Fatalf("TotalCharge = %d, want 300 (a pinned, nothing evictable)", tc)
	}

	c.Release(ha) // a drops to refs=1, rejoins the LRU list as evictable

	hd := c.Insert([]byte("d"), 4, 100, nil)
	c.Release(hd)

	if got := c.Lookup([]byte("a")); got != nil {
		t.Fatal("a should now be evictable and gone")
		c.Release(got)
	}

	c.Release(hb)
	c.Release(hc)
}

// Scenario 4: erase with an outstanding handle. The entry is detached from
// the cache's own bookkeeping immediately, but the client's handle still
// observes the value until it releases, at which point the deleter runs.
func TestScenario_EraseWithOutstandingHandle(t *testing.T) {
	t.Parallel()

	c := NewLRUCache(1000)
	var deleted bool
	h := c.Insert([]byte("a"), 1, 100, func(key []byte, value interface{}) { deleted = true })

	c.Erase([]byte("a"))

	if got := c.Lookup([]byte("a")); got != nil {
		t.Fatal("a must be absent from lookup after erase")
		c.Release(got)
	}
	if h.Value() != 1 {
		t.Fatalf("outstanding handle value = %v, want 1", h.Value())
	}
	if deleted {
		t.Fatal("deleter must not run while the handle is still outstanding")
	}

	c.Release(h)
	if !deleted {
		t.Fatal("deleter must run once the outstanding handle is released")
	}
}

// Scenario 5: reinserting a key whose prior handle has already been
// released erases the old entry (running its deleter exactly once) and
// makes the new value visible.
func TestScenario_ReinsertDuplicateKey(t *testing.T) {
	t.Parallel()

	c := NewLRUCache(1000)
	var v1Deletes int
	h1 := c.Insert([]byte("a"), "v1", 10, func(key []byte, value interface{}) { v1Deletes++ })
	c.Release(h1)

	h2 := c.Insert([]byte("a"), "v2", 20, nil)
	c.Release(h2)

	got := c.Lookup([]byte("a"))
	if got == nil || got.Value() != "v2" {
		t.Fatalf("lookup a = %v, want v2", got)
	}
	c.Release(got)

	if v1Deletes != 1 {
		t.Fatalf("v1's deleter ran %d times, want 1", v1Deletes)
	}
}

// Scenario 6: ghost hit + adapt. Inserting enough entries to evict the
// first key leaves its key recorded in the ghost side; looking it up
// reports the ghost-hit charge instead of a handle, and feeding the
// adaptive rebalance accumulator past the threshold grows real capacity
// when ghost has accumulated charge.
func TestScenario_GhostHitAndAdapt(t *testing.T) {
	t.Parallel()

	a := NewAdaptiveCache(400, WithShardBits(0)) // real=200, ghost=200

	var firstKey = []byte("k0")
	for i := 0; i < 5; i++ {
		key := []byte{byte('k'), byte('0' + i)}
		h := a.Insert(key, i, 50, nil)
		a.Release(h)
	}

	got, ghostHit := a.LookupGhost(firstKey)
	if got != nil {
		t.Fatal("first key should have been evicted from real")
		a.Release(got)
	}
	if ghostHit != 50 {
		t.Fatalf("ghostHit = %d, want 50", ghostHit)
	}

	realBefore := a.GetCapacity()
	a.AdjustCapacity(5000)
	if a.GetCapacity() <= realBefore {
		t.Fatalf("real capacity should strictly increase: before=%d after=%d", realBefore, a.GetCapacity())
	}
}
