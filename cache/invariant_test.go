package cache

import (
	"fmt"
	"testing"
)

// walkShard collects every entry currently reachable from s's hash table,
// for invariant checks that need to look inside the black box.
func walkShard(s *shard) []*entry {
	var out []*entry
	for _, head := range s.table.buckets {
		for e := head; e != nil; e = e.nextHash {
			out = append(out, e)
		}
	}
	return out
}

func onList(list *entry, e *entry) bool {
	for n := list.next; n != list; n = n.next {
		if n == e {
			return true
		}
	}
	return false
}

// Invariant 1 & 5: sum of charge over in_cache entries equals usage.
func TestInvariant_ChargeSumEqualsUsage(t *testing.T) {
	t.Parallel()

	c := NewLRUCache(10_000, WithShardBits(0))
	s := c.shards[0]

	var handles []*Handle
	for i := 0; i < 50; i++ {
		key := []byte(fmt.Sprintf("k%d", i))
		h := c.Insert(key, i, (i%7)+1, nil)
		if i%3 == 0 {
			handles = append(handles, h) // keep a third of the handles pinned
		} else {
			c.Release(h)
		}
	}

	s.mu.Lock()
	var sum int
	for _, e := range walkShard(s) {
		if e.inCache {
			sum += e.charge
		}
	}
	if sum != s.usage {
		t.Fatalf("sum of in_cache charges = %d, usage = %d", sum, s.usage)
	}
	s.mu.Unlock()

	for _, h := range handles {
		c.Release(h)
	}
}

// Invariant 2 & 3: in_cache implies refs>=1 and membership on exactly one
// of {lru, inUse}, on the list matching its refs count.
func TestInvariant_RefsAndListMembership(t *testing.T) {
	t.Parallel()

	c := NewLRUCache(10_000, WithShardBits(0))
	s := c.shards[0]

	h1 := c.Insert([]byte("pinned"), 1, 1, nil) // keep outstanding: refs=2
	h2 := c.Insert([]byte("idle"), 2, 1, nil)
	c.Release(h2) // refs=1

	s.mu.Lock()
	for _, e := range walkShard(s) {
		if !e.inCache {
			continue
		}
		if e.refs < 1 {
			t.Fatalf("in_cache entry %q has refs=%d", e.key, e.refs)
		}
		onLRU := onList(&s.lru, e)
		onInUse := onList(&s.inUse, e)
		if onLRU == onInUse {
			t.Fatalf("entry %q must be on exactly one list, lru=%v inUse=%v", e.key, onLRU, onInUse)
		}
		switch {
		case e.refs == 1 && !onLRU:
			t.Fatalf("entry %q has refs=1 but is not on the lru list", e.key)
		case e.refs >= 2 && !onInUse:
			t.Fatalf("entry %q has refs=%d but is not on the inUse list", e.key, e.refs)
		}
	}
	s.mu.Unlock()

	c.Release(h1)
}

// Invariant 6: every entry's deleter is called exactly once over a mixed
// sequence of inserts, reinserts, erases, evictions, and releases.
func TestInvariant_DeleterRunsExactlyOnce(t *testing.T) {
	t.Parallel()

	c := NewLRUCache(300, WithShardBits(0)) // small: forces eviction
	counts := map[string]int{}

	makeDeleter := func(key string) func([]byte, interface{}) {
		return func(_ []byte, _ interface{}) { counts[key]++ }
	}

	var outstanding []*Handle
	for i := 0; i < 20; i++ {
		key := fmt.Sprintf("k%d", i) // one entry per key: each deleter must fire exactly once
		h := c.Insert([]byte(key), i, 50, makeDeleter(key))
		if i%4 == 0 {
			outstanding = append(outstanding, h)
		} else {
			c.Release(h)
		}
	}
	for _, h := range outstanding {
		c.Release(h)
	}
	c.Prune() // flush everything still only cache-referenced

	if len(counts) != 20 {
		t.Fatalf("got deleter calls for %d distinct keys, want 20", len(counts))
	}
	for key, n := range counts {
		if n != 1 {
			t.Fatalf("deleter for %q ran %d times, want exactly 1", key, n)
		}
	}
}

// Law: lookup presence tracks insert/erase/eviction history for a key that
// never overflows capacity.
func TestInvariant_LookupPresenceTracksHistory(t *testing.T) {
	t.Parallel()

	c := NewLRUCache(1000)

	if got := c.Lookup([]byte("x")); got != nil {
		t.Fatal("x must be absent before any insert")
		c.Release(got)
	}

	h := c.Insert([]byte("x"), 1, 10, nil)
	c.Release(h)
	if got := c.Lookup([]byte("x")); got == nil {
		t.Fatal("x must be present after insert")
	} else {
		c.Release(got)
	}

	c.Erase([]byte("x"))
	if got := c.Lookup([]byte("x")); got != nil {
		t.Fatal("x must be absent after erase")
		c.Release(got)
	}

	h2 := c.Insert([]byte("x"), 2, 10, nil)
	c.Release(h2)
	if got := c.Lookup([]byte("x")); got == nil {
		t.Fatal("x must be present again after reinsert")
	} else {
		c.Release(got)
	}
}
