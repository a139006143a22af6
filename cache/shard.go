package cache

import (
	"sync"

	"github.com/kvengine/arccache/internal/util"
)

// shard is a single independent LRU core: one lock, one hash table, and two
// intrusive circular lists (lru, inUse). It is the Go port of LevelDB's
// LRUCache (original_source/util/cache.cc) generalized to carry a ghost
// parameter on insertWithGhost and to report through a Metrics collaborator.
type shard struct {
	mu sync.Mutex

	capacity int
	usage    int
	table    *handleTable

	// Dummy list heads. lru.prev is newest, lru.next is oldest (entries with
	// refs==1 and inCache==true). inUse holds entries with refs>=2.
	lru   entry
	inUse entry

	metrics Metrics

	_      util.CacheLinePad
	hits   util.PaddedAtomicInt64
	misses util.PaddedAtomicInt64
	evicts util.PaddedAtomicUint64
}

func newShard(capacity int, metrics Metrics) *shard {
	s := &shard{
		capacity: capacity,
		table:    newHandleTable(),
		metrics:  metrics,
	}
	s.lru.next, s.lru.prev = &s.lru, &s.lru
	s.inUse.next, s.inUse.prev = &s.inUse, &s.inUse
	return s
}

// insert implements spec §4.2's insert (ghost == nil) and insertWithGhost
// (ghost != nil) in one function, matching the single recursive shape of
// the two near-identical overloads in the C++ original.
func (s *shard) insert(key []byte, hash uint32, value interface{}, charge int, ghost *ShardedCache, deleter func([]byte, interface{})) *Handle {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := &entry{
		key:     string(key),
		hash:    hash,
		value:   value,
		charge:  charge,
		deleter: deleter,
		refs:    1, // for the handle we are about to return
	}

	if s.capacity > 0 {
		e.refs++ // for the cache's own reference
		e.inCache = true
		s.listAppend(&s.inUse, e)
		s.usage += charge
		s.finishErase(s.table.insert(e))
	} else {
		// capacity == 0 shards are pure allocators: never cached.
		e.next = nil
	}

	for s.usage > s.capacity && s.lru.next != &s.lru {
		old := s.lru.next
		if ghost != nil {
			s.recordGhost(old, ghost)
		}
		s.finishErase(s.table.remove([]byte(old.key), old.hash))
		s.evicts.Add(1)
		s.metrics.Evict(EvictCapacity)
	}

	s.metrics.Size(int64(s.usage), int64(s.capacity))
	return &Handle{e: e}
}

// recordGhost copies an about-to-be-evicted entry's key into the ghost
// cache, carrying its original charge as the recorded payload (boxed int,
// mirroring the C++ `new int(old->charge)`). The ghost handle is released
// immediately: only the ghost cache's own in-cache reference survives.
func (s *shard) recordGhost(old *entry, ghost *ShardedCache) {
	gh := ghost.Insert([]byte(old.key), old.charge, 1, nil)
	ghost.Release(gh)
}

func (s *shard) lookup(key []byte, hash uint32) *Handle {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.table.lookup(key, hash)
	if e == nil {
		s.misses.Add(1)
		s.metrics.Miss()
		return nil
	}
	s.ref(e)
	s.hits.Add(1)
	s.metrics.Hit()
	return &Handle{e: e}
}

func (s *shard) release(h *Handle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.unref(h.e)
}

func (s *shard) erase(key []byte, hash uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.finishErase(s.table.remove(key, hash))
}

// prune evicts every entry on the lru list (those with no outstanding
// client reference). Entries on the inUse list are left untouched.
func (s *shard) prune() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for s.lru.next != &s.lru {
		e := s.lru.next
		s.finishErase(s.table.remove([]byte(e.key), e.hash))
		s.evicts.Add(1)
		s.metrics.Evict(EvictPrune)
	}
}

func (s *shard) totalCharge() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.usage
}

// adjustCapacity adds delta (possibly negative) to the shard's capacity.
// On shrink, no synchronous eviction happens here; the next insert that
// drives usage above the new capacity performs the trim. This lazy-shrink
// behavior is intentional (spec §4.2).
func (s *shard) adjustCapacity(delta int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.capacity += delta
}

// -------------------- internals (mu held) --------------------

func (s *shard) listRemove(e *entry) {
	e.next.prev = e.prev
	e.prev.next = e.next
}

// listAppend makes e the newest entry of list by inserting it just before
// the sentinel.
func (s *shard) listAppend(list *entry, e *entry) {
	e.next = list
	e.prev = list.prev
	e.prev.next = e
	e.next.prev = e
}

func (s *shard) ref(e *entry) {
	if e.refs == 1 && e.inCache {
		s.listRemove(e)
		s.listAppend(&s.inUse, e)
	}
	e.refs++
}

func (s *shard) unref(e *entry) {
	e.refs--
	switch {
	case e.refs == 0:
		if e.deleter != nil {
			e.deleter([]byte(e.key), e.value)
		}
	case e.inCache && e.refs == 1:
		s.listRemove(e)
		s.listAppend(&s.lru, e)
	}
}

// finishErase removes e, which must have already been detached from the
// hash table, from its list and subtracts its charge from usage. Safe to
// call with e == nil (the no-op case when the table had nothing to remove).
func (s *shard) finishErase(e *entry) bool {
	if e != nil {
		s.listRemove(e)
		e.inCache = false
		s.usage -= e.charge
		s.unref(e)
	}
	return e != nil
}
