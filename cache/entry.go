package cache

// entry is a single cached item. One entry exists per live key, plus one
// per erased or evicted entry that client handles still refer to (all
// handles to the same entry share it).
//
// Invariants (see spec §3):
//  1. inCache implies the entry is on exactly one of {inUse, lru} and refs>=1.
//  2. inCache && refs==1  => on the lru list.
//     inCache && refs>=2  => on the inUse list.
//  3. !inCache => on neither list; the entry is kept alive only by client refs.
//  4. refs reaches 0 exactly once: the deleter runs, then the entry is
//     dropped (Go's GC reclaims it; there is no explicit free step).
//
// entry.value is never mutated after construction: inserting a duplicate
// key always allocates a fresh entry and finish-erases the old one (see
// shard.insert). That is what lets Handle.Value read without a lock.
type entry struct {
	key     string
	hash    uint32
	value   interface{}
	charge  int
	deleter func(key []byte, value interface{})

	refs    int32
	inCache bool

	// Intrusive doubly linked list links, shared between the lru and inUse
	// lists (an entry is never on both). next/prev point at sentinels when
	// the entry is the sole member of an otherwise-empty list.
	next, prev *entry

	// Hash-chain link inside the owning shard's handleTable.
	nextHash *entry
}

// Handle is the opaque token returned by Insert/Lookup. Exactly one Release
// call must be made per handle obtained. Calling Release twice on the same
// handle, or releasing a handle obtained from a different cache, is a
// precondition violation (see spec §7). It is not detected here and does
// not panic; it corrupts the entry's reference count.
type Handle struct {
	e *entry
}

// Value returns the value stored in the entry this handle refers to. Safe
// to call without holding any lock: see the entry.value comment above.
func (h *Handle) Value() interface{} {
	return h.e.value
}
