package cache

import "github.com/kvengine/arccache/internal/util"

// handleTable is an open-chained hash table keyed by (hash, key). It is the
// Go port of LevelDB's HandleTable (see original_source/util/cache.cc): a
// power-of-two bucket array, chained by entry.nextHash, resized by doubling
// whenever the element count exceeds the bucket count so the average chain
// length stays at or below 1.
//
// handleTable does no locking of its own; the owning shard's mutex
// serializes every call.
type handleTable struct {
	buckets []*entry
	length  uint32
	count   uint32
}

func newHandleTable() *handleTable {
	t := &handleTable{}
	t.resize()
	return t
}

func (t *handleTable) lookup(key []byte, hash uint32) *entry {
	return *t.findPointer(string(key), hash)
}

// insert splices h into its bucket's chain and returns the entry it
// displaced (nil if the key was not already present). The caller is
// responsible for finish-erasing the displaced entry.
func (t *handleTable) insert(h *entry) *entry {
	ptr := t.findPointer(h.key, h.hash)
	old := *ptr
	if old != nil {
		h.nextHash = old.nextHash
	} else {
		h.nextHash = nil
	}
	*ptr = h
	if old == nil {
		t.count++
		if t.count > t.length {
			// Each entry is fairly large; aim for a short average chain.
			t.resize()
		}
	}
	return old
}

// remove detaches the matching entry from its chain, if present, and
// returns it. The caller is responsible for finish-erasing it.
func (t *handleTable) remove(key []byte, hash uint32) *entry {
	ptr := t.findPointer(string(key), hash)
	result := *ptr
	if result != nil {
		*ptr = result.nextHash
		t.count--
	}
	return result
}

// findPointer returns the address of the slot that either holds the
// matching entry, or is the trailing nil slot of the chain it would be
// inserted into. This is the same pointer-to-slot trick LevelDB's
// LRUHandle** uses: Go slice elements and struct fields are addressable, so
// insert/remove can splice in O(1) without a second pass over the chain.
func (t *handleTable) findPointer(key string, hash uint32) **entry {
	ptr := &t.buckets[hash&(t.length-1)]
	for *ptr != nil && ((*ptr).hash != hash || (*ptr).key != key) {
		ptr = &(*ptr).nextHash
	}
	return ptr
}

func (t *handleTable) resize() {
	newLength := uint32(util.NextPow2(uint64(t.count)))
	if newLength < 4 {
		newLength = 4
	}
	if !util.IsPowerOfTwo(uint64(newLength)) {
		panic("cache: handleTable bucket count must be a power of two")
	}
	newBuckets := make([]*entry, newLength)
	var count uint32
	for _, head := range t.buckets {
		e := head
		for e != nil {
			next := e.nextHash
			idx := e.hash & (newLength - 1)
			e.nextHash = newBuckets[idx]
			newBuckets[idx] = e
			e = next
			count++
		}
	}
	t.buckets = newBuckets
	t.length = newLength
	_ = count // parity with the assert(elems_ == count) in the C++ original
}
