// Package xhash provides the 32-bit hash function collaborator the cache
// uses for hash-table placement and shard selection.
//
// The cache only needs two properties from this function: it must be cheap
// to compute over arbitrary byte slices, and it must disperse well in its
// top bits, since shard selection reads the top numShardBits of the result
// (see cache.shardIndex). FNV-1a's top bits are weaker than its low bits,
// so the result is run through a murmur3-style finalizer before being
// returned.
package xhash

// Hash32 hashes data with the given seed. Equal inputs with equal seeds
// always hash to the same value; no cryptographic properties are implied
// or required.
func Hash32(data []byte, seed uint32) uint32 {
	h := fnv1a32(data, seed)
	return fmix32(h)
}

const (
	fnvOffset32 = 2166136261
	fnvPrime32  = 16777619
)

func fnv1a32(data []byte, seed uint32) uint32 {
	h := uint32(fnvOffset32) ^ seed
	for _, b := range data {
		h ^= uint32(b)
		h *= fnvPrime32
	}
	return h
}

// fmix32 is MurmurHash3's 32-bit finalizer. It spreads entropy from the low
// bits into the high bits so that hash>>28 (shard selection) disperses as
// well as hash&mask (hash-table bucket selection).
func fmix32(h uint32) uint32 {
	h ^= h >> 16
	h *= 0x85ebca6b
	h ^= h >> 13
	h *= 0xc2b2ae35
	h ^= h >> 16
	return h
}
