package cache

import "github.com/kvengine/arccache/internal/xhash"

const (
	// numShardBits is log2(number of shards); spec's tunable constant.
	numShardBits = 4
	numShards    = 1 << numShardBits

	// minCapacity is the shrink floor: AdjustCapacity refuses a negative
	// delta while the *current* nominal capacity is already below this.
	minCapacity = 1 << 21

	// adaptiveThreshold is the accumulated-adjustment magnitude that
	// triggers an AdaptiveCache rebalance.
	adaptiveThreshold = 4096
)

// config holds the resolved options for a cache constructor. resolve()
// starts from the defaults and applies each option on top, so an option
// always wins, even when it sets a zero value (WithShardBits(0) yields a
// single shard). This mirrors the teacher's Options-struct-with-defaults
// pattern (cache.Options in the teacher repo), adapted to functional
// options since this cache is not generic over K/V.
type config struct {
	metrics   Metrics
	hash      func(data []byte, seed uint32) uint32
	shardBits int
}

// Option configures a cache constructor.
type Option func(*config)

// WithMetrics plugs in a Metrics sink. Defaults to NoopMetrics.
func WithMetrics(m Metrics) Option {
	return func(c *config) { c.metrics = m }
}

// WithHash overrides the hash collaborator. Defaults to xhash.Hash32.
// A custom hash must disperse well in its top shardBits bits.
func WithHash(h func(data []byte, seed uint32) uint32) Option {
	return func(c *config) { c.hash = h }
}

// WithShardBits overrides log2(shard count). Defaults to numShardBits (4,
// i.e. 16 shards), per spec's tunable constants.
func WithShardBits(bits int) Option {
	return func(c *config) { c.shardBits = bits }
}

func resolve(opts []Option) config {
	c := config{
		metrics:   NoopMetrics{},
		hash:      xhash.Hash32,
		shardBits: numShardBits,
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}
