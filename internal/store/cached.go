package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
	"time"

	"github.com/lrivero/macrolens/internal/regime"
	"github.com/lrivero/macrolens/pkg/redis"
)

// CachedCorrelationSource fronts a CorrelationSource with the Redis JSON
// cache. The enrichment fetch runs on every evaluation cycle over the same
// symbol set, so a short TTL removes most of the repeated round trips. With
// Redis disabled every call falls through to the inner source.
type CachedCorrelationSource struct {
	inner regime.CorrelationSource
	cache *redis.Cache
	ttl   time.Duration
}

func NewCachedCorrelationSource(inner regime.CorrelationSource, cache *redis.Cache, ttl time.Duration) *CachedCorrelationSource {
	return &CachedCorrelationSource{
		inner: inner,
		cache: cache,
		ttl:   ttl,
	}
}

// FetchLatest serves the batch from cache when possible. Cache write failures
// are ignored; the fetched data is already in hand.
func (s *CachedCorrelationSource) FetchLatest(ctx context.Context, symbols []string) (map[string]*float64, error) {
	key := redis.CorrelationBatchKey(symbolsHash(symbols))

	var cached map[string]*float64
	if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
		return cached, nil
	}

	fetched, err := s.inner.FetchLatest(ctx, symbols)
	if err != nil {
		return nil, err
	}

	_ = s.cache.Set(ctx, key, fetched, s.ttl)
	return fetched, nil
}

// symbolsHash produces a stable digest of a symbol set, insensitive to order.
func symbolsHash(symbols []string) string {
	sorted := make([]string, len(symbols))
	copy(sorted, symbols)
	sort.Strings(sorted)

	sum := sha256.Sum256([]byte(strings.Join(sorted, ",")))
	return hex.EncodeToString(sum[:8])
}
