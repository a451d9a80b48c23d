package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lrivero/macrolens/pkg/config"
	"github.com/lrivero/macrolens/pkg/redis"
)

type stubSource struct {
	calls int
	data  map[string]*float64
	err   error
}

func (s *stubSource) FetchLatest(ctx context.Context, symbols []string) (map[string]*float64, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.data, nil
}

func disabledCache(t *testing.T) *redis.Cache {
	t.Helper()
	client, err := redis.New(&config.Config{})
	require.NoError(t, err)
	return redis.NewCache(client, "test")
}

func TestSymbolsHash_OrderInsensitive(t *testing.T) {
	assert.Equal(t, symbolsHash([]string{"SPX", "DXY", "NDX"}), symbolsHash([]string{"NDX", "SPX", "DXY"}))
	assert.NotEqual(t, symbolsHash([]string{"SPX"}), symbolsHash([]string{"NDX"}))
}

func TestCachedSource_FallsThroughWhenDisabled(t *testing.T) {
	v := 0.8
	inner := &stubSource{data: map[string]*float64{"SPX": &v}}
	src := NewCachedCorrelationSource(inner, disabledCache(t), time.Minute)

	got, err := src.FetchLatest(context.Background(), []string{"SPX"})
	require.NoError(t, err)
	assert.Equal(t, inner.data, got)
	assert.Equal(t, 1, inner.calls)

	// No cache available, so a second call hits the inner source again
	_, err = src.FetchLatest(context.Background(), []string{"SPX"})
	require.NoError(t, err)
	assert.Equal(t, 2, inner.calls)
}

func TestCachedSource_PropagatesFetchError(t *testing.T) {
	inner := &stubSource{err: errors.New("connection refused")}
	src := NewCachedCorrelationSource(inner, disabledCache(t), time.Minute)

	_, err := src.FetchLatest(context.Background(), []string{"SPX"})
	assert.Error(t, err)
}
