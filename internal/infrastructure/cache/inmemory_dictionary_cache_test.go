package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sellerhub/backend/internal/domain/marketplace"
)

func TestInMemoryDictionaryCache(t *testing.T) {
	query := marketplace.DictionaryQuery{DictionaryID: "colors", Limit: 100}
	values := []marketplace.DictionaryValue{
		{ExternalID: "red", Value: "red"},
		{ExternalID: "blue", Value: "blue"},
	}

	t.Run("hit after put", func(t *testing.T) {
		cache := NewInMemoryDictionaryCache(time.Minute)
		cache.Put(t.Context(), marketplace.CodeWildberries, query, values)

		got, ok := cache.Get(t.Context(), marketplace.CodeWildberries, query)
		require.True(t, ok)
		assert.Equal(t, values, got)
	})

	t.Run("miss on unknown key", func(t *testing.T) {
		cache := NewInMemoryDictionaryCache(time.Minute)
		_, ok := cache.Get(t.Context(), marketplace.CodeWildberries, query)
		assert.False(t, ok)
	})

	t.Run("keys separate marketplaces and queries", func(t *testing.T) {
		cache := NewInMemoryDictionaryCache(time.Minute)
		cache.Put(t.Context(), marketplace.CodeWildberries, query, values)

		_, ok := cache.Get(t.Context(), marketplace.CodeOzon, query)
		assert.False(t, ok)

		other := query
		other.Search = "re"
		_, ok = cache.Get(t.Context(), marketplace.CodeWildberries, other)
		assert.False(t, ok)
	})

	t.Run("expires after ttl", func(t *testing.T) {
		cache := NewInMemoryDictionaryCache(time.Minute)
		current := time.Now()
		cache.now = func() time.Time { return current }

		cache.Put(t.Context(), marketplace.CodeWildberries, query, values)
		current = current.Add(2 * time.Minute)

		_, ok := cache.Get(t.Context(), marketplace.CodeWildberries, query)
		assert.False(t, ok)
	})
}
