package cache

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	paging "github.com/davicafu/hexapager/internal/pagination/domain"
	"github.com/davicafu/hexapager/internal/user/domain"
)

func TestInMemoryCache_SetGetDelete(t *testing.T) {
	c := NewInMemoryCache(time.Minute, time.Hour, zap.NewNop())
	defer c.Stop()
	ctx := context.Background()

	type payload struct {
		Name    string      `json:"name"`
		Initial paging.Char `json:"initial"`
	}

	require.NoError(t, c.Set(ctx, "k", payload{Name: "Ana", Initial: 'A'}, 0))

	var got payload
	ok, err := c.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, payload{Name: "Ana", Initial: 'A'}, got)

	require.NoError(t, c.Delete(ctx, "k"))
	ok, err = c.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestInMemoryCache_ExpiredIsMissAndPurged(t *testing.T) {
	c := NewInMemoryCache(time.Millisecond, time.Hour, nil)
	defer c.Stop()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "short", 1, 0))
	require.NoError(t, c.Set(ctx, "long", 2, 60))

	expired, stale := c.purge(time.Now().Add(time.Second))
	assert.Equal(t, 1, expired)
	assert.Zero(t, stale)
	assert.Equal(t, 1, c.Len())

	var n int
	ok, err := c.Get(ctx, "long", &n)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 2, n)
}

func TestInMemoryCache_PurgesPagesOfOldGenerations(t *testing.T) {
	c := NewInMemoryCache(time.Minute, time.Hour, nil)
	defer c.Stop()
	ctx := context.Background()
	params := paging.Parameters{Page: 1, ItemsPerPage: 10}

	tests := []struct {
		name       string
		generation *int64
		wantStale  int
		wantKept   []string
	}{
		{
			name:      "sin generación guardada la actual es 0",
			wantStale: 1,
			wantKept:  []string{domain.CacheKeyByParams(params, 0)},
		},
		{
			name:       "generación 2",
			generation: ptr(int64(2)),
			wantStale:  1,
			wantKept:   []string{domain.CacheKeyByParams(params, 2), domain.ListGenerationKey},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, k := range []string{domain.CacheKeyByParams(params, 0), domain.CacheKeyByParams(params, 1), domain.CacheKeyByParams(params, 2), domain.ListGenerationKey} {
				require.NoError(t, c.Delete(ctx, k))
			}
			if tt.generation != nil {
				require.NoError(t, c.Set(ctx, domain.ListGenerationKey, *tt.generation, 0))
				require.NoError(t, c.Set(ctx, domain.CacheKeyByParams(params, 1), "old", 0))
				require.NoError(t, c.Set(ctx, domain.CacheKeyByParams(params, 2), "current", 0))
			} else {
				require.NoError(t, c.Set(ctx, domain.CacheKeyByParams(params, 0), "current", 0))
				require.NoError(t, c.Set(ctx, domain.CacheKeyByParams(params, 1), "old", 0))
			}
			userKey := domain.CacheKeyByID(uuid.New())
			require.NoError(t, c.Set(ctx, userKey, "user", 0))

			expired, stale := c.purge(time.Now())
			assert.Zero(t, expired)
			assert.Equal(t, tt.wantStale, stale)

			var v any
			for _, k := range append(tt.wantKept, userKey) {
				ok, err := c.Get(ctx, k, &v)
				require.NoError(t, err)
				assert.True(t, ok, k)
			}
			ok, err := c.Get(ctx, domain.CacheKeyByParams(params, 1), &v)
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestInMemoryCache_StopTwice(t *testing.T) {
	c := NewInMemoryCache(time.Minute, time.Millisecond, nil)
	c.Stop()
	assert.NotPanics(t, c.Stop)
}

func ptr[T any](v T) *T { return &v }
