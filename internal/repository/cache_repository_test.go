package repository

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/resource-planner-api/pkg/errors"
)

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func TestCacheRepositorySetGet(t *testing.T) {
	mr, rdb := newRedis(t)
	repo := NewCacheRepository(rdb, nil)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "planning:heatmap:a", map[string]int{"hours": 40}, time.Minute))
	var got map[string]int
	require.NoError(t, repo.Get(ctx, "planning:heatmap:a", &got))
	assert.Equal(t, 40, got["hours"])

	mr.FastForward(2 * time.Minute)
	err := repo.Get(ctx, "planning:heatmap:a", &got)
	require.ErrorIs(t, err, appErrors.ErrCacheMiss)
}

func TestCacheRepositoryCorruptEntryIsMiss(t *testing.T) {
	mr, rdb := newRedis(t)
	repo := NewCacheRepository(rdb, nil)
	require.NoError(t, mr.Set("planning:heatmap:bad", "{not json"))

	var got map[string]int
	err := repo.Get(context.Background(), "planning:heatmap:bad", &got)
	require.ErrorIs(t, err, appErrors.ErrCacheMiss)
	assert.False(t, mr.Exists("planning:heatmap:bad"))
}

func TestCacheRepositoryDeleteByPattern(t *testing.T) {
	mr, rdb := newRedis(t)
	repo := NewCacheRepository(rdb, nil)
	ctx := context.Background()

	for i := 0; i < 150; i++ {
		require.NoError(t, mr.Set("planning:heatmap:"+strconv.Itoa(i), "{}"))
	}
	require.NoError(t, mr.Set("other:key", "{}"))

	require.NoError(t, repo.DeleteByPattern(ctx, "planning:heatmap:*"))
	assert.Equal(t, []string{"other:key"}, mr.Keys())
}

func TestCacheRepositoryNilClient(t *testing.T) {
	repo := NewCacheRepository(nil, nil)
	var dest map[string]int
	require.ErrorIs(t, repo.Get(context.Background(), "k", &dest), appErrors.ErrCacheMiss)
	require.NoError(t, repo.Set(context.Background(), "k", 1, time.Second))
	require.NoError(t, repo.DeleteByPattern(context.Background(), "*"))
}
