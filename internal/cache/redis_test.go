package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/jonathan/career-guide/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c, err := NewRedisCache(context.Background(), "redis://"+mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func sampleRecommendation() *types.Recommendation {
	return &types.Recommendation{
		JobRoles:   []string{"Data Analyst", "Machine Learning Engineer"},
		ResumeTips: []string{"Highlight your skills in Python, SQL"},
		NextSteps:  []string{"Build 2-3 strong projects for your portfolio"},
	}
}

func TestRedisCache_GetMiss(t *testing.T) {
	c, _ := newTestRedis(t)

	rec, err := c.Get(context.Background(), "guidance:m:absent")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Nil(t, rec)
}

func TestRedisCache_RoundTrip(t *testing.T) {
	c, mr := newTestRedis(t)
	ctx := context.Background()
	want := sampleRecommendation()

	require.NoError(t, c.Set(ctx, "guidance:m:k", want, 0))

	raw, err := mr.Get("guidance:m:k")
	require.NoError(t, err)
	assert.Contains(t, raw, `"jobRoles":["Data Analyst","Machine Learning Engineer"]`)

	got, err := c.Get(ctx, "guidance:m:k")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestRedisCache_SetTTL(t *testing.T) {
	tests := []struct {
		name    string
		ttl     time.Duration
		wantTTL time.Duration
	}{
		{name: "zero uses default", ttl: 0, wantTTL: DefaultTTL},
		{name: "explicit", ttl: 5 * time.Minute, wantTTL: 5 * time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, mr := newTestRedis(t)

			require.NoError(t, c.Set(context.Background(), "k", sampleRecommendation(), tt.ttl))
			assert.Equal(t, tt.wantTTL, mr.TTL("k"))
		})
	}
}

func TestRedisCache_ExpiredEntryIsMiss(t *testing.T) {
	c, mr := newTestRedis(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", sampleRecommendation(), time.Minute))
	mr.FastForward(2 * time.Minute)

	_, err := c.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisCache_CorruptEntry(t *testing.T) {
	c, mr := newTestRedis(t)
	require.NoError(t, mr.Set("k", "{not json"))

	rec, err := c.Get(context.Background(), "k")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "corrupt cache entry k")
	assert.Nil(t, rec)
}

func TestRedisCache_ServerError(t *testing.T) {
	c, mr := newTestRedis(t)
	mr.SetError("LOADING")

	_, err := c.Get(context.Background(), "k")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestNewRedisCache_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := NewRedisCache(ctx, "redis://"+addr)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to connect to redis")
}
