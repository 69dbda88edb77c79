// file: internal/services/leaderboard_service_test.go
package services

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"skillbridge/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeCache is an in-memory Cache double that round-trips values through JSON
// the way the real backends do.
type fakeCache struct {
	entries map[string][]byte
	deletes []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string][]byte)}
}

func (c *fakeCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, ok := c.entries[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(data, dest)
}

func (c *fakeCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.entries[key] = data
	return nil
}

func (c *fakeCache) Delete(ctx context.Context, key string) error {
	delete(c.entries, key)
	return nil
}

func (c *fakeCache) DeletePattern(ctx context.Context, pattern string) error {
	c.deletes = append(c.deletes, pattern)
	prefix := strings.TrimSuffix(pattern, "*")
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
		}
	}
	return nil
}

func (c *fakeCache) Health(ctx context.Context) error { return nil }
func (c *fakeCache) Close() error                     { return nil }

func newTestLeaderboardService(repo *mockActivityRepo, cache *fakeCache) LeaderboardService {
	return NewLeaderboardService(repo, cache, 30*time.Second, validator.New(), zap.NewNop())
}

func TestGetLeaderboardComputesAndCaches(t *testing.T) {
	repo := &mockActivityRepo{
		leaderboard: []*models.LeaderboardEntry{
			{Rank: 1, UserID: 2, Username: "ada", TotalXP: 150},
			{Rank: 2, UserID: 5, Username: "grace", TotalXP: 150},
		},
	}
	cache := newFakeCache()
	service := newTestLeaderboardService(repo, cache)

	entries, err := service.GetLeaderboard(context.Background(), &LeaderboardRequest{Limit: 10})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, 1, repo.calls)

	// Tie on XP keeps the lower user ID first
	assert.Equal(t, int64(2), entries[0].UserID)
	assert.Equal(t, int64(5), entries[1].UserID)

	// Second read must come from cache
	entries, err = service.GetLeaderboard(context.Background(), &LeaderboardRequest{Limit: 10})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, 1, repo.calls, "repository should not be hit on a cache hit")
}

func TestGetLeaderboardDefaultAndMaxLimit(t *testing.T) {
	repo := &mockActivityRepo{}
	cache := newFakeCache()
	service := newTestLeaderboardService(repo, cache)

	_, err := service.GetLeaderboard(context.Background(), &LeaderboardRequest{})
	require.NoError(t, err)
	_, hasDefault := cache.entries["leaderboard::50"]
	assert.True(t, hasDefault, "zero limit falls back to the default page size")

	_, err = service.GetLeaderboard(context.Background(), &LeaderboardRequest{Limit: 100})
	require.NoError(t, err)
	_, hasMax := cache.entries["leaderboard::100"]
	assert.True(t, hasMax)
}

func TestGetLeaderboardRejectsUnknownRole(t *testing.T) {
	service := newTestLeaderboardService(&mockActivityRepo{}, newFakeCache())

	_, err := service.GetLeaderboard(context.Background(), &LeaderboardRequest{Role: "superuser"})
	require.Error(t, err)
	assert.True(t, IsValidationError(err))
}

func TestGetLeaderboardRoleFilterKeysSeparately(t *testing.T) {
	repo := &mockActivityRepo{}
	cache := newFakeCache()
	service := newTestLeaderboardService(repo, cache)

	_, err := service.GetLeaderboard(context.Background(), &LeaderboardRequest{Role: "student", Limit: 10})
	require.NoError(t, err)
	_, err = service.GetLeaderboard(context.Background(), &LeaderboardRequest{Role: "instructor", Limit: 10})
	require.NoError(t, err)

	assert.Equal(t, 2, repo.calls, "different roles must not share cache entries")
}

func TestInvalidateCacheDropsAllPages(t *testing.T) {
	repo := &mockActivityRepo{}
	cache := newFakeCache()
	service := newTestLeaderboardService(repo, cache)

	_, err := service.GetLeaderboard(context.Background(), &LeaderboardRequest{Limit: 10})
	require.NoError(t, err)
	require.NotEmpty(t, cache.entries)

	service.InvalidateCache(context.Background())
	assert.Empty(t, cache.entries)
	assert.Contains(t, cache.deletes, "leaderboard:*")
}
