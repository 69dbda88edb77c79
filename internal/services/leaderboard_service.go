// file: internal/services/leaderboard_service.go
package services

import (
	"context"
	"fmt"
	"time"

	"skillbridge/internal/cache"
	"skillbridge/internal/models"
	"skillbridge/internal/repositories"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

const (
	defaultLeaderboardLimit = 50
	maxLeaderboardLimit     = 100
	leaderboardKeyPattern   = "leaderboard:*"
)

// leaderboardService implements LeaderboardService. Rankings are computed on
// read from the grant ledger and kept behind a short-TTL cache; every new
// grant invalidates the cache, so stale reads are bounded by the TTL even
// without a grant in between.
type leaderboardService struct {
	activityRepo repositories.ActivityRepository
	cache        cache.Cache
	cacheTTL     time.Duration
	validate     *validator.Validate
	logger       *zap.Logger
}

// NewLeaderboardService creates a new instance of LeaderboardService
func NewLeaderboardService(
	activityRepo repositories.ActivityRepository,
	cacheStore cache.Cache,
	cacheTTL time.Duration,
	validate *validator.Validate,
	logger *zap.Logger,
) LeaderboardService {
	return &leaderboardService{
		activityRepo: activityRepo,
		cache:        cacheStore,
		cacheTTL:     cacheTTL,
		validate:     validate,
		logger:       logger,
	}
}

// GetLeaderboard returns users ranked by total XP, optionally filtered by
// role. Ties always break by user ID ascending, so repeated reads over the
// same data return the same ordering.
func (s *leaderboardService) GetLeaderboard(ctx context.Context, req *LeaderboardRequest) ([]*models.LeaderboardEntry, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, NewValidationError("invalid leaderboard request", err)
	}

	limit := req.Limit
	if limit <= 0 {
		limit = defaultLeaderboardLimit
	}
	if limit > maxLeaderboardLimit {
		limit = maxLeaderboardLimit
	}

	key := fmt.Sprintf("leaderboard:%s:%d", req.Role, limit)

	var cached []*models.LeaderboardEntry
	if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
		s.logger.Debug("Leaderboard cache hit", zap.String("key", key))
		return cached, nil
	}

	entries, err := s.activityRepo.Leaderboard(ctx, req.Role, limit)
	if err != nil {
		return nil, NewInternalError("failed to compute leaderboard")
	}

	if err := s.cache.Set(ctx, key, entries, s.cacheTTL); err != nil {
		s.logger.Warn("Failed to cache leaderboard",
			zap.String("key", key),
			zap.Error(err),
		)
	}

	return entries, nil
}

// InvalidateCache drops every cached leaderboard page. Called after each
// badge grant so new XP shows up on the next read.
func (s *leaderboardService) InvalidateCache(ctx context.Context) {
	if err := s.cache.DeletePattern(ctx, leaderboardKeyPattern); err != nil {
		s.logger.Warn("Failed to invalidate leaderboard cache", zap.Error(err))
	}
}
