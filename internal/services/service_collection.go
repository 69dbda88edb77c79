// file: internal/services/service_collection.go
package services

import (
	"fmt"

	"skillbridge/internal/cache"
	"skillbridge/internal/config"
	"skillbridge/internal/repositories"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// ServiceCollection holds all services with dependency injection
type ServiceCollection struct {
	Progress    ProgressService    `json:"-"`
	Completion  CompletionService  `json:"-"`
	Badge       BadgeService       `json:"-"`
	Leaderboard LeaderboardService `json:"-"`
	Email       EmailService       `json:"-"`

	Repositories *repositories.Collection `json:"-"`
	Cache        cache.Cache              `json:"-"`
	Config       *config.Config           `json:"-"`
	Logger       *zap.Logger              `json:"-"`
}

// NewServiceCollection wires the service layer in dependency order: email and
// leaderboard first, then the badge evaluator that notifies through both, then
// the progress pipeline on top.
func NewServiceCollection(
	repos *repositories.Collection,
	cacheStore cache.Cache,
	cfg *config.Config,
	logger *zap.Logger,
) (*ServiceCollection, error) {
	if repos == nil {
		return nil, fmt.Errorf("repository collection is required")
	}
	if cacheStore == nil {
		return nil, fmt.Errorf("cache is required")
	}
	if cfg == nil {
		return nil, fmt.Errorf("configuration is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	validate := validator.New()

	email := NewEmailService(&cfg.Email, logger)

	leaderboard := NewLeaderboardService(
		repos.Activity,
		cacheStore,
		cfg.Redis.LeaderboardTTL,
		validate,
		logger,
	)

	badge := NewBadgeService(
		repos.Badge,
		repos.Activity,
		repos.User,
		email,
		leaderboard,
		cfg.Email.SendTimeout,
		logger,
	)

	completion := NewCompletionService(repos.Enrollment, logger)

	progress := NewProgressService(
		repos.Lesson,
		repos.Progress,
		repos.Enrollment,
		repos.Activity,
		completion,
		badge,
		validate,
		logger,
	)

	logger.Info("✅ Service collection initialized")

	return &ServiceCollection{
		Progress:     progress,
		Completion:   completion,
		Badge:        badge,
		Leaderboard:  leaderboard,
		Email:        email,
		Repositories: repos,
		Cache:        cacheStore,
		Config:       cfg,
		Logger:       logger,
	}, nil
}
