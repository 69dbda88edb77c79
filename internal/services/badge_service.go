// file: internal/services/badge_service.go
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"skillbridge/internal/models"
	"skillbridge/internal/repositories"

	"go.uber.org/zap"
)

// criteriaRule decides whether a snapshot satisfies one badge's threshold
type criteriaRule func(s *models.ActivitySnapshot, threshold int) bool

// badgeService implements BadgeService: the criteria evaluator plus the
// grant ledger. The rule table is closed over the CriteriaType enum; a badge
// row with a type outside the table aborts evaluation with a configuration
// error before any grant is written.
type badgeService struct {
	badgeRepo    repositories.BadgeRepository
	activityRepo repositories.ActivityRepository
	userRepo     repositories.UserRepository
	email        EmailService
	leaderboard  LeaderboardService
	rules        map[models.CriteriaType]criteriaRule
	emailTimeout time.Duration
	logger       *zap.Logger
}

// NewBadgeService creates a new instance of BadgeService
func NewBadgeService(
	badgeRepo repositories.BadgeRepository,
	activityRepo repositories.ActivityRepository,
	userRepo repositories.UserRepository,
	email EmailService,
	leaderboard LeaderboardService,
	emailTimeout time.Duration,
	logger *zap.Logger,
) BadgeService {
	return &badgeService{
		badgeRepo:    badgeRepo,
		activityRepo: activityRepo,
		userRepo:     userRepo,
		email:        email,
		leaderboard:  leaderboard,
		rules:        buildCriteriaRules(),
		emailTimeout: emailTimeout,
		logger:       logger,
	}
}

// buildCriteriaRules maps every recognized criteria type to its predicate.
// Thresholds come from the badge row's criteria_value.
func buildCriteriaRules() map[models.CriteriaType]criteriaRule {
	return map[models.CriteriaType]criteriaRule{
		models.CriteriaVideoWatched: func(s *models.ActivitySnapshot, threshold int) bool {
			return s.CompletedLessons >= threshold
		},
		models.CriteriaVideosCompleted: func(s *models.ActivitySnapshot, threshold int) bool {
			return s.CompletedLessons >= threshold
		},
		models.CriteriaMinutesWatched: func(s *models.ActivitySnapshot, threshold int) bool {
			return s.MinutesWatched() >= threshold
		},
		models.CriteriaModuleCompleted: func(s *models.ActivitySnapshot, threshold int) bool {
			return s.CompletedCourses >= threshold
		},
		models.CriteriaCourseCompleted: func(s *models.ActivitySnapshot, threshold int) bool {
			return s.CompletedCourses >= threshold
		},
		models.CriteriaQuestionAsked: func(s *models.ActivitySnapshot, threshold int) bool {
			return s.DiscussionsStarted >= threshold
		},
		models.CriteriaQuestionAnswered: func(s *models.ActivitySnapshot, threshold int) bool {
			return s.AnswersGiven >= threshold
		},
		models.CriteriaDiscussionParticipated: func(s *models.ActivitySnapshot, threshold int) bool {
			return s.CommentsWritten >= threshold
		},
		models.CriteriaLoginStreak: func(s *models.ActivitySnapshot, threshold int) bool {
			return s.LoginStreakDays >= threshold
		},
		models.CriteriaNightActivity: func(s *models.ActivitySnapshot, threshold int) bool {
			return s.HasNightActivity
		},
		models.CriteriaLevelReached: func(s *models.ActivitySnapshot, threshold int) bool {
			return s.Level() >= threshold
		},
	}
}

// EvaluateAndAward judges every catalog badge against one activity snapshot
// and grants the newly-eligible ones. The unique constraint on user_badges
// makes a concurrent duplicate grant a silent no-op, so the whole operation
// is safe to re-run at any time.
func (s *badgeService) EvaluateAndAward(ctx context.Context, userID int64) ([]*models.Badge, error) {
	if userID <= 0 {
		return nil, InvalidInputError("user_id", "must be positive")
	}

	catalog, err := s.badgeRepo.ListCatalog(ctx, true)
	if err != nil {
		return nil, NewInternalError("failed to load badge catalog")
	}

	// Refuse the whole run before any grant if the catalog references a
	// criteria type this build does not understand.
	for _, badge := range catalog {
		if _, ok := s.rules[badge.CriteriaType]; !ok {
			return nil, NewConfigurationError(fmt.Sprintf(
				"badge %q has unrecognized criteria type %q", badge.Name, badge.CriteriaType,
			))
		}
	}

	granted, err := s.badgeRepo.GetGrantedBadgeIDs(ctx, userID)
	if err != nil {
		return nil, NewInternalError("failed to load granted badges")
	}

	snapshot, err := s.activityRepo.Snapshot(ctx, userID)
	if err != nil {
		return nil, NewInternalError("failed to load activity snapshot")
	}

	var awarded []*models.Badge
	for _, badge := range catalog {
		if granted[badge.ID] {
			continue
		}

		if !s.rules[badge.CriteriaType](snapshot, badge.CriteriaValue) {
			continue
		}

		inserted, err := s.badgeRepo.InsertGrant(ctx, userID, badge.ID)
		if err != nil {
			return awarded, NewInternalError("failed to grant badge")
		}
		if !inserted {
			// Another writer got there first; the grant exists either way.
			continue
		}

		s.logger.Info("🏅 Badge awarded",
			zap.Int64("user_id", userID),
			zap.Int64("badge_id", badge.ID),
			zap.String("badge_name", badge.Name),
			zap.Int("xp_value", badge.XPValue),
		)

		awarded = append(awarded, badge)
		s.notifyBadgeAwarded(userID, badge)
	}

	if len(awarded) > 0 {
		s.leaderboard.InvalidateCache(ctx)
	}

	return awarded, nil
}

// notifyBadgeAwarded dispatches the badge email without blocking the
// pipeline. The goroutine gets its own deadline so a slow mail collaborator
// cannot hold the request, and failures are logged only.
func (s *badgeService) notifyBadgeAwarded(userID int64, badge *models.Badge) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.emailTimeout)
		defer cancel()

		user, err := s.userRepo.GetByID(ctx, userID)
		if err != nil {
			s.logger.Warn("Failed to load user for badge notification",
				zap.Error(err),
				zap.Int64("user_id", userID),
				zap.Int64("badge_id", badge.ID),
			)
			return
		}

		if err := s.email.SendBadgeAwarded(ctx, user, badge); err != nil {
			s.logger.Warn("Failed to send badge notification",
				zap.Error(err),
				zap.Int64("user_id", userID),
				zap.Int64("badge_id", badge.ID),
			)
		}
	}()
}

// ListCatalog retrieves the visible badge catalog
func (s *badgeService) ListCatalog(ctx context.Context) ([]*models.Badge, error) {
	badges, err := s.badgeRepo.ListCatalog(ctx, false)
	if err != nil {
		return nil, NewInternalError("failed to load badge catalog")
	}
	return badges, nil
}

// GetUserBadges retrieves a user's grants with badge details
func (s *badgeService) GetUserBadges(ctx context.Context, userID int64) ([]*models.UserBadge, error) {
	if userID <= 0 {
		return nil, InvalidInputError("user_id", "must be positive")
	}

	grants, err := s.badgeRepo.GetUserBadges(ctx, userID)
	if err != nil {
		return nil, NewInternalError("failed to load user badges")
	}
	return grants, nil
}

// MarkNotificationShown records that the user has seen a grant notification
func (s *badgeService) MarkNotificationShown(ctx context.Context, userID, badgeID int64) error {
	if userID <= 0 {
		return InvalidInputError("user_id", "must be positive")
	}
	if badgeID <= 0 {
		return InvalidInputError("badge_id", "must be positive")
	}

	if err := s.badgeRepo.MarkNotificationShown(ctx, userID, badgeID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return EntityNotFoundError("badge grant", badgeID)
		}
		return NewInternalError("failed to mark notification shown")
	}

	return nil
}
