// file: internal/repositories/badge_repository.go
package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"skillbridge/internal/database"
	"skillbridge/internal/models"

	"go.uber.org/zap"
)

// badgeRepository implements BadgeRepository: the badge catalog (seeded by
// migration) and the user_badges grant ledger.
type badgeRepository struct {
	*BaseRepository
}

// NewBadgeRepository creates a new instance of BadgeRepository
func NewBadgeRepository(db *database.Manager, logger *zap.Logger) BadgeRepository {
	return &badgeRepository{
		BaseRepository: NewBaseRepository(db, logger),
	}
}

const badgeColumns = `
	id, emoji, name, description, criteria_type, criteria_value,
	tier, xp_value, is_hidden, created_date`

// ListCatalog retrieves the badge catalog. Hidden badges are excluded unless
// includeHidden is set; the evaluator always loads the full catalog.
func (r *badgeRepository) ListCatalog(ctx context.Context, includeHidden bool) ([]*models.Badge, error) {
	query := `SELECT` + badgeColumns + ` FROM badges`
	if !includeHidden {
		query += ` WHERE NOT is_hidden`
	}
	query += ` ORDER BY id ASC`

	rows, err := r.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list badge catalog: %w", err)
	}
	defer rows.Close()

	var badges []*models.Badge
	for rows.Next() {
		badge, err := scanBadge(rows)
		if err != nil {
			return nil, err
		}
		badges = append(badges, badge)
	}

	return badges, rows.Err()
}

// GetGrantedBadgeIDs retrieves the set of badge IDs already granted to a user
func (r *badgeRepository) GetGrantedBadgeIDs(ctx context.Context, userID int64) (map[int64]bool, error) {
	rows, err := r.QueryContext(ctx,
		`SELECT badge_id FROM user_badges WHERE user_id = $1`, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list granted badges: %w", err)
	}
	defer rows.Close()

	granted := make(map[int64]bool)
	for rows.Next() {
		var badgeID int64
		if err := rows.Scan(&badgeID); err != nil {
			return nil, fmt.Errorf("failed to scan granted badge: %w", err)
		}
		granted[badgeID] = true
	}

	return granted, rows.Err()
}

// GetUserBadges retrieves a user's grants with full badge details
func (r *badgeRepository) GetUserBadges(ctx context.Context, userID int64) ([]*models.UserBadge, error) {
	query := `
		SELECT
			ub.id, ub.user_id, ub.badge_id, ub.earned_date, ub.notification_shown,
			b.id, b.emoji, b.name, b.description, b.criteria_type, b.criteria_value,
			b.tier, b.xp_value, b.is_hidden, b.created_date
		FROM user_badges ub
		INNER JOIN badges b ON ub.badge_id = b.id
		WHERE ub.user_id = $1
		ORDER BY ub.earned_date DESC, ub.id DESC`

	rows, err := r.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list user badges: %w", err)
	}
	defer rows.Close()

	var grants []*models.UserBadge
	for rows.Next() {
		var grant models.UserBadge
		var badge models.Badge
		if err := rows.Scan(
			&grant.ID, &grant.UserID, &grant.BadgeID, &grant.EarnedDate, &grant.NotificationShown,
			&badge.ID, &badge.Emoji, &badge.Name, &badge.Description, &badge.CriteriaType, &badge.CriteriaValue,
			&badge.Tier, &badge.XPValue, &badge.IsHidden, &badge.CreatedDate,
		); err != nil {
			return nil, fmt.Errorf("failed to scan user badge: %w", err)
		}
		grant.Badge = &badge
		grants = append(grants, &grant)
	}

	return grants, rows.Err()
}

// InsertGrant awards a badge to a user. The UNIQUE(user_id, badge_id)
// constraint is the at-most-once guarantee: a duplicate insert comes back as
// unique_violation and is reported as granted=false with no error, since the
// desired end state already holds.
func (r *badgeRepository) InsertGrant(ctx context.Context, userID, badgeID int64) (bool, error) {
	_, err := r.ExecContext(ctx,
		`INSERT INTO user_badges (user_id, badge_id, earned_date) VALUES ($1, $2, NOW())`,
		userID, badgeID,
	)
	if err != nil {
		if r.IsUniqueViolation(err) {
			r.GetLogger().Debug("Badge already granted",
				zap.Int64("user_id", userID),
				zap.Int64("badge_id", badgeID),
			)
			return false, nil
		}
		r.GetLogger().Error("Failed to grant badge",
			zap.Error(err),
			zap.Int64("user_id", userID),
			zap.Int64("badge_id", badgeID),
		)
		return false, fmt.Errorf("failed to grant badge: %w", err)
	}

	return true, nil
}

// MarkNotificationShown flips the notification flag on a grant
func (r *badgeRepository) MarkNotificationShown(ctx context.Context, userID, badgeID int64) error {
	result, err := r.ExecContext(ctx,
		`UPDATE user_badges SET notification_shown = TRUE WHERE user_id = $1 AND badge_id = $2`,
		userID, badgeID,
	)
	if err != nil {
		return fmt.Errorf("failed to mark notification shown: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}

	return nil
}

func scanBadge(rows *sql.Rows) (*models.Badge, error) {
	var badge models.Badge
	if err := rows.Scan(
		&badge.ID, &badge.Emoji, &badge.Name, &badge.Description,
		&badge.CriteriaType, &badge.CriteriaValue,
		&badge.Tier, &badge.XPValue, &badge.IsHidden, &badge.CreatedDate,
	); err != nil {
		return nil, fmt.Errorf("failed to scan badge: %w", err)
	}
	return &badge, nil
}
