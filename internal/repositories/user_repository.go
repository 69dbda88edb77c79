// file: internal/repositories/user_repository.go
package repositories

import (
	"context"
	"fmt"

	"skillbridge/internal/database"
	"skillbridge/internal/models"

	"go.uber.org/zap"
)

// userRepository implements UserRepository. The users table is written by the
// main platform service; everything here is read-only.
type userRepository struct {
	*BaseRepository
}

// NewUserRepository creates a new instance of UserRepository
func NewUserRepository(db *database.Manager, logger *zap.Logger) UserRepository {
	return &userRepository{
		BaseRepository: NewBaseRepository(db, logger),
	}
}

// GetByID retrieves a user by ID
func (r *userRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	query := `
		SELECT
			id, username, email, first_name, last_name,
			profile_picture_url, bio, role, registration_date, last_login_date
		FROM users
		WHERE id = $1`

	var user models.User
	err := r.QueryRowContext(ctx, query, id).Scan(
		&user.ID, &user.Username, &user.Email, &user.FirstName, &user.LastName,
		&user.ProfilePictureURL, &user.Bio, &user.Role,
		&user.RegistrationDate, &user.LastLoginDate,
	)
	if err != nil {
		if r.IsNotFound(err) {
			return nil, err
		}
		r.GetLogger().Error("Failed to get user",
			zap.Error(err),
			zap.Int64("user_id", id),
		)
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

// Exists checks whether a user exists
func (r *userRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`, id,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check user existence: %w", err)
	}
	return exists, nil
}
