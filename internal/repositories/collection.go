// file: internal/repositories/collection.go
package repositories

import (
	"context"
	"fmt"

	"skillbridge/internal/database"

	"go.uber.org/zap"
)

// Collection holds all repository instances for dependency injection
type Collection struct {
	User       UserRepository
	Lesson     LessonRepository
	Progress   ProgressRepository
	Enrollment EnrollmentRepository
	Badge      BadgeRepository
	Activity   ActivityRepository

	// Database and logger for custom operations
	db     *database.Manager
	logger *zap.Logger
}

// NewCollection creates a new repository collection with all dependencies
func NewCollection(db *database.Manager, logger *zap.Logger) (*Collection, error) {
	if db == nil {
		return nil, fmt.Errorf("database manager is required")
	}

	if logger == nil {
		logger, _ = zap.NewProduction()
	}

	collection := &Collection{
		db:     db,
		logger: logger,
	}

	collection.User = NewUserRepository(db, logger)
	collection.Lesson = NewLessonRepository(db, logger)
	collection.Progress = NewProgressRepository(db, logger)
	collection.Enrollment = NewEnrollmentRepository(db, logger)
	collection.Badge = NewBadgeRepository(db, logger)
	collection.Activity = NewActivityRepository(db, logger)

	logger.Info("Repository collection initialized successfully")

	return collection, nil
}

// HealthCheck reports database connectivity for the health endpoint
func (c *Collection) HealthCheck(ctx context.Context) map[string]interface{} {
	dbHealth := c.db.Health(ctx)

	return map[string]interface{}{
		"database": dbHealth,
	}
}

// GetDB returns the underlying database manager for advanced operations
func (c *Collection) GetDB() *database.Manager {
	return c.db
}

// GetLogger returns the logger instance
func (c *Collection) GetLogger() *zap.Logger {
	return c.logger
}

// Close closes all repository connections and cleans up resources
func (c *Collection) Close() error {
	c.logger.Info("Closing repository collection")

	if c.db != nil {
		return c.db.Close()
	}

	return nil
}
