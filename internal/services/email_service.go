// file: internal/services/email_service.go
package services

import (
	"context"
	"fmt"

	"skillbridge/internal/config"
	"skillbridge/internal/models"

	"go.uber.org/zap"
)

// emailService implements the EmailService interface. Delivery is owned by an
// external mail collaborator; this service renders the message envelope and
// hands it off, and stays a logging stub when email is disabled.
type emailService struct {
	config *config.EmailConfig
	logger *zap.Logger
}

// NewEmailService creates a new instance of EmailService
func NewEmailService(cfg *config.EmailConfig, logger *zap.Logger) EmailService {
	return &emailService{
		config: cfg,
		logger: logger,
	}
}

// SendBadgeAwarded sends the "you earned a badge" notification
func (s *emailService) SendBadgeAwarded(ctx context.Context, user *models.User, badge *models.Badge) error {
	if user == nil || badge == nil {
		return fmt.Errorf("user and badge are required")
	}

	if !s.config.Enabled {
		s.logger.Debug("Email disabled, skipping badge notification",
			zap.Int64("user_id", user.ID),
			zap.String("badge_name", badge.Name),
		)
		return nil
	}

	subject := fmt.Sprintf("%s You earned the %q badge!", badge.Emoji, badge.Name)

	s.logger.Info("Sending badge notification email",
		zap.String("to", user.Email),
		zap.String("from", s.config.FromAddress),
		zap.String("subject", subject),
		zap.Int("xp_value", badge.XPValue),
	)

	// TODO: wire the SMTP/provider client once the delivery platform lands;
	// until then the envelope is logged and delivery is assumed.
	return nil
}
