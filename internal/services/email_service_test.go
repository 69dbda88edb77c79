// file: internal/services/email_service_test.go
package services

import (
	"context"
	"testing"
	"time"

	"skillbridge/internal/config"
	"skillbridge/internal/models"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestSendBadgeAwarded(t *testing.T) {
	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	service := NewEmailService(&config.EmailConfig{
		Enabled:     true,
		FromAddress: "no-reply@skillbridge.app",
		FromName:    "SkillBridge",
		SendTimeout: 10 * time.Second,
	}, logger)

	user := &models.User{ID: 7, Username: "ada", Email: "ada@example.com"}
	badge := &models.Badge{ID: 1, Emoji: "🎉", Name: "First Step", XPValue: 10}

	err := service.SendBadgeAwarded(context.Background(), user, badge)
	assert.NoError(t, err, "SendBadgeAwarded should not return an error")
}

func TestSendBadgeAwardedDisabled(t *testing.T) {
	service := NewEmailService(&config.EmailConfig{Enabled: false}, zap.NewNop())

	user := &models.User{ID: 7, Email: "ada@example.com"}
	badge := &models.Badge{ID: 1, Name: "First Step"}

	err := service.SendBadgeAwarded(context.Background(), user, badge)
	assert.NoError(t, err, "disabled email must be a silent no-op")
}

func TestSendBadgeAwardedRequiresUserAndBadge(t *testing.T) {
	service := NewEmailService(&config.EmailConfig{Enabled: true}, zap.NewNop())

	assert.Error(t, service.SendBadgeAwarded(context.Background(), nil, &models.Badge{}))
	assert.Error(t, service.SendBadgeAwarded(context.Background(), &models.User{}, nil))
}
