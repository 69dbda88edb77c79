// ===============================
// FILE: internal/handlers/api/v1/badges/badges_controller.go
// ===============================

package badges

import (
	"net/http"
	"strconv"

	"skillbridge/internal/middleware"
	"skillbridge/internal/response"
	"skillbridge/internal/services"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// BadgeController handles badge catalog and grant endpoints
type BadgeController struct {
	serviceCollection *services.ServiceCollection
	logger            *zap.Logger
	responseBuilder   *response.Builder
}

// NewBadgeController creates a new badge controller
func NewBadgeController(
	serviceCollection *services.ServiceCollection,
	logger *zap.Logger,
	responseBuilder *response.Builder,
) *BadgeController {
	return &BadgeController{
		serviceCollection: serviceCollection,
		logger:            logger,
		responseBuilder:   responseBuilder,
	}
}

// ListCatalog handles GET /api/v1/badges
func (c *BadgeController) ListCatalog(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	badges, err := c.serviceCollection.Badge.ListCatalog(ctx)
	if err != nil {
		c.responseBuilder.WriteError(ctx, w, err)
		return
	}

	c.responseBuilder.WriteSuccess(ctx, w, badges)
}

// GetMyBadges handles GET /api/v1/badges/mine
func (c *BadgeController) GetMyBadges(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	authCtx, ok := middleware.GetAuthContext(ctx)
	if !ok {
		c.responseBuilder.WriteUnauthorized(ctx, w, "")
		return
	}

	grants, err := c.serviceCollection.Badge.GetUserBadges(ctx, authCtx.UserID)
	if err != nil {
		c.responseBuilder.WriteError(ctx, w, err)
		return
	}

	c.responseBuilder.WriteSuccess(ctx, w, grants)
}

// MarkSeen handles POST /api/v1/badges/mine/{badgeID}/seen
func (c *BadgeController) MarkSeen(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	authCtx, ok := middleware.GetAuthContext(ctx)
	if !ok {
		c.responseBuilder.WriteUnauthorized(ctx, w, "")
		return
	}

	badgeID, err := strconv.ParseInt(mux.Vars(r)["badgeID"], 10, 64)
	if err != nil {
		c.responseBuilder.WriteBadRequest(ctx, w, "invalid badge ID")
		return
	}

	if err := c.serviceCollection.Badge.MarkNotificationShown(ctx, authCtx.UserID, badgeID); err != nil {
		c.responseBuilder.WriteError(ctx, w, err)
		return
	}

	c.responseBuilder.WriteNoContent(ctx, w)
}

// Evaluate handles POST /api/v1/badges/evaluate. Watch events already run the
// evaluator; this endpoint re-runs it for activity reported by other systems.
func (c *BadgeController) Evaluate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	authCtx, ok := middleware.GetAuthContext(ctx)
	if !ok {
		c.responseBuilder.WriteUnauthorized(ctx, w, "")
		return
	}

	awarded, err := c.serviceCollection.Badge.EvaluateAndAward(ctx, authCtx.UserID)
	if err != nil {
		c.responseBuilder.WriteError(ctx, w, err)
		return
	}

	c.logger.Info("Badge evaluation requested",
		zap.Int64("user_id", authCtx.UserID),
		zap.Int("awarded", len(awarded)),
	)

	c.responseBuilder.WriteSuccess(ctx, w, awarded)
}
