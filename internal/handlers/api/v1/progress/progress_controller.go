// ===============================
// FILE: internal/handlers/api/v1/progress/progress_controller.go
// ===============================

package progress

import (
	"encoding/json"
	"net/http"
	"strconv"

	"skillbridge/internal/middleware"
	"skillbridge/internal/response"
	"skillbridge/internal/services"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// ProgressController handles watch tracking and enrollment progress endpoints
type ProgressController struct {
	serviceCollection *services.ServiceCollection
	logger            *zap.Logger
	responseBuilder   *response.Builder
}

// NewProgressController creates a new progress controller
func NewProgressController(
	serviceCollection *services.ServiceCollection,
	logger *zap.Logger,
	responseBuilder *response.Builder,
) *ProgressController {
	return &ProgressController{
		serviceCollection: serviceCollection,
		logger:            logger,
		responseBuilder:   responseBuilder,
	}
}

// RecordWatch handles POST /api/v1/progress/watch
func (c *ProgressController) RecordWatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	authCtx, ok := middleware.GetAuthContext(ctx)
	if !ok {
		c.responseBuilder.WriteUnauthorized(ctx, w, "")
		return
	}

	var req services.RecordWatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.logger.Warn("Failed to decode watch event", zap.Error(err))
		c.responseBuilder.WriteBadRequest(ctx, w, "invalid request body")
		return
	}

	// The reporter is always the authenticated user; never trust the body.
	req.UserID = authCtx.UserID

	result, err := c.serviceCollection.Progress.RecordWatch(ctx, &req)
	if err != nil {
		c.responseBuilder.WriteError(ctx, w, err)
		return
	}

	c.responseBuilder.WriteSuccess(ctx, w, result)
}

// GetMyProgress handles GET /api/v1/progress
func (c *ProgressController) GetMyProgress(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	authCtx, ok := middleware.GetAuthContext(ctx)
	if !ok {
		c.responseBuilder.WriteUnauthorized(ctx, w, "")
		return
	}

	records, err := c.serviceCollection.Progress.GetUserProgress(ctx, authCtx.UserID)
	if err != nil {
		c.responseBuilder.WriteError(ctx, w, err)
		return
	}

	c.responseBuilder.WriteSuccess(ctx, w, records)
}

// GetCourseProgress handles GET /api/v1/progress/courses/{courseID}
func (c *ProgressController) GetCourseProgress(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	authCtx, ok := middleware.GetAuthContext(ctx)
	if !ok {
		c.responseBuilder.WriteUnauthorized(ctx, w, "")
		return
	}

	courseID, err := pathID(r, "courseID")
	if err != nil {
		c.responseBuilder.WriteBadRequest(ctx, w, "invalid course ID")
		return
	}

	detail, err := c.serviceCollection.Progress.GetCourseProgress(ctx, authCtx.UserID, courseID)
	if err != nil {
		c.responseBuilder.WriteError(ctx, w, err)
		return
	}

	c.responseBuilder.WriteSuccess(ctx, w, detail)
}

// AcknowledgeCelebration handles POST /api/v1/enrollments/{courseID}/celebration
func (c *ProgressController) AcknowledgeCelebration(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	authCtx, ok := middleware.GetAuthContext(ctx)
	if !ok {
		c.responseBuilder.WriteUnauthorized(ctx, w, "")
		return
	}

	courseID, err := pathID(r, "courseID")
	if err != nil {
		c.responseBuilder.WriteBadRequest(ctx, w, "invalid course ID")
		return
	}

	if err := c.serviceCollection.Progress.AcknowledgeCelebration(ctx, authCtx.UserID, courseID); err != nil {
		c.responseBuilder.WriteError(ctx, w, err)
		return
	}

	c.responseBuilder.WriteNoContent(ctx, w)
}

func pathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)[name], 10, 64)
}
