package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/launchboard/launchboard-go/internal/application/services"
	"github.com/launchboard/launchboard-go/internal/domain/user"
	"github.com/launchboard/launchboard-go/internal/infrastructure/observability/logging"
	"github.com/launchboard/launchboard-go/internal/infrastructure/observability/performance"
)

// UserHandlers contains the public user profile handlers
type UserHandlers struct {
	userService *services.UserService
	logger      *logging.ChanneledLogger
	perfTracker *performance.Tracker
}

// NewUserHandlers creates user handlers with injected dependencies
func NewUserHandlers(userService *services.UserService, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *UserHandlers {
	return &UserHandlers{
		userService: userService,
		logger:      logger,
		perfTracker: perfTracker,
	}
}

// GetUserProfile handles GET /api/v1/users/:username
func (h *UserHandlers) GetUserProfile(c *gin.Context) {
	start := time.Now()
	marker := h.perfTracker.StartOperation("get_user_profile_request")
	defer h.perfTracker.CompleteOperation(marker)

	username := c.Param("username")
	profile, err := h.userService.GetProfile(c.Request.Context(), username)
	if err != nil {
		marker.SetError(err)
		if errors.Is(err, user.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch user"})
		return
	}

	marker.SetSuccess(true)
	h.logger.Perf().Info("Performance for GetUserProfile request", "duration", time.Since(start), "username", username, "success", true)
	c.JSON(http.StatusOK, profile)
}
