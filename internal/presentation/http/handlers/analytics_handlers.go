// Package handlers provides HTTP request handlers for the presentation layer.
package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/launchboard/launchboard-go/internal/application/services"
	"github.com/launchboard/launchboard-go/internal/domain/analytics"
	"github.com/launchboard/launchboard-go/internal/domain/user"
	"github.com/launchboard/launchboard-go/internal/infrastructure/observability/logging"
	"github.com/launchboard/launchboard-go/internal/infrastructure/observability/performance"
)

// AnalyticsHandlers contains the per-user analytics HTTP handlers
type AnalyticsHandlers struct {
	analyticsService *services.UserAnalyticsService
	logger           *logging.ChanneledLogger
	perfTracker      *performance.Tracker
}

// NewAnalyticsHandlers creates analytics handlers with injected dependencies
func NewAnalyticsHandlers(
	analyticsService *services.UserAnalyticsService,
	logger *logging.ChanneledLogger,
	perfTracker *performance.Tracker,
) *AnalyticsHandlers {
	return &AnalyticsHandlers{
		analyticsService: analyticsService,
		logger:           logger,
		perfTracker:      perfTracker,
	}
}

// GetUserAnalytics handles GET /api/v1/analytics/users/:username
func (h *AnalyticsHandlers) GetUserAnalytics(c *gin.Context) {
	start := time.Now()
	marker := h.perfTracker.StartOperation("get_user_analytics_request")
	defer h.perfTracker.CompleteOperation(marker)

	username := c.Param("username")
	h.logger.Analytics().Debug("Received user analytics request",
		"method", c.Request.Method, "path", c.Request.URL.Path, "username", username)

	opts, err := parseAnalyticsOptions(c)
	if err != nil {
		marker.SetError(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.analyticsService.ComputeUserAnalytics(c.Request.Context(), username, opts)
	if err != nil {
		marker.SetError(err)
		if errors.Is(err, user.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		h.logger.Analytics().Error("User analytics request failed",
			"username", username, "error", err.Error(), "duration", time.Since(start))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch analytics"})
		return
	}

	marker.SetSuccess(true)
	h.logger.Perf().Info("Performance for GetUserAnalytics request",
		"duration", time.Since(start), "username", username, "success", true)

	c.JSON(http.StatusOK, result)
}

// parseAnalyticsOptions reads the filter query parameters. Unknown timeRange
// and sortBy values pass through untouched; the domain resolves them to
// defaults. Malformed or negative numeric thresholds are rejected here.
func parseAnalyticsOptions(c *gin.Context) (analytics.Options, error) {
	opts := analytics.Options{
		TimeRange: c.Query("timeRange"),
		Category:  c.Query("category"),
		SortBy:    c.Query("sortBy"),
	}

	var err error
	if opts.MinViews, err = parseThreshold(c, "minViews"); err != nil {
		return analytics.Options{}, err
	}
	if opts.MinVotes, err = parseThreshold(c, "minVotes"); err != nil {
		return analytics.Options{}, err
	}
	if opts.MinComments, err = parseThreshold(c, "minComments"); err != nil {
		return analytics.Options{}, err
	}

	opts.ActiveOnly = c.Query("activeOnly") == "true"

	return opts, nil
}

func parseThreshold(c *gin.Context, name string) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, nil
	}

	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return 0, errors.New("Invalid " + name + " parameter")
	}
	return value, nil
}
