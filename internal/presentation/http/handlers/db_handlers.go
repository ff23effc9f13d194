// Package handlers provides HTTP request handlers for the presentation layer.
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/launchboard/launchboard-go/internal/application/services"
	"github.com/launchboard/launchboard-go/internal/infrastructure/observability/logging"
	"github.com/launchboard/launchboard-go/internal/infrastructure/observability/performance"
)

// DatabaseHandlers contains all database-related HTTP handlers
type DatabaseHandlers struct {
	dbService   *services.DBService
	logger      *logging.ChanneledLogger
	perfTracker *performance.Tracker
}

// NewDBHandlers creates database handlers with injected dependencies
func NewDBHandlers(dbService *services.DBService, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *DatabaseHandlers {
	return &DatabaseHandlers{
		dbService:   dbService,
		logger:      logger,
		perfTracker: perfTracker,
	}
}

// GetDatabaseStatus handles GET /api/v1/db/status
func (h *DatabaseHandlers) GetDatabaseStatus(c *gin.Context) {
	start := time.Now()
	marker := h.perfTracker.StartOperation("get_database_status_request")
	defer h.perfTracker.CompleteOperation(marker)
	h.logger.System().Debug("Received get database status request", "method", c.Request.Method, "path", c.Request.URL.Path)

	status := h.dbService.CheckStatus(c.Request.Context())

	if errMsg, ok := status["error"].(string); ok && errMsg != "" {
		h.logger.System().Error("Database status check failed", "error", errMsg, "duration", time.Since(start))
		marker.SetSuccess(false)
		h.logger.Perf().Info("Performance for GetDatabaseStatus request", "duration", time.Since(start), "success", false)

		// Return error status but still return 200 OK with error details
		c.JSON(http.StatusOK, status)
		return
	}

	h.logger.System().Info("Database status check completed", "status", status["status"], "allTablesExist", status["allTablesExist"], "duration", time.Since(start))
	marker.SetSuccess(true)
	h.logger.Perf().Info("Performance for GetDatabaseStatus request", "duration", time.Since(start), "success", true)

	c.JSON(http.StatusOK, status)
}
