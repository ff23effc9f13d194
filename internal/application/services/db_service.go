package services

import (
	"context"
	"fmt"
	"time"

	"github.com/launchboard/launchboard-go/internal/infrastructure/observability/logging"
	"github.com/launchboard/launchboard-go/internal/infrastructure/observability/performance"
	"github.com/launchboard/launchboard-go/internal/infrastructure/persistence/database"
)

// DBService handles database connectivity and health checking
type DBService struct {
	db          *database.DB
	logger      *logging.ChanneledLogger
	perfTracker *performance.Tracker
}

// NewDBService creates a new database service
func NewDBService(db *database.DB, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *DBService {
	return &DBService{
		db:          db,
		logger:      logger,
		perfTracker: perfTracker,
	}
}

// requiredTables are the tables the analytics and catalog surfaces query.
var requiredTables = []string{
	"users", "products", "tags", "product_tags",
	"votes", "comments", "views", "clicks",
}

// CheckStatus performs basic database health check
func (d *DBService) CheckStatus(ctx context.Context) map[string]any {
	marker := d.perfTracker.StartOperation("db_status_check")
	defer d.perfTracker.CompleteOperation(marker)

	result := map[string]any{
		"status":    "checking",
		"timestamp": time.Now(),
	}

	if d.db == nil {
		result["status"] = "error"
		result["error"] = "no database connection"
		marker.SetError(fmt.Errorf("no database connection"))
		return result
	}

	var testResult int
	if err := d.db.QueryRowContext(ctx, "SELECT 1").Scan(&testResult); err != nil {
		result["status"] = "error"
		result["error"] = fmt.Sprintf("connection test failed: %v", err)
		marker.SetError(err)
		d.logger.Database().Error("Database status check failed", "error", err.Error())
		return result
	}

	tableStatus := make(map[string]bool)
	allTablesExist := true

	for _, table := range requiredTables {
		exists := d.tableExists(ctx, table)
		tableStatus[table] = exists
		if !exists {
			allTablesExist = false
		}
	}

	result["status"] = "healthy"
	result["allTablesExist"] = allTablesExist
	result["tableStatus"] = tableStatus

	if !allTablesExist {
		result["status"] = "degraded"
		d.logger.Database().Warn("Database status degraded", "tableStatus", tableStatus)
	}

	marker.SetSuccess(true)
	return result
}

// tableExists checks whether a table is present in the schema.
func (d *DBService) tableExists(ctx context.Context, table string) bool {
	const query = `SELECT name FROM sqlite_master WHERE type='table' AND name = ?`

	var name string
	if err := d.db.QueryRowContext(ctx, query, table).Scan(&name); err != nil {
		return false
	}
	return name == table
}
