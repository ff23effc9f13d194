// Package container provides dependency injection for all singleton services
package container

import (
	"github.com/launchboard/launchboard-go/internal/application/services"
	"github.com/launchboard/launchboard-go/internal/infrastructure/messaging"
	"github.com/launchboard/launchboard-go/internal/infrastructure/observability/logging"
	"github.com/launchboard/launchboard-go/internal/infrastructure/observability/performance"
	factstore "github.com/launchboard/launchboard-go/internal/infrastructure/persistence/analytics"
	catalogrepo "github.com/launchboard/launchboard-go/internal/infrastructure/persistence/catalog"
	"github.com/launchboard/launchboard-go/internal/infrastructure/persistence/database"
	userrepo "github.com/launchboard/launchboard-go/internal/infrastructure/persistence/user"
)

// Container holds all singleton services and infrastructure dependencies
type Container struct {
	// Application Services (stateless singletons)
	UserAnalyticsService *services.UserAnalyticsService
	CatalogService       *services.CatalogService
	UserService          *services.UserService
	SysOpService         *services.SysOpService
	DBService            *services.DBService

	// Infrastructure Dependencies
	DB                  *database.DB
	Logger              *logging.ChanneledLogger
	PerfTracker         *performance.Tracker
	LogBroadcaster      *logging.LogBroadcaster
	ActivityBroadcaster *messaging.ActivityBroadcaster
}

// NewContainer creates and wires all singleton services
func NewContainer(db *database.DB, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *Container {
	users := userrepo.NewSQLUserRepository(db, logger)
	products := catalogrepo.NewSQLProductRepository(db, logger)
	facts := factstore.NewSQLFactStore(db, logger)

	return &Container{
		UserAnalyticsService: services.NewUserAnalyticsService(users, facts, logger, perfTracker),
		CatalogService:       services.NewCatalogService(products, logger, perfTracker),
		UserService:          services.NewUserService(users, logger, perfTracker),
		SysOpService:         services.NewSysOpService(logger, perfTracker),
		DBService:            services.NewDBService(db, logger, perfTracker),

		DB:                  db,
		Logger:              logger,
		PerfTracker:         perfTracker,
		LogBroadcaster:      logging.GetBroadcaster(),
		ActivityBroadcaster: messaging.NewActivityBroadcaster(perfTracker, logger),
	}
}
