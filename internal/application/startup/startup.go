// Package startup prepares the application server
package startup

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/launchboard/launchboard-go/internal/application/container"
	"github.com/launchboard/launchboard-go/internal/infrastructure/observability/logging"
	"github.com/launchboard/launchboard-go/internal/infrastructure/observability/performance"
	"github.com/launchboard/launchboard-go/internal/infrastructure/persistence/database"
	"github.com/launchboard/launchboard-go/internal/infrastructure/security"
	"github.com/launchboard/launchboard-go/internal/presentation/http/server"
	"github.com/launchboard/launchboard-go/pkg/config"
)

// Initialize performs the complete startup sequence
func Initialize() error {
	setupLogging()

	start := time.Now().UTC()

	ctx, cancelBackgroundTasks := context.WithCancel(context.Background())
	defer cancelBackgroundTasks()

	log.Println("\033[32m" + `

  ██       █████  ██    ██ ███    ██  ██████ ██   ██
  ██      ██   ██ ██    ██ ████   ██ ██      ██   ██
  ██      ███████ ██    ██ ██ ██  ██ ██      ███████
  ██      ██   ██ ██    ██ ██  ██ ██ ██      ██   ██
  ███████ ██   ██  ██████  ██   ████  ██████ ██   ██
                                        board
` + "\033[0m")

	// Step 1: Initialize channeled logging
	log.Println("Initializing logging...")
	logLevel := slog.LevelInfo
	if config.LogLevelDebug {
		logLevel = slog.LevelDebug
	}
	logger, err := logging.NewChanneledLogger(&logging.LoggerConfig{
		OutputToFile:    config.LogToFile,
		OutputToConsole: config.LogToConsole,
		LogDirectory:    config.LogDirectory,
		JSONFormat:      true,
		IncludeSource:   false,
		DefaultLevel:    logLevel,
		ChannelLevels:   make(map[logging.Channel]slog.Level),
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	logger.Startup().Info("Channeled logging initialized", "defaultLevel", logLevel.String())

	// Step 2: Guard against an unsigned token surface
	if config.JWTSecret == "" {
		ephemeral, err := security.GenerateSecureKey(64)
		if err != nil {
			return fmt.Errorf("failed to generate ephemeral JWT secret: %w", err)
		}
		config.JWTSecret = ephemeral
		logger.Startup().Warn("JWT_SECRET not set; generated an ephemeral secret. SysOp sessions will not survive a restart.")
	}

	// Step 3: Connect to the database
	logger.Startup().Info("Connecting to database...", "driver", config.DBDriver)
	db, err := database.Connect(logger)
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	logger.Startup().Info("Database connection established", "driver", config.DBDriver)

	// Step 4: Run schema migrations
	logger.Startup().Info("Running database migrations...", "path", config.MigrationsPath)
	if err := database.RunMigrations(db, config.MigrationsPath, logger); err != nil {
		return fmt.Errorf("database migration failed: %w", err)
	}

	// Step 5: Create the performance tracker
	logger.Startup().Info("Initializing performance tracking...")
	perfTracker := performance.NewTracker(performance.DefaultTrackerConfig())

	// Step 6: Create dependency injection container
	logger.Startup().Info("Initializing dependency injection container...")
	appContainer := container.NewContainer(db, logger, perfTracker)
	logger.Startup().Info("Dependency injection container created with singleton services")

	// Step 7: Start the live activity broadcaster
	logger.Startup().Info("Starting activity broadcaster...", "interval", config.ActivityBroadcastInterval)
	go appContainer.ActivityBroadcaster.Run()

	// Step 8: Start periodic tracker cleanup
	go func() {
		ticker := time.NewTicker(15 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				perfTracker.Cleanup()
			case <-ctx.Done():
				return
			}
		}
	}()

	// Step 9: Start HTTP server
	logger.Startup().Info("Starting HTTP server...")
	port := config.Port
	httpServer := server.New(port, appContainer)

	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.System().Info("Starting HTTP server", "address", ":"+port)
		if err := httpServer.Start(); err != nil {
			logger.System().Error("HTTP server failed", "error", err.Error())
		}
	}()

	logger.Startup().Info("Application startup complete",
		"totalDuration", time.Since(start),
		"port", port)

	// Wait for shutdown signal
	<-gracefulShutdown
	logger.Shutdown().Info("Shutdown signal received, starting graceful shutdown...")

	shutdownStart := time.Now()

	// Cancel background tasks
	cancelBackgroundTasks()
	appContainer.ActivityBroadcaster.Shutdown()

	// Stop server
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	logger.Shutdown().Info("Stopping HTTP server...")
	if err := httpServer.Stop(shutdownCtx); err != nil {
		logger.Shutdown().Error("Error during server shutdown", "error", err.Error())
	} else {
		logger.Shutdown().Info("HTTP server stopped successfully")
	}

	// Close the database
	logger.Shutdown().Info("Closing database connection...")
	if err := db.Close(); err != nil {
		logger.Shutdown().Error("Error closing database", "error", err.Error())
	} else {
		logger.Shutdown().Info("Database connection closed")
	}

	elapsed := time.Since(start)
	logger.Shutdown().Info("Application shutdown complete",
		"totalUptime", elapsed,
		"shutdownDuration", time.Since(shutdownStart))

	return nil
}

// setupLogging configures application logging
func setupLogging() {
	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	log.SetFlags(log.LstdFlags | log.Lshortfile)
}
