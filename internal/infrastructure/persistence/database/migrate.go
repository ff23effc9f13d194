package database

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/launchboard/launchboard-go/internal/infrastructure/observability/logging"
)

// RunMigrations applies all pending schema migrations from the given
// directory. A database already at the latest version is not an error.
func RunMigrations(db *DB, migrationsDir string, logger *logging.ChanneledLogger) error {
	start := time.Now()

	absPath, err := filepath.Abs(migrationsDir)
	if err != nil {
		return fmt.Errorf("failed to resolve migrations path: %w", err)
	}

	if _, err := os.Stat(absPath); os.IsNotExist(err) {
		return fmt.Errorf("migrations directory not found: %s", absPath)
	}

	driver, err := sqlite3.WithInstance(db.DB, &sqlite3.Config{})
	if err != nil {
		return fmt.Errorf("failed to create sqlite driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(fmt.Sprintf("file://%s", absPath), "sqlite3", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			logger.Database().Info("Schema already up to date", "path", absPath)
			return nil
		}
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Database().Info("Schema migrations applied", "path", absPath, "duration", time.Since(start))
	return nil
}
