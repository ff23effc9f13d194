// Package user provides the concrete SQL-based implementation of the user
// repository.
package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/launchboard/launchboard-go/internal/domain/user"
	"github.com/launchboard/launchboard-go/internal/infrastructure/observability/logging"
	"github.com/launchboard/launchboard-go/internal/infrastructure/persistence/database"
)

const sqliteTimeFormat = "2006-01-02 15:04:05"

// SQLUserRepository handles user identity lookups.
type SQLUserRepository struct {
	db     *database.DB
	logger *logging.ChanneledLogger
}

// NewSQLUserRepository creates a new instance of the repository.
func NewSQLUserRepository(db *database.DB, logger *logging.ChanneledLogger) *SQLUserRepository {
	return &SQLUserRepository{
		db:     db,
		logger: logger,
	}
}

// FindByID retrieves a user by primary key.
func (r *SQLUserRepository) FindByID(ctx context.Context, id string) (*user.User, error) {
	const query = `SELECT id, username, name, created_at FROM users WHERE id = ?`
	return r.findOne(ctx, query, id)
}

// FindByUsername resolves the analytics subject. A miss returns
// user.ErrNotFound, which the boundary maps to 404.
func (r *SQLUserRepository) FindByUsername(ctx context.Context, username string) (*user.User, error) {
	const query = `SELECT id, username, name, created_at FROM users WHERE username = ?`
	return r.findOne(ctx, query, username)
}

func (r *SQLUserRepository) findOne(ctx context.Context, query string, arg string) (*user.User, error) {
	start := time.Now()
	r.logger.Database().Debug("Executing user lookup", "arg", arg)

	var u user.User
	var createdAtStr string
	err := r.db.QueryRowContext(ctx, query, arg).Scan(&u.ID, &u.Username, &u.DisplayName, &createdAtStr)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, user.ErrNotFound
	}
	if err != nil {
		r.logger.Database().Error("User lookup failed", "error", err.Error(), "arg", arg)
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	u.JoinedAt, err = parseTimestamp(createdAtStr)
	if err != nil {
		r.logger.Database().Error("Failed to parse user timestamp", "error", err.Error(), "userId", u.ID)
		return nil, err
	}

	r.logger.Database().Info("User lookup completed", "userId", u.ID, "duration", time.Since(start))
	database.CheckAndLogSlowQuery(r.logger, query, time.Since(start))

	return &u, nil
}

// CountProducts returns the number of products owned by a user.
func (r *SQLUserRepository) CountProducts(ctx context.Context, userID string) (int, error) {
	const query = `SELECT COUNT(*) FROM products WHERE user_id = ?`

	start := time.Now()
	var count int
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&count); err != nil {
		r.logger.Database().Error("Product count failed", "error", err.Error(), "userId", userID)
		return 0, fmt.Errorf("failed to count products: %w", err)
	}

	database.CheckAndLogSlowQuery(r.logger, query, time.Since(start))
	return count, nil
}

func parseTimestamp(timestampStr string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, timestampStr); err == nil {
		return t, nil
	}

	if t, err := time.Parse(sqliteTimeFormat, timestampStr); err == nil {
		return t, nil
	}

	return time.Time{}, fmt.Errorf("unable to parse timestamp format: %s", timestampStr)
}
