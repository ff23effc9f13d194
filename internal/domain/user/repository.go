// Package user defines the subject identity entity and its repository
// contract. The repository abstracts persistence details so the analytics
// core stays decoupled from the database.
package user

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when no user matches the requested username.
var ErrNotFound = errors.New("user not found")

// User represents a registered member whose products are being analyzed.
type User struct {
	ID          string    `json:"id"`
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name"`
	JoinedAt    time.Time `json:"joined_at"`
}

// Repository defines the operations for resolving User entities.
type Repository interface {
	FindByID(ctx context.Context, id string) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	CountProducts(ctx context.Context, userID string) (int, error)
}
