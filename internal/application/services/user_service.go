package services

import (
	"context"
	"time"

	"github.com/launchboard/launchboard-go/internal/domain/user"
	"github.com/launchboard/launchboard-go/internal/infrastructure/observability/logging"
	"github.com/launchboard/launchboard-go/internal/infrastructure/observability/performance"
)

// UserProfile is the public profile payload: identity plus the owned
// product count.
type UserProfile struct {
	User          *user.User `json:"user"`
	TotalProducts int        `json:"total_products"`
}

// UserService handles public user profile reads.
type UserService struct {
	users       user.Repository
	logger      *logging.ChanneledLogger
	perfTracker *performance.Tracker
}

// NewUserService creates a new user service with injected dependencies
func NewUserService(
	users user.Repository,
	logger *logging.ChanneledLogger,
	perfTracker *performance.Tracker,
) *UserService {
	return &UserService{
		users:       users,
		logger:      logger,
		perfTracker: perfTracker,
	}
}

// GetProfile resolves a user by username. A miss returns user.ErrNotFound.
func (s *UserService) GetProfile(ctx context.Context, username string) (*UserProfile, error) {
	start := time.Now()
	marker := s.perfTracker.StartOperationWithContext(ctx, "user_profile_lookup")
	defer s.perfTracker.CompleteOperation(marker)

	subject, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		marker.SetError(err)
		if err != user.ErrNotFound {
			s.logger.Catalog().Error("Failed to load user profile", "username", username, "error", err.Error())
		}
		return nil, err
	}

	count, err := s.users.CountProducts(ctx, subject.ID)
	if err != nil {
		marker.SetError(err)
		s.logger.Catalog().Error("Failed to count user products", "userId", subject.ID, "error", err.Error())
		return nil, err
	}

	marker.SetSuccess(true)
	s.logger.Catalog().Info("Loaded user profile", "username", username, "duration", time.Since(start))
	return &UserProfile{User: subject, TotalProducts: count}, nil
}
