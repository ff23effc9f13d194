// Package services provides sysop dashboard operations
package services

import (
	"errors"
	"time"

	"github.com/launchboard/launchboard-go/internal/infrastructure/observability/logging"
	"github.com/launchboard/launchboard-go/internal/infrastructure/observability/performance"
	"github.com/launchboard/launchboard-go/internal/infrastructure/security"
	"github.com/launchboard/launchboard-go/pkg/config"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned when the sysop password does not match.
var ErrInvalidCredentials = errors.New("invalid credentials")

// SysOpService handles operator dashboard authentication and status
type SysOpService struct {
	logger      *logging.ChanneledLogger
	perfTracker *performance.Tracker
}

// NewSysOpService creates a new sysop service with injected dependencies
func NewSysOpService(logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *SysOpService {
	return &SysOpService{
		logger:      logger,
		perfTracker: perfTracker,
	}
}

// Login verifies the operator password against the configured bcrypt hash
// and issues a short-lived token.
func (s *SysOpService) Login(password string) (string, error) {
	marker := s.perfTracker.StartOperation("sysop_auth_login")
	defer s.perfTracker.CompleteOperation(marker)

	if config.SysOpPasswordHash == "" {
		err := errors.New("sysop access is not configured")
		marker.SetError(err)
		s.logger.Auth().Error("SysOp login attempted without configured password hash")
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(config.SysOpPasswordHash), []byte(password)); err != nil {
		marker.SetError(ErrInvalidCredentials)
		s.logger.Auth().Warn("SysOp login rejected", "reason", "password mismatch")
		return "", ErrInvalidCredentials
	}

	token, err := security.GenerateSysOpToken(config.JWTSecret, config.SysOpTokenTTL)
	if err != nil {
		marker.SetError(err)
		s.logger.Auth().Error("Failed to sign sysop token", "error", err.Error())
		return "", err
	}

	marker.SetSuccess(true)
	s.logger.Auth().Info("SysOp login succeeded", "ttl", config.SysOpTokenTTL)
	return token, nil
}

// ValidateToken checks a bearer token and confirms it carries the sysop role.
func (s *SysOpService) ValidateToken(token string) error {
	claims, err := security.ValidateJWT(token, config.JWTSecret)
	if err != nil {
		return err
	}
	if !security.IsSysOpClaims(claims) {
		return errors.New("token lacks sysop role")
	}
	return nil
}

// ActivitySnapshot returns the current operational picture for the
// dashboard's polling fallback when websockets are unavailable.
func (s *SysOpService) ActivitySnapshot() map[string]any {
	snapshot := s.perfTracker.TakeSnapshot()

	return map[string]any{
		"timestamp":           snapshot.Timestamp,
		"health":              snapshot.OverallHealth,
		"activeOperations":    snapshot.ActiveOperations,
		"completedOperations": snapshot.CompletedOperations,
		"analytics":           snapshot.Analytics,
		"catalog":             snapshot.Catalog,
		"alerts":              s.perfTracker.GetAlerts(),
		"stats":               s.perfTracker.GetOverallStats(),
		"generatedAt":         time.Now().UTC(),
	}
}
