package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/launchboard/launchboard-go/internal/infrastructure/observability/performance"
	"github.com/launchboard/launchboard-go/pkg/config"
)

func sysOpFixture(t *testing.T, password string) *SysOpService {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	prevHash, prevSecret := config.SysOpPasswordHash, config.JWTSecret
	config.SysOpPasswordHash = string(hash)
	config.JWTSecret = "test-signing-secret"
	t.Cleanup(func() {
		config.SysOpPasswordHash = prevHash
		config.JWTSecret = prevSecret
	})

	return NewSysOpService(quietLogger(t), performance.NewTracker(nil))
}

func TestSysOpLoginIssuesValidToken(t *testing.T) {
	svc := sysOpFixture(t, "hunter2")

	token, err := svc.Login("hunter2")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	assert.NoError(t, svc.ValidateToken(token))
}

func TestSysOpLoginRejectsWrongPassword(t *testing.T) {
	svc := sysOpFixture(t, "hunter2")

	token, err := svc.Login("letmein")

	assert.Empty(t, token)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestSysOpLoginWithoutConfiguredHash(t *testing.T) {
	svc := sysOpFixture(t, "hunter2")
	config.SysOpPasswordHash = ""

	_, err := svc.Login("hunter2")
	assert.Error(t, err)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	svc := sysOpFixture(t, "hunter2")

	assert.Error(t, svc.ValidateToken("not-a-jwt"))
}
