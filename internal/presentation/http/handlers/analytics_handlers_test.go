package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/launchboard/launchboard-go/internal/application/services"
	"github.com/launchboard/launchboard-go/internal/domain/analytics"
	"github.com/launchboard/launchboard-go/internal/domain/user"
	"github.com/launchboard/launchboard-go/internal/infrastructure/observability/logging"
	"github.com/launchboard/launchboard-go/internal/infrastructure/observability/performance"
)

func quietLogger(t *testing.T) *logging.ChanneledLogger {
	t.Helper()
	logger, err := logging.NewChanneledLogger(&logging.LoggerConfig{
		OutputToFile:    false,
		OutputToConsole: false,
		DefaultLevel:    slog.LevelError,
	})
	require.NoError(t, err)
	return logger
}

type fixedUserRepo struct {
	known *user.User
}

func (r *fixedUserRepo) FindByID(_ context.Context, id string) (*user.User, error) {
	if r.known != nil && r.known.ID == id {
		return r.known, nil
	}
	return nil, user.ErrNotFound
}

func (r *fixedUserRepo) FindByUsername(_ context.Context, username string) (*user.User, error) {
	if r.known != nil && r.known.Username == username {
		return r.known, nil
	}
	return nil, user.ErrNotFound
}

func (r *fixedUserRepo) CountProducts(_ context.Context, _ string) (int, error) {
	return 0, nil
}

// emptyFactStore returns zero-valued aggregates, or fails every call when
// broken is set.
type emptyFactStore struct {
	broken bool
}

func (s *emptyFactStore) err() error {
	if s.broken {
		return errors.New("query failed")
	}
	return nil
}

func (s *emptyFactStore) Overview(_ context.Context, _ string, _ *analytics.QuerySpec) (analytics.Overview, error) {
	return analytics.Overview{}, s.err()
}

func (s *emptyFactStore) EventsByDay(_ context.Context, _ string, _ analytics.EventKind, _ *analytics.QuerySpec) ([]analytics.DailyCount, error) {
	return nil, s.err()
}

func (s *emptyFactStore) ProductTotals(_ context.Context, _ string, _ *analytics.QuerySpec) ([]analytics.ProductPerformance, error) {
	return nil, s.err()
}

func (s *emptyFactStore) ActorActivity(_ context.Context, _ string) (analytics.UserActivity, error) {
	return analytics.UserActivity{}, s.err()
}

func (s *emptyFactStore) GrowthCounters(_ context.Context, _ string, _ analytics.TimeWindow) (analytics.GrowthMetrics, error) {
	return analytics.GrowthMetrics{}, s.err()
}

func (s *emptyFactStore) TopProducts(_ context.Context, _ string, _ *analytics.QuerySpec) ([]analytics.TopProduct, error) {
	return nil, s.err()
}

func analyticsRouter(t *testing.T, store analytics.FactStore) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := &fixedUserRepo{known: &user.User{
		ID:          "u1",
		Username:    "maria",
		DisplayName: "Maria",
		JoinedAt:    time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	}}
	logger := quietLogger(t)
	tracker := performance.NewTracker(nil)
	svc := services.NewUserAnalyticsService(repo, store, logger, tracker)
	h := NewAnalyticsHandlers(svc, logger, tracker)

	r := gin.New()
	r.GET("/api/v1/analytics/users/:username", h.GetUserAnalytics)
	return r
}

func TestGetUserAnalyticsUnknownUser(t *testing.T) {
	r := analyticsRouter(t, &emptyFactStore{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/analytics/users/ghost", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"User not found"}`, w.Body.String())
}

func TestGetUserAnalyticsMalformedThreshold(t *testing.T) {
	r := analyticsRouter(t, &emptyFactStore{})

	for _, target := range []string{
		"/api/v1/analytics/users/maria?minViews=abc",
		"/api/v1/analytics/users/maria?minVotes=1.5",
		"/api/v1/analytics/users/maria?minVotes=-3",
		"/api/v1/analytics/users/maria?minComments=-1",
		"/api/v1/analytics/users/maria?minComments=",
	} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, target, nil)
		r.ServeHTTP(w, req)

		// An empty value reads as absent, not malformed.
		if target == "/api/v1/analytics/users/maria?minComments=" {
			assert.Equal(t, http.StatusOK, w.Code, target)
			continue
		}
		assert.Equal(t, http.StatusBadRequest, w.Code, target)
	}
}

func TestGetUserAnalyticsStoreFailure(t *testing.T) {
	r := analyticsRouter(t, &emptyFactStore{broken: true})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/analytics/users/maria", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Failed to fetch analytics"}`, w.Body.String())
}

func TestGetUserAnalyticsResponseShape(t *testing.T) {
	r := analyticsRouter(t, &emptyFactStore{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/analytics/users/maria?category=AI&minVotes=2&activeOnly=true", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	for _, key := range []string{
		"user", "overview", "recent_activity", "product_performance",
		"engagement_trends", "user_activity", "growth_metrics",
		"top_products", "generated_at", "filter_applied",
	} {
		assert.Contains(t, body, key)
	}

	var subject map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(body["user"], &subject))
	assert.Contains(t, subject, "display_name")

	var applied analytics.AppliedFilters
	require.NoError(t, json.Unmarshal(body["filter_applied"], &applied))
	assert.Equal(t, "30d", applied.TimeRange)
	assert.Equal(t, "performance", applied.SortBy)
	assert.Equal(t, "AI", applied.Category)
	assert.Equal(t, 2, applied.MinVotes)
	assert.True(t, applied.ActiveOnly)

	// Empty aggregates serialize as empty arrays, never null.
	assert.Equal(t, "[]", string(body["recent_activity"]))
	assert.Equal(t, "[]", string(body["top_products"]))
}
