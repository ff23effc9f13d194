// Package services provides application-level orchestration services
package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/launchboard/launchboard-go/internal/domain/analytics"
	"github.com/launchboard/launchboard-go/internal/domain/user"
	"github.com/launchboard/launchboard-go/internal/infrastructure/observability/logging"
	"github.com/launchboard/launchboard-go/internal/infrastructure/observability/performance"
)

// UserAnalyticsService computes the per-user analytics result. It resolves
// the subject, builds one QuerySpec for the request, fans the independent
// aggregate queries out concurrently, and hands the raw series to the domain
// for ranking, pivoting, and composition.
type UserAnalyticsService struct {
	users       user.Repository
	facts       analytics.FactStore
	logger      *logging.ChanneledLogger
	perfTracker *performance.Tracker
}

// NewUserAnalyticsService creates a new analytics service with injected dependencies
func NewUserAnalyticsService(
	users user.Repository,
	facts analytics.FactStore,
	logger *logging.ChanneledLogger,
	perfTracker *performance.Tracker,
) *UserAnalyticsService {
	return &UserAnalyticsService{
		users:       users,
		facts:       facts,
		logger:      logger,
		perfTracker: perfTracker,
	}
}

// aggregateSet collects the outputs of the concurrent fan-out. Each slot is
// written by exactly one goroutine, so no locking is needed beyond the
// WaitGroup barrier.
type aggregateSet struct {
	overview analytics.Overview
	votes    []analytics.DailyCount
	comments []analytics.DailyCount
	views    []analytics.DailyCount
	totals   []analytics.ProductPerformance
	activity analytics.UserActivity
	growth   analytics.GrowthMetrics
	top      []analytics.TopProduct
}

// ComputeUserAnalytics resolves the subject by username and produces the
// composed analytics result. A missing user returns user.ErrNotFound; any
// aggregate failure fails the whole request, never a partial result.
func (s *UserAnalyticsService) ComputeUserAnalytics(ctx context.Context, username string, opts analytics.Options) (*analytics.Result, error) {
	start := time.Now()
	marker := s.perfTracker.StartOperationWithContext(ctx, "analytics_user_result")
	defer s.perfTracker.CompleteOperation(marker)

	subject, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		marker.SetError(err)
		if err == user.ErrNotFound {
			s.logger.Analytics().Warn("Analytics subject not found", "username", username)
		} else {
			s.logger.Analytics().Error("Failed to resolve analytics subject", "username", username, "error", err.Error())
		}
		return nil, err
	}

	spec := analytics.NewQuerySpec(opts, time.Now().UTC())
	marker.AddMetadata("timeRange", spec.Applied.TimeRange)
	marker.AddMetadata("sortBy", spec.Applied.SortBy)

	agg, err := s.runAggregates(ctx, subject.ID, spec)
	if err != nil {
		marker.SetError(err)
		s.logger.Analytics().Error("Analytics aggregation failed", "username", username, "userId", subject.ID, "error", err.Error())
		return nil, err
	}

	composeMarker := s.perfTracker.StartOperation("analytics_compose")
	ranked := analytics.Rank(agg.totals, spec.Sort)
	result := analytics.Compose(
		subject,
		agg.overview,
		analytics.BuildRecentActivity(agg.votes, agg.comments, agg.views),
		ranked,
		analytics.BuildTrends(agg.votes, agg.comments, agg.views),
		agg.activity,
		agg.growth,
		agg.top,
		spec.Applied,
	)
	s.perfTracker.CompleteOperation(composeMarker)

	marker.SetSuccess(true)
	s.logger.Analytics().Info("Successfully computed user analytics",
		"username", username,
		"userId", subject.ID,
		"timeRange", spec.Applied.TimeRange,
		"sortBy", spec.Applied.SortBy,
		"products", result.Overview.TotalProducts,
		"duration", time.Since(start))
	s.logger.Perf().Info("Performance for ComputeUserAnalytics", "duration", time.Since(start), "username", username, "success", true)

	return result, nil
}

// runAggregates executes the independent store queries concurrently. The
// per-kind daily series feed both the recent-activity view and the trend
// pivot, so each is fetched once.
func (s *UserAnalyticsService) runAggregates(ctx context.Context, ownerID string, spec *analytics.QuerySpec) (*aggregateSet, error) {
	agg := &aggregateSet{}

	tasks := []struct {
		operation string
		run       func(context.Context) error
	}{
		{"analytics_overview_query", func(ctx context.Context) error {
			var err error
			agg.overview, err = s.facts.Overview(ctx, ownerID, spec)
			return err
		}},
		{"analytics_activity_query_votes", func(ctx context.Context) error {
			var err error
			agg.votes, err = s.facts.EventsByDay(ctx, ownerID, analytics.KindVote, spec)
			return err
		}},
		{"analytics_activity_query_comments", func(ctx context.Context) error {
			var err error
			agg.comments, err = s.facts.EventsByDay(ctx, ownerID, analytics.KindComment, spec)
			return err
		}},
		{"analytics_activity_query_views", func(ctx context.Context) error {
			var err error
			agg.views, err = s.facts.EventsByDay(ctx, ownerID, analytics.KindView, spec)
			return err
		}},
		{"analytics_performance_query", func(ctx context.Context) error {
			var err error
			agg.totals, err = s.facts.ProductTotals(ctx, ownerID, spec)
			return err
		}},
		{"analytics_actor_query", func(ctx context.Context) error {
			var err error
			agg.activity, err = s.facts.ActorActivity(ctx, ownerID)
			return err
		}},
		{"analytics_growth_query", func(ctx context.Context) error {
			var err error
			agg.growth, err = s.facts.GrowthCounters(ctx, ownerID, spec.Window)
			return err
		}},
		{"analytics_top_products_query", func(ctx context.Context) error {
			var err error
			agg.top, err = s.facts.TopProducts(ctx, ownerID, spec)
			return err
		}},
	}

	errs := make([]error, len(tasks))
	var wg sync.WaitGroup

	for i, task := range tasks {
		wg.Add(1)
		go func(idx int, operation string, run func(context.Context) error) {
			defer wg.Done()
			m := s.perfTracker.StartOperation(operation)
			err := run(ctx)
			if err != nil {
				m.SetError(err)
			}
			s.perfTracker.CompleteOperation(m)
			errs[idx] = err
		}(i, task.operation, task.run)
	}

	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("aggregate %s failed: %w", tasks[i].operation, err)
		}
	}

	return agg, nil
}
