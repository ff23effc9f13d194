package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/launchboard/launchboard-go/internal/domain/user"
)

func composeSubject() *user.User {
	return &user.User{
		ID:          "u1",
		Username:    "maria",
		DisplayName: "Maria",
		JoinedAt:    time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestComposeEngagementRate(t *testing.T) {
	tests := []struct {
		name                   string
		votes, comments, views int
		want                   float64
	}{
		{"typical", 10, 5, 100, 15},
		{"rounds to nearest", 1, 0, 3, 33},
		{"rounds half up", 1, 0, 8, 13}, // 12.5 -> 13
		{"zero views", 50, 50, 0, 0},
		{"zero everything", 0, 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			overview := Overview{TotalVotes: tt.votes, TotalComments: tt.comments, TotalViews: tt.views}
			result := Compose(composeSubject(), overview, nil, nil, nil, UserActivity{}, GrowthMetrics{}, nil, AppliedFilters{})
			assert.Equal(t, tt.want, result.Overview.EngagementRate)
		})
	}
}

func TestComposeEmptySlicesNotNil(t *testing.T) {
	result := Compose(composeSubject(), Overview{}, nil, nil, nil, UserActivity{}, GrowthMetrics{}, nil, AppliedFilters{})

	// Zero-entity subjects serialize as empty arrays, never null.
	assert.NotNil(t, result.RecentActivity)
	assert.NotNil(t, result.ProductPerformance)
	assert.NotNil(t, result.EngagementTrends)
	assert.NotNil(t, result.TopProducts)
	assert.Empty(t, result.RecentActivity)
}

func TestComposeEchoesAppliedFilters(t *testing.T) {
	applied := AppliedFilters{
		TimeRange: "7d",
		Category:  "dev",
		MinVotes:  5,
		SortBy:    "votes",
	}

	result := Compose(composeSubject(), Overview{}, nil, nil, nil, UserActivity{}, GrowthMetrics{}, nil, applied)
	assert.Equal(t, applied, result.FilterApplied)
}

func TestComposeStampsGeneratedAt(t *testing.T) {
	before := time.Now().UTC()
	result := Compose(composeSubject(), Overview{}, nil, nil, nil, UserActivity{}, GrowthMetrics{}, nil, AppliedFilters{})
	after := time.Now().UTC()

	assert.False(t, result.GeneratedAt.Before(before))
	assert.False(t, result.GeneratedAt.After(after))
}
