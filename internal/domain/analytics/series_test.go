package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildRecentActivity(t *testing.T) {
	votes := []DailyCount{{Date: "2025-06-14", Count: 3}, {Date: "2025-06-12", Count: 1}}
	comments := []DailyCount{{Date: "2025-06-14", Count: 2}}
	views := []DailyCount{{Date: "2025-06-13", Count: 40}}

	points := BuildRecentActivity(votes, comments, views)

	assert.Equal(t, []ActivityPoint{
		{Date: "2025-06-14", Type: "vote", Count: 3},
		{Date: "2025-06-14", Type: "comment", Count: 2},
		{Date: "2025-06-13", Type: "view", Count: 40},
		{Date: "2025-06-12", Type: "vote", Count: 1},
	}, points)
}

func TestBuildRecentActivityNoZeroFill(t *testing.T) {
	points := BuildRecentActivity(
		[]DailyCount{{Date: "2025-06-01", Count: 1}, {Date: "2025-06-10", Count: 1}},
		nil, nil,
	)

	// The gap between the two dates must not be filled in.
	assert.Len(t, points, 2)
}

func TestBuildRecentActivityEmpty(t *testing.T) {
	points := BuildRecentActivity(nil, nil, nil)
	assert.Empty(t, points)
	assert.NotNil(t, points)
}

func TestBuildTrendsPivot(t *testing.T) {
	votes := []DailyCount{{Date: "2025-06-14", Count: 3}}
	comments := []DailyCount{{Date: "2025-06-14", Count: 2}, {Date: "2025-06-13", Count: 1}}
	views := []DailyCount{{Date: "2025-06-13", Count: 40}}

	trends := BuildTrends(votes, comments, views)

	assert.Equal(t, []TrendPoint{
		{Date: "2025-06-13", Votes: 0, Comments: 1, Views: 40},
		{Date: "2025-06-14", Votes: 3, Comments: 2, Views: 0},
	}, trends)
}

func TestBuildTrendsAbsentDaysStayAbsent(t *testing.T) {
	trends := BuildTrends(
		[]DailyCount{{Date: "2025-06-01", Count: 1}},
		nil,
		[]DailyCount{{Date: "2025-06-20", Count: 5}},
	)

	assert.Len(t, trends, 2)
	assert.Equal(t, "2025-06-01", trends[0].Date)
	assert.Equal(t, "2025-06-20", trends[1].Date)
}
