package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestScore(t *testing.T) {
	tests := []struct {
		name                          string
		votes, comments, views, click int
		want                          float64
	}{
		{"documented scenario A", 10, 5, 100, 2, 25.7},
		{"documented scenario B", 1, 0, 10, 0, 2.4},
		{"all zero", 0, 0, 0, 0, 0},
		{"votes only", 3, 0, 0, 0, 1.2},
		{"rounding to two decimals", 1, 1, 1, 1, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Score(tt.votes, tt.comments, tt.views, tt.click))
		})
	}
}

func TestScoreDeterministic(t *testing.T) {
	first := Score(7, 3, 55, 9)
	for i := 0; i < 100; i++ {
		assert.Equal(t, first, Score(7, 3, 55, 9))
	}
}

func TestResolveSortKey(t *testing.T) {
	assert.Equal(t, SortViews, ResolveSortKey("views"))
	assert.Equal(t, SortOldest, ResolveSortKey("oldest"))
	assert.Equal(t, SortPerformance, ResolveSortKey(""))
	assert.Equal(t, SortPerformance, ResolveSortKey("popularity"))
}

func rankFixture() []ProductPerformance {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	return []ProductPerformance{
		{ID: "a", CreatedAt: base.AddDate(0, 0, 1), TotalVotes: 10, TotalComments: 5, TotalViews: 100, TotalClicks: 2},
		{ID: "b", CreatedAt: base.AddDate(0, 0, 2), TotalVotes: 1, TotalComments: 0, TotalViews: 10, TotalClicks: 0},
		{ID: "c", CreatedAt: base.AddDate(0, 0, 3), TotalVotes: 4, TotalComments: 9, TotalViews: 40, TotalClicks: 1},
	}
}

func ids(products []ProductPerformance) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.ID
	}
	return out
}

func TestRankByPerformance(t *testing.T) {
	ranked := Rank(rankFixture(), SortPerformance)
	assert.Equal(t, []string{"a", "c", "b"}, ids(ranked))
	assert.Equal(t, 25.7, ranked[0].PerformanceScore)
	assert.Equal(t, 2.4, ranked[2].PerformanceScore)
}

func TestRankByVotes(t *testing.T) {
	ranked := Rank(rankFixture(), SortVotes)
	assert.Equal(t, []string{"a", "c", "b"}, ids(ranked))
}

func TestRankByComments(t *testing.T) {
	ranked := Rank(rankFixture(), SortComments)
	assert.Equal(t, []string{"c", "a", "b"}, ids(ranked))
}

func TestRankNewestOldestReversed(t *testing.T) {
	newest := Rank(rankFixture(), SortNewest)
	oldest := Rank(rankFixture(), SortOldest)

	assert.Equal(t, []string{"c", "b", "a"}, ids(newest))
	assert.Equal(t, []string{"a", "b", "c"}, ids(oldest))
}

func TestRankPerformanceTieBreaksOnNewest(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	products := []ProductPerformance{
		{ID: "old", CreatedAt: base, TotalVotes: 5},
		{ID: "new", CreatedAt: base.AddDate(0, 0, 10), TotalVotes: 5},
	}

	ranked := Rank(products, SortPerformance)
	assert.Equal(t, []string{"new", "old"}, ids(ranked))
}
