package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestResolveWindow(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		token     string
		wantRange string
		wantStart time.Time
	}{
		{"7d", "7d", now.AddDate(0, 0, -7)},
		{"30d", "30d", now.AddDate(0, 0, -30)},
		{"90d", "90d", now.AddDate(0, 0, -90)},
		{"6m", "6m", now.AddDate(0, 0, -180)},
		{"1y", "1y", now.AddDate(0, 0, -365)},
		{"all", "all", time.Unix(0, 0).UTC()},
		{"", "30d", now.AddDate(0, 0, -30)},
		{"2w", "30d", now.AddDate(0, 0, -30)},
		{"forever", "30d", now.AddDate(0, 0, -30)},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			w := ResolveWindow(tt.token, now)
			assert.Equal(t, tt.wantRange, w.Range)
			assert.Equal(t, tt.wantStart, w.Start)
			assert.Equal(t, now, w.Now)
		})
	}
}

func TestResolveWindowAnchorsIndependentOfRange(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	for _, token := range []string{"7d", "all", "bogus"} {
		w := ResolveWindow(token, now)
		assert.Equal(t, now.Add(-24*time.Hour), w.Yesterday, "token %q", token)
		assert.Equal(t, now.AddDate(0, 0, -7), w.LastWeekStart, "token %q", token)
	}
}

func TestResolveWindowUnknownMatchesDefault(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	unknown := ResolveWindow("quarterly", now)
	fallback := ResolveWindow("30d", now)
	assert.Equal(t, fallback, unknown)
}
