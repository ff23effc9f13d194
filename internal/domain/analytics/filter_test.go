package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCompileEmptyOptions(t *testing.T) {
	f := Compile(Options{})
	assert.True(t, f.IsEmpty())
}

func TestCompileZeroThresholdsExcluded(t *testing.T) {
	f := Compile(Options{MinViews: 0, MinVotes: 0, MinComments: 0})
	assert.True(t, f.IsEmpty(), "zero and absent thresholds must be equivalent")
}

func TestCompileAllOptions(t *testing.T) {
	f := Compile(Options{
		Category:    "AI",
		MinViews:    100,
		MinVotes:    5,
		MinComments: 2,
		ActiveOnly:  true,
	})

	assert.Equal(t, []Clause{
		{Field: FieldTagName, Op: OpContains, Value: "AI"},
		{Field: FieldViews, Op: OpGTE, Value: 100},
		{Field: FieldVotes, Op: OpGTE, Value: 5},
		{Field: FieldComments, Op: OpGTE, Value: 2},
		{Field: FieldStatus, Op: OpEQ, Value: "active"},
	}, f.Clauses)
}

func TestCompilePartialOptions(t *testing.T) {
	f := Compile(Options{MinVotes: 3})
	assert.Equal(t, []Clause{{Field: FieldVotes, Op: OpGTE, Value: 3}}, f.Clauses)
}

// Echoed applied filters, fed back as a new request, must produce an
// identical spec: filter resolution is idempotent.
func TestQuerySpecRoundTrip(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	first := NewQuerySpec(Options{
		TimeRange: "bogus",
		Category:  "dev",
		MinVotes:  5,
		SortBy:    "not-a-key",
	}, now)

	second := NewQuerySpec(Options{
		TimeRange:   first.Applied.TimeRange,
		Category:    first.Applied.Category,
		MinViews:    first.Applied.MinViews,
		MinVotes:    first.Applied.MinVotes,
		MinComments: first.Applied.MinComments,
		SortBy:      first.Applied.SortBy,
		ActiveOnly:  first.Applied.ActiveOnly,
	}, now)

	assert.Equal(t, first.Window, second.Window)
	assert.Equal(t, first.Filter, second.Filter)
	assert.Equal(t, first.Sort, second.Sort)
	assert.Equal(t, first.Applied, second.Applied)
}

func TestQuerySpecAppliesDefaults(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	spec := NewQuerySpec(Options{}, now)
	assert.Equal(t, "30d", spec.Applied.TimeRange)
	assert.Equal(t, "performance", spec.Applied.SortBy)
	assert.True(t, spec.Filter.IsEmpty())
}
