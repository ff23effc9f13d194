package analytics

import "sort"

// EventKind discriminates the per-day series the store produces.
type EventKind string

const (
	KindVote    EventKind = "vote"
	KindComment EventKind = "comment"
	KindView    EventKind = "view"
	KindClick   EventKind = "click"
)

// DailyCount is one store row: events of a single kind on a calendar day.
// Date is formatted YYYY-MM-DD.
type DailyCount struct {
	Date  string
	Count int
}

// BuildRecentActivity concatenates the three per-kind daily series into one
// date-descending sequence with a type discriminator per row. Clicks are
// excluded from this view. Missing days are not zero-filled. Rows sharing a
// date keep vote, comment, view order via the stable sort.
func BuildRecentActivity(votes, comments, views []DailyCount) []ActivityPoint {
	points := make([]ActivityPoint, 0, len(votes)+len(comments)+len(views))

	for _, d := range votes {
		points = append(points, ActivityPoint{Date: d.Date, Type: string(KindVote), Count: d.Count})
	}
	for _, d := range comments {
		points = append(points, ActivityPoint{Date: d.Date, Type: string(KindComment), Count: d.Count})
	}
	for _, d := range views {
		points = append(points, ActivityPoint{Date: d.Date, Type: string(KindView), Count: d.Count})
	}

	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Date > points[j].Date
	})

	return points
}

// BuildTrends pivots the same three series into one row per day with
// per-kind columns. Kinds absent within a present day read zero; days with
// zero total activity produce no row at all. Rows are ordered by date
// ascending for charting.
func BuildTrends(votes, comments, views []DailyCount) []TrendPoint {
	byDate := make(map[string]*TrendPoint)

	ensure := func(date string) *TrendPoint {
		if p, ok := byDate[date]; ok {
			return p
		}
		p := &TrendPoint{Date: date}
		byDate[date] = p
		return p
	}

	for _, d := range votes {
		ensure(d.Date).Votes = d.Count
	}
	for _, d := range comments {
		ensure(d.Date).Comments = d.Count
	}
	for _, d := range views {
		ensure(d.Date).Views = d.Count
	}

	trends := make([]TrendPoint, 0, len(byDate))
	for _, p := range byDate {
		trends = append(trends, *p)
	}

	sort.Slice(trends, func(i, j int) bool {
		return trends[i].Date < trends[j].Date
	})

	return trends
}
