// Package analytics contains the per-user performance aggregation core:
// time window resolution, filter compilation, weighted ranking, series
// construction, and result composition. Everything here is pure domain
// logic; persistence lives behind the FactStore interface.
package analytics

import "time"

// DefaultTimeRange is applied when the caller supplies no range token or an
// unrecognized one. Fallback is silent rather than an error; existing
// callers rely on tolerant input handling.
const DefaultTimeRange = "30d"

// TimeWindow holds the concrete boundaries resolved from a symbolic range
// token. Yesterday and LastWeekStart are fixed anchors independent of the
// selected range; they feed the growth counters only.
type TimeWindow struct {
	Range         string    // resolved token, e.g. "30d"
	Start         time.Time // inclusive lower bound of the main window
	Now           time.Time // exclusive upper bound
	Yesterday     time.Time // now - 24h
	LastWeekStart time.Time // now - 7d
}

// ResolveWindow maps a symbolic range token plus "now" into concrete
// [start, now) boundaries. 6m is 180 days and 1y is 365 days, calendar
// approximate on purpose. "all" is unbounded via the Unix epoch.
func ResolveWindow(rangeToken string, now time.Time) TimeWindow {
	w := TimeWindow{
		Now:           now,
		Yesterday:     now.Add(-24 * time.Hour),
		LastWeekStart: now.AddDate(0, 0, -7),
	}

	switch rangeToken {
	case "7d":
		w.Range = "7d"
		w.Start = now.AddDate(0, 0, -7)
	case "30d":
		w.Range = "30d"
		w.Start = now.AddDate(0, 0, -30)
	case "90d":
		w.Range = "90d"
		w.Start = now.AddDate(0, 0, -90)
	case "6m":
		w.Range = "6m"
		w.Start = now.AddDate(0, 0, -180)
	case "1y":
		w.Range = "1y"
		w.Start = now.AddDate(0, 0, -365)
	case "all":
		w.Range = "all"
		w.Start = time.Unix(0, 0).UTC()
	default:
		w.Range = DefaultTimeRange
		w.Start = now.AddDate(0, 0, -30)
	}

	return w
}
