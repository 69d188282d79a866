package analyze

import (
	"sort"
	"time"
)

// Group is all executions of one job, in input order.
type Group struct {
	JobName string
	Records []Record
}

// JobStats summarises the per-execution durations of one job.
type JobStats struct {
	JobName       string
	Executions    int
	AvgDuration   float64
	MinDuration   float64
	MaxDuration   float64
	TotalDuration float64
}

// DailyPoint is one day's summed duration for a job.
type DailyPoint struct {
	Date         time.Time
	TotalMinutes float64
}

// GroupByJob partitions records by exact job name. Group order is the
// order each job first appears in the input; this order also drives the
// chart pages of the rendered report.
func GroupByJob(recs []Record) []Group {
	index := make(map[string]int, len(recs))
	var groups []Group
	for _, r := range recs {
		i, ok := index[r.JobName]
		if !ok {
			i = len(groups)
			index[r.JobName] = i
			groups = append(groups, Group{JobName: r.JobName})
		}
		groups[i].Records = append(groups[i].Records, r)
	}
	return groups
}

// Stats computes the per-execution summary for one group. A group is
// never empty by construction, but an empty one yields zero stats.
func (g Group) Stats() JobStats {
	s := JobStats{JobName: g.JobName, Executions: len(g.Records)}
	if len(g.Records) == 0 {
		return s
	}

	s.MinDuration = g.Records[0].DurationMinutes
	s.MaxDuration = g.Records[0].DurationMinutes
	for _, r := range g.Records {
		d := r.DurationMinutes
		s.TotalDuration += d
		if d < s.MinDuration {
			s.MinDuration = d
		}
		if d > s.MaxDuration {
			s.MaxDuration = d
		}
	}
	s.AvgDuration = s.TotalDuration / float64(s.Executions)
	return s
}

// DailySeries sums the group's durations by calendar date, ascending.
// Dates with no executions are absent, not zero.
func (g Group) DailySeries() []DailyPoint {
	totals := make(map[time.Time]float64, len(g.Records))
	for _, r := range g.Records {
		totals[r.Date] += r.DurationMinutes
	}

	points := make([]DailyPoint, 0, len(totals))
	for date, total := range totals {
		points = append(points, DailyPoint{Date: date, TotalMinutes: total})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) })
	return points
}

// Statistics computes JobStats for every group, preserving group order.
func Statistics(groups []Group) []JobStats {
	stats := make([]JobStats, len(groups))
	for i, g := range groups {
		stats[i] = g.Stats()
	}
	return stats
}

// SortByAvgDesc returns a copy of stats ordered by average duration,
// longest first. The sort is stable: jobs with equal averages keep their
// first-appearance order. Used for the summary page only; chart pages
// keep the original group order.
func SortByAvgDesc(stats []JobStats) []JobStats {
	sorted := make([]JobStats, len(stats))
	copy(sorted, stats)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].AvgDuration > sorted[j].AvgDuration
	})
	return sorted
}
