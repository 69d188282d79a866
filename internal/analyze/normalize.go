// Package analyze turns raw scheduler history rows into per-job duration
// statistics and daily time series. It is a pure transformation layer:
// no I/O, and nothing is mutated after construction.
package analyze

import (
	"math"
	"time"

	"github.com/mtawah/jobreport/internal/scheduler"
)

// Record is one cleaned job execution inside the analysis window.
type Record struct {
	JobName   string
	StartTime time.Time
	EndTime   time.Time

	// DurationMinutes is end minus start in minutes, never negative.
	DurationMinutes float64

	// Date is the calendar date of StartTime, truncated to midnight.
	Date time.Time
}

// DateOnly truncates t to its calendar date, keeping the location.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// sameOrAfter and sameOrBefore compare calendar dates only; time-of-day
// and location offsets within a day are ignored.
func sameOrAfter(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	if ay != by {
		return ay > by
	}
	if am != bm {
		return am > bm
	}
	return ad >= bd
}

func sameOrBefore(a, b time.Time) bool {
	return sameOrAfter(b, a)
}

// Normalize cleans the raw history rows and keeps those whose start date
// falls inside the inclusive [start, end] window. Rows missing the job
// name or either timestamp are dropped entirely. Durations are computed
// in minutes and clamped to zero when negative or non-finite.
func Normalize(raw []scheduler.HistoryRecord, start, end time.Time) []Record {
	var out []Record
	for _, r := range raw {
		if !r.JobName.Valid || r.JobName.String == "" {
			continue
		}
		if !r.StartTime.Valid || !r.EndTime.Valid {
			continue
		}

		date := DateOnly(r.StartTime.Time)
		if !sameOrAfter(date, start) || !sameOrBefore(date, end) {
			continue
		}

		dur := r.EndTime.Time.Sub(r.StartTime.Time).Minutes()
		if math.IsNaN(dur) || math.IsInf(dur, 0) || dur < 0 {
			dur = 0
		}

		out = append(out, Record{
			JobName:         r.JobName.String,
			StartTime:       r.StartTime.Time,
			EndTime:         r.EndTime.Time,
			DurationMinutes: dur,
			Date:            date,
		})
	}
	return out
}
