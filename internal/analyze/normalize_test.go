package analyze

import (
	"database/sql"
	"testing"
	"time"

	"github.com/mtawah/jobreport/internal/scheduler"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func raw(name string, start, end time.Time) scheduler.HistoryRecord {
	return scheduler.HistoryRecord{
		JobName:   sql.NullString{String: name, Valid: true},
		StartTime: sql.NullTime{Time: start, Valid: true},
		EndTime:   sql.NullTime{Time: end, Valid: true},
	}
}

func TestNormalize_DropsNullTimestamps(t *testing.T) {
	start := date(2025, 5, 1)
	end := date(2025, 5, 31)
	in := []scheduler.HistoryRecord{
		raw("ETL_DAILY", date(2025, 5, 2), date(2025, 5, 2).Add(10*time.Minute)),
		{
			JobName:   sql.NullString{String: "NO_START", Valid: true},
			EndTime:   sql.NullTime{Time: date(2025, 5, 2), Valid: true},
			StartTime: sql.NullTime{},
		},
		{
			JobName:   sql.NullString{String: "NO_END", Valid: true},
			StartTime: sql.NullTime{Time: date(2025, 5, 2), Valid: true},
			EndTime:   sql.NullTime{},
		},
		{
			JobName:   sql.NullString{},
			StartTime: sql.NullTime{Time: date(2025, 5, 2), Valid: true},
			EndTime:   sql.NullTime{Time: date(2025, 5, 2), Valid: true},
		},
	}

	got := Normalize(in, start, end)
	if len(got) != 1 {
		t.Fatalf("Normalize returned %d records, want 1", len(got))
	}
	if got[0].JobName != "ETL_DAILY" {
		t.Errorf("kept record %q, want ETL_DAILY", got[0].JobName)
	}
}

func TestNormalize_InclusiveBounds(t *testing.T) {
	start := date(2025, 5, 10)
	end := date(2025, 5, 20)
	cases := []struct {
		name string
		day  time.Time
		want bool
	}{
		{"before window", date(2025, 5, 9), false},
		{"on start bound", date(2025, 5, 10), true},
		{"inside", date(2025, 5, 15), true},
		{"on end bound", date(2025, 5, 20), true},
		{"after window", date(2025, 5, 21), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			// Time-of-day must not affect the comparison.
			s := tc.day.Add(23*time.Hour + 59*time.Minute)
			got := Normalize([]scheduler.HistoryRecord{raw("J", s, s.Add(time.Minute))}, start, end)
			if kept := len(got) == 1; kept != tc.want {
				t.Errorf("record on %s kept=%v, want %v", tc.day.Format("2006-01-02"), kept, tc.want)
			}
		})
	}
}

func TestNormalize_DateFromStartTime(t *testing.T) {
	// Execution spans midnight: the record belongs to the start date.
	s := time.Date(2025, 5, 10, 23, 30, 0, 0, time.UTC)
	e := time.Date(2025, 5, 11, 0, 30, 0, 0, time.UTC)
	got := Normalize([]scheduler.HistoryRecord{raw("NIGHTLY", s, e)}, date(2025, 5, 1), date(2025, 5, 31))
	if len(got) != 1 {
		t.Fatalf("got %d records, want 1", len(got))
	}
	if !got[0].Date.Equal(date(2025, 5, 10)) {
		t.Errorf("Date = %v, want 2025-05-10", got[0].Date)
	}
	if got[0].DurationMinutes != 60 {
		t.Errorf("DurationMinutes = %v, want 60", got[0].DurationMinutes)
	}
}

func TestNormalize_ZeroDurationKept(t *testing.T) {
	s := date(2025, 5, 2).Add(8 * time.Hour)
	got := Normalize([]scheduler.HistoryRecord{raw("INSTANT", s, s)}, date(2025, 5, 1), date(2025, 5, 31))
	if len(got) != 1 {
		t.Fatalf("zero-duration record dropped")
	}
	if got[0].DurationMinutes != 0 {
		t.Errorf("DurationMinutes = %v, want 0", got[0].DurationMinutes)
	}
}

func TestNormalize_NegativeDurationClamped(t *testing.T) {
	s := date(2025, 5, 2).Add(8 * time.Hour)
	got := Normalize([]scheduler.HistoryRecord{raw("CLOCK_SKEW", s, s.Add(-5*time.Minute))}, date(2025, 5, 1), date(2025, 5, 31))
	if len(got) != 1 {
		t.Fatalf("record with inverted timestamps dropped")
	}
	if got[0].DurationMinutes != 0 {
		t.Errorf("DurationMinutes = %v, want 0", got[0].DurationMinutes)
	}
}

func TestNormalize_EmptyWindow(t *testing.T) {
	s := date(2025, 4, 15)
	got := Normalize([]scheduler.HistoryRecord{raw("OLD", s, s.Add(time.Minute))}, date(2025, 5, 1), date(2025, 5, 31))
	if len(got) != 0 {
		t.Fatalf("got %d records, want none", len(got))
	}
}
