package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/mtawah/jobreport/internal/analyze"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

func day(d int) time.Time {
	return time.Date(2025, 5, d, 0, 0, 0, 0, time.UTC)
}

func points(durations ...float64) []analyze.DailyPoint {
	pts := make([]analyze.DailyPoint, len(durations))
	for i, v := range durations {
		pts[i] = analyze.DailyPoint{Date: day(i + 1), TotalMinutes: v}
	}
	return pts
}

func TestRenderChart_PNG(t *testing.T) {
	var buf bytes.Buffer
	if err := renderChart(&buf, "ETL_DAILY", points(10, 20, 30)); err != nil {
		t.Fatalf("renderChart: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), pngMagic) {
		t.Error("output is not a PNG")
	}
}

func TestRenderChart_SinglePoint(t *testing.T) {
	var buf bytes.Buffer
	if err := renderChart(&buf, "ONE_DAY", points(42)); err != nil {
		t.Fatalf("renderChart with one point: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), pngMagic) {
		t.Error("output is not a PNG")
	}
}

func TestDailyStats(t *testing.T) {
	avg, minTotal, maxTotal := dailyStats([]float64{10, 20, 30})
	if avg != 20 || minTotal != 10 || maxTotal != 30 {
		t.Errorf("dailyStats = %v/%v/%v, want 20/10/30", avg, minTotal, maxTotal)
	}
}

func TestDateTicks_NoThinning(t *testing.T) {
	dates := make([]time.Time, 10)
	for i := range dates {
		dates[i] = day(i + 1)
	}
	ticks := dateTicks(dates, dates[0], dates[len(dates)-1])
	if len(ticks) != 10 {
		t.Errorf("got %d ticks for 10 dates, want all 10", len(ticks))
	}
}

func TestDateTicks_Thinned(t *testing.T) {
	dates := make([]time.Time, 30)
	for i := range dates {
		dates[i] = day(1).AddDate(0, 0, i)
	}
	ticks := dateTicks(dates, dates[0], dates[len(dates)-1])
	if len(ticks) < 6 || len(ticks) > 12 {
		t.Errorf("got %d ticks for 30 dates, want roughly 8", len(ticks))
	}
	// Last date must stay labelled so the axis covers the full range.
	last := ticks[len(ticks)-1]
	if last.Label != dates[len(dates)-1].Format("01-02") {
		t.Errorf("final tick label = %q, want %q", last.Label, dates[len(dates)-1].Format("01-02"))
	}
}

func TestDateTicks_Ascending(t *testing.T) {
	dates := make([]time.Time, 25)
	for i := range dates {
		dates[i] = day(1).AddDate(0, 0, i)
	}
	ticks := dateTicks(dates, dates[0], dates[len(dates)-1])
	for i := 1; i < len(ticks); i++ {
		if ticks[i-1].Value >= ticks[i].Value {
			t.Fatalf("ticks not strictly ascending at %d", i)
		}
	}
}
