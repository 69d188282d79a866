package report

import (
	"fmt"
	"io"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/mtawah/jobreport/internal/analyze"
)

// maxUnthinnedTicks is the date count above which x-axis labels are
// thinned to roughly targetTicks to avoid overlap.
const (
	maxUnthinnedTicks = 10
	targetTicks       = 8
)

var (
	seriesColor = drawing.ColorFromHex("3498db")
	avgColor    = drawing.ColorFromHex("ffa500")
	maxColor    = drawing.ColorFromHex("e74c3c")
	minColor    = drawing.ColorFromHex("2ecc71")
)

// renderChart draws one job's daily-duration trend as a PNG line chart
// with dashed reference lines at the daily average, maximum, and minimum.
// The reference statistics are computed over the daily sums, not the
// per-execution durations shown on the summary page. series must be
// non-empty and ascending by date.
func renderChart(w io.Writer, jobName string, series []analyze.DailyPoint) error {
	dates := make([]time.Time, len(series))
	totals := make([]float64, len(series))
	for i, p := range series {
		dates[i] = p.Date
		totals[i] = p.TotalMinutes
	}

	avg, minTotal, maxTotal := dailyStats(totals)

	// A single-day series has a degenerate x-range; pad it by half a day
	// on each side so the renderer has something to work with.
	first, last := dates[0], dates[len(dates)-1]
	if first.Equal(last) {
		first = first.Add(-12 * time.Hour)
		last = last.Add(12 * time.Hour)
	}

	refLine := func(name string, value float64, color drawing.Color) chart.TimeSeries {
		return chart.TimeSeries{
			Name:    fmt.Sprintf("%s: %.1f min", name, value),
			XValues: []time.Time{first, last},
			YValues: []float64{value, value},
			Style: chart.Style{
				StrokeColor:     color,
				StrokeWidth:     1,
				StrokeDashArray: []float64{5, 5},
			},
		}
	}

	graph := chart.Chart{
		Title:  fmt.Sprintf("Performance Analysis: %s", jobName),
		Width:  1024,
		Height: 512,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: chart.XAxis{
			Name:  "Date",
			Ticks: dateTicks(dates, first, last),
			Range: &chart.ContinuousRange{
				Min: chart.TimeToFloat64(first),
				Max: chart.TimeToFloat64(last),
			},
		},
		YAxis: chart.YAxis{
			Name: "Duration (minutes)",
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    "Daily Duration",
				XValues: dates,
				YValues: totals,
				Style: chart.Style{
					StrokeColor: seriesColor,
					StrokeWidth: 2,
					DotColor:    seriesColor,
					DotWidth:    4,
				},
			},
			refLine("Average", avg, avgColor),
			refLine("Maximum", maxTotal, maxColor),
			refLine("Minimum", minTotal, minColor),
		},
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	return graph.Render(chart.PNG, w)
}

// dailyStats returns the average, minimum, and maximum of a non-empty
// slice of daily totals.
func dailyStats(totals []float64) (avg, minTotal, maxTotal float64) {
	minTotal, maxTotal = totals[0], totals[0]
	sum := 0.0
	for _, v := range totals {
		sum += v
		if v < minTotal {
			minTotal = v
		}
		if v > maxTotal {
			maxTotal = v
		}
	}
	return sum / float64(len(totals)), minTotal, maxTotal
}

// dateTicks builds x-axis ticks labelled MM-DD. Above maxUnthinnedTicks
// dates, every k-th date is labelled so roughly targetTicks remain.
func dateTicks(dates []time.Time, first, last time.Time) []chart.Tick {
	if len(dates) == 1 {
		// Padded single-day range: label the day itself, bound the axis
		// with unlabelled ticks.
		return []chart.Tick{
			{Value: chart.TimeToFloat64(first)},
			{Value: chart.TimeToFloat64(dates[0]), Label: dates[0].Format("01-02")},
			{Value: chart.TimeToFloat64(last)},
		}
	}

	stride := 1
	if len(dates) > maxUnthinnedTicks {
		stride = len(dates) / targetTicks
		if stride < 1 {
			stride = 1
		}
	}

	var ticks []chart.Tick
	for i := 0; i < len(dates); i += stride {
		ticks = append(ticks, chart.Tick{
			Value: chart.TimeToFloat64(dates[i]),
			Label: dates[i].Format("01-02"),
		})
	}
	// The axis range ends at the last date; make sure it carries a tick.
	if lastTick := chart.TimeToFloat64(dates[len(dates)-1]); ticks[len(ticks)-1].Value != lastTick {
		ticks = append(ticks, chart.Tick{Value: lastTick, Label: dates[len(dates)-1].Format("01-02")})
	}
	return ticks
}
