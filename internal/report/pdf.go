package report

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/mtawah/jobreport/internal/analyze"
)

// Renderer assembles the multi-page PDF report.
type Renderer struct {
	log *slog.Logger

	// now is swappable for deterministic tests.
	now func() time.Time
}

// NewRenderer returns a Renderer logging through log.
func NewRenderer(log *slog.Logger) *Renderer {
	return &Renderer{log: log, now: time.Now}
}

// Render writes the full report for the given job groups to w: one
// summary page, then one chart page per job in group (first-appearance)
// order. The summary lists jobs by descending average duration; chart
// pages do not follow that sort. A job whose daily series is empty
// contributes no chart page.
func (r *Renderer) Render(w io.Writer, groups []analyze.Group, startDate, endDate string) error {
	stats := analyze.Statistics(groups)
	totalExecutions := 0
	for _, s := range stats {
		totalExecutions += s.Executions
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetTitle("Job Performance Analysis Report", true)
	// Pin the document metadata to the report clock so equal inputs
	// produce byte-identical output.
	pdf.SetCreationDate(r.now())
	pdf.SetModificationDate(r.now())

	pdf.AddPage()
	pdf.SetFont("Courier", "", 9)
	summary := summaryText(analyze.SortByAvgDesc(stats), totalExecutions, startDate, endDate, r.now())
	pdf.MultiCell(0, 4.2, summary, "", "L", false)

	r.log.Debug("rendering charts", "jobs", len(groups))
	for i, g := range groups {
		series := g.DailySeries()
		if len(series) == 0 {
			continue
		}

		var buf bytes.Buffer
		if err := renderChart(&buf, g.JobName, series); err != nil {
			return fmt.Errorf("report: chart for %s: %w", g.JobName, err)
		}

		name := fmt.Sprintf("chart-%03d", i)
		opts := fpdf.ImageOptions{ImageType: "PNG"}
		pdf.AddPage()
		pdf.RegisterImageOptionsReader(name, opts, &buf)
		pdf.ImageOptions(name, 10, 15, 277, 0, false, opts, 0, "")
	}

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("report: assembling pdf: %w", err)
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("report: writing pdf: %w", err)
	}

	r.log.Debug("report rendered", "pages", pdf.PageCount())
	return nil
}
