// Package report renders the analysis results into a single paginated PDF:
// a text summary page followed by one daily-trend chart page per job.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/mtawah/jobreport/internal/analyze"
)

const generatedLayout = "2006-01-02 15:04:05"

// summaryText builds the page-1 text block. Stats must already be sorted
// for presentation (longest average duration first); the period strings
// are echoed verbatim.
func summaryText(stats []analyze.JobStats, totalExecutions int, startDate, endDate string, generatedAt time.Time) string {
	var b strings.Builder

	b.WriteString("Job Performance Analysis Report\n")
	b.WriteString(strings.Repeat("=", 60))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Report Generated: %s\n", generatedAt.Format(generatedLayout))
	fmt.Fprintf(&b, "Analysis Period: %s to %s\n\n", startDate, endDate)

	b.WriteString("Summary:\n")
	fmt.Fprintf(&b, "- Total unique jobs: %d\n", len(stats))
	fmt.Fprintf(&b, "- Total job executions: %d\n", totalExecutions)
	if len(stats) > 0 {
		fmt.Fprintf(&b, "- Average executions per job: %.1f\n", float64(totalExecutions)/float64(len(stats)))
	}

	b.WriteString("\nJob Details:\n")
	for _, s := range stats {
		fmt.Fprintf(&b, "\n- %s:\n", s.JobName)
		fmt.Fprintf(&b, "  - Executions: %d\n", s.Executions)
		fmt.Fprintf(&b, "  - Average duration: %.1f min\n", s.AvgDuration)
		fmt.Fprintf(&b, "  - Duration range: %.1f - %.1f min\n", s.MinDuration, s.MaxDuration)
		fmt.Fprintf(&b, "  - Total time: %.1f min\n", s.TotalDuration)
	}

	return b.String()
}
