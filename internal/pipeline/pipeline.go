// Package pipeline runs one report end to end: load scheduler history,
// normalize and aggregate it, render the PDF, and mail it. Stages run
// strictly in sequence; the first failure aborts the run.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/mtawah/jobreport/internal/analyze"
	"github.com/mtawah/jobreport/internal/config"
	"github.com/mtawah/jobreport/internal/scheduler"
)

// Loader fetches the raw execution history.
type Loader interface {
	LoadHistory(ctx context.Context) ([]scheduler.HistoryRecord, error)
}

// Renderer writes the paginated report document.
type Renderer interface {
	Render(w io.Writer, groups []analyze.Group, startDate, endDate string) error
}

// Sender delivers the rendered document to the recipient.
type Sender interface {
	SendReport(ctx context.Context, recipient, subject, message, attachmentPath string) error
}

// Result describes a completed run.
type Result struct {
	GeneratedAt    time.Time
	JobCount       int
	ExecutionCount int

	// OutputPath is where the document remains on disk, or empty when it
	// was transient and removed after sending.
	OutputPath string
	Delivered  bool
}

// Pipeline wires the stages of one report run.
type Pipeline struct {
	cfg      *config.Config
	loader   Loader
	renderer Renderer
	sender   Sender
	log      *slog.Logger

	// now is swappable for deterministic tests.
	now func() time.Time
}

// New assembles a Pipeline from its collaborators.
func New(cfg *config.Config, loader Loader, renderer Renderer, sender Sender, log *slog.Logger) *Pipeline {
	return &Pipeline{
		cfg:      cfg,
		loader:   loader,
		renderer: renderer,
		sender:   sender,
		log:      log,
		now:      time.Now,
	}
}

// Run executes the full pipeline and returns what happened. Any stage
// failure aborts the remaining stages; the artifact is left in place
// when delivery fails, and cleanup failures on the success path are
// swallowed after a debug log.
func (p *Pipeline) Run(ctx context.Context) (Result, error) {
	start, end, err := p.cfg.Period()
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}

	p.log.Info("starting analysis", "period_start", p.cfg.StartDate, "period_end", p.cfg.EndDate)

	raw, err := p.loader.LoadHistory(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrDataSource, err)
	}
	p.log.Info("scheduler history loaded", "records", len(raw))

	recs := analyze.Normalize(raw, start, end)
	if len(recs) == 0 {
		return Result{}, fmt.Errorf("%w: %s to %s", ErrEmptyResult, p.cfg.StartDate, p.cfg.EndDate)
	}
	p.log.Info("records in period", "records", len(recs))

	groups := analyze.GroupByJob(recs)

	path, transient, err := p.writeDocument(groups)
	if err != nil {
		return Result{}, err
	}
	p.log.Info("report rendered", "jobs", len(groups), "path", path)

	result := Result{
		GeneratedAt:    p.now(),
		JobCount:       len(groups),
		ExecutionCount: len(recs),
		Delivered:      true,
	}

	if err := p.sender.SendReport(ctx, p.cfg.Recipient, p.cfg.Subject, p.cfg.Message, path); err != nil {
		// Leave the document where it is so the failure can be inspected.
		p.log.Warn("report left on disk after delivery failure", "path", path)
		return Result{}, fmt.Errorf("%w: %v", ErrDelivery, err)
	}

	if transient {
		if err := os.Remove(path); err != nil {
			p.log.Debug("temporary report not removed", "path", path, "error", err)
		}
	} else {
		result.OutputPath = path
		p.log.Info("report saved", "path", path)
	}

	return result, nil
}

// writeDocument renders the report into either the configured save path
// or a fresh temporary file, and reports which kind of location it used.
func (p *Pipeline) writeDocument(groups []analyze.Group) (path string, transient bool, err error) {
	var f *os.File
	if p.cfg.SavePDF != "" {
		f, err = os.Create(p.cfg.SavePDF)
		if err != nil {
			return "", false, fmt.Errorf("pipeline: creating %s: %w", p.cfg.SavePDF, err)
		}
	} else {
		f, err = os.CreateTemp("", "job_analysis_*.pdf")
		if err != nil {
			return "", false, fmt.Errorf("pipeline: creating temporary report file: %w", err)
		}
		transient = true
	}
	path = f.Name()

	if err := p.renderer.Render(f, groups, p.cfg.StartDate, p.cfg.EndDate); err != nil {
		_ = f.Close()
		return "", transient, err
	}
	if err := f.Close(); err != nil {
		return "", transient, fmt.Errorf("pipeline: closing %s: %w", path, err)
	}

	return path, transient, nil
}
