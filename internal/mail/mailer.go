// Package mail submits the finished report over SMTP as a single
// plain-text message with one PDF attachment. The session is always
// STARTTLS with username/password authentication; there is no retry.
package mail

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	gomail "github.com/wneessen/go-mail"

	"github.com/mtawah/jobreport/internal/config"
)

// defaultBody is used when the caller supplies no message.
const defaultBody = `Please find attached the Job Performance Analysis Report.

This report contains:
- Summary of all job executions
- Performance charts for each job
- Statistical analysis of execution times

The report was generated automatically by the Job Performance Analyzer.`

// Mailer sends report messages through one configured submission endpoint.
type Mailer struct {
	cfg config.SMTP
	log *slog.Logger

	// now is swappable for deterministic tests.
	now func() time.Time
}

// New returns a Mailer for the given submission endpoint.
func New(cfg config.SMTP, log *slog.Logger) *Mailer {
	return &Mailer{cfg: cfg, log: log, now: time.Now}
}

// SendReport mails the PDF at attachmentPath to recipient. An empty
// message selects the default body; either way the body ends with a
// details footer naming the generation time, the attachment file name,
// and its size in KB.
func (m *Mailer) SendReport(ctx context.Context, recipient, subject, message, attachmentPath string) error {
	info, err := os.Stat(attachmentPath)
	if err != nil {
		return fmt.Errorf("mail: reading attachment %s: %w", attachmentPath, err)
	}

	msg := gomail.NewMsg()
	if err := msg.From(m.cfg.Sender()); err != nil {
		return fmt.Errorf("mail: sender address: %w", err)
	}
	if err := msg.To(recipient); err != nil {
		return fmt.Errorf("mail: recipient address: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextPlain, body(message, filepath.Base(attachmentPath), info.Size(), m.now()))
	msg.AttachFile(attachmentPath)

	client, err := gomail.NewClient(m.cfg.Host,
		gomail.WithPort(m.cfg.Port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(m.cfg.User),
		gomail.WithPassword(m.cfg.Password),
		gomail.WithTLSPolicy(gomail.TLSMandatory),
	)
	if err != nil {
		return fmt.Errorf("mail: client for %s:%d: %w", m.cfg.Host, m.cfg.Port, err)
	}

	m.log.Debug("submitting report", "to", recipient, "host", m.cfg.Host, "size_kb", float64(info.Size())/1024)
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("mail: sending to %s via %s:%d: %w", recipient, m.cfg.Host, m.cfg.Port, err)
	}

	m.log.Info("report emailed", "to", recipient)
	return nil
}

// body assembles the message text: the caller's message (or the default)
// plus the report-details footer.
func body(message, filename string, size int64, at time.Time) string {
	if message == "" {
		message = defaultBody
	}
	return fmt.Sprintf(`%s

Report Details:
- Generated: %s
- File: %s
- Size: %.1f KB

Best regards,
Job Performance Analyzer System
`, message, at.Format("2006-01-02 15:04:05"), filename, float64(size)/1024)
}
