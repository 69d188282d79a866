// Package config holds the runtime options for a report run: recipient,
// scheduler database connection, analysis window, mail submission settings,
// and output behaviour. Values come from defaults, an optional YAML file,
// and command-line flags, in that order of precedence (flags win).
package config

import (
	"time"
)

// dateLayout is the wire format for the analysis window bounds.
const dateLayout = "2006-01-02"

// Config is the full option set for one report run.
type Config struct {
	// Recipient is the address the finished report is mailed to.
	Recipient string `yaml:"recipient" validate:"required,email"`

	// Subject and Message override the outbound mail headers and body.
	// An empty Message selects the built-in body.
	Subject string `yaml:"subject"`
	Message string `yaml:"message"`

	// StartDate and EndDate bound the analysis period (inclusive),
	// formatted as YYYY-MM-DD. StartDate must precede EndDate.
	StartDate string `yaml:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string `yaml:"end_date" validate:"required,datetime=2006-01-02"`

	// SavePDF, when non-empty, persists the rendered report at this path
	// in addition to mailing it.
	SavePDF string `yaml:"save_pdf"`

	// HistoryDB is the path of the local run-audit database.
	HistoryDB string `yaml:"history_db"`

	// Verbose enables debug-level logging.
	Verbose bool `yaml:"verbose"`

	Database Database `yaml:"database"`
	SMTP     SMTP     `yaml:"smtp"`
}

// Database describes the upstream scheduler's MySQL instance.
type Database struct {
	Host     string `yaml:"host" validate:"required"`
	Port     int    `yaml:"port" validate:"min=1,max=65535"`
	User     string `yaml:"user" validate:"required"`
	Password string `yaml:"password"`
	Name     string `yaml:"name" validate:"required"`
}

// SMTP describes the outbound mail-submission endpoint. The session is
// always STARTTLS with username/password authentication.
type SMTP struct {
	Host     string `yaml:"host" validate:"required"`
	Port     int    `yaml:"port" validate:"min=1,max=65535"`
	User     string `yaml:"user" validate:"required"`
	Password string `yaml:"password" validate:"required"`

	// From is the envelope sender. Defaults to User when empty.
	From string `yaml:"from" validate:"omitempty,email"`
}

// Default returns the baseline configuration: local scheduler database,
// Gmail submission port, and a trailing one-month analysis window ending
// today.
func Default() *Config {
	now := time.Now()
	return &Config{
		Subject:   "Job Performance Analysis Report",
		StartDate: now.AddDate(0, -1, 0).Format(dateLayout),
		EndDate:   now.Format(dateLayout),
		Database: Database{
			Host: "localhost",
			Port: 3306,
			User: "root",
			Name: "scheduler_test",
		},
		SMTP: SMTP{
			Host: "smtp.gmail.com",
			Port: 587,
		},
	}
}

// Period returns the parsed analysis window bounds. Call Validate first;
// Period assumes well-formed date strings and reports any residual parse
// failure as an error.
func (c *Config) Period() (start, end time.Time, err error) {
	start, err = time.Parse(dateLayout, c.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err = time.Parse(dateLayout, c.EndDate)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

// Sender returns the effective envelope sender address.
func (s SMTP) Sender() string {
	if s.From != "" {
		return s.From
	}
	return s.User
}
