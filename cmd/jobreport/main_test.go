package main

import (
	"testing"

	"github.com/mtawah/jobreport/internal/config"
)

func TestBuildConfig_FlagsOverrideDefaults(t *testing.T) {
	cmd := runCmd()
	err := cmd.ParseFlags([]string{
		"--email", "admin@company.com",
		"--port", "3307",
		"--start-date", "2025-05-01",
		"--end-date", "2025-05-31",
		"--smtp-user", "reports@example.com",
		"--smtp-password", "secret",
	})
	if err != nil {
		t.Fatalf("ParseFlags: %v", err)
	}

	cfg, err := buildConfig(cmd, config.Default())
	if err != nil {
		t.Fatalf("buildConfig: %v", err)
	}

	if cfg.Recipient != "admin@company.com" {
		t.Errorf("Recipient = %q", cfg.Recipient)
	}
	if cfg.Database.Port != 3307 {
		t.Errorf("Database.Port = %d, want 3307", cfg.Database.Port)
	}
	if cfg.StartDate != "2025-05-01" || cfg.EndDate != "2025-05-31" {
		t.Errorf("window = %s..%s", cfg.StartDate, cfg.EndDate)
	}

	// Untouched flags keep compiled defaults.
	if cfg.Database.Host != "localhost" {
		t.Errorf("Database.Host = %q, want localhost", cfg.Database.Host)
	}
	if cfg.SMTP.Host != "smtp.gmail.com" {
		t.Errorf("SMTP.Host = %q", cfg.SMTP.Host)
	}

	if err := config.Validate(cfg); err != nil {
		t.Errorf("flag-built config invalid: %v", err)
	}
}

func TestBuildConfig_ValidationRejectsBadEmail(t *testing.T) {
	cmd := runCmd()
	if err := cmd.ParseFlags([]string{"--email", "not-an-address"}); err != nil {
		t.Fatalf("ParseFlags: %v", err)
	}
	cfg, err := buildConfig(cmd, config.Default())
	if err != nil {
		t.Fatalf("buildConfig: %v", err)
	}
	if err := config.Validate(cfg); err == nil {
		t.Fatal("expected validation error for malformed recipient")
	}
}
