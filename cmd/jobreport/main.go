// Package main is the entry point for the jobreport CLI.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mtawah/jobreport/internal/config"
	"github.com/mtawah/jobreport/internal/history"
	"github.com/mtawah/jobreport/internal/mail"
	"github.com/mtawah/jobreport/internal/pipeline"
	"github.com/mtawah/jobreport/internal/report"
	"github.com/mtawah/jobreport/internal/scheduler"
)

// Set by goreleaser ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "jobreport: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "jobreport",
		Short:         "Analyze scheduler job performance and email a PDF report",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(versionCmd(), runCmd(), historyCmd())
	return root
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("jobreport %s (commit: %s, built: %s)\n", version, commit, date)
		},
	}
}

func runCmd() *cobra.Command {
	defaults := config.Default()

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Generate the report for a date range and email it",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := buildConfig(cmd, defaults)
			if err != nil {
				return err
			}
			if err := config.Validate(cfg); err != nil {
				return fmt.Errorf("%w:\n%v", pipeline.ErrConfiguration, err)
			}

			logger := newLogger(cfg.Verbose)

			store, err := scheduler.Open(cmd.Context(), cfg.Database, logger)
			if err != nil {
				return fmt.Errorf("%w: %v", pipeline.ErrDataSource, err)
			}
			defer func() { _ = store.Close() }()

			p := pipeline.New(cfg, store, report.NewRenderer(logger), mail.New(cfg.SMTP, logger), logger)
			result, err := p.Run(cmd.Context())
			if err != nil {
				return err
			}

			recordRun(cfg, result, logger)
			logger.Info("job performance analysis completed",
				"jobs", result.JobCount, "executions", result.ExecutionCount)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringP("email", "e", "", "Recipient email address (required)")
	f.String("host", defaults.Database.Host, "MySQL host")
	f.Int("port", defaults.Database.Port, "MySQL port")
	f.StringP("user", "u", defaults.Database.User, "MySQL username")
	f.StringP("password", "p", "", "MySQL password")
	f.StringP("database", "d", defaults.Database.Name, "MySQL database name")
	f.String("start-date", defaults.StartDate, "Analysis start date (YYYY-MM-DD)")
	f.String("end-date", defaults.EndDate, "Analysis end date (YYYY-MM-DD)")
	f.String("subject", defaults.Subject, "Email subject")
	f.String("message", "", "Custom email message body")
	f.String("smtp-host", defaults.SMTP.Host, "SMTP submission host")
	f.Int("smtp-port", defaults.SMTP.Port, "SMTP submission port")
	f.String("smtp-user", "", "SMTP username")
	f.String("smtp-password", "", "SMTP password")
	f.String("smtp-from", "", "Envelope sender (defaults to the SMTP username)")
	f.String("save-pdf", "", "Also save the PDF to this path")
	f.String("history-db", "", "Path of the local run-audit database")
	f.BoolP("verbose", "v", false, "Enable verbose output")
	f.StringP("config", "c", "", "Path to a YAML configuration file")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

// buildConfig layers the option sources: compiled defaults, then the
// optional YAML file, then any flag the user actually set.
func buildConfig(cmd *cobra.Command, defaults *config.Config) (*config.Config, error) {
	f := cmd.Flags()

	cfg := defaults
	if path, _ := f.GetString("config"); path != "" {
		loaded, err := config.Load(path, defaults)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", pipeline.ErrConfiguration, err)
		}
		cfg = loaded
	}

	setString := func(name string, dst *string) {
		if f.Changed(name) {
			*dst, _ = f.GetString(name)
		}
	}
	setInt := func(name string, dst *int) {
		if f.Changed(name) {
			*dst, _ = f.GetInt(name)
		}
	}

	setString("email", &cfg.Recipient)
	setString("host", &cfg.Database.Host)
	setInt("port", &cfg.Database.Port)
	setString("user", &cfg.Database.User)
	setString("password", &cfg.Database.Password)
	setString("database", &cfg.Database.Name)
	setString("start-date", &cfg.StartDate)
	setString("end-date", &cfg.EndDate)
	setString("subject", &cfg.Subject)
	setString("message", &cfg.Message)
	setString("smtp-host", &cfg.SMTP.Host)
	setInt("smtp-port", &cfg.SMTP.Port)
	setString("smtp-user", &cfg.SMTP.User)
	setString("smtp-password", &cfg.SMTP.Password)
	setString("smtp-from", &cfg.SMTP.From)
	setString("save-pdf", &cfg.SavePDF)
	setString("history-db", &cfg.HistoryDB)
	if f.Changed("verbose") {
		cfg.Verbose, _ = f.GetBool("verbose")
	}

	return cfg, nil
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// recordRun appends the finished run to the local audit store. The
// report has already been delivered, so failures here are logged and
// swallowed.
func recordRun(cfg *config.Config, result pipeline.Result, logger *slog.Logger) {
	path, err := historyPath(cfg.HistoryDB)
	if err != nil {
		logger.Debug("run history unavailable", "error", err)
		return
	}

	store, err := history.Open(path)
	if err != nil {
		logger.Debug("run history unavailable", "error", err)
		return
	}
	defer func() { _ = store.Close() }()

	run := history.Run{
		GeneratedAt:    result.GeneratedAt,
		PeriodStart:    cfg.StartDate,
		PeriodEnd:      cfg.EndDate,
		JobCount:       result.JobCount,
		ExecutionCount: result.ExecutionCount,
		Recipient:      cfg.Recipient,
		OutputPath:     result.OutputPath,
		Delivered:      result.Delivered,
	}
	if err := store.Record(context.Background(), run); err != nil {
		logger.Debug("run not recorded", "error", err)
	}
}

func historyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent report runs",
		RunE: func(cmd *cobra.Command, _ []string) error {
			pathFlag, _ := cmd.Flags().GetString("history-db")
			limit, _ := cmd.Flags().GetInt("limit")

			path, err := historyPath(pathFlag)
			if err != nil {
				return err
			}
			store, err := history.Open(path)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			runs, err := store.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Println("No recorded runs.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "GENERATED\tPERIOD\tJOBS\tEXECUTIONS\tRECIPIENT\tSAVED AT")
			for _, r := range runs {
				saved := r.OutputPath
				if saved == "" {
					saved = "-"
				}
				fmt.Fprintf(w, "%s\t%s to %s\t%d\t%d\t%s\t%s\n",
					r.GeneratedAt.Local().Format("2006-01-02 15:04"),
					r.PeriodStart, r.PeriodEnd, r.JobCount, r.ExecutionCount, r.Recipient, saved)
			}
			return w.Flush()
		},
	}
	cmd.Flags().String("history-db", "", "Path of the local run-audit database")
	cmd.Flags().IntP("limit", "n", 10, "Maximum number of runs to list")
	return cmd
}

// historyPath resolves the audit database location, defaulting to
// ~/.jobreport/history.db.
func historyPath(configured string) (string, error) {
	if configured != "" {
		return configured, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, ".jobreport", "history.db"), nil
}
