// Package scheduler reads the upstream job scheduler's execution history
// from its MySQL staging table. It issues a single fixed query; all
// date-window filtering happens downstream in the analyzer.
package scheduler

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net"
	"strconv"

	"github.com/go-sql-driver/mysql"

	"github.com/mtawah/jobreport/internal/config"
)

// historyQuery is the one query this tool issues. Rows with a missing
// start or end time are excluded server-side; everything else is handed
// to the normalizer as-is.
const historyQuery = `
	SELECT JOB_NAME, START_TIME, END_TIME
	FROM stg_scheduler_history
	WHERE START_TIME IS NOT NULL AND END_TIME IS NOT NULL`

// HistoryRecord is one raw row from the scheduler history table. The
// timestamps stay nullable here: the server-side filter should exclude
// NULLs, but the normalizer re-checks rather than trusting the store.
type HistoryRecord struct {
	JobName   sql.NullString
	StartTime sql.NullTime
	EndTime   sql.NullTime
}

// Store is a handle on the scheduler history database.
type Store struct {
	db  *sql.DB
	log *slog.Logger
}

// Open connects to the scheduler database and verifies the connection
// with a ping. The caller must Close the returned Store.
func Open(ctx context.Context, cfg config.Database, log *slog.Logger) (*Store, error) {
	mc := mysql.NewConfig()
	mc.User = cfg.User
	mc.Passwd = cfg.Password
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	mc.DBName = cfg.Name
	mc.ParseTime = true

	db, err := sql.Open("mysql", mc.FormatDSN())
	if err != nil {
		return nil, fmt.Errorf("scheduler: open %s/%s: %w", mc.Addr, cfg.Name, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("scheduler: connect %s/%s: %w", mc.Addr, cfg.Name, err)
	}

	log.Debug("connected to scheduler database", "addr", mc.Addr, "database", cfg.Name)
	return &Store{db: db, log: log}, nil
}

// LoadHistory fetches every execution row with both timestamps present.
func (s *Store) LoadHistory(ctx context.Context) ([]HistoryRecord, error) {
	rows, err := s.db.QueryContext(ctx, historyQuery)
	if err != nil {
		return nil, fmt.Errorf("scheduler: query history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var recs []HistoryRecord
	for rows.Next() {
		var rec HistoryRecord
		if err := rows.Scan(&rec.JobName, &rec.StartTime, &rec.EndTime); err != nil {
			return nil, fmt.Errorf("scheduler: scan history row: %w", err)
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scheduler: history rows: %w", err)
	}

	s.log.Debug("loaded scheduler history", "records", len(recs))
	return recs, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
