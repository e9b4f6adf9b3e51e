package config

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/jackc/pgx/v5/tracelog"

	"github.com/baechuer/job-portal/internal/logger"
)

// NewDB opens a database/sql pool over pgx and pings it.
// With debug set every query is traced to the service logger.
func NewDB(dsn string, debug bool) (*sql.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("empty DB DSN")
	}

	connCfg, err := pgx.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse DB DSN: %w", err)
	}
	if debug {
		connCfg.Tracer = &tracelog.TraceLog{
			Logger:   tracelog.LoggerFunc(logQuery),
			LogLevel: tracelog.LogLevelDebug,
		}
	}

	db := stdlib.OpenDB(*connCfg)
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(10)
	db.SetConnMaxIdleTime(5 * time.Minute)
	db.SetConnMaxLifetime(60 * time.Minute)

	// fail fast
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s/%s: %w", connCfg.Host, connCfg.Database, err)
	}

	logger.Logger.Info().
		Str("host", connCfg.Host).
		Str("db", connCfg.Database).
		Msg("db connected")

	return db, nil
}

func logQuery(ctx context.Context, level tracelog.LogLevel, msg string, data map[string]any) {
	ev := logger.WithCtx(ctx).Debug()
	if level <= tracelog.LogLevelError {
		ev = logger.WithCtx(ctx).Warn()
	}
	if q, ok := data["sql"].(string); ok {
		ev = ev.Str("sql", q)
	}
	if d, ok := data["time"].(time.Duration); ok {
		ev = ev.Dur("took", d)
	}
	if err, ok := data["err"].(error); ok {
		ev = ev.Err(err)
	}
	ev.Msg("pgx " + msg)
}
