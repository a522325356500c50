package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite" // SQLite driver

	"wp-dispatch/logger"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var migrationsFS embed.FS

// OpenPostgres connects with lib/pq and applies pending migrations.
func OpenPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres driver selected but no DSN configured")
	}
	conn, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	conn.SetMaxOpenConns(25)
	conn.SetMaxIdleConns(5)
	conn.SetConnMaxLifetime(5 * time.Minute)

	if err := ping(ctx, conn); err != nil {
		conn.Close()
		return nil, err
	}
	if err := migrate(conn, "postgres", "migrations/postgres"); err != nil {
		conn.Close()
		return nil, err
	}
	return conn, nil
}

// OpenSQLite opens (or creates) the database file at path with foreign keys
// enforced and applies pending migrations. ":memory:" is accepted for tests.
func OpenSQLite(ctx context.Context, path string) (*sql.DB, error) {
	if path == "" {
		path = "data/wpdispatch.db"
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
	}

	dsn := "file:" + path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// 단일 커넥션으로 제한해 :memory: DB 와 pragma 설정이 모든 쿼리에 동일하게 적용되도록 한다.
	conn.SetMaxOpenConns(1)

	if err := ping(ctx, conn); err != nil {
		conn.Close()
		return nil, err
	}
	if err := migrate(conn, "sqlite3", "migrations/sqlite"); err != nil {
		conn.Close()
		return nil, err
	}
	return conn, nil
}

func ping(ctx context.Context, conn *sql.DB) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := conn.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}
	return nil
}

func migrate(conn *sql.DB, dialect, dir string) error {
	goose.SetBaseFS(migrationsFS)
	goose.SetLogger(gooseLogger{})
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	if err := goose.Up(conn, dir); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// gooseLogger 는 goose 출력을 공통 로거로 보낸다.
type gooseLogger struct{}

func (gooseLogger) Fatalf(format string, v ...any) { logger.Log.Errorf(format, v...) }
func (gooseLogger) Printf(format string, v ...any) { logger.Log.Debugf(format, v...) }
