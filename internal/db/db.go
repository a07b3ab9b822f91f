// internal/db/db.go
package db

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/lib/pq"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Open connects to Postgres through lib/pq and verifies the connection.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, eris.New("db: empty connection string")
	}

	conn, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "db: open")
	}
	conn.SetMaxOpenConns(10)
	conn.SetMaxIdleConns(2)
	conn.SetConnMaxLifetime(30 * time.Minute)

	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, eris.Wrap(err, "db: ping")
	}

	zap.L().Info("connected to database")
	return conn, nil
}

// Migrate creates the lead store schema if it does not exist yet.
func Migrate(ctx context.Context, conn *sql.DB) error {
	if _, err := conn.ExecContext(ctx, Schema); err != nil {
		return eris.Wrap(err, "db: migrate")
	}
	return nil
}
