package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/Lixing-Zhang/kart-challenge/order-service/internal/config"
)

// MemoryPath selects a private in-memory database instead of a file
const MemoryPath = ":memory:"

// Open opens the connection pool described by cfg and makes sure the schema exists.
// The caller owns the returned pool and must Close it on shutdown.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*sql.DB, error) {
	var dsn string
	if cfg.Path == MemoryPath {
		dsn = memoryDSN(uuid.NewString(), cfg.BusyTimeoutMs)
	} else {
		dsn = fileDSN(cfg.Path, cfg.BusyTimeoutMs)
	}

	db, err := sql.Open(DriverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxOpenConns)
	// Connections are never recycled: closing the last connection of a
	// shared in-memory database would drop its contents.
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := EnsureSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return db, nil
}

// OpenInMemory opens a fresh, uniquely named in-memory database with the schema applied
func OpenInMemory(ctx context.Context) (*sql.DB, error) {
	return Open(ctx, config.DatabaseConfig{
		Path:          MemoryPath,
		MaxOpenConns:  1,
		BusyTimeoutMs: 5000,
	})
}
