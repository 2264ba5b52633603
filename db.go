package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// OpenDB opens a pooled MySQL handle. Connections are made lazily, so an
// unreachable server is only reported by a later ping or query.
func OpenDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open DB: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)
	return db, nil
}

// InitDB makes sure the application schema exists on the server and returns a
// pool bound to it. Connectivity problems are logged, not returned: the pool
// keeps retrying on later queries, and requests fail with 500 until it can.
func InitDB(ctx context.Context, cfg Config) (*sql.DB, error) {
	server, err := OpenDB(cfg.ServerDSN())
	if err != nil {
		return nil, err
	}
	if err := server.PingContext(ctx); err != nil {
		logger.Error().Err(err).Str("addr", cfg.DBHost+":"+cfg.DBPort).Msg("Error connecting to MySQL server")
	} else if err := EnsureDatabase(ctx, server, cfg.DBName); err != nil {
		logger.Error().Err(err).Msg("Error creating database")
	}
	server.Close()

	db, err := OpenDB(cfg.DSN())
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		logger.Error().Err(err).Str("database", cfg.DBName).Msg("Error using database")
		return db, nil
	}

	logger.Info().Str("database", cfg.DBName).Msg("Connected to database")
	return db, nil
}
