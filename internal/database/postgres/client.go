// Copyright (c) 2025 GunplaHub
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	platformconfig "github.com/gunplahub/api/internal/platform/config"
)

// Client wraps sqlx.DB and provides connection pooling, health checks, and transaction management
type Client struct {
	db *sqlx.DB
}

// NewClient creates a new PostgreSQL client wrapper
func NewClient(ctx context.Context, cfg *platformconfig.PostgreSQLConfig) (*Client, error) {
	connStr := buildConnectionString(cfg)

	db, err := sqlx.ConnectContext(ctx, "postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping PostgreSQL: %w", err)
	}

	return &Client{db: db}, nil
}

// buildConnectionString builds PostgreSQL connection string from config
func buildConnectionString(cfg *platformconfig.PostgreSQLConfig) string {
	var parts []string

	parts = append(parts, fmt.Sprintf("host=%s", cfg.Host))
	parts = append(parts, fmt.Sprintf("port=%d", cfg.Port))
	parts = append(parts, fmt.Sprintf("dbname=%s", cfg.Database))

	if cfg.Username != "" {
		parts = append(parts, fmt.Sprintf("user=%s", cfg.Username))
	}
	if cfg.Password != "" {
		parts = append(parts, fmt.Sprintf("password=%s", cfg.Password))
	}

	parts = append(parts, fmt.Sprintf("sslmode=%s", cfg.SSLMode))

	if cfg.ConnectTimeout > 0 {
		parts = append(parts, fmt.Sprintf("connect_timeout=%d", cfg.ConnectTimeout))
	}

	return strings.Join(parts, " ")
}

// DB returns the underlying *sqlx.DB connection
func (c *Client) DB() *sqlx.DB {
	return c.db
}

// Ping tests the database connection
func (c *Client) Ping(ctx context.Context) error {
	return c.db.PingContext(ctx)
}

// BeginTxx starts a new transaction with the given context
func (c *Client) BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error) {
	return c.db.BeginTxx(ctx, opts)
}

// Close closes the database connection
func (c *Client) Close() error {
	return c.db.Close()
}

// HealthCheck performs a health check on the database connection
func (c *Client) HealthCheck(ctx context.Context) error {
	return c.Ping(ctx)
}
