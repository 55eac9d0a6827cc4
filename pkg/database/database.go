// Package database opens the SQL stores that finished runs are exported to.
// Postgres goes through lib/pq and local files through go-sqlite3.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/Adithya-Monish-Kumar-K/chunk-tfidf/pkg/config"
	apperrors "github.com/Adithya-Monish-Kumar-K/chunk-tfidf/pkg/errors"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite3"
)

type Client struct {
	DB     *sql.DB
	driver string
}

// New opens the store named by cfg.SQL. A postgres store without an explicit
// DSN is built from cfg.Postgres.
func New(ctx context.Context, cfg config.ExportConfig) (*Client, error) {
	dsn := cfg.SQL.DSN
	if cfg.SQL.Driver == DriverPostgres && dsn == "" {
		dsn = cfg.Postgres.DSN()
	}
	c, err := Open(ctx, cfg.SQL.Driver, dsn)
	if err != nil {
		return nil, err
	}
	if cfg.SQL.Driver == DriverPostgres {
		c.DB.SetMaxOpenConns(cfg.Postgres.MaxOpenConns)
		c.DB.SetMaxIdleConns(cfg.Postgres.MaxIdleConns)
		c.DB.SetConnMaxLifetime(cfg.Postgres.ConnMaxLifetime)
	}
	return c, nil
}

// Open connects with the given driver and pings the store.
func Open(ctx context.Context, driver, dsn string) (*Client, error) {
	switch driver {
	case DriverPostgres, DriverSQLite:
	default:
		return nil, apperrors.Newf(apperrors.ErrInvalidInput, apperrors.ExitFailure, "unsupported sql driver %q", driver)
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening %s connection: %w", driver, err)
	}
	if driver == DriverSQLite {
		// one writer keeps sqlite from returning SQLITE_BUSY inside InTx
		db.SetMaxOpenConns(1)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging %s: %w", driver, err)
	}
	return &Client{DB: db, driver: driver}, nil
}

func (c *Client) Driver() string {
	return c.driver
}

// Rebind rewrites ? placeholders into $n for postgres.
func (c *Client) Rebind(query string) string {
	if c.driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (c *Client) Close() error {
	return c.DB.Close()
}

func (c *Client) InTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := c.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rolling back transaction after error %v: %w", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}
