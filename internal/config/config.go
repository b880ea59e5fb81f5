// Package config loads service configuration from the environment, optionally
// seeded from .env files.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"crudcenter/internal/domain/paging"
	"crudcenter/internal/domain/resource"
	"crudcenter/internal/infrastructure/storage/dbrouter"
	"crudcenter/internal/infrastructure/storage/postgres"
)

// Load reads env files that exist (already set variables win) and then
// processes the environment.
func Load(envFiles ...string) (*Config, error) {
	for _, f := range envFiles {
		if _, err := os.Stat(f); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}

	cfg := &Config{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("unable to parse service configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	switch {
	case c.Query.DefaultSize < 1:
		return fmt.Errorf("QUERY_DEFAULT_SIZE must be positive, got %d", c.Query.DefaultSize)
	case c.Query.MaxLimit < 0:
		return fmt.Errorf("QUERY_MAX_LIMIT must not be negative, got %d", c.Query.MaxLimit)
	case c.Query.MaxLimit > 0 && c.Query.DefaultSize > c.Query.MaxLimit:
		return fmt.Errorf("QUERY_DEFAULT_SIZE (%d) exceeds QUERY_MAX_LIMIT (%d)", c.Query.DefaultSize, c.Query.MaxLimit)
	}
	if len(c.Connections()) == 0 {
		return errors.New("no database configured: set USER_CENTER_DSN, ASSET_CENTER_DSN or ASSET_ANALYTICS_DSN")
	}
	return nil
}

// IsDevelopment reports whether the service runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development"
}

// OrderMode maps QUERY_STRICT to a paging mode.
func (c *Config) OrderMode() paging.Mode {
	return paging.ModeFor(c.Query.Strict)
}

// Connections lists the databases that have a DSN. The analytics store
// defaults to ClickHouse, everything else to PostgreSQL.
func (c *Config) Connections() []dbrouter.Connection {
	named := []struct {
		name   string
		db     Database
		driver string
	}{
		{resource.UserCenter, c.UserCenter, dbrouter.DriverPostgres},
		{resource.AssetCenter, c.AssetCenter, dbrouter.DriverPostgres},
		{resource.AssetAnalytics, c.AssetAnalytics, dbrouter.DriverClickHouse},
	}

	var out []dbrouter.Connection
	for _, n := range named {
		if n.db.DSN == "" {
			continue
		}
		driver := n.db.Driver
		if driver == "" {
			driver = n.driver
		}
		out = append(out, dbrouter.Connection{Name: n.name, Driver: driver, DSN: n.db.DSN})
	}
	return out
}

// PoolConfig shapes PostgreSQL pools; the DSN is filled per connection.
func (c *Config) PoolConfig() postgres.PoolConfig {
	pool := postgres.DefaultPoolConfig("")
	pool.ApplicationName = c.App.Name
	pool.MaxConns = c.Postgres.MaxConns
	pool.MinConns = c.Postgres.MinConns
	pool.StatementTimeout = c.Postgres.StatementTimeout
	pool.ConnectTimeout = c.Router.ConnectTimeout
	return pool
}

// RouterConfig returns connection lifecycle settings.
func (c *Config) RouterConfig() dbrouter.Config {
	return dbrouter.Config{
		ConnectTimeout:    c.Router.ConnectTimeout,
		IdleTimeout:       c.Router.IdleTimeout,
		HealthCheckPeriod: c.Router.HealthCheckPeriod,
	}
}
