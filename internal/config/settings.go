package config

import "time"

type (
	// Config is the full service configuration, read from the environment.
	Config struct {
		App      App      `json:"app"`
		HTTP     HTTP     `json:"http"`
		Logging  Logging  `json:"logging"`
		Query    Query    `json:"query"`
		Postgres Postgres `json:"postgres"`
		Router   Router   `json:"router"`

		UserCenter     Database `envconfig:"USER_CENTER" json:"user_center"`
		AssetCenter    Database `envconfig:"ASSET_CENTER" json:"asset_center"`
		AssetAnalytics Database `envconfig:"ASSET_ANALYTICS" json:"asset_analytics"`
	}

	App struct {
		Name string `envconfig:"APP_NAME" default:"crudcenter" json:"name"`
		Env  string `envconfig:"APP_ENV" default:"development" json:"env"`
	}

	HTTP struct {
		Port            string        `envconfig:"APP_PORT" default:"8080" json:"port"`
		ReadTimeout     time.Duration `envconfig:"HTTP_READ_TIMEOUT" default:"15s" json:"read_timeout"`
		WriteTimeout    time.Duration `envconfig:"HTTP_WRITE_TIMEOUT" default:"30s" json:"write_timeout"`
		IdleTimeout     time.Duration `envconfig:"HTTP_IDLE_TIMEOUT" default:"60s" json:"idle_timeout"`
		ShutdownTimeout time.Duration `envconfig:"HTTP_SHUTDOWN_TIMEOUT" default:"30s" json:"shutdown_timeout"`
		Gzip            bool          `envconfig:"HTTP_GZIP" default:"true" json:"gzip"`
	}

	Logging struct {
		Level string `envconfig:"LOG_LEVEL" default:"info" json:"level"`
	}

	// Query holds list defaults shared by every resource.
	Query struct {
		DefaultSize int `envconfig:"QUERY_DEFAULT_SIZE" default:"10" json:"default_size"`
		// MaxLimit applies to resources that declare no cap of their own.
		MaxLimit int `envconfig:"QUERY_MAX_LIMIT" default:"1000" json:"max_limit"`
		// Strict rejects unknown order tokens and selected fields instead of dropping them.
		Strict bool `envconfig:"QUERY_STRICT" default:"false" json:"strict"`
	}

	Postgres struct {
		MaxConns         int32         `envconfig:"PG_MAX_CONNS" default:"25" json:"max_conns"`
		MinConns         int32         `envconfig:"PG_MIN_CONNS" default:"2" json:"min_conns"`
		StatementTimeout time.Duration `envconfig:"PG_STATEMENT_TIMEOUT" default:"30s" json:"statement_timeout"`
	}

	Router struct {
		ConnectTimeout    time.Duration `envconfig:"DB_CONNECT_TIMEOUT" default:"10s" json:"connect_timeout"`
		IdleTimeout       time.Duration `envconfig:"DB_IDLE_TIMEOUT" default:"30m" json:"idle_timeout"`
		HealthCheckPeriod time.Duration `envconfig:"DB_HEALTH_CHECK_PERIOD" default:"1m" json:"health_check_period"`
		Prewarm           bool          `envconfig:"DB_PREWARM" default:"false" json:"prewarm"`
	}

	// Database reads <NAME>_DRIVER and <NAME>_DSN.
	Database struct {
		Driver string `json:"driver"`
		DSN    string `json:"-"`
	}
)
