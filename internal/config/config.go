// Package config は環境変数と .env ファイルからアプリケーション設定を読み込みます。
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/multierr"
)

const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// DBConfig はデータベース接続の設定です。
type DBConfig struct {
	Driver string
	// DSN が設定されている場合は Host/Port/User/Pass/Name より優先されます。
	DSN  string
	Host string
	Port string
	User string
	Pass string
	Name string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	LogLevel        string
}

// Config はアプリケーション全体の設定です。
type Config struct {
	Env             string
	Port            string
	LogLevel        string
	AllowedOrigins  []string
	ShutdownTimeout time.Duration
	ServeClient     bool
	DB              DBConfig
}

// Load は .env (存在すれば) を読み込んだ後、環境変数から Config を組み立てます。
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("could not load env file: %w", err)
	}

	cfg := &Config{
		Env:             getEnvAsString("APP_ENV", "development"),
		Port:            getEnvAsString("PORT", "3000"),
		LogLevel:        getEnvAsString("LOG_LEVEL", "info"),
		AllowedOrigins:  getEnvAsList("CORS_ALLOWED_ORIGINS"),
		ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		ServeClient:     getEnvAsBool("SERVE_CLIENT", true),
		DB: DBConfig{
			Driver:          getEnvAsString("DB_DRIVER", DriverSQLite),
			DSN:             os.Getenv("DB_DSN"),
			Host:            getEnvAsString("DB_HOST", "127.0.0.1"),
			Port:            os.Getenv("DB_PORT"),
			User:            os.Getenv("DB_USER"),
			Pass:            os.Getenv("DB_PASS"),
			Name:            getEnvAsString("DB_NAME", "taskmanager"),
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 25),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
			LogLevel:        getEnvAsString("DB_LOG_LEVEL", "warn"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate は設定値の不備をまとめて返します。
func (c *Config) Validate() error {
	var err error
	switch c.Env {
	case "development", "production", "test":
	default:
		err = multierr.Append(err, fmt.Errorf("APP_ENV must be development, production or test, got %q", c.Env))
	}
	if c.Port == "" {
		err = multierr.Append(err, errors.New("PORT must not be empty"))
	}
	switch c.DB.Driver {
	case DriverMySQL, DriverPostgres:
		if c.DB.DSN == "" && (c.DB.User == "" || c.DB.Name == "") {
			err = multierr.Append(err, fmt.Errorf("DB_USER and DB_NAME are required for driver %s when DB_DSN is not set", c.DB.Driver))
		}
	case DriverSQLite:
	default:
		err = multierr.Append(err, fmt.Errorf("unsupported DB_DRIVER %q", c.DB.Driver))
	}
	if c.DB.MaxOpenConns < 0 || c.DB.MaxIdleConns < 0 {
		err = multierr.Append(err, errors.New("connection pool sizes must not be negative"))
	}
	if c.ShutdownTimeout <= 0 {
		err = multierr.Append(err, errors.New("SHUTDOWN_TIMEOUT must be positive"))
	}
	return err
}

// Addr は http.Server 用の listen アドレスを返します。
func (c *Config) Addr() string {
	return ":" + c.Port
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
