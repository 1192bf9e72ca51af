// Package config - runtime configuration
package config

import (
	"fmt"
	"strings"

	"github.com/alwitt/keyvault/db"
	"github.com/apex/log"
	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Supported database drivers
const (
	DatabaseDriverSqlite   = "sqlite"
	DatabaseDriverPostgres = "postgres"
)

// Config vault runtime configuration, read from the environment
type Config struct {
	// LogLevel application log level
	LogLevel string `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=debug info warn error fatal"`

	// Database persistence configuration
	Database Database `envconfig:"DATABASE"`

	// Server REST API configuration
	Server Server `envconfig:"SERVER"`
}

// Database holds database specific configuration
type Database struct {
	// Driver the SQL driver
	Driver string `envconfig:"DRIVER" default:"sqlite" validate:"oneof=sqlite postgres"`
	// DSN sqlite DB file path, or Postgres connection DSN
	DSN string `envconfig:"DSN" default:"./keyvault.db" validate:"required"`
	// LogLevel GORM SQL log level
	LogLevel string `envconfig:"LOG_LEVEL" default:"error" validate:"oneof=silent error warn info"`
}

// Server holds REST API server configuration
type Server struct {
	// Listen the API listen address
	Listen string `envconfig:"LISTEN" default:":8080" validate:"required"`
}

/*
LoadConfig read and validate the configuration from the environment

	@returns the configuration
*/
func LoadConfig() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to read config from environment [%w]", err)
	}
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	cfg.Database.Driver = strings.ToLower(cfg.Database.Driver)
	cfg.Database.LogLevel = strings.ToLower(cfg.Database.LogLevel)

	if err := validator.New().Struct(&cfg); err != nil {
		return Config{}, fmt.Errorf("config is not valid [%w]", err)
	}
	return cfg, nil
}

// ApplyLogLevel set the global apex log level
func (c Config) ApplyLogLevel() error {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return fmt.Errorf("unsupported log level '%s' [%w]", c.LogLevel, err)
	}
	log.SetLevel(level)
	return nil
}

// Dialector the GORM dialector for the configured database
func (d Database) Dialector() (gorm.Dialector, error) {
	switch d.Driver {
	case DatabaseDriverSqlite:
		return db.GetSqliteDialector(d.DSN), nil
	case DatabaseDriverPostgres:
		return db.GetPostgresDialector(d.DSN), nil
	}
	return nil, fmt.Errorf("unsupported database driver '%s'", d.Driver)
}

// GORMLogLevel the GORM logger level
func (d Database) GORMLogLevel() logger.LogLevel {
	switch d.LogLevel {
	case "silent":
		return logger.Silent
	case "warn":
		return logger.Warn
	case "info":
		return logger.Info
	}
	return logger.Error
}
