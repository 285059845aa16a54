// Package config carries the environment-driven configuration shared by the
// daemon, the offload worker and the maintenance commands.
package config

import (
	"errors"
	"fmt"
)

// Database engines.
const (
	EngineMySQL    = "mysql"
	EnginePostgres = "postgres"
	EngineSQLite   = "sqlite"
)

// Config is parsed from flags and environment by each command's main.
type Config struct {
	NodeEnv string `long:"node-env" env:"NODE_ENV" default:"development" description:"deployment environment"`

	UseMySQL    string `long:"use-mysql" env:"USE_MYSQL" description:"mirror into MySQL"`
	UsePostgres string `long:"use-postgres" env:"USE_POSTGRES" description:"mirror into Postgres"`

	DBHost string `long:"db-host" env:"DB_HOST" description:"database host"`
	DBPort int    `long:"db-port" env:"DB_PORT" description:"database port"`
	DBUser string `long:"db-user" env:"DB_USER" description:"database user"`
	DBPass string `long:"db-pass" env:"DB_PASS" description:"database password"`
	DBName string `long:"db-name" env:"DB_NAME" description:"database name"`

	SQLitePath string `long:"sqlite-path" env:"SQLITE_PATH" default:"blockchain.sqlite3" description:"SQLite database file"`

	NodeHost string `long:"node-host" env:"NODE_HOST" default:"localhost" description:"upstream daemon host"`
	NodePort int    `long:"node-port" env:"NODE_PORT" default:"11898" description:"upstream daemon port"`
	NodeSSL  string `long:"node-ssl" env:"NODE_SSL" description:"use https towards the upstream daemon"`

	FeeAddress string `long:"fee-address" env:"FEE_ADDRESS" description:"advertised fee address"`
	FeeAmount  uint64 `long:"fee-amount" env:"FEE_AMOUNT" description:"advertised fee amount"`

	APIAddr string `long:"api-addr" env:"API_ADDR" default:":8080" description:"mirror API listen address"`
	NatsURL string `long:"nats-url" env:"NATS_URL" default:"nats://127.0.0.1:4222" description:"offload queue URL"`
}

// Production reports whether NODE_ENV selects the production profile.
func (c Config) Production() bool {
	return c.NodeEnv == "production"
}

// NodeSSLEnabled reports whether NODE_SSL is truthy.
func (c Config) NodeSSLEnabled() bool {
	return truthy(c.NodeSSL)
}

// Engine resolves the database backend: exactly one of USE_MYSQL and
// USE_POSTGRES may be set; neither selects SQLite. MySQL and Postgres
// require the full credential set.
func (c Config) Engine() (string, error) {
	mysql := truthy(c.UseMySQL)
	postgres := truthy(c.UsePostgres)

	switch {
	case mysql && postgres:
		return "", errors.New("USE_MYSQL and USE_POSTGRES are mutually exclusive")
	case mysql:
		if err := c.requireCredentials(); err != nil {
			return "", fmt.Errorf("mysql backend: %w", err)
		}
		return EngineMySQL, nil
	case postgres:
		if err := c.requireCredentials(); err != nil {
			return "", fmt.Errorf("postgres backend: %w", err)
		}
		return EnginePostgres, nil
	default:
		return EngineSQLite, nil
	}
}

// NodeURL builds the upstream daemon base URL.
func (c Config) NodeURL() string {
	scheme := "http"
	if c.NodeSSLEnabled() {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s:%d", scheme, c.NodeHost, c.NodePort)
}

func (c Config) requireCredentials() error {
	switch {
	case c.DBHost == "":
		return errors.New("DB_HOST is required")
	case c.DBPort == 0:
		return errors.New("DB_PORT is required")
	case c.DBUser == "":
		return errors.New("DB_USER is required")
	case c.DBPass == "":
		return errors.New("DB_PASS is required")
	case c.DBName == "":
		return errors.New("DB_NAME is required")
	}
	return nil
}

func truthy(v string) bool {
	return v == "true" || v == "1"
}
