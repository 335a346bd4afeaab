package config

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"
)

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"     validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database"   validate:"required"`
	Cache     CacheConfig     `mapstructure:"cache"      validate:"required"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// Addr returns the host:port the HTTP server listens on.
func (c ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// DatabaseConfig contains the PostgreSQL settings. When Enabled is false the
// in-memory task store is used and the remaining fields are ignored.
type DatabaseConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	Host           string        `mapstructure:"host"            validate:"required_if=Enabled true"`
	Port           int           `mapstructure:"port"            validate:"gt=0,lt=65536"`
	User           string        `mapstructure:"user"            validate:"required_if=Enabled true"`
	Password       string        `mapstructure:"password"`
	Name           string        `mapstructure:"name"            validate:"required_if=Enabled true"`
	SSLMode        string        `mapstructure:"sslmode"         validate:"oneof=disable allow prefer require verify-ca verify-full"`
	MaxOpenConns   int           `mapstructure:"max_open_conns"  validate:"gt=0"`
	MaxIdleConns   int           `mapstructure:"max_idle_conns"  validate:"gte=0"`
	IdleTimeout    time.Duration `mapstructure:"idle_timeout"    validate:"gte=0"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout" validate:"gt=0"`
	AutoMigrate    bool          `mapstructure:"auto_migrate"`
}

// URL builds a postgres:// connection string from the individual settings.
func (c DatabaseConfig) URL() string {
	query := url.Values{}
	query.Set("sslmode", c.SSLMode)
	if seconds := int(c.ConnectTimeout.Seconds()); seconds > 0 {
		query.Set("connect_timeout", strconv.Itoa(seconds))
	}

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
		Path:     "/" + c.Name,
		RawQuery: query.Encode(),
	}
	return u.String()
}

// CacheConfig contains the Redis connection settings. URL, when set, takes
// precedence over Host, Port, Password and DB.
type CacheConfig struct {
	URL            string        `mapstructure:"url"`
	Host           string        `mapstructure:"host"            validate:"required_without=URL"`
	Port           int           `mapstructure:"port"            validate:"gt=0,lt=65536"`
	Password       string        `mapstructure:"password"`
	DB             int           `mapstructure:"db"              validate:"gte=0"`
	IdempotencyTTL time.Duration `mapstructure:"idempotency_ttl" validate:"gt=0"`
}

// Addr returns the host:port of the Redis server.
func (c CacheConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// RateLimitConfig configures the process-wide token bucket. Rate is the
// bucket capacity and Interval the time it takes to refill it completely.
// Non-positive values are replaced by the limiter's own fallbacks.
type RateLimitConfig struct {
	Rate     int           `mapstructure:"rate"`
	Interval time.Duration `mapstructure:"interval"`
}
