package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment variable overrides
const EnvPrefix = "ROUTEDELIVERY"

// Config holds the service configuration
type Config struct {
	Server        ServerConfig        `mapstructure:"server"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Redis         RedisConfig         `mapstructure:"redis"`
	Session       SessionConfig       `mapstructure:"session"`
	MessageBus    MessageBusConfig    `mapstructure:"messagebus"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
	NewRelic      NewRelicConfig      `mapstructure:"newrelic"`
	Worker        WorkerConfig        `mapstructure:"worker"`
	Logging       LoggingConfig       `mapstructure:"logging"`
	Timezone      string              `mapstructure:"timezone"`
}

// ServerConfig holds the HTTP server configuration
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"` // debug, release, test
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	CorsWhiteList   []string      `mapstructure:"cors_origins"`
}

// DatabaseConfig holds the database configuration
type DatabaseConfig struct {
	Host     string        `mapstructure:"host"`
	Port     int           `mapstructure:"port"`
	User     string        `mapstructure:"user"`
	Password string        `mapstructure:"password"`
	Name     string        `mapstructure:"name"`
	SSLMode  string        `mapstructure:"sslmode"`
	MaxConn  int           `mapstructure:"max_open_conns"`
	MaxIdle  int           `mapstructure:"max_idle_conns"`
	MaxLife  time.Duration `mapstructure:"conn_max_lifetime"`
	Debug    bool          `mapstructure:"debug"`
}

// DSN returns the postgres connection string
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

// RedisConfig holds the Redis configuration
type RedisConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	Host          string        `mapstructure:"host"`
	Port          int           `mapstructure:"port"`
	Password      string        `mapstructure:"password"`
	DB            int           `mapstructure:"db"`
	StatisticsTTL time.Duration `mapstructure:"statistics_ttl"`
}

// SessionConfig holds the login session configuration
type SessionConfig struct {
	CookieName string        `mapstructure:"cookie_name"`
	TTL        time.Duration `mapstructure:"ttl"`
	Secure     bool          `mapstructure:"secure"`
}

// MessageBusConfig holds the Azure Service Bus configuration
type MessageBusConfig struct {
	ConnectionString string `mapstructure:"connection_string"`
	Prefix           string `mapstructure:"prefix"`
	WMSQueue         string `mapstructure:"wms_queue"`
	MaxRetries       int    `mapstructure:"max_retries"`
}

// ElasticsearchConfig holds the Elasticsearch configuration
type ElasticsearchConfig struct {
	Enabled     bool     `mapstructure:"enabled"`
	URLs        []string `mapstructure:"urls"`
	Username    string   `mapstructure:"username"`
	Password    string   `mapstructure:"password"`
	IndexPrefix string   `mapstructure:"index_prefix"`
}

// NewRelicConfig holds the New Relic configuration
type NewRelicConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	AppName    string `mapstructure:"app_name"`
	LicenseKey string `mapstructure:"license_key"`
}

// WorkerConfig holds the background worker configuration
type WorkerConfig struct {
	RepublishInterval time.Duration `mapstructure:"republish_interval"`
	MetricsPort       int           `mapstructure:"metrics_port"`
}

// LoggingConfig holds the logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json, text
}

// JSON reports whether logs should be written as JSON
func (c LoggingConfig) JSON() bool {
	return strings.EqualFold(c.Format, "json")
}

// Location returns the timezone used for day windows
func (c *Config) Location() *time.Location {
	if c.Timezone == "" || strings.EqualFold(c.Timezone, "local") {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// Load reads configuration from an optional file, a .env file and environment variables.
// An empty path searches ./config.yaml and ./config/config.yaml.
func Load(path string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default values for configuration
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 5000)
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("server.cors_origins", []string{})

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.name", "routedelivery")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "1h")
	v.SetDefault("database.debug", false)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.statistics_ttl", "30s")

	v.SetDefault("session.cookie_name", "sid")
	v.SetDefault("session.ttl", "12h")
	v.SetDefault("session.secure", false)

	v.SetDefault("messagebus.connection_string", "")
	v.SetDefault("messagebus.prefix", "")
	v.SetDefault("messagebus.wms_queue", "wms-closeout")
	v.SetDefault("messagebus.max_retries", 3)

	v.SetDefault("elasticsearch.enabled", false)
	v.SetDefault("elasticsearch.urls", []string{"http://localhost:9200"})
	v.SetDefault("elasticsearch.username", "")
	v.SetDefault("elasticsearch.password", "")
	v.SetDefault("elasticsearch.index_prefix", "routedelivery")

	v.SetDefault("newrelic.enabled", false)
	v.SetDefault("newrelic.app_name", "Route Delivery Service")
	v.SetDefault("newrelic.license_key", "")

	v.SetDefault("worker.republish_interval", "5m")
	v.SetDefault("worker.metrics_port", 9102)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("timezone", "Local")
}
