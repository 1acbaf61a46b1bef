// Package config loads skillissue settings from flags, SKILLISSUE_*
// environment variables, an optional .env file, and config.yaml, and
// decodes them into a typed Config.
package config

import (
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/Akram012388/skillissue-world/pkg/db"
	"github.com/Akram012388/skillissue-world/pkg/logger"
	"github.com/Akram012388/skillissue-world/pkg/telemetry"
	"github.com/Akram012388/skillissue-world/pkg/types/catalog"
)

// EnvPrefix prefixes every environment variable, e.g. SKILLISSUE_DATABASE_DSN.
const EnvPrefix = "SKILLISSUE"

// Config is the full application configuration.
type Config struct {
	LogLevel  string           `mapstructure:"log_level"`
	LogFormat string           `mapstructure:"log_format"`
	Agent     string           `mapstructure:"agent"`
	Database  DatabaseConfig   `mapstructure:"database"`
	Server    ServerConfig     `mapstructure:"server"`
	Seed      SeedConfig       `mapstructure:"seed"`
	Tracing   telemetry.Config `mapstructure:"tracing"`
}

// DatabaseConfig selects the store backend.
type DatabaseConfig struct {
	// Driver is sqlite or postgres.
	Driver string `mapstructure:"driver"`
	// DSN is a file path for SQLite or a connection URL for PostgreSQL.
	DSN string `mapstructure:"dsn"`
}

// ServerConfig holds settings for the HTTP server
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	CORSOrigins     []string      `mapstructure:"cors_origins"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// SeedConfig controls data-file ingestion.
type SeedConfig struct {
	Paths      []string      `mapstructure:"paths"`
	LockFile   string        `mapstructure:"lock_file"`
	Retries    uint          `mapstructure:"retries"`
	RetryDelay time.Duration `mapstructure:"retry_delay"`
	Debounce   time.Duration `mapstructure:"debounce"`
}

// SetDefaults registers default values on v. Every key must have a default
// so that environment overrides are visible to Load.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("agent", string(catalog.DefaultAgent))

	v.SetDefault("database.driver", db.DriverSQLite)
	v.SetDefault("database.dsn", "")

	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cors_origins", []string{})
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("seed.paths", []string{"data"})
	v.SetDefault("seed.lock_file", "")
	v.SetDefault("seed.retries", 3)
	v.SetDefault("seed.retry_delay", 100*time.Millisecond)
	v.SetDefault("seed.debounce", 500*time.Millisecond)

	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.service_name", telemetry.DefaultServiceName)
	v.SetDefault("tracing.endpoint", "")
	v.SetDefault("tracing.insecure", false)
	v.SetDefault("tracing.sampler", "ratio")
	v.SetDefault("tracing.ratio", 1.0)
}

// Init prepares v: defaults, environment binding, the .env file, and the
// config file. A missing .env or config file is not an error. When
// configFile is empty, config.yaml is searched in $HOME/.skillissue and the
// working directory.
func Init(v *viper.Viper, configFile string) error {
	if err := LoadDotEnv(".env"); err != nil {
		return err
	}

	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return errors.Wrapf(err, "failed to read config file %s", configFile)
		}
		return nil
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME/.skillissue")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return errors.Wrap(err, "failed to read config file")
		}
	}
	return nil
}

// LoadDotEnv loads KEY=VALUE pairs from path into the process environment
// without overriding variables that are already set.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return errors.Wrapf(err, "failed to load %s", path)
	}
	return nil
}

// Load decodes the settings in v into a Config and validates it.
func Load(v *viper.Viper) (Config, error) {
	var cfg Config
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
		WeaklyTypedInput: true,
		Result:           &cfg,
	})
	if err != nil {
		return cfg, errors.Wrap(err, "failed to create config decoder")
	}
	if err := decoder.Decode(v.AllSettings()); err != nil {
		return cfg, errors.Wrap(err, "failed to decode config")
	}

	if err := cfg.resolve(); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// resolve fills values that depend on the environment.
func (c *Config) resolve() error {
	if c.Database.DSN == "" && isSQLite(c.Database.Driver) {
		path, err := db.DefaultDBPath()
		if err != nil {
			return err
		}
		c.Database.DSN = path
	}
	if c.Seed.LockFile == "" && isSQLite(c.Database.Driver) {
		c.Seed.LockFile = filepath.Join(filepath.Dir(c.Database.DSN), "seed.lock")
	}
	c.Server.CORSOrigins = trimAll(c.Server.CORSOrigins)
	c.Seed.Paths = trimAll(c.Seed.Paths)
	return nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	switch strings.ToLower(c.Database.Driver) {
	case "", "sqlite", "sqlite3", "pgx", "postgres", "postgresql":
	default:
		return errors.Errorf("unsupported database driver: %s", c.Database.Driver)
	}
	if !isSQLite(c.Database.Driver) && c.Database.DSN == "" {
		return errors.New("database.dsn is required for postgres")
	}
	if c.Server.Host == "" {
		return errors.New("server.host cannot be empty")
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return errors.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Seed.Retries == 0 {
		return errors.New("seed.retries must be at least 1")
	}
	if c.Tracing.SamplerRatio < 0 || c.Tracing.SamplerRatio > 1 {
		return errors.Errorf("tracing.ratio must be between 0 and 1, got %v", c.Tracing.SamplerRatio)
	}
	return nil
}

// Logger returns the logger settings.
func (c Config) Logger() logger.Config {
	return logger.Config{Level: c.LogLevel, Format: c.LogFormat}
}

// DefaultAgent is the configured agent, or the catalog default when unknown.
func (c Config) DefaultAgent() catalog.Agent {
	return catalog.ParseAgent(c.Agent)
}

// Addr is the server listen address.
func (c ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

func isSQLite(driver string) bool {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", "sqlite", "sqlite3":
		return true
	}
	return false
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
