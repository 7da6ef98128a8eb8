package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefix of every environment override (TURNI_DB_HOST, ...)
const EnvPrefix = "TURNI"

// Config global application configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"db"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Log      LogConfig      `mapstructure:"log"`
	Roster   RosterConfig   `mapstructure:"roster"`
	Shifts   ShiftsConfig   `mapstructure:"shifts"`
	Site     SiteConfig     `mapstructure:"site"`
}

// ServerConfig HTTP server
type ServerConfig struct {
	Port            int           `mapstructure:"port" validate:"min=1,max=65535"`
	BaseURL         string        `mapstructure:"base_url"`
	CORS            CORSConfig    `mapstructure:"cors"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	BodyLimit       int64         `mapstructure:"body_limit" validate:"gte=0"`
}

// CORSConfig allowed browser origins
type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// DatabaseConfig PostgreSQL
type DatabaseConfig struct {
	Host            string `mapstructure:"host" validate:"required"`
	Port            int    `mapstructure:"port" validate:"min=1,max=65535"`
	Name            string `mapstructure:"name" validate:"required"`
	User            string `mapstructure:"user" validate:"required"`
	Password        string `mapstructure:"password"`
	SSLMode         string `mapstructure:"sslmode" validate:"oneof=disable allow prefer require verify-ca verify-full"`
	Timezone        string `mapstructure:"timezone"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`  // minutes
	ConnMaxIdleTime int    `mapstructure:"conn_max_idle_time"` // minutes
	LogQueries      bool   `mapstructure:"log_queries"`
}

// DSN PostgreSQL connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode, c.Timezone,
	)
}

// URL postgres:// form used by the migrate command
func (c *DatabaseConfig) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode)
}

// RedisConfig Redis; an empty Addr disables every Redis-backed feature
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db" validate:"gte=0"`
}

// Enabled reports whether a Redis address is configured
func (c *RedisConfig) Enabled() bool { return c.Addr != "" }

// AuthConfig sessions and the administrator password
type AuthConfig struct {
	JWTSecret     string        `mapstructure:"jwt_secret" validate:"required,min=16"`
	SessionTTL    time.Duration `mapstructure:"session_ttl" validate:"gt=0"`
	AdminPassword string        `mapstructure:"admin_password" validate:"required"`
	FormTokenTTL  time.Duration `mapstructure:"form_token_ttl" validate:"gt=0"`
	LoginAttempts int           `mapstructure:"login_attempts" validate:"gte=0"`
	LoginWindow   time.Duration `mapstructure:"login_window"`
	Cookie        CookieConfig  `mapstructure:"cookie"`
}

// CookieConfig session cookie attributes
type CookieConfig struct {
	Name     string `mapstructure:"name" validate:"required"`
	Secure   bool   `mapstructure:"secure"`
	SameSite string `mapstructure:"same_site" validate:"oneof=Lax Strict None"`
	Domain   string `mapstructure:"domain"`
}

// LogConfig logging
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format" validate:"oneof=json console"`
}

// RosterConfig remote CSV export of the volunteer spreadsheet
type RosterConfig struct {
	URL      string        `mapstructure:"url" validate:"omitempty,url"`
	SkipRows int           `mapstructure:"skip_rows" validate:"gte=0"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// ShiftsConfig shift bookkeeping
type ShiftsConfig struct {
	TaskMode string `mapstructure:"task_mode" validate:"oneof=fixed variable"`
	Timezone string `mapstructure:"timezone" validate:"required"`
}

// SiteConfig public information of the association
type SiteConfig struct {
	Title   string `mapstructure:"title"`
	Email   string `mapstructure:"email" validate:"omitempty,email"`
	Website string `mapstructure:"website" validate:"omitempty,url"`
}

// Load reads configuration.
// Priority: environment > config file > .env > defaults.
func Load(path string) (*Config, error) {
	// .env only fills variables that are not already set
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("lettura .env fallita: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	// ── config file ──
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	// ── environment ──
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("lettura file di configurazione fallita: %w", err)
		}
		// no file: defaults and environment only
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decodifica configurazione fallita: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.base_url", "http://localhost:8080")
	v.SetDefault("server.cors.allow_origins", []string{"http://localhost:5173"})
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("server.body_limit", 1<<20)

	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.name", "turni")
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.password", "")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.timezone", "Europe/Rome")
	v.SetDefault("db.max_open_conns", 25)
	v.SetDefault("db.max_idle_conns", 10)
	v.SetDefault("db.conn_max_lifetime", 60)
	v.SetDefault("db.conn_max_idle_time", 30)
	v.SetDefault("db.log_queries", false)

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.admin_password", "")
	v.SetDefault("auth.session_ttl", "12h")
	v.SetDefault("auth.form_token_ttl", "2h")
	v.SetDefault("auth.login_attempts", 10)
	v.SetDefault("auth.login_window", "1m")
	v.SetDefault("auth.cookie.name", "turni_session")
	v.SetDefault("auth.cookie.secure", false)
	v.SetDefault("auth.cookie.same_site", "Lax")
	v.SetDefault("auth.cookie.domain", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("roster.url", "")
	v.SetDefault("roster.skip_rows", 2)
	v.SetDefault("roster.timeout", "30s")

	v.SetDefault("shifts.task_mode", "fixed")
	v.SetDefault("shifts.timezone", "Europe/Rome")

	v.SetDefault("site.title", "Turni volontari")
	v.SetDefault("site.email", "")
	v.SetDefault("site.website", "")
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the configuration struct tags and the timezone
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("configurazione non valida: %s (%s=%s)", fe.Namespace(), fe.Tag(), fe.Param())
		}
		return fmt.Errorf("configurazione non valida: %w", err)
	}
	if _, err := time.LoadLocation(c.Shifts.Timezone); err != nil {
		return fmt.Errorf("configurazione non valida: shifts.timezone %q: %w", c.Shifts.Timezone, err)
	}
	return nil
}
