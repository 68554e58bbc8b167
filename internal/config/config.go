package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/joho/godotenv"
)

// Config aggregates all runtime settings required by the application.
type Config struct {
	AppName     string
	Environment string
	HTTP        HTTPConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	Bot         BotConfig
	Link        LinkConfig
	Presence    PresenceConfig
	Context     ContextConfig
	Logger      LoggerConfig
	Migrations  MigrationsConfig
}

type HTTPConfig struct {
	Host         string
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	WebDir       string
}

type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	MaxConnLifetime time.Duration
}

type RedisConfig struct {
	URL      string
	Password string
	DB       int
}

type BotConfig struct {
	Token     string
	WebAppURL string
	StatePath string
}

type LinkConfig struct {
	Secret string
	Issuer string
	TTL    time.Duration
}

type PresenceConfig struct {
	TTL time.Duration
}

type ContextConfig struct {
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

type LoggerConfig struct {
	Level    string
	Encoding string
}

type MigrationsConfig struct {
	Enabled bool
	Path    string
}

// Load reads configuration from environment variables (optionally .env) and
// applies defaults for everything that is not required. Required variables are
// checked by Validate, not here.
func Load() (*Config, error) {
	_ = godotenv.Load(".env")

	cfg := &Config{
		AppName:     getString("APP_NAME", "todo-bot"),
		Environment: getString("APP_ENV", "development"),
		HTTP: HTTPConfig{
			Host:         getString("SERVER_HOST", "0.0.0.0"),
			Port:         getString("SERVER_PORT", "3000"),
			ReadTimeout:  getDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout: getDuration("SERVER_WRITE_TIMEOUT", 10*time.Second),
			IdleTimeout:  getDuration("SERVER_IDLE_TIMEOUT", 120*time.Second),
			WebDir:       getString("WEB_DIR", "./web"),
		},
		Database: DatabaseConfig{
			URL:             os.Getenv("DATABASE_URL"),
			MaxOpenConns:    getInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getInt("DB_MAX_IDLE_CONNS", 10),
			MaxConnLifetime: getDuration("DB_CONN_LIFETIME", time.Hour),
		},
		Redis: RedisConfig{
			URL:      getString("REDIS_URL", "redis://localhost:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       getInt("REDIS_DB", 0),
		},
		Bot: BotConfig{
			Token:     os.Getenv("TELEGRAM_BOT_TOKEN"),
			WebAppURL: os.Getenv("WEBAPP_URL"),
			StatePath: getString("BOT_STATE_PATH", "./data/botstate.db"),
		},
		Link: LinkConfig{
			Secret: os.Getenv("LINK_SECRET"),
			Issuer: getString("LINK_ISSUER", "todo-bot"),
			TTL:    getDuration("LINK_TTL", 24*time.Hour),
		},
		Presence: PresenceConfig{
			TTL: getDuration("PRESENCE_TTL", 24*time.Hour),
		},
		Context: ContextConfig{
			RequestTimeout:  getDuration("REQUEST_TIMEOUT_SECONDS", 5*time.Second),
			ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT_SECONDS", 15*time.Second),
		},
		Logger: LoggerConfig{
			Level:    getString("LOG_LEVEL", "info"),
			Encoding: getString("LOG_ENCODING", "json"),
		},
		Migrations: MigrationsConfig{
			Enabled: getBool("RUN_MIGRATIONS", true),
			Path:    getString("MIGRATIONS_PATH", "./assets/migrations"),
		},
	}

	if cfg.Bot.WebAppURL == "" {
		cfg.Bot.WebAppURL = fmt.Sprintf("http://localhost:%s", cfg.HTTP.Port)
	}
	// launch tokens fall back to the bot token as signing key
	if cfg.Link.Secret == "" {
		cfg.Link.Secret = cfg.Bot.Token
	}

	return cfg, nil
}

// Validate reports every missing required variable at once. A failed
// validation is a fatal startup condition: the process must exit rather than
// run degraded.
func (c *Config) Validate() error {
	var result *multierror.Error
	if c.Bot.Token == "" {
		result = multierror.Append(result, errors.New("TELEGRAM_BOT_TOKEN is required"))
	}
	if c.Database.URL == "" {
		result = multierror.Append(result, errors.New("DATABASE_URL is required"))
	}
	return result.ErrorOrNil()
}

func getString(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
		if seconds, err := strconv.Atoi(val); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return fallback
}

// Address returns the HTTP listen address for the fasthttp server.
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%s", c.HTTP.Host, c.HTTP.Port)
}
